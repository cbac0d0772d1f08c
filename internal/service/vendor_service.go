package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateVendorRequest struct {
	Name          string `json:"name" binding:"required"`
	ServiceType   string `json:"service_type"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" binding:"omitempty,email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

type UpdateVendorRequest struct {
	Name          *string `json:"name"`
	ServiceType   *string `json:"service_type"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

type VendorResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ServiceType   string `json:"service_type"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	CreatedAt     string `json:"created_at"`
}

// --- Interface ---

type VendorService interface {
	CreateVendor(ctx context.Context, req CreateVendorRequest) (VendorResponse, error)
	ListVendors(ctx context.Context) ([]VendorResponse, error)
	UpdateVendor(ctx context.Context, id string, req UpdateVendorRequest) (VendorResponse, error)
	DeleteVendor(ctx context.Context, id string) error
}

type vendorService struct {
	vendorRepo repository.VendorRepository
}

func NewVendorService(vendorRepo repository.VendorRepository) VendorService {
	return &vendorService{vendorRepo: vendorRepo}
}

// --- Implementation ---

func (s *vendorService) CreateVendor(ctx context.Context, req CreateVendorRequest) (VendorResponse, error) {
	vendor := model.Vendor{
		Name:          req.Name,
		ServiceType:   req.ServiceType,
		ContactPerson: req.ContactPerson,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
	}

	if err := s.vendorRepo.Create(ctx, &vendor); err != nil {
		return VendorResponse{}, fmt.Errorf("failed to create vendor: %w", err)
	}

	return toVendorResponse(vendor), nil
}

func (s *vendorService) ListVendors(ctx context.Context) ([]VendorResponse, error) {
	vendors, err := s.vendorRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vendors: %w", err)
	}

	result := make([]VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		result = append(result, toVendorResponse(v))
	}
	return result, nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, id string, req UpdateVendorRequest) (VendorResponse, error) {
	vendorID, err := uuid.Parse(id)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("invalid vendor id: %w", err)
	}

	vendor, err := s.vendorRepo.FindByID(ctx, vendorID)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if req.Name != nil {
		vendor.Name = *req.Name
	}
	if req.ServiceType != nil {
		vendor.ServiceType = *req.ServiceType
	}
	if req.ContactPerson != nil {
		vendor.ContactPerson = *req.ContactPerson
	}
	if req.Email != nil {
		vendor.Email = *req.Email
	}
	if req.Phone != nil {
		vendor.Phone = *req.Phone
	}
	if req.Address != nil {
		vendor.Address = *req.Address
	}

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return VendorResponse{}, fmt.Errorf("failed to update vendor: %w", err)
	}

	return toVendorResponse(*vendor), nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, id string) error {
	vendorID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid vendor id: %w", err)
	}
	if _, err := s.vendorRepo.FindByID(ctx, vendorID); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.vendorRepo.Delete(ctx, vendorID); err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}
	return nil
}

// --- Mapping ---

func toVendorResponse(v model.Vendor) VendorResponse {
	return VendorResponse{
		ID:            v.ID.String(),
		Name:          v.Name,
		ServiceType:   v.ServiceType,
		ContactPerson: v.ContactPerson,
		Email:         v.Email,
		Phone:         v.Phone,
		Address:       v.Address,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
	}
}
