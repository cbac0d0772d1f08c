package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
)

type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type DepartmentService interface {
	CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	ListDepartments(ctx context.Context) ([]DepartmentResponse, error)
	DeleteDepartment(ctx context.Context, id string) error
}

type departmentService struct {
	departmentRepo repository.DepartmentRepository
}

func NewDepartmentService(departmentRepo repository.DepartmentRepository) DepartmentService {
	return &departmentService{departmentRepo: departmentRepo}
}

func (s *departmentService) CreateDepartment(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error) {
	dept := model.Department{Name: req.Name}
	if err := s.departmentRepo.Create(ctx, &dept); err != nil {
		return DepartmentResponse{}, fmt.Errorf("failed to create department: %w", err)
	}
	return DepartmentResponse{ID: dept.ID.String(), Name: dept.Name}, nil
}

func (s *departmentService) ListDepartments(ctx context.Context) ([]DepartmentResponse, error) {
	depts, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch departments: %w", err)
	}

	result := make([]DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		result = append(result, DepartmentResponse{ID: d.ID.String(), Name: d.Name})
	}
	return result, nil
}

func (s *departmentService) DeleteDepartment(ctx context.Context, id string) error {
	deptID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid department id: %w", err)
	}
	if _, err := s.departmentRepo.FindByID(ctx, deptID); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err := s.departmentRepo.Delete(ctx, deptID); err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}
