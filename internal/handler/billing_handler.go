package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	billingService service.BillingService
	trackerService service.TrackerService
}

func NewBillingHandler(billingService service.BillingService, trackerService service.TrackerService) *BillingHandler {
	return &BillingHandler{billingService: billingService, trackerService: trackerService}
}

func (h *BillingHandler) RegisterRoutes(router *gin.RouterGroup) {
	billing := router.Group("/api/billing")
	{
		billing.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleStaff, model.RoleVendor, model.RoleSecurity), h.ListRecords)
		billing.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleStaff), h.CreateRecord)
		billing.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleStaff, model.RoleVendor, model.RoleSecurity), h.GetRecord)
		billing.GET("/:id/progress", middleware.RequireRole(model.RoleAdmin, model.RoleStaff, model.RoleVendor, model.RoleSecurity), h.GetProgress)
		billing.PATCH("/:id/status", middleware.RequireRole(model.RoleAdmin, model.RoleStaff, model.RoleVendor, model.RoleSecurity), h.AdvanceStatus)
		billing.PATCH("/:id/payment-status", middleware.RequireRole(model.RoleAdmin, model.RoleStaff), h.SetPaymentStatus)
	}
}

// trackerErrorStatus maps service sentinel errors onto HTTP status codes.
func trackerErrorStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrIllegalTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// CreateRecord handles POST /api/billing
// @Summary      Create billing record
// @Description  Creates a billing record computing GST and total amount; returns advisory budget warnings
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateBillingRequest  true  "Create Billing Payload"
// @Success      201      {object}  response.Response{data=service.CreateBillingResult}
// @Failure      400      {object}  response.Response
// @Router       /api/billing [post]
func (h *BillingHandler) CreateRecord(c *gin.Context) {
	var req service.CreateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.billingService.CreateRecord(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListRecords handles GET /api/billing
// @Summary      List billing records
// @Description  Retrieves billing records filtered by payment status, tracking status and free-text search. Vendor users only see their own records.
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        payment_status  query     string  false  "Paid | Pending | PO Pending"
// @Param        invoice_status  query     string  false  "Tracking status filter"
// @Param        search          query     string  false  "Matches vendor name, invoice number, service type and remarks"
// @Param        page            query     int     false  "Page number (default 1)"
// @Param        limit           query     int     false  "Items per page (default 20)"
// @Success      200             {object}  response.Response{data=object}
// @Failure      500             {object}  response.Response
// @Router       /api/billing [get]
func (h *BillingHandler) ListRecords(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.BillingFilter{
		PaymentStatus: c.Query("payment_status"),
		InvoiceStatus: c.Query("invoice_status"),
		Search:        c.Query("search"),
		Page:          params.Page,
		Limit:         params.Limit,
	}

	// Vendor users are scoped to their own vendor's records.
	if role, _ := c.Get("userRole"); role == model.RoleVendor {
		vendorID, _ := c.Get("vendorID")
		id, ok := vendorID.(string)
		if !ok || id == "" {
			c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Vendor account is not linked to a vendor"))
			return
		}
		filter.VendorID = id
	}

	records, total, err := h.billingService.ListRecords(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch billing records"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"records": records,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// GetRecord handles GET /api/billing/:id
// @Summary      Get billing record
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record ID"
// @Success      200  {object}  response.Response{data=service.BillingResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/billing/{id} [get]
func (h *BillingHandler) GetRecord(c *gin.Context) {
	record, err := h.billingService.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// GetProgress handles GET /api/billing/:id/progress
// @Summary      Get tracking progress
// @Description  Returns the record's tracking status, its index on the ordered stage list and the stage list itself
// @Tags         billing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Record ID"
// @Success      200  {object}  response.Response{data=service.ProgressResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/billing/{id}/progress [get]
func (h *BillingHandler) GetProgress(c *gin.Context) {
	progress, err := h.trackerService.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := trackerErrorStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, progress))
}

// AdvanceStatus handles PATCH /api/billing/:id/status
// @Summary      Advance tracking status
// @Description  Moves the record to the target tracking status, appends the optional remark to its history and publishes a notification
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                  true  "Record ID"
// @Param        payload  body      service.AdvanceRequest  true  "Target status and optional remark"
// @Success      200      {object}  response.Response{data=service.BillingResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      422      {object}  response.Response
// @Router       /api/billing/{id}/status [patch]
func (h *BillingHandler) AdvanceStatus(c *gin.Context) {
	var req service.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	actor := service.Actor{}
	if role, ok := c.Get("userRole"); ok {
		actor.Role, _ = role.(string)
	}
	if name, ok := c.Get("userName"); ok {
		actor.DisplayName, _ = name.(string)
	}

	record, err := h.trackerService.Advance(c.Request.Context(), c.Param("id"), req.TargetStatus, req.Remark, actor)
	if err != nil {
		status := trackerErrorStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}

// SetPaymentStatus handles PATCH /api/billing/:id/payment-status
// @Summary      Set payment status
// @Description  Sets the record's payment status to Paid, Pending or PO Pending
// @Tags         billing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Record ID"
// @Param        payload  body      service.SetPaymentStatusRequest  true  "Payment status"
// @Success      200      {object}  response.Response{data=service.BillingResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/billing/{id}/payment-status [patch]
func (h *BillingHandler) SetPaymentStatus(c *gin.Context) {
	var req service.SetPaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	record, err := h.trackerService.SetPaymentStatus(c.Request.Context(), c.Param("id"), req.PaymentStatus)
	if err != nil {
		status := trackerErrorStatus(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, record))
}
