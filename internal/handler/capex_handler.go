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

type CapexHandler struct {
	capexService service.CapexService
}

func NewCapexHandler(capexService service.CapexService) *CapexHandler {
	return &CapexHandler{capexService: capexService}
}

func (h *CapexHandler) RegisterRoutes(router *gin.RouterGroup) {
	capex := router.Group("/api/capex")
	{
		capex.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleStaff), h.ListEntries)
		capex.POST("", middleware.RequireRole(model.RoleAdmin, model.RoleStaff), h.CreateEntry)
		capex.DELETE("/:id", middleware.RequireRole(model.RoleAdmin), h.DeleteEntry)
	}
}

// CreateEntry handles POST /api/capex
// @Summary      Create capex entry
// @Description  Records a capital expenditure against a vendor and department; returns advisory budget warnings
// @Tags         capex
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateCapexRequest  true  "Create Capex Payload"
// @Success      201      {object}  response.Response{data=service.CreateCapexResult}
// @Failure      400      {object}  response.Response
// @Router       /api/capex [post]
func (h *CapexHandler) CreateEntry(c *gin.Context) {
	var req service.CreateCapexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.capexService.CreateEntry(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListEntries handles GET /api/capex
// @Summary      List capex entries
// @Tags         capex
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Failure      500    {object}  response.Response
// @Router       /api/capex [get]
func (h *CapexHandler) ListEntries(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.capexService.ListEntries(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch capex entries"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

// DeleteEntry handles DELETE /api/capex/:id
// @Summary      Delete capex entry
// @Tags         capex
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Entry ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/capex/{id} [delete]
func (h *CapexHandler) DeleteEntry(c *gin.Context) {
	if err := h.capexService.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Capex entry deleted successfully"))
}
