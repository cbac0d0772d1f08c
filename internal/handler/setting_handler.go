package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type SettingHandler struct {
	settingService service.SettingService
}

func NewSettingHandler(settingService service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

func (h *SettingHandler) RegisterRoutes(router *gin.RouterGroup) {
	settings := router.Group("/api/settings")
	{
		settings.GET("/budgets", middleware.RequireRole(model.RoleAdmin, model.RoleStaff), h.GetBudgets)
		settings.PUT("/budgets", middleware.RequireRole(model.RoleAdmin), h.UpdateBudgets)
	}
}

// GetBudgets handles GET /api/settings/budgets
// @Summary      Get budget settings
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.BudgetsResponse}
// @Failure      500  {object}  response.Response
// @Router       /api/settings/budgets [get]
func (h *SettingHandler) GetBudgets(c *gin.Context) {
	budgets, err := h.settingService.GetBudgets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch settings"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, budgets))
}

// UpdateBudgets handles PUT /api/settings/budgets
// @Summary      Update budget settings
// @Description  Updates any subset of the four budget settings; omitted fields are left unchanged
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.UpdateBudgetsRequest  true  "Budget values"
// @Success      200      {object}  response.Response{data=service.BudgetsResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/settings/budgets [put]
func (h *SettingHandler) UpdateBudgets(c *gin.Context) {
	var req service.UpdateBudgetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	budgets, err := h.settingService.UpdateBudgets(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, budgets))
}
