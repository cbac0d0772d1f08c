package handler

import (
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsService service.StatsService
}

func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	staffUp := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)

	stats := router.Group("/api/stats")
	{
		stats.GET("/dashboard", staffUp, h.Dashboard)
		stats.GET("/capex/monthly", staffUp, h.MonthlyCapex)
		stats.GET("/capex/quarterly", staffUp, h.QuarterlyCapex)
		stats.GET("/capex/by-vendor", staffUp, h.CapexByVendor)
	}
}

// Dashboard handles GET /api/stats/dashboard
// @Summary      Dashboard summary
// @Description  Budget, consumed and remaining figures for capex and billing
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.DashboardStats}
// @Failure      500  {object}  response.Response
// @Router       /api/stats/dashboard [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.DashboardStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute dashboard stats"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// MonthlyCapex handles GET /api/stats/capex/monthly
// @Summary      Monthly capex roll-up
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Param        year  query     int  false  "Year (defaults to current)"
// @Success      200   {object}  response.Response{data=[]model.MonthlyPoint}
// @Failure      500   {object}  response.Response
// @Router       /api/stats/capex/monthly [get]
func (h *StatsHandler) MonthlyCapex(c *gin.Context) {
	year, _ := strconv.Atoi(c.Query("year"))

	points, err := h.statsService.MonthlyCapex(c.Request.Context(), year)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute monthly stats"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, points))
}

// QuarterlyCapex handles GET /api/stats/capex/quarterly
// @Summary      Quarterly capex roll-up
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.QuarterlyPoint}
// @Failure      500  {object}  response.Response
// @Router       /api/stats/capex/quarterly [get]
func (h *StatsHandler) QuarterlyCapex(c *gin.Context) {
	points, err := h.statsService.QuarterlyCapex(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute quarterly stats"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, points))
}

// CapexByVendor handles GET /api/stats/capex/by-vendor
// @Summary      Capex by vendor
// @Tags         stats
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]model.VendorPoint}
// @Failure      500  {object}  response.Response
// @Router       /api/stats/capex/by-vendor [get]
func (h *StatsHandler) CapexByVendor(c *gin.Context) {
	points, err := h.statsService.CapexByVendor(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to compute vendor stats"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, points))
}
