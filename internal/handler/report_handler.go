package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	staffUp := middleware.RequireRole(model.RoleAdmin, model.RoleStaff)

	reports := router.Group("/api/reports")
	{
		reports.GET("/billing.xlsx", staffUp, h.BillingWorkbook)
		reports.GET("/capex.xlsx", staffUp, h.CapexWorkbook)
		reports.GET("/billing/:id/pdf", staffUp, h.BillingRecordPDF)
	}
}

// BillingWorkbook handles GET /api/reports/billing.xlsx
// @Summary      Export billing records
// @Description  Downloads all billing records as an Excel workbook
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      500  {object}  response.Response
// @Router       /api/reports/billing.xlsx [get]
func (h *ReportHandler) BillingWorkbook(c *gin.Context) {
	data, err := h.reportService.BillingWorkbook(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to generate workbook"))
		return
	}

	filename := fmt.Sprintf("billing_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// CapexWorkbook handles GET /api/reports/capex.xlsx
// @Summary      Export capex entries
// @Description  Downloads all capex entries as an Excel workbook
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}    file
// @Failure      500  {object}  response.Response
// @Router       /api/reports/capex.xlsx [get]
func (h *ReportHandler) CapexWorkbook(c *gin.Context) {
	data, err := h.reportService.CapexWorkbook(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to generate workbook"))
		return
	}

	filename := fmt.Sprintf("capex_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// BillingRecordPDF handles GET /api/reports/billing/:id.pdf
// @Summary      Export billing record PDF
// @Description  Downloads a one-page expenditure summary PDF for a single billing record
// @Tags         reports
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path      string  true  "Record ID"
// @Success      200  {file}    file
// @Failure      404  {object}  response.Response
// @Router       /api/reports/billing/{id}/pdf [get]
func (h *ReportHandler) BillingRecordPDF(c *gin.Context) {
	data, err := h.reportService.BillingRecordPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to generate PDF"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="expenditure_report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
