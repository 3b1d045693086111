package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pojokcurhat/survey-service/internal/services"
	"github.com/pojokcurhat/survey-service/internal/utils"
)

type AnalyticsHandler struct {
	BaseHandler
	analyticsService services.AnalyticsService
	exportService    services.ExportService
}

func NewAnalyticsHandler(
	analyticsService services.AnalyticsService,
	exportService services.ExportService,
	logger utils.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		BaseHandler:      NewBaseHandler(logger),
		analyticsService: analyticsService,
		exportService:    exportService,
	}
}

// GetSummary returns the per-question answer breakdown
// @Summary Get analytics summary
// @Tags analytics
// @Produce json
// @Success 200 {object} SuccessResponse{data=services.SurveyAnalytics}
// @Failure 503 {object} ErrorResponse
// @Router /admin/analytics/summary [get]
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	summary, err := h.analyticsService.GetSummary(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "analytics summary",
		Data:    summary,
	})
}

// GetDemographics returns who answered, by gender and age group
// @Summary Get demographics
// @Tags analytics
// @Produce json
// @Success 200 {object} SuccessResponse{data=services.DemographicsReport}
// @Failure 503 {object} ErrorResponse
// @Router /admin/analytics/demographics [get]
func (h *AnalyticsHandler) GetDemographics(c *gin.Context) {
	report, err := h.analyticsService.GetDemographics(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "demographics",
		Data:    report,
	})
}

// GetRespondents lists every respondent with their full answer set
// @Summary List respondents
// @Tags analytics
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 503 {object} ErrorResponse
// @Router /admin/analytics/respondents [get]
func (h *AnalyticsHandler) GetRespondents(c *gin.Context) {
	records, err := h.analyticsService.GetRespondents(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "respondents",
		Data:    records,
	})
}

// SearchRespondent finds respondents by their code
// @Summary Search respondent by code
// @Tags analytics
// @Produce json
// @Param code query string true "Respondent code"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/analytics/search [get]
func (h *AnalyticsHandler) SearchRespondent(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "query parameter 'code' is required",
		})
		return
	}

	h.LogRequest(c, "Searching respondent", "code", code)

	records, err := h.analyticsService.SearchByRespondentCode(c.Request.Context(), code)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "search results",
		Data:    records,
	})
}

// GetDashboard returns the combined admin landing page payload
// @Summary Get dashboard
// @Tags analytics
// @Produce json
// @Success 200 {object} SuccessResponse{data=services.Dashboard}
// @Failure 503 {object} ErrorResponse
// @Router /admin/dashboard [get]
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.analyticsService.GetDashboard(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "dashboard",
		Data:    dashboard,
	})
}

// Export streams the collected data in the requested format
// @Summary Export survey data
// @Tags analytics
// @Produce octet-stream
// @Param format path string true "Export format (csv, json, xlsx, report)"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Router /admin/export/{format} [get]
func (h *AnalyticsHandler) Export(c *gin.Context) {
	format := ParseStringIDParam(c, "format")
	if format == "" {
		return
	}

	h.LogRequest(c, "Generating export", "format", format)

	file, err := h.exportService.Export(c.Request.Context(), format)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
