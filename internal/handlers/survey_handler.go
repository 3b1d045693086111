package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pojokcurhat/survey-service/internal/catalog"
	"github.com/pojokcurhat/survey-service/internal/services"
	"github.com/pojokcurhat/survey-service/internal/utils"
	"github.com/pojokcurhat/survey-service/internal/validator"
)

type SurveyHandler struct {
	BaseHandler
	submissionService services.SubmissionService
	analyticsService  services.AnalyticsService
	validator         *validator.Validator
}

func NewSurveyHandler(
	submissionService services.SubmissionService,
	analyticsService services.AnalyticsService,
	v *validator.Validator,
	logger utils.Logger,
) *SurveyHandler {
	return &SurveyHandler{
		BaseHandler:       NewBaseHandler(logger),
		submissionService: submissionService,
		analyticsService:  analyticsService,
		validator:         v,
	}
}

// GetQuestions returns the full question catalog in presentation order
// @Summary Get survey questions
// @Tags survey
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /survey/questions [get]
func (h *SurveyHandler) GetQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "questions",
		Data:    catalog.Questions(),
	})
}

// SubmitSurvey accepts one completed survey
// @Summary Submit survey
// @Tags survey
// @Accept json
// @Produce json
// @Param survey body services.SubmitSurveyRequest true "Completed survey"
// @Success 201 {object} SuccessResponse{data=services.SubmissionResult}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /survey [post]
func (h *SurveyHandler) SubmitSurvey(c *gin.Context) {
	var req services.SubmitSurveyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting survey", "session_id", req.SessionID)

	result, err := h.submissionService.Submit(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	if !result.Duplicate && !result.Demo {
		// Fresh data landed, cached analytics are stale now.
		if err := h.analyticsService.InvalidateCache(context.WithoutCancel(c.Request.Context())); err != nil {
			h.LogError(c, err, "Analytics cache invalidation failed")
		}
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	c.JSON(status, SuccessResponse{
		Message: "survey submitted",
		Data:    result,
	})
}

// GetSubmission returns the stored submission for a session
// @Summary Get submission by session
// @Tags survey
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} SuccessResponse{data=services.SubmissionResult}
// @Failure 404 {object} ErrorResponse
// @Router /survey/session/{session_id} [get]
func (h *SurveyHandler) GetSubmission(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "session_id")
	if sessionID == "" {
		return
	}

	result, err := h.submissionService.GetBySession(c.Request.Context(), sessionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "submission",
		Data:    result,
	})
}
