package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pojokcurhat/survey-service/internal/services"
	"github.com/pojokcurhat/survey-service/internal/session"
	"github.com/pojokcurhat/survey-service/internal/utils"
	"github.com/pojokcurhat/survey-service/internal/validator"
)

type HandlerManager struct {
	surveyHandler    *SurveyHandler
	wizardHandler    *WizardHandler
	analyticsHandler *AnalyticsHandler
	adminToken       string
}

func NewHandlerManager(
	submissionService services.SubmissionService,
	analyticsService services.AnalyticsService,
	exportService services.ExportService,
	store *session.Store,
	v *validator.Validator,
	logger utils.Logger,
	adminToken string,
) *HandlerManager {
	return &HandlerManager{
		surveyHandler:    NewSurveyHandler(submissionService, analyticsService, v, logger),
		wizardHandler:    NewWizardHandler(store, submissionService, logger),
		analyticsHandler: NewAnalyticsHandler(analyticsService, exportService, logger),
		adminToken:       adminToken,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	api := router.Group("/api")
	{
		// Survey routes
		survey := api.Group("/survey")
		{
			survey.GET("/questions", hm.surveyHandler.GetQuestions)
			survey.POST("", hm.surveyHandler.SubmitSurvey)
			survey.GET("/session/:session_id", hm.surveyHandler.GetSubmission)
		}

		// Wizard routes
		wizard := api.Group("/wizard")
		{
			wizard.POST("", hm.wizardHandler.StartSession)
			wizard.GET("/:id", hm.wizardHandler.GetSession)
			wizard.POST("/:id/select", hm.wizardHandler.SelectOption)
			wizard.POST("/:id/next", hm.wizardHandler.Next)
			wizard.POST("/:id/back", hm.wizardHandler.Back)
			wizard.POST("/:id/reset", hm.wizardHandler.Reset)
			wizard.POST("/:id/submit", hm.wizardHandler.Submit)
		}

		// Admin routes, token protected
		admin := api.Group("/admin", AdminAuth(hm.adminToken))
		{
			admin.GET("/dashboard", hm.analyticsHandler.GetDashboard)
			admin.GET("/analytics/summary", hm.analyticsHandler.GetSummary)
			admin.GET("/analytics/demographics", hm.analyticsHandler.GetDemographics)
			admin.GET("/analytics/respondents", hm.analyticsHandler.GetRespondents)
			admin.GET("/analytics/search", hm.analyticsHandler.SearchRespondent)
			admin.GET("/export/:format", hm.analyticsHandler.Export)
		}
	}
}

// HealthCheck reports service liveness
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "survey-service",
	})
}
