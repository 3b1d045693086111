package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pojokcurhat/survey-service/internal/services"
	"github.com/pojokcurhat/survey-service/internal/session"
	"github.com/pojokcurhat/survey-service/internal/utils"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging functionality for all handlers
type BaseHandler struct {
	logger utils.Logger
}

// NewBaseHandler creates a new base handler with logging capability
func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{
		logger: logger,
	}
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"remote_addr", c.ClientIP(),
		"request_id", c.GetHeader("X-Request-ID"),
	}
	fields = append(fields, additionalFields...)
	h.logger.Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := []interface{}{
		"request_id", c.GetHeader("X-Request-ID"),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	fields = append(fields, additionalFields...)
	h.logger.LogError(err, message, fields...)
}

// handleServiceError maps service layer errors to HTTP responses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var verrs services.ValidationErrors
	var verr *services.ValidationError
	var perr *services.PersistenceError

	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: verrs,
			Code:    "validation_failed",
		})
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: verr,
			Code:    "validation_failed",
		})
	case errors.Is(err, services.ErrWrongAnswerCount),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrUnknownExportFormat),
		errors.Is(err, services.ErrBadRequest):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
			Code:    "bad_request",
		})
	case errors.Is(err, services.ErrSurveyNotFound),
		errors.Is(err, services.ErrNotFound),
		errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: err.Error(),
			Code:    "not_found",
		})
	case errors.Is(err, services.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Message: "Database backend is not configured",
			Code:    "not_configured",
		})
	case errors.As(err, &perr):
		h.LogError(c, err, "Persistence failure")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Storage operation failed",
			Code:    "persistence_error",
		})
	case errors.Is(err, session.ErrNoSelection),
		errors.Is(err, session.ErrAtFirstQuestion),
		errors.Is(err, session.ErrNotComplete),
		errors.Is(err, session.ErrUnknownOption),
		errors.Is(err, session.ErrNotSubmitting):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: err.Error(),
			Code:    "invalid_step",
		})
	case errors.Is(err, session.ErrSubmitInProgress),
		errors.Is(err, session.ErrAlreadySubmitted):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: err.Error(),
			Code:    "conflict",
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
			Code:    "internal_error",
		})
	}
}
