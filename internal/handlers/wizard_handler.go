package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pojokcurhat/survey-service/internal/services"
	"github.com/pojokcurhat/survey-service/internal/session"
	"github.com/pojokcurhat/survey-service/internal/utils"
)

// WizardHandler drives the step-by-step questionnaire flow for clients that
// keep their state server-side.
type WizardHandler struct {
	BaseHandler
	store             *session.Store
	submissionService services.SubmissionService
}

func NewWizardHandler(store *session.Store, submissionService services.SubmissionService, logger utils.Logger) *WizardHandler {
	return &WizardHandler{
		BaseHandler:       NewBaseHandler(logger),
		store:             store,
		submissionService: submissionService,
	}
}

// WizardState is the session view returned after every wizard call.
type WizardState struct {
	SessionID  string            `json:"session_id"`
	Phase      session.Phase     `json:"phase"`
	Step       int               `json:"step"`
	Question   interface{}       `json:"question"`
	Selected   string            `json:"selected,omitempty"`
	Answered   int               `json:"answered"`
	Total      int               `json:"total"`
	Percentage float64           `json:"percentage"`
	IsLast     bool              `json:"is_last"`
	IsComplete bool              `json:"is_complete"`
	Answers    map[string]string `json:"answers"`
}

func wizardState(s *session.Session) WizardState {
	answered, total, percentage := s.Progress()
	selected, _ := s.Selected()
	return WizardState{
		SessionID:  s.ID,
		Phase:      s.Phase,
		Step:       s.Step,
		Question:   s.Current(),
		Selected:   selected,
		Answered:   answered,
		Total:      total,
		Percentage: percentage,
		IsLast:     s.IsLast(),
		IsComplete: s.IsComplete(),
		Answers:    s.Answers,
	}
}

// StartSession opens a new wizard session
// @Summary Start wizard session
// @Tags wizard
// @Produce json
// @Success 201 {object} SuccessResponse{data=WizardState}
// @Router /wizard [post]
func (h *WizardHandler) StartSession(c *gin.Context) {
	s := h.store.Create()
	h.LogRequest(c, "Wizard session started", "session_id", s.ID)

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "session started",
		Data:    wizardState(s),
	})
}

// GetSession returns the current wizard state
// @Summary Get wizard session
// @Tags wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse{data=WizardState}
// @Failure 404 {object} ErrorResponse
// @Router /wizard/{id} [get]
func (h *WizardHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	s, err := h.store.Get(id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "session",
		Data:    wizardState(s),
	})
}

// SelectOptionRequest carries the chosen answer value.
type SelectOptionRequest struct {
	Value string `json:"value" binding:"required"`
}

// SelectOption records an answer for the current question
// @Summary Select an answer
// @Tags wizard
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param selection body SelectOptionRequest true "Selected option value"
// @Success 200 {object} SuccessResponse{data=WizardState}
// @Failure 400 {object} ErrorResponse
// @Router /wizard/{id}/select [post]
func (h *WizardHandler) SelectOption(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var req SelectOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	s, err := h.store.Update(id, func(s *session.Session) error {
		return s.SelectOption(req.Value)
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "option selected",
		Data:    wizardState(s),
	})
}

// Next advances to the following question
// @Summary Advance wizard
// @Tags wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse{data=WizardState}
// @Failure 400 {object} ErrorResponse
// @Router /wizard/{id}/next [post]
func (h *WizardHandler) Next(c *gin.Context) {
	h.step(c, func(s *session.Session) error { return s.Next() })
}

// Back steps to the previous question
// @Summary Step wizard back
// @Tags wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse{data=WizardState}
// @Failure 400 {object} ErrorResponse
// @Router /wizard/{id}/back [post]
func (h *WizardHandler) Back(c *gin.Context) {
	h.step(c, func(s *session.Session) error { return s.Back() })
}

// Reset clears all answers and restarts the wizard
// @Summary Reset wizard session
// @Tags wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} SuccessResponse{data=WizardState}
// @Failure 409 {object} ErrorResponse
// @Router /wizard/{id}/reset [post]
func (h *WizardHandler) Reset(c *gin.Context) {
	h.step(c, func(s *session.Session) error { return s.Reset() })
}

func (h *WizardHandler) step(c *gin.Context, fn func(*session.Session) error) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	s, err := h.store.Update(id, fn)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "ok",
		Data:    wizardState(s),
	})
}

// Submit hands the completed session to the submission service
// @Summary Submit wizard session
// @Tags wizard
// @Produce json
// @Param id path string true "Session ID"
// @Success 201 {object} SuccessResponse{data=services.SubmissionResult}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /wizard/{id}/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	// Lock the session against concurrent submits before touching storage.
	s, err := h.store.Update(id, func(s *session.Session) error {
		return s.BeginSubmit()
	})
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	req := &services.SubmitSurveyRequest{SessionID: s.ID}
	for _, pair := range s.OrderedAnswers() {
		req.Answers = append(req.Answers, services.SubmittedAnswer{
			QuestionID: pair.QuestionID,
			Value:      pair.Value,
		})
	}

	result, err := h.submissionService.Submit(c.Request.Context(), req)
	if err != nil {
		if _, failErr := h.store.Update(id, func(s *session.Session) error {
			return s.FailSubmit()
		}); failErr != nil {
			h.LogError(c, failErr, "Could not unlock session after failed submit")
		}
		h.handleServiceError(c, err)
		return
	}

	if _, err := h.store.Update(id, func(s *session.Session) error {
		return s.FinishSubmit()
	}); err != nil {
		h.LogError(c, err, "Could not mark session submitted")
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
