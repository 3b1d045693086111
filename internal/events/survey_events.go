package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of survey events
type EventType string

const (
	// Survey lifecycle events
	EventSurveySubmitted EventType = "survey.submitted"
	EventSurveyDuplicate EventType = "survey.duplicate"

	// Export events
	EventExportGenerated EventType = "export.generated"
)

// SurveyEvent is the base event structure for all survey events
type SurveyEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Survey event payloads

type SurveySubmittedEvent struct {
	SurveyID       string    `json:"survey_id"`
	RespondentCode string    `json:"respondent_code"`
	SessionID      string    `json:"session_id"`
	AnswerCount    int       `json:"answer_count"`
	CompletedAt    time.Time `json:"completed_at"`
}

type SurveyDuplicateEvent struct {
	SessionID      string `json:"session_id"`
	RespondentCode string `json:"respondent_code"`
}

type ExportGeneratedEvent struct {
	Format          string    `json:"format"`
	RespondentCount int       `json:"respondent_count"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Event factory functions

func NewSurveySubmittedEvent(surveyID, respondentCode, sessionID string, answerCount int, completedAt time.Time) *SurveyEvent {
	return &SurveyEvent{
		ID:        GenerateEventID(),
		Type:      EventSurveySubmitted,
		Timestamp: time.Now(),
		Source:    "survey-service",
		Version:   "1.0",
		Data: SurveySubmittedEvent{
			SurveyID:       surveyID,
			RespondentCode: respondentCode,
			SessionID:      sessionID,
			AnswerCount:    answerCount,
			CompletedAt:    completedAt,
		},
	}
}

func NewSurveyDuplicateEvent(sessionID, respondentCode string) *SurveyEvent {
	return &SurveyEvent{
		ID:        GenerateEventID(),
		Type:      EventSurveyDuplicate,
		Timestamp: time.Now(),
		Source:    "survey-service",
		Version:   "1.0",
		Data: SurveyDuplicateEvent{
			SessionID:      sessionID,
			RespondentCode: respondentCode,
		},
	}
}

func NewExportGeneratedEvent(format string, respondentCount int) *SurveyEvent {
	return &SurveyEvent{
		ID:        GenerateEventID(),
		Type:      EventExportGenerated,
		Timestamp: time.Now(),
		Source:    "survey-service",
		Version:   "1.0",
		Data: ExportGeneratedEvent{
			Format:          format,
			RespondentCount: respondentCount,
			GeneratedAt:     time.Now(),
		},
	}
}

// GenerateEventID returns a unique identifier for a new event.
func GenerateEventID() string {
	return uuid.New().String()
}
