package models

import (
	"time"
)

// Survey is one completed, persisted submission tied to a session id.
// Rows are created exactly once per session and are immutable afterwards.
type Survey struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RespondentCode string    `json:"respondent_code" gorm:"not null;size:8;uniqueIndex" validate:"required"`
	SessionID      string    `json:"session_id" gorm:"not null;size:64;uniqueIndex" validate:"required"`
	CompletedAt    time.Time `json:"completed_at"`
	CreatedAt      time.Time `json:"created_at"`

	Responses []SurveyResponse `json:"responses,omitempty" gorm:"foreignKey:SurveyID"`
}

// SurveyResponse is one persisted answer row belonging to a Survey. The
// question text and answer label are denormalized at submission time so the
// analytics views stay readable even if the catalog wording changes later.
type SurveyResponse struct {
	ID             string    `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SurveyID       string    `json:"survey_id" gorm:"type:uuid;not null;index"`
	RespondentCode string    `json:"respondent_code" gorm:"not null;size:8;index"`
	QuestionID     string    `json:"question_id" gorm:"not null;size:64;index"`
	QuestionText   string    `json:"question_text" gorm:"not null;type:text"`
	AnswerValue    string    `json:"answer_value" gorm:"not null;size:64"`
	AnswerLabel    string    `json:"answer_label" gorm:"not null;type:text"`
	QuestionOrder  int       `json:"question_order" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Survey) TableName() string {
	return "surveys"
}

func (SurveyResponse) TableName() string {
	return "survey_responses"
}
