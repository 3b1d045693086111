package models

import "time"

// AnalyticsSummary is one aggregate row of the per-question breakdown:
// how many respondents picked a given answer and which share of that
// question's total it represents. Percentage is rounded to two decimals
// and the rows for one question_id sum to 100 (modulo rounding).
type AnalyticsSummary struct {
	QuestionID    string  `json:"question_id"`
	QuestionText  string  `json:"question_text"`
	AnswerValue   string  `json:"answer_value"`
	AnswerLabel   string  `json:"answer_label"`
	ResponseCount int     `json:"response_count"`
	Percentage    float64 `json:"percentage"`
}

// IndividualResponseRow is one flattened (respondent, question) row as
// served by the individual_responses views. Used for code search and export.
type IndividualResponseRow struct {
	SurveyID       string    `json:"survey_id"`
	RespondentCode string    `json:"respondent_code"`
	CompletedAt    time.Time `json:"completed_at"`
	QuestionID     string    `json:"question_id"`
	QuestionText   string    `json:"question_text"`
	AnswerValue    string    `json:"answer_value"`
	AnswerLabel    string    `json:"answer_label"`
	QuestionOrder  int       `json:"question_order"`
}

// RespondentRecord groups one respondent's full answer set, newest
// respondents first in the primary read paths.
type RespondentRecord struct {
	SurveyID       string           `json:"survey_id"`
	RespondentCode string           `json:"respondent_code"`
	CompletedAt    time.Time        `json:"completed_at"`
	TotalQuestions int              `json:"total_questions"`
	Responses      []SurveyResponse `json:"responses"`
}

// DemographicsAnalysis is one cell of the gender x age cross-tab.
type DemographicsAnalysis struct {
	Gender          string `json:"gender"`
	AgeGroup        string `json:"age_group"`
	RespondentCount int    `json:"respondent_count"`
}

// DemographicsBreakdown is the flat per-category fallback shape produced
// when no cross-tab view exists: one row per (category, answer label).
type DemographicsBreakdown struct {
	Category   string  `json:"category"`
	Value      string  `json:"value"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}
