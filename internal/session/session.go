package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pojokcurhat/survey-service/internal/catalog"
)

// Phase tracks where a wizard session is in its lifecycle.
type Phase string

const (
	PhaseAnswering  Phase = "answering"
	PhaseSubmitting Phase = "submitting"
	PhaseSubmitted  Phase = "submitted"
)

var (
	ErrNoSelection       = errors.New("current question has no selected answer")
	ErrAtFirstQuestion   = errors.New("already at the first question")
	ErrNotComplete       = errors.New("not all questions are answered")
	ErrSubmitInProgress  = errors.New("submission already in progress")
	ErrAlreadySubmitted  = errors.New("session already submitted")
	ErrUnknownOption     = errors.New("value is not an option of the current question")
	ErrNotSubmitting     = errors.New("session is not mid-submission")
)

// Session is one respondent's walk through the questionnaire. Answers are
// preserved when stepping back so re-visiting a question shows the previous
// choice. Not safe for concurrent use; the Store serializes mutations and
// hands copies to readers.
type Session struct {
	ID        string            `json:"id"`
	Phase     Phase             `json:"phase"`
	Step      int               `json:"step"`
	Answers   map[string]string `json:"answers"`
	StartedAt time.Time         `json:"started_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// New starts a fresh session at the first question.
func New() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New().String(),
		Phase:     PhaseAnswering,
		Step:      0,
		Answers:   make(map[string]string, catalog.Size()),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// clone returns an independent copy safe to read and serialize after the
// store lock is released.
func (s *Session) clone() *Session {
	answers := make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		answers[k] = v
	}
	copied := *s
	copied.Answers = answers
	return &copied
}

// Current returns the question the session is on.
func (s *Session) Current() catalog.Question {
	return catalog.Questions()[s.Step]
}

// Selected returns the stored answer for the current question, if any.
func (s *Session) Selected() (string, bool) {
	value, ok := s.Answers[s.Current().ID]
	return value, ok
}

// SelectOption records an answer for the current question. Re-selecting
// overwrites the previous choice.
func (s *Session) SelectOption(value string) error {
	if s.Phase != PhaseAnswering {
		return s.phaseError()
	}

	question := s.Current()
	if _, ok := catalog.FindOption(question.ID, value); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOption, value)
	}

	s.Answers[question.ID] = value
	s.UpdatedAt = time.Now()
	return nil
}

// Next advances to the following question. The current question must be
// answered first.
func (s *Session) Next() error {
	if s.Phase != PhaseAnswering {
		return s.phaseError()
	}
	if _, ok := s.Selected(); !ok {
		return ErrNoSelection
	}
	if s.Step < catalog.Size()-1 {
		s.Step++
		s.UpdatedAt = time.Now()
	}
	return nil
}

// Back steps to the previous question without discarding any answer.
func (s *Session) Back() error {
	if s.Phase != PhaseAnswering {
		return s.phaseError()
	}
	if s.Step == 0 {
		return ErrAtFirstQuestion
	}
	s.Step--
	s.UpdatedAt = time.Now()
	return nil
}

// IsLast reports whether the session is on the final question.
func (s *Session) IsLast() bool {
	return s.Step == catalog.Size()-1
}

// IsComplete reports whether every question has an answer.
func (s *Session) IsComplete() bool {
	return len(s.Answers) == catalog.Size()
}

// Progress returns answered count, total count and the completed percentage.
func (s *Session) Progress() (answered, total int, percentage float64) {
	answered = len(s.Answers)
	total = catalog.Size()
	percentage = float64(s.Step+1) / float64(total) * 100
	return answered, total, percentage
}

// BeginSubmit locks the session for submission. Only a fully answered
// session can begin, and only once; the guard is what makes double-click
// submissions harmless.
func (s *Session) BeginSubmit() error {
	switch s.Phase {
	case PhaseSubmitting:
		return ErrSubmitInProgress
	case PhaseSubmitted:
		return ErrAlreadySubmitted
	}
	if !s.IsComplete() {
		return ErrNotComplete
	}
	s.Phase = PhaseSubmitting
	s.UpdatedAt = time.Now()
	return nil
}

// FinishSubmit marks the submission as accepted.
func (s *Session) FinishSubmit() error {
	if s.Phase != PhaseSubmitting {
		return ErrNotSubmitting
	}
	s.Phase = PhaseSubmitted
	s.UpdatedAt = time.Now()
	return nil
}

// FailSubmit returns the session to the answering phase after a failed
// submission so the respondent can retry.
func (s *Session) FailSubmit() error {
	if s.Phase != PhaseSubmitting {
		return ErrNotSubmitting
	}
	s.Phase = PhaseAnswering
	s.UpdatedAt = time.Now()
	return nil
}

// Reset discards all answers, returns to the first question and mints a
// fresh session id, so a restarted walk submits under a new identity.
func (s *Session) Reset() error {
	if s.Phase == PhaseSubmitting {
		return ErrSubmitInProgress
	}
	if s.Phase == PhaseSubmitted {
		return ErrAlreadySubmitted
	}
	s.ID = uuid.New().String()
	s.Step = 0
	s.Answers = make(map[string]string, catalog.Size())
	s.UpdatedAt = time.Now()
	return nil
}

// OrderedAnswers returns the answers in catalog question order, ready to
// hand to the submission service.
func (s *Session) OrderedAnswers() []AnswerPair {
	pairs := make([]AnswerPair, 0, len(s.Answers))
	for _, question := range catalog.Questions() {
		if value, ok := s.Answers[question.ID]; ok {
			pairs = append(pairs, AnswerPair{QuestionID: question.ID, Value: value})
		}
	}
	return pairs
}

// AnswerPair is one (question, value) entry in catalog order.
type AnswerPair struct {
	QuestionID string `json:"question_id"`
	Value      string `json:"value"`
}

func (s *Session) phaseError() error {
	if s.Phase == PhaseSubmitting {
		return ErrSubmitInProgress
	}
	return ErrAlreadySubmitted
}
