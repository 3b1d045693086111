package validator

import (
	"fmt"

	"github.com/pojokcurhat/survey-service/internal/catalog"
)

// Answer is a single submitted answer, decoupled from transport types.
type Answer struct {
	QuestionID string
	Value      string
}

// AnswerValidator handles validation logic for submitted answer sets
type AnswerValidator struct{}

// NewAnswerValidator creates a new answer validator
func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{}
}

// ValidateAnswerSet checks a full submission against the question catalog.
// Every catalog question must be answered exactly once with a known option value.
func (v *AnswerValidator) ValidateAnswerSet(answers []Answer) error {
	if len(answers) != catalog.Size() {
		return fmt.Errorf("expected %d answers, got %d", catalog.Size(), len(answers))
	}

	seen := make(map[string]bool, len(answers))
	for _, answer := range answers {
		if err := v.ValidateAnswer(answer); err != nil {
			return err
		}
		if seen[answer.QuestionID] {
			return fmt.Errorf("duplicate answer for question %q", answer.QuestionID)
		}
		seen[answer.QuestionID] = true
	}

	return nil
}

// ValidateAnswer checks a single answer against the catalog.
func (v *AnswerValidator) ValidateAnswer(answer Answer) error {
	question, ok := catalog.Find(answer.QuestionID)
	if !ok {
		return fmt.Errorf("unknown question id %q", answer.QuestionID)
	}

	if answer.Value == "" {
		return fmt.Errorf("empty answer for question %q", answer.QuestionID)
	}

	if _, ok := catalog.FindOption(question.ID, answer.Value); !ok {
		return fmt.Errorf("invalid value %q for question %q", answer.Value, answer.QuestionID)
	}

	return nil
}
