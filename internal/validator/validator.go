package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pojokcurhat/survey-service/internal/catalog"
	apperrors "github.com/pojokcurhat/survey-service/internal/errors"
)

// ValidationErrors re-exports the shared validation error collection.
type ValidationErrors = apperrors.ValidationErrors

// Validator is the main validator instance that combines all validation types
type Validator struct {
	structValidator *validator.Validate
	answerValidator *AnswerValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	return &Validator{
		structValidator: structValidator,
		answerValidator: NewAnswerValidator(),
	}
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate performs struct tag validation and converts failures to the
// shared validation error type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.structValidator.Struct(s); err != nil {
		if errs := apperrors.ToValidationErrors(err); len(errs) > 0 {
			return errs
		}
		return err
	}
	return nil
}

// Answers returns the answer set validator
func (v *Validator) Answers() *AnswerValidator {
	return v.answerValidator
}

var respondentCodePattern = regexp.MustCompile(`^[A-Z][0-9]{2,}$`)

func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("question_id", func(fl validator.FieldLevel) bool {
		_, ok := catalog.Find(fl.Field().String())
		return ok
	})

	validate.RegisterValidation("respondent_code", func(fl validator.FieldLevel) bool {
		return respondentCodePattern.MatchString(fl.Field().String())
	})

	validate.RegisterValidation("export_format", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "csv", "json", "xlsx", "report":
			return true
		}
		return false
	})

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
