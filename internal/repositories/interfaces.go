package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// ===== SHARED FILTER STRUCTS =====

type SurveyFilters struct {
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "created_at", "respondent_code"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

// Repository aggregates the repository interfaces the services depend on.
type Repository interface {
	Survey() SurveyRepository
	Analytics() AnalyticsRepository
}

// IsNotFoundError reports whether err means the record does not exist.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
