package postgres

import (
	"gorm.io/gorm"

	"github.com/pojokcurhat/survey-service/internal/repositories"
)

type repository struct {
	survey    repositories.SurveyRepository
	analytics repositories.AnalyticsRepository
}

// NewRepository builds the repository aggregate backed by PostgreSQL.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		survey:    NewSurveyPostgreSQL(db),
		analytics: NewAnalyticsPostgreSQL(db),
	}
}

func (r *repository) Survey() repositories.SurveyRepository {
	return r.survey
}

func (r *repository) Analytics() repositories.AnalyticsRepository {
	return r.analytics
}
