package repositories

import (
	"context"

	"github.com/pojokcurhat/survey-service/internal/models"
)

// AnalyticsRepository reads pre-aggregated breakdowns from the database.
// Each source method maps to one tier of the fallback chain: newer
// deployments expose the clean views, older ones only the legacy ones.
type AnalyticsRepository interface {
	// Aggregated answer breakdowns, by source tier
	BreakdownFromCleanView(ctx context.Context) ([]models.AnalyticsSummary, error)
	BreakdownFromFunction(ctx context.Context) ([]models.AnalyticsSummary, error)
	BreakdownFromNewView(ctx context.Context) ([]models.AnalyticsSummary, error)
	BreakdownFromLegacyView(ctx context.Context) ([]models.AnalyticsSummary, error)

	// Demographics
	DemographicsFromView(ctx context.Context) ([]models.DemographicsAnalysis, error)

	// Individual responses
	IndividualFromView(ctx context.Context) ([]models.IndividualResponseRow, error)
}
