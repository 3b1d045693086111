package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pojokcurhat/survey-service/internal/cache"
	"github.com/pojokcurhat/survey-service/internal/models"
	"github.com/pojokcurhat/survey-service/internal/repositories"
)

// AnalyticsService serves the admin dashboard reads. Aggregates come from
// database views when present; each read degrades tier by tier down to
// client-side aggregation over raw rows, so older schemas still work.
type AnalyticsService interface {
	GetSummary(ctx context.Context) (*SurveyAnalytics, error)
	GetDemographics(ctx context.Context) (*DemographicsReport, error)
	GetRespondents(ctx context.Context) ([]models.RespondentRecord, error)
	SearchByRespondentCode(ctx context.Context, code string) ([]models.RespondentRecord, error)
	GetDashboard(ctx context.Context) (*Dashboard, error)
	InvalidateCache(ctx context.Context) error
}

// ===== DATA STRUCTURES =====

// SurveyAnalytics is the per-question breakdown for every catalog question.
type SurveyAnalytics struct {
	TotalRespondents int64               `json:"total_respondents"`
	Source           string              `json:"source"`
	Questions        []QuestionBreakdown `json:"questions"`
	GeneratedAt      time.Time           `json:"generated_at"`
}

// QuestionBreakdown groups the answer rows of one question.
type QuestionBreakdown struct {
	QuestionID   string                    `json:"question_id"`
	QuestionText string                    `json:"question_text"`
	TotalAnswers int                       `json:"total_answers"`
	Answers      []models.AnalyticsSummary `json:"answers"`
}

// DemographicsReport describes who answered.
type DemographicsReport struct {
	TotalRespondents int64                          `json:"total_respondents"`
	Source           string                         `json:"source"`
	Gender           []models.DemographicsBreakdown `json:"gender"`
	AgeGroup         []models.DemographicsBreakdown `json:"age_group"`
	CrossTab         []models.DemographicsAnalysis  `json:"cross_tab,omitempty"`
	GeneratedAt      time.Time                      `json:"generated_at"`
}

// Dashboard bundles everything the admin landing page needs in one response.
// A section that failed to load is nil, with the reason recorded under its
// name in Errors; the remaining sections still carry data.
type Dashboard struct {
	Summary      *SurveyAnalytics          `json:"summary"`
	Demographics *DemographicsReport       `json:"demographics"`
	Respondents  []models.RespondentRecord `json:"respondents"`
	Errors       map[string]string         `json:"errors,omitempty"`
	GeneratedAt  time.Time                 `json:"generated_at"`
}

const (
	cacheKeySummary      = "analytics:summary"
	cacheKeyDemographics = "analytics:demographics"
	cacheKeyRespondents  = "analytics:respondents"
)

type analyticsService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	cache      cache.CacheService
	configured bool
	timeout    time.Duration
	cacheTTL   time.Duration
}

// AnalyticsConfig tunes the analytics service.
type AnalyticsConfig struct {
	Configured bool
	Timeout    time.Duration
	CacheTTL   time.Duration
}

func NewAnalyticsService(repo repositories.Repository, logger *slog.Logger, cacheService cache.CacheService, cfg AnalyticsConfig) AnalyticsService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &analyticsService{
		repo:       repo,
		logger:     logger,
		cache:      cacheService,
		configured: cfg.Configured,
		timeout:    timeout,
		cacheTTL:   ttl,
	}
}

// ===== SUMMARY =====

// breakdownSource is one tier of the aggregate fallback chain.
type breakdownSource struct {
	name  string
	fetch func(ctx context.Context) ([]models.AnalyticsSummary, error)
}

func (s *analyticsService) GetSummary(ctx context.Context) (*SurveyAnalytics, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	var cached SurveyAnalytics
	if err := s.cache.Get(ctx, cacheKeySummary, &cached); err == nil {
		return &cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	total, err := s.repo.Survey().Count(ctx)
	if err != nil {
		return nil, NewPersistenceError("survey count", err)
	}

	rows, source, err := s.fetchBreakdown(ctx)
	if err != nil {
		return nil, err
	}

	result := &SurveyAnalytics{
		TotalRespondents: total,
		Source:           source,
		Questions:        groupByQuestion(normalizeSummaries(rows)),
		GeneratedAt:      time.Now(),
	}

	if err := s.cache.Set(ctx, cacheKeySummary, result, s.cacheTTL); err != nil {
		s.logger.Debug("Summary cache write failed", "error", err)
	}
	return result, nil
}

// fetchBreakdown walks the source tiers in order and returns the first
// tier that yields rows. An empty database is not an error: when every
// tier succeeds but returns nothing, the last computed result is returned.
func (s *analyticsService) fetchBreakdown(ctx context.Context) ([]models.AnalyticsSummary, string, error) {
	analytics := s.repo.Analytics()
	sources := []breakdownSource{
		{name: "clean_analytics", fetch: analytics.BreakdownFromCleanView},
		{name: "get_analytics_summary", fetch: analytics.BreakdownFromFunction},
		{name: "survey_analytics_new", fetch: analytics.BreakdownFromNewView},
		{name: "analytics_summary", fetch: analytics.BreakdownFromLegacyView},
		{name: "raw_responses", fetch: s.breakdownFromRawRows},
	}

	var lastErr error
	for _, src := range sources {
		rows, err := src.fetch(ctx)
		if err != nil {
			s.logger.Debug("Analytics source unavailable",
				"source", src.name,
				"error", err)
			lastErr = err
			continue
		}
		if len(rows) > 0 {
			s.logger.Info("Analytics served", "source", src.name, "rows", len(rows))
			return rows, src.name, nil
		}
	}

	if lastErr != nil {
		return nil, "", NewPersistenceError("analytics fetch", lastErr)
	}
	// Every source answered but nobody has submitted yet.
	return nil, "empty", nil
}

// breakdownFromRawRows is the last-resort tier: aggregate in memory from
// the raw response rows.
func (s *analyticsService) breakdownFromRawRows(ctx context.Context) ([]models.AnalyticsSummary, error) {
	responses, err := s.repo.Survey().AllResponses(ctx)
	if err != nil {
		return nil, err
	}
	return aggregateResponses(responses), nil
}

// ===== DEMOGRAPHICS =====

func (s *analyticsService) GetDemographics(ctx context.Context) (*DemographicsReport, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	var cached DemographicsReport
	if err := s.cache.Get(ctx, cacheKeyDemographics, &cached); err == nil {
		return &cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	total, err := s.repo.Survey().Count(ctx)
	if err != nil {
		return nil, NewPersistenceError("survey count", err)
	}

	report := &DemographicsReport{
		TotalRespondents: total,
		GeneratedAt:      time.Now(),
	}

	if crossTab, err := s.repo.Analytics().DemographicsFromView(ctx); err == nil && len(crossTab) > 0 {
		report.Source = "demographics_analysis"
		report.CrossTab = crossTab
		report.Gender, report.AgeGroup = splitCrossTab(crossTab)
	} else {
		if err != nil {
			s.logger.Debug("Demographics view unavailable, using raw rows", "error", err)
		}
		gender, genderErr := s.demographicsFromQuestion(ctx, "gender")
		if genderErr != nil {
			return nil, genderErr
		}
		ageGroup, ageErr := s.demographicsFromQuestion(ctx, "age")
		if ageErr != nil {
			return nil, ageErr
		}
		report.Source = "raw_responses"
		report.Gender = gender
		report.AgeGroup = ageGroup
	}

	if err := s.cache.Set(ctx, cacheKeyDemographics, report, s.cacheTTL); err != nil {
		s.logger.Debug("Demographics cache write failed", "error", err)
	}
	return report, nil
}

func (s *analyticsService) demographicsFromQuestion(ctx context.Context, questionID string) ([]models.DemographicsBreakdown, error) {
	responses, err := s.repo.Survey().ResponsesByQuestion(ctx, questionID)
	if err != nil {
		return nil, NewPersistenceError("demographics fetch", err)
	}
	return breakdownByLabel(questionID, responses), nil
}

// ===== INDIVIDUAL RESPONSES =====

func (s *analyticsService) GetRespondents(ctx context.Context) ([]models.RespondentRecord, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	var cached []models.RespondentRecord
	if err := s.cache.Get(ctx, cacheKeyRespondents, &cached); err == nil {
		return cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	records, err := s.fetchRespondents(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKeyRespondents, records, s.cacheTTL); err != nil {
		s.logger.Debug("Respondents cache write failed", "error", err)
	}
	return records, nil
}

func (s *analyticsService) fetchRespondents(ctx context.Context) ([]models.RespondentRecord, error) {
	if rows, err := s.repo.Analytics().IndividualFromView(ctx); err == nil && len(rows) > 0 {
		return groupIndividualRows(rows), nil
	} else if err != nil {
		s.logger.Debug("Individual view unavailable, walking surveys", "error", err)
	}

	surveys, _, err := s.repo.Survey().ListNewestFirst(ctx, repositories.SurveyFilters{})
	if err != nil {
		return nil, NewPersistenceError("survey list", err)
	}

	records := make([]models.RespondentRecord, 0, len(surveys))
	for _, survey := range surveys {
		responses, err := s.repo.Survey().ResponsesBySurvey(ctx, survey.ID)
		if err != nil {
			s.logger.Warn("Skipping respondent, responses unreadable",
				"survey_id", survey.ID,
				"error", err)
			continue
		}
		records = append(records, models.RespondentRecord{
			SurveyID:       survey.ID,
			RespondentCode: survey.RespondentCode,
			CompletedAt:    survey.CompletedAt,
			TotalQuestions: len(responses),
			Responses:      responses,
		})
	}
	return records, nil
}

func (s *analyticsService) SearchByRespondentCode(ctx context.Context, code string) ([]models.RespondentRecord, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, NewValidationError("code", "is required", code)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	surveys, err := s.repo.Survey().SearchByRespondentCode(ctx, code)
	if err != nil {
		return nil, NewPersistenceError("respondent search", err)
	}

	records := make([]models.RespondentRecord, 0, len(surveys))
	for _, survey := range surveys {
		responses, err := s.repo.Survey().ResponsesBySurvey(ctx, survey.ID)
		if err != nil {
			return nil, NewPersistenceError("responses fetch", err)
		}
		records = append(records, models.RespondentRecord{
			SurveyID:       survey.ID,
			RespondentCode: survey.RespondentCode,
			CompletedAt:    survey.CompletedAt,
			TotalQuestions: len(responses),
			Responses:      responses,
		})
	}
	return records, nil
}

// ===== DASHBOARD =====

// GetDashboard fans the three reads out concurrently and assembles the
// landing page payload. A failed section is recorded in Dashboard.Errors
// and never blocks the healthy sections; only when every section fails
// does the call itself fail.
func (s *analyticsService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	var (
		wg           sync.WaitGroup
		summary      *SurveyAnalytics
		demographics *DemographicsReport
		respondents  []models.RespondentRecord
		summaryErr   error
		demoErr      error
		respErr      error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		summary, summaryErr = s.GetSummary(ctx)
	}()
	go func() {
		defer wg.Done()
		demographics, demoErr = s.GetDemographics(ctx)
	}()
	go func() {
		defer wg.Done()
		respondents, respErr = s.GetRespondents(ctx)
	}()
	wg.Wait()

	dashboard := &Dashboard{
		Summary:      summary,
		Demographics: demographics,
		Respondents:  respondents,
		GeneratedAt:  time.Now(),
	}

	sectionErrs := map[string]error{
		"summary":      summaryErr,
		"demographics": demoErr,
		"respondents":  respErr,
	}
	for section, err := range sectionErrs {
		if err == nil {
			continue
		}
		s.logger.Warn("Dashboard section failed", "section", section, "error", err)
		if dashboard.Errors == nil {
			dashboard.Errors = make(map[string]string)
		}
		dashboard.Errors[section] = err.Error()
	}

	if len(dashboard.Errors) == len(sectionErrs) {
		return nil, summaryErr
	}
	return dashboard, nil
}

// InvalidateCache drops all cached analytics reads, called after a new
// submission lands.
func (s *analyticsService) InvalidateCache(ctx context.Context) error {
	return s.cache.DeletePattern(ctx, "analytics:*")
}
