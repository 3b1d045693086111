package services

import (
	"math"
	"sort"

	"github.com/pojokcurhat/survey-service/internal/catalog"
	"github.com/pojokcurhat/survey-service/internal/models"
)

// round2 rounds to two decimal places, matching what the database views emit.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// normalizeSummaries fills gaps left by the older sources: missing answer
// labels come from the catalog and missing percentages are recomputed from
// the per-question counts.
func normalizeSummaries(rows []models.AnalyticsSummary) []models.AnalyticsSummary {
	totals := make(map[string]int)
	needPercentage := false
	for _, row := range rows {
		totals[row.QuestionID] += row.ResponseCount
		if row.Percentage == 0 && row.ResponseCount > 0 {
			needPercentage = true
		}
	}

	out := make([]models.AnalyticsSummary, len(rows))
	for i, row := range rows {
		if row.AnswerLabel == "" {
			if opt, ok := catalog.FindOption(row.QuestionID, row.AnswerValue); ok {
				row.AnswerLabel = opt.Label
			} else {
				row.AnswerLabel = row.AnswerValue
			}
		}
		if row.QuestionText == "" {
			if q, ok := catalog.Find(row.QuestionID); ok {
				row.QuestionText = q.Title
			}
		}
		if needPercentage {
			if total := totals[row.QuestionID]; total > 0 {
				row.Percentage = round2(float64(row.ResponseCount) * 100 / float64(total))
			}
		}
		out[i] = row
	}
	return out
}

// groupByQuestion buckets summary rows per question in catalog order.
func groupByQuestion(rows []models.AnalyticsSummary) []QuestionBreakdown {
	byQuestion := make(map[string][]models.AnalyticsSummary)
	for _, row := range rows {
		byQuestion[row.QuestionID] = append(byQuestion[row.QuestionID], row)
	}

	breakdowns := make([]QuestionBreakdown, 0, catalog.Size())
	for _, question := range catalog.Questions() {
		answers := byQuestion[question.ID]
		sort.SliceStable(answers, func(i, j int) bool {
			return answers[i].AnswerValue < answers[j].AnswerValue
		})

		total := 0
		for _, a := range answers {
			total += a.ResponseCount
		}
		breakdowns = append(breakdowns, QuestionBreakdown{
			QuestionID:   question.ID,
			QuestionText: question.Title,
			TotalAnswers: total,
			Answers:      answers,
		})
	}
	return breakdowns
}

// aggregateResponses computes the per-question breakdown from raw response
// rows, the shape the views would otherwise deliver.
func aggregateResponses(responses []models.SurveyResponse) []models.AnalyticsSummary {
	type key struct {
		questionID string
		value      string
	}

	counts := make(map[key]int)
	labels := make(map[key]string)
	totals := make(map[string]int)
	for _, r := range responses {
		k := key{questionID: r.QuestionID, value: r.AnswerValue}
		counts[k]++
		totals[r.QuestionID]++
		if labels[k] == "" {
			labels[k] = r.AnswerLabel
		}
	}

	rows := make([]models.AnalyticsSummary, 0, len(counts))
	for k, count := range counts {
		questionText := ""
		if q, ok := catalog.Find(k.questionID); ok {
			questionText = q.Title
		}
		rows = append(rows, models.AnalyticsSummary{
			QuestionID:    k.questionID,
			QuestionText:  questionText,
			AnswerValue:   k.value,
			AnswerLabel:   labels[k],
			ResponseCount: count,
			Percentage:    round2(float64(count) * 100 / float64(totals[k.questionID])),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].QuestionID != rows[j].QuestionID {
			return rows[i].QuestionID < rows[j].QuestionID
		}
		return rows[i].AnswerValue < rows[j].AnswerValue
	})
	return rows
}

// breakdownByLabel turns one question's responses into a flat demographic
// breakdown keyed by answer label.
func breakdownByLabel(category string, responses []models.SurveyResponse) []models.DemographicsBreakdown {
	counts := make(map[string]int)
	for _, r := range responses {
		label := r.AnswerLabel
		if label == "" {
			label = r.AnswerValue
		}
		counts[label]++
	}

	total := len(responses)
	out := make([]models.DemographicsBreakdown, 0, len(counts))
	for label, count := range counts {
		percentage := 0.0
		if total > 0 {
			percentage = round2(float64(count) * 100 / float64(total))
		}
		out = append(out, models.DemographicsBreakdown{
			Category:   category,
			Value:      label,
			Count:      count,
			Percentage: percentage,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// groupIndividualRows folds the flattened view rows back into one record
// per respondent, preserving the newest-first row order.
func groupIndividualRows(rows []models.IndividualResponseRow) []models.RespondentRecord {
	index := make(map[string]int)
	records := make([]models.RespondentRecord, 0)
	for _, row := range rows {
		i, seen := index[row.SurveyID]
		if !seen {
			records = append(records, models.RespondentRecord{
				SurveyID:       row.SurveyID,
				RespondentCode: row.RespondentCode,
				CompletedAt:    row.CompletedAt,
			})
			i = len(records) - 1
			index[row.SurveyID] = i
		}
		records[i].Responses = append(records[i].Responses, models.SurveyResponse{
			SurveyID:       row.SurveyID,
			RespondentCode: row.RespondentCode,
			QuestionID:     row.QuestionID,
			QuestionText:   row.QuestionText,
			AnswerValue:    row.AnswerValue,
			AnswerLabel:    row.AnswerLabel,
			QuestionOrder:  row.QuestionOrder,
		})
		records[i].TotalQuestions = len(records[i].Responses)
	}
	return records
}

// splitCrossTab collapses the gender x age cross-tab into the two flat
// breakdowns the dashboard charts want.
func splitCrossTab(crossTab []models.DemographicsAnalysis) (gender, ageGroup []models.DemographicsBreakdown) {
	genderCounts := make(map[string]int)
	ageCounts := make(map[string]int)
	total := 0
	for _, cell := range crossTab {
		genderCounts[cell.Gender] += cell.RespondentCount
		ageCounts[cell.AgeGroup] += cell.RespondentCount
		total += cell.RespondentCount
	}

	flatten := func(category string, counts map[string]int) []models.DemographicsBreakdown {
		out := make([]models.DemographicsBreakdown, 0, len(counts))
		for value, count := range counts {
			percentage := 0.0
			if total > 0 {
				percentage = round2(float64(count) * 100 / float64(total))
			}
			out = append(out, models.DemographicsBreakdown{
				Category:   category,
				Value:      value,
				Count:      count,
				Percentage: percentage,
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
		return out
	}

	return flatten("gender", genderCounts), flatten("age", ageCounts)
}
