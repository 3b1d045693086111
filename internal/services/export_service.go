package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pojokcurhat/survey-service/internal/events"
	"github.com/pojokcurhat/survey-service/internal/models"
)

// ExportService renders the collected data as downloadable files.
type ExportService interface {
	Export(ctx context.Context, format string) (*ExportFile, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

type exportService struct {
	analytics AnalyticsService
	logger    *slog.Logger
	publisher events.EventPublisher
}

func NewExportService(analytics AnalyticsService, logger *slog.Logger, publisher events.EventPublisher) ExportService {
	return &exportService{
		analytics: analytics,
		logger:    logger,
		publisher: publisher,
	}
}

// Export renders the dashboard data in the requested format.
func (s *exportService) Export(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))

	dashboard, err := s.analytics.GetDashboard(ctx)
	if err != nil {
		return nil, err
	}
	if len(dashboard.Errors) > 0 {
		// A partial dashboard is fine to render but not to export.
		sections := make([]string, 0, len(dashboard.Errors))
		for section := range dashboard.Errors {
			sections = append(sections, section)
		}
		sort.Strings(sections)
		return nil, NewPersistenceError("export data fetch",
			fmt.Errorf("dashboard sections unavailable: %s", strings.Join(sections, ", ")))
	}

	var file *ExportFile
	switch format {
	case "csv":
		file, err = s.exportCSV(dashboard)
	case "json":
		file, err = s.exportJSON(dashboard)
	case "report":
		file, err = s.exportReport(dashboard)
	case "xlsx":
		file, err = s.exportExcel(dashboard)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExportFormat, format)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Export generated",
		"format", format,
		"respondents", len(dashboard.Respondents),
		"bytes", len(file.Data))

	if pubErr := s.publisher.PublishSurveyEvent(ctx,
		events.NewExportGeneratedEvent(format, len(dashboard.Respondents))); pubErr != nil {
		s.logger.Warn("Failed to publish export event", "error", pubErr)
	}

	return file, nil
}

// ===== CSV =====

func (s *exportService) exportCSV(dashboard *Dashboard) (*ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"respondent_code", "completed_at", "question_order", "question_id", "question_text", "answer_value", "answer_label"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, record := range dashboard.Respondents {
		for _, response := range record.Responses {
			row := []string{
				record.RespondentCode,
				record.CompletedAt.Format(time.RFC3339),
				fmt.Sprintf("%d", response.QuestionOrder),
				response.QuestionID,
				response.QuestionText,
				response.AnswerValue,
				response.AnswerLabel,
			}
			if err := w.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}

	return &ExportFile{
		Filename:    exportFilename("csv"),
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

// ===== JSON =====

func (s *exportService) exportJSON(dashboard *Dashboard) (*ExportFile, error) {
	data, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export: %w", err)
	}

	return &ExportFile{
		Filename:    exportFilename("json"),
		ContentType: "application/json",
		Data:        data,
	}, nil
}

// ===== TEXT REPORT =====

func (s *exportService) exportReport(dashboard *Dashboard) (*ExportFile, error) {
	var b strings.Builder

	b.WriteString("LAPORAN HASIL SURVEI POJOK CURHAT\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")
	fmt.Fprintf(&b, "Dibuat: %s\n", dashboard.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total responden: %d\n\n", dashboard.Summary.TotalRespondents)

	b.WriteString("DEMOGRAFI\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, row := range dashboard.Demographics.Gender {
		fmt.Fprintf(&b, "  %-30s %4d (%.2f%%)\n", row.Value, row.Count, row.Percentage)
	}
	for _, row := range dashboard.Demographics.AgeGroup {
		fmt.Fprintf(&b, "  %-30s %4d (%.2f%%)\n", row.Value, row.Count, row.Percentage)
	}
	b.WriteString("\n")

	b.WriteString("RINGKASAN PER PERTANYAAN\n")
	b.WriteString(strings.Repeat("-", 50) + "\n")
	for _, question := range dashboard.Summary.Questions {
		fmt.Fprintf(&b, "\n%s\n", question.QuestionText)
		for _, answer := range question.Answers {
			fmt.Fprintf(&b, "  %-30s %4d (%.2f%%)\n", answer.AnswerLabel, answer.ResponseCount, answer.Percentage)
		}
	}

	return &ExportFile{
		Filename:    exportFilename("txt"),
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte(b.String()),
	}, nil
}

// ===== EXCEL =====

func (s *exportService) exportExcel(dashboard *Dashboard) (*ExportFile, error) {
	f := excelize.NewFile()

	if err := s.writeSummarySheet(f, dashboard); err != nil {
		return nil, err
	}
	if err := s.writeDemographicsSheet(f, dashboard); err != nil {
		return nil, err
	}
	if err := s.writeQuestionSheets(f, dashboard); err != nil {
		return nil, err
	}
	if err := s.writeResponsesSheet(f, dashboard); err != nil {
		return nil, err
	}

	// Drop the default sheet so Summary opens first.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	index, err := f.GetSheetIndex("Summary")
	if err != nil {
		return nil, fmt.Errorf("failed to locate summary sheet: %w", err)
	}
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return &ExportFile{
		Filename:    exportFilename("xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func (s *exportService) writeSummarySheet(f *excelize.File, dashboard *Dashboard) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	headers := []string{"Question ID", "Question", "Answer", "Count", "Percentage"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowIndex := 2
	for _, question := range dashboard.Summary.Questions {
		for _, answer := range question.Answers {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", rowIndex), answer.QuestionID)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", rowIndex), answer.QuestionText)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", rowIndex), answer.AnswerLabel)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", rowIndex), answer.ResponseCount)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", rowIndex), answer.Percentage)
			rowIndex++
		}
	}
	return nil
}

func (s *exportService) writeDemographicsSheet(f *excelize.File, dashboard *Dashboard) error {
	const sheet = "Demographics"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create demographics sheet: %w", err)
	}

	headers := []string{"Category", "Value", "Count", "Percentage"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowIndex := 2
	writeRows := func(rows []models.DemographicsBreakdown) {
		for _, row := range rows {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", rowIndex), row.Category)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", rowIndex), row.Value)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", rowIndex), row.Count)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", rowIndex), row.Percentage)
			rowIndex++
		}
	}
	writeRows(dashboard.Demographics.Gender)
	writeRows(dashboard.Demographics.AgeGroup)
	return nil
}

// writeQuestionSheets adds one detail sheet per question with that
// question's answer breakdown.
func (s *exportService) writeQuestionSheets(f *excelize.File, dashboard *Dashboard) error {
	for i, question := range dashboard.Summary.Questions {
		sheet := questionSheetName(i+1, question.QuestionID)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", sheet, err)
		}

		f.SetCellValue(sheet, "A1", question.QuestionText)

		headers := []string{"Answer", "Count", "Percentage"}
		for j, header := range headers {
			cell := fmt.Sprintf("%c2", 'A'+j)
			f.SetCellValue(sheet, cell, header)
		}

		rowIndex := 3
		for _, answer := range question.Answers {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", rowIndex), answer.AnswerLabel)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", rowIndex), answer.ResponseCount)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", rowIndex), answer.Percentage)
			rowIndex++
		}
	}
	return nil
}

// questionSheetName builds "Q1-gender" style names within the 31-character
// sheet name limit.
func questionSheetName(number int, questionID string) string {
	name := fmt.Sprintf("Q%d-%s", number, questionID)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

func (s *exportService) writeResponsesSheet(f *excelize.File, dashboard *Dashboard) error {
	const sheet = "Responses"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create responses sheet: %w", err)
	}

	headers := []string{"Respondent", "Completed At", "Order", "Question", "Answer"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheet, cell, header)
	}

	rowIndex := 2
	for _, record := range dashboard.Respondents {
		for _, response := range record.Responses {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", rowIndex), record.RespondentCode)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", rowIndex), record.CompletedAt.Format(time.RFC3339))
			f.SetCellValue(sheet, fmt.Sprintf("C%d", rowIndex), response.QuestionOrder)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", rowIndex), response.QuestionText)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", rowIndex), response.AnswerLabel)
			rowIndex++
		}
	}
	return nil
}

func exportFilename(ext string) string {
	return fmt.Sprintf("pojok-curhat-export-%s.%s", time.Now().Format("20060102-150405"), ext)
}
