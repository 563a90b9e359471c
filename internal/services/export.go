package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/repositories"
)

const resultsSheet = "Results"

var resultHeaders = []string{
	"Date",
	"Name",
	"Email",
	"Phone",
	"Skills",
	"Score",
	"Status",
	"Summary",
}

// ExportService renders a user's stored interview results as a spreadsheet.
type ExportService interface {
	ExportResultsXLSX(ctx context.Context, ownerID string) ([]byte, error)
}

type exportService struct {
	resultsRepo repositories.TestResultRepository
}

func NewExportService(resultsRepo repositories.TestResultRepository) ExportService {
	return &exportService{resultsRepo: resultsRepo}
}

// ExportResultsXLSX implements ExportService. Rows follow the repository
// order, newest first.
func (s *exportService) ExportResultsXLSX(ctx context.Context, ownerID string) ([]byte, error) {
	start := time.Now()

	results, err := s.resultsRepo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), resultsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	for i, h := range resultHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(resultsSheet, cell, h)
	}

	for i, result := range results {
		writeResultRow(f, i+2, result)
	}

	_ = f.SetColWidth(resultsSheet, "A", "A", 18) // date
	_ = f.SetColWidth(resultsSheet, "B", "D", 24) // contact
	_ = f.SetColWidth(resultsSheet, "E", "E", 32) // skills
	_ = f.SetColWidth(resultsSheet, "F", "G", 12)
	_ = f.SetColWidth(resultsSheet, "H", "H", 80) // summary

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	log.Printf("📄 Exported %d results for %s in %dms\n", len(results), ownerID, time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func writeResultRow(f *excelize.File, row int, result models.TestResult) {
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(resultsSheet, cell, v)
	}

	phone := ""
	if result.ProfilePhone != nil {
		phone = *result.ProfilePhone
	}

	write(1, result.CreatedAt.Format("2006-01-02 15:04"))
	write(2, result.ProfileName)
	write(3, result.ProfileEmail)
	write(4, phone)
	write(5, strings.Join(result.Skills, ", "))
	write(6, result.TotalScore)
	write(7, result.Status)
	write(8, truncate(result.Summary, 2000))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
