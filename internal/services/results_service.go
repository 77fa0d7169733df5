package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/SAP-F-2025/placement-test-service/internal/store"
	"github.com/xuri/excelize/v2"
)

const resultsSheet = "Results"

// ResultsService exposes the results log for download.
type ResultsService interface {
	Open(ctx context.Context) (*ResultsDownload, error)
	ExportWorkbook(ctx context.Context) (*WorkbookExport, error)
}

// ResultsDownload is an open handle on the results log. The caller closes File.
type ResultsDownload struct {
	File     *os.File
	Size     int64
	Filename string
}

type WorkbookExport struct {
	Data     []byte
	Filename string
	Rows     int
	Skipped  int
}

type resultsService struct {
	log    *store.ResultsLog
	logger *ServiceLogger
	now    func() time.Time
}

func NewResultsService(log *store.ResultsLog, logger *slog.Logger) ResultsService {
	return &resultsService{
		log:    log,
		logger: NewServiceLogger(logger, "results"),
		now:    time.Now,
	}
}

func (s *resultsService) Open(ctx context.Context) (download *ResultsDownload, err error) {
	start := time.Now()
	defer func() {
		s.logger.LogOperation(ctx, "open_results", time.Since(start), err,
			slog.String("path", s.log.Path()))
	}()

	if err := s.requireRows(); err != nil {
		return nil, err
	}

	f, size, err := s.log.Open()
	if err != nil {
		return nil, s.mapLogError(err)
	}

	return &ResultsDownload{
		File:     f,
		Size:     size,
		Filename: s.filename("csv"),
	}, nil
}

func (s *resultsService) ExportWorkbook(ctx context.Context) (export *WorkbookExport, err error) {
	start := time.Now()
	defer func() {
		s.logger.LogOperation(ctx, "export_results_workbook", time.Since(start), err)
	}()

	if err := s.requireRows(); err != nil {
		return nil, err
	}

	rows, invalid, err := s.log.Rows()
	if err != nil {
		return nil, s.mapLogError(err)
	}
	for _, lineErr := range invalid {
		s.logger.Logger().WarnContext(ctx, "Skipping unreadable results row",
			"line", lineErr.Line,
			"error", lineErr.Err)
	}

	data, err := buildWorkbook(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResultsRead, err)
	}

	return &WorkbookExport{
		Data:     data,
		Filename: s.filename("xlsx"),
		Rows:     len(rows),
		Skipped:  len(invalid),
	}, nil
}

// requireRows treats a log holding only its header as absent.
func (s *resultsService) requireRows() error {
	has, err := s.log.HasRows()
	if err != nil {
		return s.mapLogError(err)
	}
	if !has {
		return ErrResultsNotFound
	}
	return nil
}

func (s *resultsService) mapLogError(err error) error {
	if errors.Is(err, store.ErrLogNotFound) {
		return ErrResultsNotFound
	}
	return fmt.Errorf("%w: %w", ErrResultsRead, err)
}

func (s *resultsService) filename(ext string) string {
	return fmt.Sprintf("placement-test-results-%d.%s", s.now().UnixMilli(), ext)
}

var workbookHeaders = []string{
	"Timestamp", "First Name", "Last Name", "Score", "Total Questions", "Percentage", "Answers",
}

func buildWorkbook(rows []store.Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range workbookHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(resultsSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(workbookHeaders), 1)
	if err := f.SetCellStyle(resultsSheet, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for rowIndex, row := range rows {
		for colIndex, value := range workbookRow(row) {
			cell, err := excelize.CoordinatesToCellName(colIndex+1, rowIndex+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(resultsSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", rowIndex+1, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// workbookRow keeps numeric columns numeric when they parse and leaves
// the percentage blank otherwise.
func workbookRow(row store.Row) []any {
	score := numericCell(row.Score)
	total := numericCell(row.TotalQuestions)

	var percentage any = ""
	s, sok := score.(float64)
	t, tok := total.(float64)
	if sok && tok && t > 0 {
		percentage = float64(int(s/t*10000+0.5)) / 100
	}

	return []any{
		row.Timestamp,
		row.FirstName,
		row.LastName,
		score,
		total,
		percentage,
		row.AnswersJSON,
	}
}

func numericCell(text string) any {
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v
	}
	return text
}
