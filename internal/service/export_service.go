package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable/internal/dto"
	"github.com/noah-isme/sma-timetable/internal/models"
	"github.com/noah-isme/sma-timetable/pkg/export"
	appErrors "github.com/noah-isme/sma-timetable/pkg/errors"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
	FormatJSON = "json"
)

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(title string, sections ...export.Dataset) ([]byte, error)
}

type xlsxRenderer interface {
	Render(sections ...export.Dataset) ([]byte, error)
}

// ExportResult describes one written file.
type ExportResult struct {
	Format string
	Path   string
}

// ExportService renders generated timetables and persists them to storage.
type ExportService struct {
	storage fileStorage
	csv     csvRenderer
	pdf     pdfRenderer
	xlsx    xlsxRenderer
	metrics *MetricsService
	logger  *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to
// the default exporters.
func NewExportService(storage fileStorage, metrics *MetricsService, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer, xlsx xlsxRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	return &ExportService{storage: storage, csv: csv, pdf: pdf, xlsx: xlsx, metrics: metrics, logger: logger}
}

// Export renders resp in every requested format. Unknown formats are
// rejected before anything is written.
func (s *ExportService) Export(ctx context.Context, resp *dto.GenerateTimetableResponse, formats []string) ([]ExportResult, error) {
	if resp == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "nothing to export")
	}
	for _, format := range formats {
		if !isSupportedFormat(format) {
			return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
		}
	}

	scheduled, unscheduled, summary := buildDatasets(resp)
	base := buildFilename(resp)
	results := make([]ExportResult, 0, len(formats))

	save := func(format, filename string, payload []byte) error {
		path, err := s.storage.Save(filename, payload)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
		}
		s.metrics.RecordExport(format)
		s.logger.Info("timetable exported", zap.String("run_id", resp.RunID), zap.String("format", format), zap.String("path", path))
		results = append(results, ExportResult{Format: format, Path: path})
		return nil
	}

	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		switch format {
		case FormatCSV:
			for _, ds := range []export.Dataset{scheduled, unscheduled} {
				payload, err := s.csv.Render(ds)
				if err != nil {
					return results, renderError(format, err)
				}
				if err := save(format, fmt.Sprintf("%s_%s.csv", base, strings.ToLower(ds.Name)), payload); err != nil {
					return results, err
				}
			}
		case FormatPDF:
			payload, err := s.pdf.Render("Class Timetable", summary, scheduled, unscheduled)
			if err != nil {
				return results, renderError(format, err)
			}
			if err := save(format, base+".pdf", payload); err != nil {
				return results, err
			}
		case FormatXLSX:
			payload, err := s.xlsx.Render(scheduled, unscheduled, summary)
			if err != nil {
				return results, renderError(format, err)
			}
			if err := save(format, base+".xlsx", payload); err != nil {
				return results, err
			}
		case FormatJSON:
			payload, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return results, renderError(format, err)
			}
			if err := save(format, base+".json", payload); err != nil {
				return results, err
			}
		}
	}
	return results, nil
}

// Cleanup removes exports older than ttl.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		return nil, nil
	}
	return s.storage.CleanupOlderThan(ttl)
}

func isSupportedFormat(format string) bool {
	switch format {
	case FormatCSV, FormatPDF, FormatXLSX, FormatJSON:
		return true
	}
	return false
}

func renderError(format string, err error) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to render %s export", format))
}

func buildFilename(resp *dto.GenerateTimetableResponse) string {
	runID := resp.RunID
	if len(runID) > 8 {
		runID = runID[:8]
	}
	if runID == "" {
		runID = "na"
	}
	return fmt.Sprintf("timetable_%s_%s", resp.GeneratedAt.UTC().Format("20060102_150405"), runID)
}

func buildDatasets(resp *dto.GenerateTimetableResponse) (scheduled, unscheduled, summary export.Dataset) {
	scheduled = export.Dataset{
		Name:    "Scheduled",
		Headers: []string{"Class ID", "Subject", "Teacher ID", "Teacher", "Room", "Day", "Start", "End"},
		Rows:    make([][]string, 0, len(resp.Result.Scheduled)),
	}
	for _, c := range resp.Result.Scheduled {
		scheduled.Rows = append(scheduled.Rows, []string{
			c.ClassID, c.Subject, c.TeacherID, c.TeacherName, c.Room, string(c.Day),
			c.Start.Format("15:04"), c.End.Format("15:04"),
		})
	}

	unscheduled = export.Dataset{
		Name:    "Unscheduled",
		Headers: []string{"Class ID", "Reason", "Message"},
		Rows:    make([][]string, 0, len(resp.Result.Unscheduled)),
	}
	for _, u := range resp.Result.Unscheduled {
		unscheduled.Rows = append(unscheduled.Rows, []string{u.ClassID, string(u.Reason), u.Reason.Message()})
	}

	summary = export.Dataset{
		Name:    "Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Run ID", resp.RunID},
			{"Generated At", resp.GeneratedAt.UTC().Format(time.RFC3339)},
			{"Scheduled", strconv.Itoa(resp.Summary.Scheduled)},
			{"Unscheduled", strconv.Itoa(resp.Summary.Unscheduled)},
		},
	}
	for _, reason := range models.Reasons {
		summary.Rows = append(summary.Rows, []string{"Unscheduled: " + string(reason), strconv.Itoa(resp.Summary.ByReason[reason])})
	}
	return scheduled, unscheduled, summary
}
