package service

import (
	"context"
	"fmt"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
)

type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatPDF  ExportFormat = "pdf"
)

type GridRenderer interface {
	Generate(grid *model.WeeklyGrid) ([]byte, error)
}

type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

type ExportService struct {
	attendance *AttendanceService
	renderers  map[ExportFormat]GridRenderer
}

func NewExportService(attendance *AttendanceService, xlsx GridRenderer, pdf GridRenderer) *ExportService {
	return &ExportService{
		attendance: attendance,
		renderers: map[ExportFormat]GridRenderer{
			ExportFormatXLSX: xlsx,
			ExportFormatPDF:  pdf,
		},
	}
}

// ExportWeekly builds the weekly grid and renders it in the requested format.
func (s *ExportService) ExportWeekly(ctx context.Context, input WeeklyGridInput, format ExportFormat) (*ExportResult, error) {
	renderer, ok := s.renderers[format]
	if !ok || renderer == nil {
		return nil, invalid("format", fmt.Sprintf("%q is not supported", format))
	}

	grid, err := s.attendance.GetWeeklyGrid(ctx, input)
	if err != nil {
		return nil, err
	}

	content, err := renderer.Generate(grid)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	return &ExportResult{
		FileName:    fmt.Sprintf("attendance_%s.%s", grid.WeekLabel, format),
		ContentType: contentType(format),
		Content:     content,
	}, nil
}

func contentType(format ExportFormat) string {
	switch format {
	case ExportFormatPDF:
		return "application/pdf"
	default:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
}
