package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Generate renders the weekly totals and a per-vehicle breakdown on landscape A4.
func (g *Generator) Generate(grid *model.WeeklyGrid) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "Weekly vehicle attendance", "", 1, "C", false, 0, "")

	pdf.SetFont(g.fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("%s (%s - %s)", grid.WeekLabel, formatDate(firstDate(grid)), formatDate(lastDate(grid))), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Vehicles: %d, cells: %d", len(grid.Vehicles), grid.Totals.Sum()), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "Totals", "", 1, "L", false, 0, "")
	for _, status := range model.AllStatuses {
		g.legendRow(pdf, status, grid.Totals[status])
	}
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 8, "By vehicle", "", 1, "L", false, 0, "")

	headers := []string{"Vehicle"}
	widths := []float64{43}
	for _, status := range model.AllStatuses {
		headers = append(headers, status.Attributes().Label)
		widths = append(widths, 32)
	}
	drawTableRow(pdf, g.fontName, headers, widths, true)
	for _, code := range grid.Vehicles {
		totals := grid.VehicleTotals[code]
		row := []string{code}
		for _, status := range model.AllStatuses {
			row = append(row, strconv.Itoa(totals[status]))
		}
		drawTableRow(pdf, g.fontName, row, widths, false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) legendRow(pdf *gofpdf.Fpdf, status model.OperatingStatus, count int) {
	r, gr, b := hexToRGB(status.Attributes().Color)
	pdf.SetFillColor(r, gr, b)
	pdf.CellFormat(6, 6, "", "1", 0, "C", true, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(40, 6, " "+status.Attributes().Label, "", 0, "L", false, 0, "")
	pdf.CellFormat(20, 6, strconv.Itoa(count), "", 1, "R", false, 0, "")
}

func drawTableRow(pdf *gofpdf.Fpdf, fontName string, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 10)
	for i, col := range cols {
		align := "L"
		if i > 0 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func hexToRGB(hex string) (int, int, int) {
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || len(hex) != 6 {
		return 255, 255, 255
	}
	return int(value >> 16 & 0xFF), int(value >> 8 & 0xFF), int(value & 0xFF)
}

func firstDate(grid *model.WeeklyGrid) time.Time {
	if len(grid.Dates) == 0 {
		return time.Time{}
	}
	return grid.Dates[0]
}

func lastDate(grid *model.WeeklyGrid) time.Time {
	if len(grid.Dates) == 0 {
		return time.Time{}
	}
	return grid.Dates[len(grid.Dates)-1]
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}
