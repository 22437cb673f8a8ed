package excel

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mishab-ka/fleetwave-portal-sub002/internal/model"
)

const (
	summarySheet = "Summary"
	gridSheet    = "Grid"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders a weekly grid as a workbook with a totals sheet and a colour-coded grid sheet.
func (g *Generator) Generate(grid *model.WeeklyGrid) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if err := g.writeSummary(file, grid); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(gridSheet); err != nil {
		return nil, err
	}
	if err := g.writeGrid(file, grid); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, grid *model.WeeklyGrid) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Week")
	set("B1", grid.WeekLabel)
	set("A2", "Start")
	set("B2", formatDate(firstDate(grid)))
	set("A3", "End")
	set("B3", formatDate(lastDate(grid)))
	set("A4", "Vehicles")
	set("B4", len(grid.Vehicles))
	set("A5", "Cells")
	set("B5", grid.Totals.Sum())

	tableRow := 7
	set(fmt.Sprintf("A%d", tableRow), "Status")
	set(fmt.Sprintf("B%d", tableRow), "Total")

	for i, status := range model.AllStatuses {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), status.Attributes().Label)
		set(fmt.Sprintf("B%d", row), grid.Totals[status])

		style, err := fillStyle(file, status)
		if err != nil {
			return err
		}
		cell := fmt.Sprintf("A%d", row)
		if err := file.SetCellStyle(summarySheet, cell, cell, style); err != nil {
			return err
		}
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 20)
	_ = file.SetColWidth(summarySheet, "B", "B", 16)
	return nil
}

func (g *Generator) writeGrid(file *excelize.File, grid *model.WeeklyGrid) error {
	set := func(col, row int, value interface{}) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = file.SetCellValue(gridSheet, cell, value)
	}

	headerRow := 1
	set(1, headerRow, "Vehicle")
	col := 2
	for _, date := range grid.Dates {
		for _, shift := range grid.Shifts {
			set(col, headerRow, columnTitle(date, shift, len(grid.Shifts)))
			col++
		}
	}
	for _, status := range model.AllStatuses {
		set(col, headerRow, status.Attributes().Label)
		col++
	}

	styles := make(map[model.OperatingStatus]int, len(model.AllStatuses))
	for _, status := range model.AllStatuses {
		style, err := fillStyle(file, status)
		if err != nil {
			return err
		}
		styles[status] = style
	}

	for i, code := range grid.Vehicles {
		row := headerRow + 1 + i
		set(1, row, code)
		col := 2
		for _, date := range grid.Dates {
			for _, shift := range grid.Shifts {
				cell, ok := grid.Cell(model.SlotKey{VehicleCode: code, Date: date, Shift: shift})
				if ok {
					set(col, row, cell.Status.Attributes().Label)
					name, _ := excelize.CoordinatesToCellName(col, row)
					if err := file.SetCellStyle(gridSheet, name, name, styles[cell.Status]); err != nil {
						return err
					}
				}
				col++
			}
		}
		totals := grid.VehicleTotals[code]
		for _, status := range model.AllStatuses {
			set(col, row, totals[status])
			col++
		}
	}

	_ = file.SetColWidth(gridSheet, "A", "A", 16)
	_ = file.SetPanes(gridSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      1,
		TopLeftCell: "B2",
		ActivePane:  "bottomRight",
	})
	return nil
}

func fillStyle(file *excelize.File, status model.OperatingStatus) (int, error) {
	return file.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{status.Attributes().Color},
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
}

func columnTitle(date time.Time, shift model.Shift, shiftCount int) string {
	if shiftCount <= 1 {
		return date.Format("Mon 02 Jan")
	}
	return fmt.Sprintf("%s %s", date.Format("Mon 02 Jan"), shift)
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
		return ""
	}
	return t.Format("2006-01-02")
}
