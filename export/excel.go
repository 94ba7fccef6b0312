// Package export serializes the project collection into spreadsheet form.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"statedash/models"
)

const sheetName = "Projects"

// column pairs a fixed header with its display width. Order here is the
// column order in the workbook.
type column struct {
	header string
	width  float64
}

var columns = []column{
	{"ID", 38},
	{"Name", 30},
	{"State", 18},
	{"Type", 16},
	{"Status", 14},
	{"Start Date", 12},
	{"End Date", 12},
	{"Budget (RM)", 16},
	{"Disbursed (RM)", 16},
	{"Contractor", 24},
	{"Location", 20},
	{"Branch", 16},
	{"Officer", 18},
	{"Description", 40},
	{"Progress (%)", 13},
	{"Planned Progress (%)", 13},
	{"Created At", 12},
	{"Updated At", 12},
}

// EncodeProjects renders the full project collection into an xlsx workbook,
// one row per project in the order given. Timestamps are rendered as
// calendar dates and numeric fields as numbers. Zero projects still yields
// a valid workbook with the header row.
func EncodeProjects(projects []models.Project) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %v", err)
		}
		if err := f.SetCellValue(sheetName, cell, col.header); err != nil {
			return nil, fmt.Errorf("failed to write header %s: %v", col.header, err)
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, name, name, col.width); err != nil {
			return nil, fmt.Errorf("failed to set width of column %s: %v", name, err)
		}
	}

	for rowIdx, p := range projects {
		row := rowIdx + 2
		values := []interface{}{
			p.ID, p.Name, p.StateID, p.Type, p.Status, p.StartDate,
			p.EndDate, p.Budget, p.Disbursed, p.Contractor, p.Location,
			p.Branch, p.Officer, p.Description, p.Progress,
			p.PlannedProgress,
			p.CreatedAt.Format("2006-01-02"),
			p.UpdatedAt.Format("2006-01-02"),
		}
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell for row %d: %v", row, err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %v", row, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %v", err)
	}
	return buf.Bytes(), nil
}
