// Package export renders employee rosters as spreadsheets.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/staffkit/staff-admin/internal/domain"
)

// RosterSheet is the name of the single worksheet in a roster workbook.
const RosterSheet = "Empleados"

// RosterHeader lists the columns of the list view, in order.
var RosterHeader = []string{"ID", "NOMBRE", "EMAIL", "SEXO", "AREA", "BOLETIN", "DESCRIPCION"}

var columnWidths = []float64{8, 30, 30, 8, 25, 10, 50}

// Roster builds an .xlsx workbook with one row per employee.
func Roster(list []domain.EmployeeSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(RosterSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range RosterHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(RosterSheet, cell, header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(RosterSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}
		colName, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(RosterSheet, colName, colName, columnWidths[col]); err != nil {
			return nil, err
		}
	}

	for i, emp := range list {
		row := []any{emp.ID, emp.Name, emp.Email, string(emp.Sex), emp.AreaName, boolToInt(emp.Subscribed), emp.Description}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(RosterSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
