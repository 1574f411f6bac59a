package httpapi

import (
	"bytes"
	"fmt"

	"mindcare/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ClientExportHeader is the column order of the client export.
var ClientExportHeader = []string{
	"Name",
	"Phone",
	"Emergency Phone",
	"Email",
	"Gender",
	"Birth Date",
	"Age",
	"Main Problem",
	"Created At",
}

var clientExportWidths = []float64{
	28, // Name
	18, // Phone
	18, // Emergency Phone
	28, // Email
	12, // Gender
	14, // Birth Date
	8,  // Age
	40, // Main Problem
	20, // Created At
}

const clientSheet = "Clients"

// GenerateClientExport writes one row per client. An empty list yields only the header.
func GenerateClientExport(clients []domain.ClientView) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close is not deferred

	index, err := f.NewSheet(clientSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range ClientExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(clientSheet, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(clientSheet, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for i, width := range clientExportWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(clientSheet, col, col, width); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for rowIdx, c := range clients {
		row := rowIdx + 2
		values := []any{
			c.Name,
			c.Phone,
			c.EmergencyPhone,
			c.Email,
			c.Gender,
			c.BirthDate.FormatBR(),
			c.Age,
			c.MainProblem,
			c.CreatedAt.Format("02/01/2006 15:04"),
		}
		for colIdx, v := range values {
			if s, ok := v.(string); ok && s == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(colIdx+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(clientSheet, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell value at row %d, col %d: %w", row, colIdx+1, err)
			}
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write excel file: %w", err)
	}
	f.Close()
	return buf.Bytes(), nil
}
