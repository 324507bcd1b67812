package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// XLSXExporter renders each dataset into its own worksheet.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render builds a workbook with one sheet per dataset, named after it.
func (e *XLSXExporter) Render(sections ...Dataset) ([]byte, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one dataset")
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, section := range sections {
		if err := section.validate(); err != nil {
			return nil, err
		}
		name := section.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if name != defaultSheet {
			if _, err := f.NewSheet(name); err != nil {
				return nil, fmt.Errorf("create sheet %s: %w", name, err)
			}
		}

		if err := f.SetSheetRow(name, "A1", &section.Headers); err != nil {
			return nil, fmt.Errorf("write %s headers: %w", name, err)
		}
		lastCol, err := excelize.ColumnNumberToName(len(section.Headers))
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(name, "A1", lastCol+"1", headerStyle); err != nil {
			return nil, fmt.Errorf("style %s headers: %w", name, err)
		}
		if err := f.SetColWidth(name, "A", lastCol, 18); err != nil {
			return nil, fmt.Errorf("size %s columns: %w", name, err)
		}

		for r, row := range section.Rows {
			cells := make([]interface{}, len(row))
			for c, value := range row {
				cells[c] = value
			}
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(name, cell, &cells); err != nil {
				return nil, fmt.Errorf("write %s row %d: %w", name, r+1, err)
			}
		}
	}

	if !hasSheet(sections, defaultSheet) {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return nil, fmt.Errorf("drop default sheet: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func hasSheet(sections []Dataset, name string) bool {
	for _, section := range sections {
		if section.Name == name {
			return true
		}
	}
	return false
}
