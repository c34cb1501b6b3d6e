package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSX reads and writes Office Open XML workbooks.
type XLSX struct{}

// ReadRows implements Reader using the workbook's active sheet.
func (XLSX) ReadRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no active sheet", path)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// WriteSheet implements Writer. The workbook holds exactly one sheet.
func (XLSX) WriteSheet(path, sheet string, rows [][]Cell) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	styles := make(map[Style]int)
	styleID := func(s Style) (int, error) {
		if id, ok := styles[s]; ok {
			return id, nil
		}
		def := &excelize.Style{}
		if s.Bold {
			def.Font = &excelize.Font{Bold: true}
		}
		if s.Fill != "" {
			def.Fill = excelize.Fill{Type: "pattern", Color: []string{s.Fill}, Pattern: 1}
		}
		id, err := f.NewStyle(def)
		if err != nil {
			return 0, err
		}
		styles[s] = id
		return id, nil
	}

	for r, row := range rows {
		for c, cell := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			switch {
			case cell.Formula != "":
				if err := f.SetCellFormula(sheet, ref, cell.Formula); err != nil {
					return fmt.Errorf("failed to set formula %s: %w", ref, err)
				}
			case cell.Value != nil:
				if err := f.SetCellValue(sheet, ref, cell.Value); err != nil {
					return fmt.Errorf("failed to set %s: %w", ref, err)
				}
			}
			if cell.Style == (Style{}) {
				continue
			}
			id, err := styleID(cell.Style)
			if err != nil {
				return fmt.Errorf("failed to create style: %w", err)
			}
			if err := f.SetCellStyle(sheet, ref, ref, id); err != nil {
				return fmt.Errorf("failed to style %s: %w", ref, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

var (
	_ Reader = XLSX{}
	_ Writer = XLSX{}
)
