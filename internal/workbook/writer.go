package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet   = "Summary"
	currencyFormat = "$#,##0.00"
	softRedFill    = "FF9999"
	lightGreenFill = "CCFFCC"
)

// Workbook wraps the output file being assembled. The summary sheet is
// created first so it lands on the first tab; person sheets follow in the
// order they are added.
type Workbook struct {
	file   *excelize.File
	styles map[StyleID]int
	sheets map[string]bool
}

func New() (*Workbook, error) {
	file := excelize.NewFile()
	if err := file.SetSheetName(file.GetSheetName(0), summarySheet); err != nil {
		return nil, err
	}

	styles, err := buildStyles(file)
	if err != nil {
		return nil, err
	}

	wb := &Workbook{file: file, styles: styles, sheets: map[string]bool{}}
	if err := file.SetColWidth(summarySheet, "A", "A", 35); err != nil {
		return nil, err
	}
	if err := file.SetColWidth(summarySheet, "B", "D", 18); err != nil {
		return nil, err
	}
	return wb, nil
}

// AddPersonSheet creates a worksheet and applies the computed cells and
// merged ranges. Names that collide after truncation are rejected: excelize
// hands back the existing sheet on a repeat NewSheet, which would silently
// overwrite the first person's cells.
func (wb *Workbook) AddPersonSheet(name string, cells []Cell, merges []Merge) error {
	if wb.sheets[name] {
		return fmt.Errorf("duplicate sheet name %q", name)
	}
	wb.sheets[name] = true
	if _, err := wb.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	if err := wb.applyCells(name, cells); err != nil {
		return err
	}
	for _, merge := range merges {
		topLeft, err := excelize.CoordinatesToCellName(merge.FirstCol+1, merge.FirstRow+1)
		if err != nil {
			return err
		}
		bottomRight, err := excelize.CoordinatesToCellName(merge.LastCol+1, merge.LastRow+1)
		if err != nil {
			return err
		}
		if err := wb.file.MergeCell(name, topLeft, bottomRight); err != nil {
			return fmt.Errorf("merge %s:%s on %q: %w", topLeft, bottomRight, name, err)
		}
	}
	if err := wb.file.SetColWidth(name, "A", "D", 20); err != nil {
		return err
	}
	return wb.file.SetColWidth(name, "E", "F", 30)
}

// WriteSummary fills the Summary sheet.
func (wb *Workbook) WriteSummary(cells []Cell) error {
	return wb.applyCells(summarySheet, cells)
}

func (wb *Workbook) SaveAs(path string) error {
	return wb.file.SaveAs(path)
}

func (wb *Workbook) Close() error {
	return wb.file.Close()
}

func (wb *Workbook) applyCells(sheet string, cells []Cell) error {
	for _, cell := range cells {
		axis, err := excelize.CoordinatesToCellName(cell.Col+1, cell.Row+1)
		if err != nil {
			return err
		}
		if cell.Formula != "" {
			if err := wb.file.SetCellFormula(sheet, axis, cell.Formula); err != nil {
				return fmt.Errorf("set formula %s!%s: %w", sheet, axis, err)
			}
		} else {
			if err := wb.file.SetCellValue(sheet, axis, cell.Value); err != nil {
				return fmt.Errorf("set value %s!%s: %w", sheet, axis, err)
			}
		}
		if cell.Style != StyleNone {
			styleID, ok := wb.styles[cell.Style]
			if !ok {
				return fmt.Errorf("unknown style %d", cell.Style)
			}
			if err := wb.file.SetCellStyle(sheet, axis, axis, styleID); err != nil {
				return fmt.Errorf("set style %s!%s: %w", sheet, axis, err)
			}
		}
	}
	return nil
}

func buildStyles(file *excelize.File) (map[StyleID]int, error) {
	numFmt := currencyFormat
	thin := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}

	definitions := map[StyleID]*excelize.Style{
		StyleHeader: {
			Font:   &excelize.Font{Bold: true},
			Border: thin,
		},
		StyleCurrency: {
			CustomNumFmt: &numFmt,
		},
		StyleSoftRedCurrency: {
			CustomNumFmt: &numFmt,
			Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{softRedFill}},
		},
		StyleGreenText: {
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{lightGreenFill}},
		},
		StyleGreenCurrency: {
			CustomNumFmt: &numFmt,
			Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{lightGreenFill}},
		},
	}

	styles := map[StyleID]int{}
	for id, definition := range definitions {
		styleID, err := file.NewStyle(definition)
		if err != nil {
			return nil, err
		}
		styles[id] = styleID
	}
	return styles, nil
}
