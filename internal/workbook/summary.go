package workbook

import (
	"fmt"
	"strings"
)

// SummaryRow is the cross-sheet reference set for one person: total hours,
// the cleans count, and the final dollar total, all as formula expressions
// into that person's sheet.
type SummaryRow struct {
	Label         string
	HoursFormula  string
	CleansFormula string
	TotalFormula  string
}

// SummaryRowFor derives the summary references from a computed sheet layout.
// Cleans counts non-blank daily-table dates plus non-blank rate cells across
// every section.
func SummaryRowFor(layout SheetLayout) SummaryRow {
	sheetRef := quoteSheetName(layout.SheetName)

	parts := []string{cleansDailyCount(layout, sheetRef)}
	for _, section := range layout.Sections {
		parts = append(parts, fmt.Sprintf(
			`COUNTIF(%s!%s,"<>")`,
			sheetRef, valueRange(section.DataStart, section.DataEnd),
		))
	}

	return SummaryRow{
		Label:         layout.SheetName,
		HoursFormula:  fmt.Sprintf("%s!%s", sheetRef, valueRef(layout.TotalHoursRow)),
		CleansFormula: strings.Join(parts, "+"),
		TotalFormula:  fmt.Sprintf("%s!%s", sheetRef, valueRef(layout.FinalTotalRow)),
	}
}

func cleansDailyCount(layout SheetLayout, sheetRef string) string {
	if layout.DayCount == 0 {
		return "0"
	}
	first := layout.TableHeadRow + 1
	last := layout.TableHeadRow + layout.DayCount
	return fmt.Sprintf("COUNTA(%s!%s)", sheetRef, dateRange(first, last))
}

// LayoutSummary computes the cells of the Summary sheet: a header row, one
// row per person, and a trailing all-sheets total row when any person rows
// exist.
func LayoutSummary(rows []SummaryRow) []Cell {
	var cells []Cell
	for col, title := range []string{"Person", "Total Hours", "Total Cleans", "Total $"} {
		cells = append(cells, Cell{Row: 0, Col: col, Value: title, Style: StyleHeader})
	}

	for i, row := range rows {
		r := i + 1
		cells = append(cells,
			Cell{Row: r, Col: 0, Value: row.Label},
			Cell{Row: r, Col: 1, Formula: row.HoursFormula},
			Cell{Row: r, Col: 2, Formula: row.CleansFormula},
			Cell{Row: r, Col: 3, Formula: row.TotalFormula, Style: StyleCurrency},
		)
	}

	if len(rows) > 0 {
		totalRow := len(rows) + 1
		cells = append(cells,
			Cell{Row: totalRow, Col: 0, Value: "All sheets total", Style: StyleHeader},
			Cell{Row: totalRow, Col: 1, Formula: fmt.Sprintf("SUM(B2:B%d)", totalRow)},
			Cell{Row: totalRow, Col: 2, Formula: fmt.Sprintf("SUM(C2:C%d)", totalRow)},
			Cell{Row: totalRow, Col: 3, Formula: fmt.Sprintf("SUM(D2:D%d)", totalRow), Style: StyleGreenCurrency},
		)
	}
	return cells
}
