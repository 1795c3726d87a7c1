package workbook

import (
	"fmt"
	"strings"
)

// Column positions on a person sheet. The value column carries every numeric
// amount; the details column carries free text.
const (
	colLocation = 0
	colDate     = 1
	colStart    = 2
	colEnd      = 3
	colValue    = 4 // column E
	colDetails  = 5 // column F
)

// StyleID names a workbook style; the writer maps them to excelize styles.
type StyleID int

const (
	StyleNone StyleID = iota
	StyleHeader
	StyleCurrency
	StyleSoftRedCurrency
	StyleGreenText
	StyleGreenCurrency
)

// Cell is one pending cell write. Formula cells carry a formula expression
// (no leading "="); all other cells carry a literal value.
type Cell struct {
	Row     int // 0-based
	Col     int // 0-based
	Value   any
	Formula string
	Style   StyleID
}

// Merge is a pending merged-cell range, 0-based inclusive on both ends.
type Merge struct {
	FirstRow, FirstCol int
	LastRow, LastCol   int
}

// valueRef formats a 1-based A1 reference into the value column, e.g. "E7"
// for 0-based row 6.
func valueRef(row int) string {
	return fmt.Sprintf("E%d", row+1)
}

// valueRange formats a 1-based range in the value column over 0-based rows.
func valueRange(first, last int) string {
	return fmt.Sprintf("E%d:E%d", first+1, last+1)
}

// dateRange formats a 1-based range in the daily table's date column.
func dateRange(first, last int) string {
	return fmt.Sprintf("B%d:B%d", first+1, last+1)
}

// quoteSheetName wraps a sheet name in single quotes for use in cross-sheet
// formulas, doubling any embedded quote.
func quoteSheetName(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
