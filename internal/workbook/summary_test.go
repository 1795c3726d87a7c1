package workbook

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maruclean/punchbook/internal/rates"
)

func TestSummaryRowFor(t *testing.T) {
	layout, _, _ := LayoutPersonSheet(twoDaySheet(), rates.Entry{}, defaultLayoutOptions())
	row := SummaryRowFor(layout)

	require.Equal(t, "12 - Ana Lima", row.Label)
	require.Equal(t, "'12 - Ana Lima'!E7", row.HoursFormula)
	require.Equal(t, "'12 - Ana Lima'!E33", row.TotalFormula)
	require.Equal(t,
		`COUNTA('12 - Ana Lima'!B5:B6)+COUNTIF('12 - Ana Lima'!E13:E14,"<>")+COUNTIF('12 - Ana Lima'!E18:E19,"<>")+COUNTIF('12 - Ana Lima'!E23:E24,"<>")`,
		row.CleansFormula)
}

func TestSummaryRowQuotesEmbeddedQuote(t *testing.T) {
	sheet := twoDaySheet()
	sheet.PersonName = "Ana O'Hara"
	layout, _, _ := LayoutPersonSheet(sheet, rates.Entry{}, defaultLayoutOptions())

	row := SummaryRowFor(layout)
	require.Equal(t, "'12 - Ana O''Hara'!E7", row.HoursFormula)
}

func TestLayoutSummary(t *testing.T) {
	rows := []SummaryRow{
		{Label: "12 - Ana Lima", HoursFormula: "'12 - Ana Lima'!E7", CleansFormula: "COUNTA('12 - Ana Lima'!B5:B6)", TotalFormula: "'12 - Ana Lima'!E33"},
		{Label: "44 - Bea Cruz", HoursFormula: "'44 - Bea Cruz'!E7", CleansFormula: "COUNTA('44 - Bea Cruz'!B5:B6)", TotalFormula: "'44 - Bea Cruz'!E33"},
	}

	cells := LayoutSummary(rows)

	require.Equal(t, "Person", findCell(t, cells, 0, 0).Value)
	require.Equal(t, "12 - Ana Lima", findCell(t, cells, 1, 0).Value)
	require.Equal(t, "'12 - Ana Lima'!E7", findCell(t, cells, 1, 1).Formula)
	require.Equal(t, "44 - Bea Cruz", findCell(t, cells, 2, 0).Value)

	require.Equal(t, "All sheets total", findCell(t, cells, 3, 0).Value)
	require.Equal(t, "SUM(B2:B3)", findCell(t, cells, 3, 1).Formula)
	require.Equal(t, "SUM(C2:C3)", findCell(t, cells, 3, 2).Formula)
	require.Equal(t, "SUM(D2:D3)", findCell(t, cells, 3, 3).Formula)
	require.Equal(t, StyleGreenCurrency, findCell(t, cells, 3, 3).Style)
}

func TestLayoutSummarySinglePerson(t *testing.T) {
	rows := []SummaryRow{{Label: "12 - Ana Lima", HoursFormula: "'12 - Ana Lima'!E7", CleansFormula: "0", TotalFormula: "'12 - Ana Lima'!E33"}}
	cells := LayoutSummary(rows)
	require.Equal(t, "SUM(B2:B2)", findCell(t, cells, 2, 1).Formula)
}

func TestLayoutSummaryEmptyHasNoTotalsRow(t *testing.T) {
	cells := LayoutSummary(nil)
	require.Len(t, cells, 4) // header row only
	for _, cell := range cells {
		require.Zero(t, cell.Row)
	}
}

func TestSummaryReflectsVariablePlacement(t *testing.T) {
	// shifting section sizes must shift every cross-sheet reference
	opts := defaultLayoutOptions()
	opts.Sections = []Section{{Name: "Only", Placeholders: []string{"x"}}}
	opts.Now = time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

	layout, _, _ := LayoutPersonSheet(twoDaySheet(), rates.Entry{}, opts)
	row := SummaryRowFor(layout)
	require.Equal(t, "'12 - Ana Lima'!E7", row.HoursFormula)
	require.Equal(t, fmt.Sprintf("'12 - Ana Lima'!E%d", layout.FinalTotalRow+1), row.TotalFormula)
}
