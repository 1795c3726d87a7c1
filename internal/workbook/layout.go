package workbook

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maruclean/punchbook/internal/punch"
	"github.com/maruclean/punchbook/internal/rates"
)

const (
	clockLayout = "15:04:05"
	dateLayout  = "2006-01-02"

	// Excel caps worksheet names at 31 characters.
	maxSheetNameLen = 31
)

// Section defines one supplementary expense block: a named header plus
// pre-filled placeholder line items with a hand-editable rate cell each.
type Section struct {
	Name         string
	Placeholders []string
}

// Period is the billing period shown in each sheet header. Start is derived
// by the caller as End minus six days.
type Period struct {
	Start time.Time
	End   time.Time
}

// LayoutOptions carries everything the layout engine needs beyond the punch
// data itself. Now is injected so the promotional-withholding rule is
// deterministic under test.
type LayoutOptions struct {
	Sections     []Section
	Period       *Period
	Now          time.Time
	WithholdRate float64
	AnnualLimit  int
	PromoDays    int
}

// SectionLayout records where one section landed, 0-based rows.
type SectionLayout struct {
	HeaderRow int
	DataStart int
	DataEnd   int
	TotalRow  int
}

// SheetLayout records every coordinate the summary sheet needs to reference
// back into a person sheet. All rows are 0-based; it is derived state,
// recomputed per person and never persisted.
type SheetLayout struct {
	SheetName     string
	DayCount      int
	TableHeadRow  int
	TotalHoursRow int
	RateRow       int
	RateTotalRow  int
	Sections      []SectionLayout
	ExtrasRow     int
	SubtotalRow   int
	LimitRow      int
	WithheldRow   int
	FinalTotalRow int
}

// rowCursor is the explicit row counter threaded through the layout. Every
// emitted block advances it; nothing hardcodes absolute offsets.
type rowCursor struct {
	row int
}

func (c *rowCursor) next() int {
	r := c.row
	c.row++
	return r
}

func (c *rowCursor) skip(n int) {
	c.row += n
}

// SheetName builds the worksheet label for one person, truncated to the
// platform limit.
func SheetName(personID, personName string) string {
	name := fmt.Sprintf("%s - %s", personID, personName)
	for _, forbidden := range `:\/?*[]` {
		name = strings.ReplaceAll(name, string(forbidden), " ")
	}
	runes := []rune(name)
	if len(runes) > maxSheetNameLen {
		name = string(runes[:maxSheetNameLen])
	}
	return name
}

// LayoutPersonSheet computes the full cell set and coordinate map for one
// person's sheet. The vertical order is fixed: identity header, daily table,
// hours/rate/total rows, the configured sections, then the summary block.
func LayoutPersonSheet(sheet punch.PersonSheet, entry rates.Entry, opts LayoutOptions) (SheetLayout, []Cell, []Merge) {
	layout := SheetLayout{
		SheetName: SheetName(sheet.PersonID, sheet.PersonName),
		DayCount:  len(sheet.Days),
	}
	var cells []Cell
	var merges []Merge
	cur := &rowCursor{}

	// Identity header block: info line, period line, one blank row.
	infoRow := cur.next()
	cells = append(cells,
		Cell{Row: infoRow, Col: 0, Value: fmt.Sprintf("Person ID: %s, Name: %s", sheet.PersonID, sheet.PersonName), Style: StyleGreenText},
		Cell{Row: infoRow, Col: 1, Value: "", Style: StyleGreenText},
	)
	periodRow := cur.next()
	if opts.Period != nil {
		cells = append(cells, Cell{Row: periodRow, Col: 0, Value: fmt.Sprintf(
			"Period: %s to %s",
			opts.Period.Start.Format(dateLayout),
			opts.Period.End.Format(dateLayout),
		)})
	}
	cur.skip(1)

	// Daily table.
	layout.TableHeadRow = cur.next()
	for col, title := range []string{"Location", "Date", "Start", "End", "Hours", "Details"} {
		cells = append(cells, Cell{Row: layout.TableHeadRow, Col: col, Value: title, Style: StyleHeader})
	}
	for _, day := range sheet.Days {
		row := cur.next()
		cells = append(cells,
			Cell{Row: row, Col: colLocation, Value: day.Location},
			Cell{Row: row, Col: colDate, Value: day.Date},
			Cell{Row: row, Col: colStart, Value: day.Start.Format(clockLayout)},
			Cell{Row: row, Col: colEnd, Value: day.End.Format(clockLayout)},
			Cell{Row: row, Col: colValue, Value: day.Hours.InexactFloat64()},
			Cell{Row: row, Col: colDetails, Value: day.Details},
		)
	}

	// Total hours is a computed literal, not a spreadsheet formula.
	layout.TotalHoursRow = cur.next()
	cells = append(cells,
		Cell{Row: layout.TotalHoursRow, Col: 0, Value: "Total hours"},
		Cell{Row: layout.TotalHoursRow, Col: colValue, Value: sheet.TotalHours().InexactFloat64()},
	)

	layout.RateRow = cur.next()
	cells = append(cells,
		Cell{Row: layout.RateRow, Col: 0, Value: "Rate $"},
		Cell{Row: layout.RateRow, Col: colValue, Value: entry.Rate.InexactFloat64(), Style: StyleCurrency},
	)

	layout.RateTotalRow = cur.next()
	cells = append(cells,
		Cell{Row: layout.RateTotalRow, Col: 0, Value: "Total $"},
		Cell{
			Row: layout.RateTotalRow, Col: colValue,
			Formula: fmt.Sprintf("%s * %s", valueRef(layout.RateRow), valueRef(layout.TotalHoursRow)),
			Style:   StyleCurrency,
		},
	)

	cur.skip(2)
	for _, section := range opts.Sections {
		sectionLayout := layoutSection(cur, section, &cells)
		layout.Sections = append(layout.Sections, sectionLayout)
		cur.skip(1)
	}

	// Summary block.
	summaryHeadRow := cur.next()
	cells = append(cells, Cell{Row: summaryHeadRow, Col: 0, Value: "Summary", Style: StyleHeader})
	merges = append(merges, Merge{FirstRow: summaryHeadRow, FirstCol: 0, LastRow: summaryHeadRow, LastCol: colDetails})

	excluded := exclusionApplies(entry.Start, opts.Now, opts.PromoDays)
	extras := entry.Extra
	limit := opts.AnnualLimit
	if excluded {
		extras = decimal.Zero
		limit = 0
	}

	layout.ExtrasRow = cur.next()
	cells = append(cells,
		Cell{Row: layout.ExtrasRow, Col: 0, Value: "Extras $"},
		Cell{Row: layout.ExtrasRow, Col: colValue, Value: extras.InexactFloat64(), Style: StyleCurrency},
	)
	if entry.Details != "" {
		cells = append(cells, Cell{Row: layout.ExtrasRow, Col: colDetails, Value: entry.Details})
	}

	layout.SubtotalRow = cur.next()
	layout.LimitRow = cur.next()
	layout.WithheldRow = cur.next()
	cur.skip(1)
	layout.FinalTotalRow = cur.next()

	subtotalParts := []string{valueRef(layout.RateTotalRow)}
	for _, sectionLayout := range layout.Sections {
		subtotalParts = append(subtotalParts, valueRef(sectionLayout.TotalRow))
	}
	subtotalParts = append(subtotalParts, valueRef(layout.ExtrasRow))
	cells = append(cells,
		Cell{Row: layout.SubtotalRow, Col: 0, Value: "Subtotal $"},
		Cell{
			Row: layout.SubtotalRow, Col: colValue,
			Formula: strings.Join(subtotalParts, " + "),
			Style:   StyleCurrency,
		},
	)

	limitStyle := StyleCurrency
	if excluded {
		limitStyle = StyleSoftRedCurrency
	}
	cells = append(cells,
		Cell{Row: layout.LimitRow, Col: 0, Value: fmt.Sprintf("Annual withheld, incl. today $ (limit $%d)", opts.AnnualLimit)},
		Cell{Row: layout.LimitRow, Col: colValue, Value: float64(limit), Style: limitStyle},
	)

	cells = append(cells,
		Cell{Row: layout.WithheldRow, Col: 0, Value: fmt.Sprintf("%d%% withheld today $", int(opts.WithholdRate*100))},
		Cell{
			Row: layout.WithheldRow, Col: colValue,
			Formula: fmt.Sprintf(
				"IF(%s=%d,ROUNDDOWN(%s*%.2f,2),0)",
				valueRef(layout.LimitRow), opts.AnnualLimit, valueRef(layout.SubtotalRow), opts.WithholdRate,
			),
			Style: StyleCurrency,
		},
	)

	cells = append(cells,
		Cell{Row: layout.FinalTotalRow, Col: 0, Value: "Total $"},
		Cell{
			Row: layout.FinalTotalRow, Col: colValue,
			Formula: fmt.Sprintf("%s - %s", valueRef(layout.SubtotalRow), valueRef(layout.WithheldRow)),
			Style:   StyleGreenCurrency,
		},
	)

	return layout, cells, merges
}

// layoutSection emits one supplementary section: header row, placeholder
// line items, and a total formula over the section's rate cells.
func layoutSection(cur *rowCursor, section Section, cells *[]Cell) SectionLayout {
	headerRow := cur.next()
	*cells = append(*cells, Cell{Row: headerRow, Col: 0, Value: section.Name, Style: StyleHeader})
	for i, title := range []string{"Date", "Check-in", "Check-out", "Rate $", "Details"} {
		*cells = append(*cells, Cell{Row: headerRow, Col: i + 1, Value: title, Style: StyleHeader})
	}

	dataStart := cur.row
	for _, label := range section.Placeholders {
		row := cur.next()
		if label != "" {
			*cells = append(*cells, Cell{Row: row, Col: 0, Value: label})
		}
	}
	dataEnd := cur.row - 1

	totalRow := cur.next()
	*cells = append(*cells,
		Cell{Row: totalRow, Col: 0, Value: "Total $"},
		Cell{
			Row: totalRow, Col: colValue,
			Formula: fmt.Sprintf("SUM(%s)", valueRange(dataStart, dataEnd)),
			Style:   StyleCurrency,
		},
	)

	return SectionLayout{
		HeaderRow: headerRow,
		DataStart: dataStart,
		DataEnd:   dataEnd,
		TotalRow:  totalRow,
	}
}

// exclusionApplies decides the promotional withholding suspension: with no
// known billing start date the rule never applies; otherwise it applies
// within the first promoDays days of billing or during January.
func exclusionApplies(start *time.Time, now time.Time, promoDays int) bool {
	if start == nil {
		return false
	}
	if now.Sub(*start) < time.Duration(promoDays)*24*time.Hour {
		return true
	}
	return now.Month() == time.January
}
