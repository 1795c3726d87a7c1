package punch

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maruclean/punchbook/internal/tabular"
)

// Accepted datetime encodings for the combined "punch date" + "attendance
// record" columns. The vendor switched the date format mid-2024, so both are
// tried in order.
const (
	isoLayout = "2006-01-02 15:04:05"
	usLayout  = "01/02/2006 15:04:05"
)

// Punch is a single clock event for one person.
type Punch struct {
	PersonID   string
	PersonName string
	Date       string
	Timestamp  time.Time
}

// DayRecord is the derived one-row-per-person-per-day summary.
type DayRecord struct {
	PersonID   string
	PersonName string
	Location   string
	Date       string
	Start      time.Time
	End        time.Time
	Hours      decimal.Decimal
	Details    string
}

// PersonSheet holds one person's day records, sorted by date ascending.
type PersonSheet struct {
	PersonID   string
	PersonName string
	Days       []DayRecord
}

// RawRow is one row of the punch export before datetime validation.
type RawRow struct {
	PersonID   string
	PersonName string
	Date       string
	Time       string
}

// ParseExport extracts raw punch rows from the tabular export. A missing
// required column is fatal; no partial output is produced downstream.
func ParseExport(rows [][]string) ([]RawRow, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("export is empty")
	}

	headerIndex := tabular.HeaderIndex(rows[0])
	idIdx, ok := headerIndex["person id"]
	if !ok {
		return nil, fmt.Errorf("missing required column: person id")
	}
	nameIdx, ok := headerIndex["person name"]
	if !ok {
		return nil, fmt.Errorf("missing required column: person name")
	}
	dateIdx, ok := headerIndex["punch date"]
	if !ok {
		return nil, fmt.Errorf("missing required column: punch date")
	}
	timeIdx, ok := headerIndex["attendance record"]
	if !ok {
		return nil, fmt.Errorf("missing required column: attendance record")
	}

	var out []RawRow
	for _, row := range rows[1:] {
		out = append(out, RawRow{
			PersonID:   tabular.CellValue(row, idIdx),
			PersonName: tabular.CellValue(row, nameIdx),
			Date:       tabular.CellValue(row, dateIdx),
			Time:       tabular.CellValue(row, timeIdx),
		})
	}
	return out, nil
}

// NormalizeResult carries the valid punches plus the count of rows whose
// datetime could not be parsed. Callers report the count once, not per row.
type NormalizeResult struct {
	Punches []Punch
	Dropped int
}

// Normalize validates every raw row's datetime. This is the only datetime
// validation boundary; downstream components assume valid timestamps.
func Normalize(rows []RawRow) NormalizeResult {
	var result NormalizeResult
	for _, row := range rows {
		ts, ok := parseTimestamp(row.Date, row.Time)
		if !ok {
			result.Dropped++
			continue
		}
		result.Punches = append(result.Punches, Punch{
			PersonID:   row.PersonID,
			PersonName: row.PersonName,
			Date:       row.Date,
			Timestamp:  ts,
		})
	}
	return result
}

func parseTimestamp(date, clock string) (time.Time, bool) {
	combined := date + " " + clock
	if ts, err := time.Parse(isoLayout, combined); err == nil {
		return ts, true
	}
	if ts, err := time.Parse(usLayout, combined); err == nil {
		return ts, true
	}
	return time.Time{}, false
}
