// Package rates loads the supplementary per-person rate table kept next to
// the punch exports. The table is optional: a missing file or a missing row
// both resolve to a zero-valued entry so the workbook still gets built.
package rates

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maruclean/punchbook/internal/tabular"
)

// Entry is one person's row from the rate table.
type Entry struct {
	PersonID string
	Rate     decimal.Decimal
	Start    *time.Time
	Extra    decimal.Decimal
	Details  string
}

// Table holds the loaded rate entries keyed by person id.
type Table struct {
	entries map[string]Entry
}

// startLayouts are tried in order for the billing start date column. A value
// matching none of them is treated as absent, not as an error.
var startLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02 15:04:05",
}

// DefaultPath returns the conventional rate-table location: fileName in the
// parent directory of the punch export.
func DefaultPath(inputPath, fileName string) string {
	dir := filepath.Dir(inputPath)
	return filepath.Join(filepath.Dir(dir), fileName)
}

// Load reads the rate table at path. A missing file is not fatal: it logs a
// warning and returns an empty table so every lookup defaults to zero.
func Load(path string, logger *slog.Logger) (*Table, error) {
	rows, err := tabular.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("rate table not found, all rates default to $0", "path", path)
			return &Table{entries: map[string]Entry{}}, nil
		}
		return nil, err
	}
	return Parse(rows)
}

// Parse builds a table from raw rows. Columns ID, RATE, START, EXTRA and
// DETAILS are all required; a table missing any of them is fatal rather than
// silently zeroing every rate. At most one entry per person is assumed;
// later rows win.
func Parse(rows [][]string) (*Table, error) {
	table := &Table{entries: map[string]Entry{}}
	if len(rows) == 0 {
		return table, nil
	}

	headerIndex := tabular.HeaderIndex(rows[0])
	idIdx, ok := headerIndex["id"]
	if !ok {
		return nil, fmt.Errorf("rate table missing required column: id")
	}
	rateIdx, ok := headerIndex["rate"]
	if !ok {
		return nil, fmt.Errorf("rate table missing required column: rate")
	}
	startIdx, ok := headerIndex["start"]
	if !ok {
		return nil, fmt.Errorf("rate table missing required column: start")
	}
	extraIdx, ok := headerIndex["extra"]
	if !ok {
		return nil, fmt.Errorf("rate table missing required column: extra")
	}
	detailsIdx, ok := headerIndex["details"]
	if !ok {
		return nil, fmt.Errorf("rate table missing required column: details")
	}

	for _, row := range rows[1:] {
		id := tabular.CellValue(row, idIdx)
		if id == "" {
			continue
		}
		table.entries[id] = Entry{
			PersonID: id,
			Rate:     parseAmount(tabular.CellValue(row, rateIdx)),
			Start:    parseStart(tabular.CellValue(row, startIdx)),
			Extra:    parseAmount(tabular.CellValue(row, extraIdx)),
			Details:  tabular.CellValue(row, detailsIdx),
		}
	}
	return table, nil
}

// Resolve is total: an unknown person id yields a zero-valued entry.
func (t *Table) Resolve(personID string) Entry {
	if entry, ok := t.entries[personID]; ok {
		return entry
	}
	return Entry{PersonID: personID}
}

// Len reports how many entries were loaded.
func (t *Table) Len() int {
	return len(t.entries)
}

func parseAmount(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return amount
}

func parseStart(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range startLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed
		}
	}
	return nil
}
