// Package export runs the punch-to-workbook pipeline end to end:
// read and normalize the punch export, aggregate per-person days, resolve
// rates, lay out one sheet per person, then finalize the summary sheet and
// persist the workbook in a single write phase.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/maruclean/punchbook/internal/config"
	"github.com/maruclean/punchbook/internal/punch"
	"github.com/maruclean/punchbook/internal/rates"
	"github.com/maruclean/punchbook/internal/tabular"
	"github.com/maruclean/punchbook/internal/workbook"
)

// periodDays is the billing-period length shown in sheet headers: the
// injected end date minus six days gives the start.
const periodDays = 6

// Options carries one run's parameters. PeriodEnd and Now are injected by
// the caller; RatesPath falls back to the conventional location next to the
// input when empty.
type Options struct {
	InputPath  string
	OutputPath string
	RatesPath  string
	PeriodEnd  *time.Time
	Now        time.Time
	Config     config.Config
	Logger     *slog.Logger
}

// Run executes a complete export. Any failure aborts the run; no partial
// workbook is written.
func Run(opts Options) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	rows, err := tabular.ReadFile(opts.InputPath)
	if err != nil {
		return fmt.Errorf("read punch export %s: %w", opts.InputPath, err)
	}
	rawRows, err := punch.ParseExport(rows)
	if err != nil {
		return fmt.Errorf("parse punch export %s: %w", opts.InputPath, err)
	}

	normalized := punch.Normalize(rawRows)
	if normalized.Dropped > 0 {
		logger.Warn("skipped rows with unparseable datetimes", "count", normalized.Dropped)
	}

	sheets := punch.AggregateDays(normalized.Punches, opts.Config.Location)

	ratesPath := opts.RatesPath
	if ratesPath == "" {
		ratesPath = rates.DefaultPath(opts.InputPath, opts.Config.RatesFile)
	}
	table, err := rates.Load(ratesPath, logger)
	if err != nil {
		return fmt.Errorf("read rate table %s: %w", ratesPath, err)
	}

	wb, err := workbook.New()
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	defer wb.Close()

	layoutOpts := workbook.LayoutOptions{
		Sections:     layoutSections(opts.Config.Sections),
		Period:       period(opts.PeriodEnd),
		Now:          now,
		WithholdRate: opts.Config.Withholding.Rate,
		AnnualLimit:  opts.Config.Withholding.AnnualLimit,
		PromoDays:    opts.Config.Withholding.PromoDays,
	}

	summaryRows := make([]workbook.SummaryRow, 0, len(sheets))
	for _, sheet := range sheets {
		entry := table.Resolve(sheet.PersonID)
		layout, cells, merges := workbook.LayoutPersonSheet(sheet, entry, layoutOpts)
		if err := wb.AddPersonSheet(layout.SheetName, cells, merges); err != nil {
			return err
		}
		summaryRows = append(summaryRows, workbook.SummaryRowFor(layout))
	}

	if err := wb.WriteSummary(workbook.LayoutSummary(summaryRows)); err != nil {
		return err
	}

	if err := wb.SaveAs(opts.OutputPath); err != nil {
		return fmt.Errorf("write workbook %s: %w", opts.OutputPath, err)
	}
	logger.Info("workbook written", "path", opts.OutputPath, "sheets", len(sheets))
	return nil
}

func period(end *time.Time) *workbook.Period {
	if end == nil {
		return nil
	}
	return &workbook.Period{
		Start: end.AddDate(0, 0, -periodDays),
		End:   *end,
	}
}

func layoutSections(sections []config.Section) []workbook.Section {
	out := make([]workbook.Section, 0, len(sections))
	for _, section := range sections {
		out = append(out, workbook.Section{
			Name:         section.Name,
			Placeholders: section.Placeholders,
		})
	}
	return out
}
