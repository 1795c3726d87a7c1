package export

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/maruclean/punchbook/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		Location:  "Maru",
		RatesFile: "timesheet-rates.csv",
		Sections:  config.DefaultSections(),
		Withholding: config.Withholding{
			Rate:        0.10,
			AnnualLimit: 500,
			PromoDays:   28,
		},
	}
}

func writeFixtures(t *testing.T, punchCSV, ratesCSV string) (inputPath, outputPath string) {
	t.Helper()
	root := t.TempDir()
	exportDir := filepath.Join(root, "week-10")
	require.NoError(t, os.MkdirAll(exportDir, 0o755))

	inputPath = filepath.Join(exportDir, "punches-03-09-2024.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(punchCSV), 0o644))
	if ratesCSV != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "timesheet-rates.csv"), []byte(ratesCSV), 0o644))
	}
	return inputPath, filepath.Join(root, "payroll.xlsx")
}

const punchFixture = "Person ID,Person Name,Punch Date,Attendance record\n" +
	"12,Ana Lima,2024-03-05,08:00:00\n" +
	"12,Ana Lima,2024-03-05,16:30:00\n" +
	"12,Ana Lima,2024-03-06,09:00:00\n" +
	"12,Ana Lima,2024-03-06,13:00:00\n" +
	"44,Bea Cruz,2024-03-05,07:00:00\n" +
	"44,Bea Cruz,2024-03-05,15:00:00\n"

const ratesFixture = "ID,RATE,START,EXTRA,DETAILS\n" +
	"12,20,2023-01-15,40,keys for unit 3\n"

func TestRunWritesWorkbook(t *testing.T) {
	inputPath, outputPath := writeFixtures(t, punchFixture, ratesFixture)

	periodEnd := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	err := Run(Options{
		InputPath:  inputPath,
		OutputPath: outputPath,
		PeriodEnd:  &periodEnd,
		Now:        time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Config:     testConfig(),
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, "Summary", f.GetSheetName(0))
	require.Equal(t, []string{"Summary", "12 - Ana Lima", "44 - Bea Cruz"}, f.GetSheetList())

	// person sheet content
	sheet := "12 - Ana Lima"
	header, err := f.GetCellValue(sheet, "A1")
	require.NoError(t, err)
	require.Equal(t, "Person ID: 12, Name: Ana Lima", header)

	period, err := f.GetCellValue(sheet, "A2")
	require.NoError(t, err)
	require.Equal(t, "Period: 2024-03-03 to 2024-03-09", period)

	hours, err := f.GetCellValue(sheet, "E5")
	require.NoError(t, err)
	require.Equal(t, "8.5", hours)

	totalHours, err := f.GetCellValue(sheet, "E7")
	require.NoError(t, err)
	require.Equal(t, "12.5", totalHours)

	rate, err := f.GetCellValue(sheet, "E8")
	require.NoError(t, err)
	require.Equal(t, "20", rate)

	rateTotal, err := f.GetCellFormula(sheet, "E9")
	require.NoError(t, err)
	require.Equal(t, "E8 * E7", rateTotal)

	withheld, err := f.GetCellFormula(sheet, "E31")
	require.NoError(t, err)
	require.Equal(t, "IF(E30=500,ROUNDDOWN(E29*0.10,2),0)", withheld)

	finalTotal, err := f.GetCellFormula(sheet, "E33")
	require.NoError(t, err)
	require.Equal(t, "E29 - E31", finalTotal)

	// summary cross-references
	label, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	require.Equal(t, "12 - Ana Lima", label)

	hoursRef, err := f.GetCellFormula("Summary", "B2")
	require.NoError(t, err)
	require.Equal(t, "'12 - Ana Lima'!E7", hoursRef)

	allTotal, err := f.GetCellValue("Summary", "A4")
	require.NoError(t, err)
	require.Equal(t, "All sheets total", allTotal)

	allHours, err := f.GetCellFormula("Summary", "B4")
	require.NoError(t, err)
	require.Equal(t, "SUM(B2:B3)", allHours)
}

func TestRunMissingInputIsFatal(t *testing.T) {
	root := t.TempDir()
	err := Run(Options{
		InputPath:  filepath.Join(root, "absent.csv"),
		OutputPath: filepath.Join(root, "out.xlsx"),
		Config:     testConfig(),
	})
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(root, "out.xlsx"))
	require.True(t, os.IsNotExist(statErr), "no partial output on failure")
}

func TestRunMissingRateTableDefaultsToZero(t *testing.T) {
	inputPath, outputPath := writeFixtures(t, punchFixture, "")

	var buf bytes.Buffer
	err := Run(Options{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Now:        time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Config:     testConfig(),
		Logger:     slog.New(slog.NewTextHandler(&buf, nil)),
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "rate table not found")

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	rate, err := f.GetCellValue("12 - Ana Lima", "E8")
	require.NoError(t, err)
	require.Equal(t, "0", rate)
}

func TestRunWarnsAboutDroppedRows(t *testing.T) {
	csv := "Person ID,Person Name,Punch Date,Attendance record\n" +
		"12,Ana Lima,2024-03-05,08:00:00\n" +
		"12,Ana Lima,garbage,08:00:00\n" +
		"13,No Valid Rows,also garbage,xx\n"
	inputPath, outputPath := writeFixtures(t, csv, "")

	var buf bytes.Buffer
	err := Run(Options{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Now:        time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Config:     testConfig(),
		Logger:     slog.New(slog.NewTextHandler(&buf, nil)),
	})
	require.NoError(t, err)
	require.Contains(t, buf.String(), "skipped rows with unparseable datetimes")
	require.Contains(t, buf.String(), "count=2")

	f, err := excelize.OpenFile(outputPath)
	require.NoError(t, err)
	defer f.Close()

	// the person with zero valid rows gets no sheet and no summary row
	require.Equal(t, []string{"Summary", "12 - Ana Lima"}, f.GetSheetList())
}

func TestRunMissingRequiredColumnIsFatal(t *testing.T) {
	csv := "Person ID,Punch Date,Attendance record\n12,2024-03-05,08:00:00\n"
	inputPath, outputPath := writeFixtures(t, csv, "")

	err := Run(Options{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Config:     testConfig(),
	})
	require.Error(t, err)
	_, statErr := os.Stat(outputPath)
	require.True(t, os.IsNotExist(statErr), "no partial output on failure")
}
