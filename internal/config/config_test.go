package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	// an explicitly named but missing config file is an error
	require.Error(t, err)

	cfg, err = Load("")
	require.NoError(t, err)
	require.Equal(t, "Maru", cfg.Location)
	require.Equal(t, "timesheet-rates.csv", cfg.RatesFile)
	require.Equal(t, 0.10, cfg.Withholding.Rate)
	require.Equal(t, 500, cfg.Withholding.AnnualLimit)
	require.Equal(t, 28, cfg.Withholding.PromoDays)

	require.Len(t, cfg.Sections, 3)
	require.Equal(t, "Mango Villas", cfg.Sections[0].Name)
	require.Equal(t, []string{"Apt X", "Apt X"}, cfg.Sections[0].Placeholders)
	require.Equal(t, "Other", cfg.Sections[2].Name)
	require.Equal(t, []string{"Details here", ""}, cfg.Sections[2].Placeholders)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchbook.toml")
	data := `
location = "Harbor"
rates_file = "rates.csv"

[withholding]
rate = 0.15
annual_limit = 600
promo_days = 14

[[sections]]
name = "Villa Sol"
placeholders = ["Unit 1", "Unit 2"]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Harbor", cfg.Location)
	require.Equal(t, "rates.csv", cfg.RatesFile)
	require.Equal(t, 0.15, cfg.Withholding.Rate)
	require.Equal(t, 600, cfg.Withholding.AnnualLimit)
	require.Equal(t, 14, cfg.Withholding.PromoDays)
	require.Len(t, cfg.Sections, 1)
	require.Equal(t, "Villa Sol", cfg.Sections[0].Name)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "punchbook.toml")
	require.NoError(t, os.WriteFile(path, []byte("location = \"Harbor\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Harbor", cfg.Location)
	require.Equal(t, 500, cfg.Withholding.AnnualLimit)
	require.Len(t, cfg.Sections, 3)
}
