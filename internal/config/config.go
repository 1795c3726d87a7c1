package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds tool configuration. Everything has a working default so the
// tool runs with no config file at all.
type Config struct {
	Location    string
	RatesFile   string `mapstructure:"rates_file"`
	Sections    []Section
	Withholding Withholding
}

// Section defines one supplementary expense block on a person's sheet.
// Placeholder labels are pre-filled line items the bookkeeper edits by hand.
type Section struct {
	Name         string
	Placeholders []string
}

// Withholding holds the promotional-withholding parameters.
type Withholding struct {
	Rate        float64 `mapstructure:"rate"`
	AnnualLimit int     `mapstructure:"annual_limit"`
	PromoDays   int     `mapstructure:"promo_days"`
}

// Load reads configuration from file and env. Env var overrides use prefix
// PUNCHBOOK_. An explicit path wins over the PUNCHBOOK_CONFIG env var and
// the default search location.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("location", "Maru")
	v.SetDefault("rates_file", "timesheet-rates.csv")
	v.SetDefault("withholding.rate", 0.10)
	v.SetDefault("withholding.annual_limit", 500)
	v.SetDefault("withholding.promo_days", 28)

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("PUNCHBOOK_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "punchbook"))
		v.SetConfigName("punchbook")
		// config file is optional when not named explicitly
		_ = v.ReadInConfig()
	}

	v.SetEnvPrefix("PUNCHBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if len(c.Sections) == 0 {
		c.Sections = DefaultSections()
	}
	return c, nil
}

// DefaultSections returns the three fixed location blocks used when no
// sections are configured.
func DefaultSections() []Section {
	return []Section{
		{Name: "Mango Villas", Placeholders: []string{"Apt X", "Apt X"}},
		{Name: "Casa Damisela", Placeholders: []string{"Apt X", "Apt X"}},
		{Name: "Other", Placeholders: []string{"Details here", ""}},
	}
}
