package punchbookcli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/spf13/cobra"

	"github.com/maruclean/punchbook/internal/config"
	"github.com/maruclean/punchbook/internal/export"
)

// filenameDateLayout matches the MM-DD-YYYY token the access-control system
// embeds in export filenames, e.g. punches-03-09-2024.csv.
const filenameDateLayout = "01-02-2006"

var filenameDatePattern = regexp.MustCompile(`(\d{2}-\d{2}-\d{4})`)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "punchbook",
		Short:         "Convert time-clock punch exports into payroll workbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(newExportCmd())
	return rootCmd
}

func newExportCmd() *cobra.Command {
	var (
		periodEndFlag string
		ratesFlag     string
		configFlag    string
	)

	cmd := &cobra.Command{
		Use:   "export <input> <output.xlsx>",
		Short: "Build a payroll workbook from a punch export",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputPath, outputPath := args[0], args[1]

			cfg, err := config.Load(configFlag)
			if err != nil {
				return err
			}

			periodEnd, err := resolvePeriodEnd(periodEndFlag, inputPath)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			return export.Run(export.Options{
				InputPath:  inputPath,
				OutputPath: outputPath,
				RatesPath:  ratesFlag,
				PeriodEnd:  periodEnd,
				Now:        time.Now(),
				Config:     cfg,
				Logger:     logger,
			})
		},
	}

	cmd.Flags().StringVar(&periodEndFlag, "period-end", "", "billing period end date (MM-DD-YYYY); defaults to a date token in the input filename")
	cmd.Flags().StringVar(&ratesFlag, "rates", "", "path to the rate table; defaults to timesheet-rates.csv next to the input's parent directory")
	cmd.Flags().StringVar(&configFlag, "config", "", "path to punchbook.toml")
	return cmd
}

// resolvePeriodEnd picks the billing-period end date: the explicit flag wins,
// then a date token in the input filename. With neither, the period line is
// simply omitted from the sheets.
func resolvePeriodEnd(flag, inputPath string) (*time.Time, error) {
	if flag != "" {
		end, err := time.Parse(filenameDateLayout, flag)
		if err != nil {
			return nil, fmt.Errorf("invalid --period-end %q: expected MM-DD-YYYY", flag)
		}
		return &end, nil
	}
	return PeriodEndFromFilename(filepath.Base(inputPath)), nil
}

// PeriodEndFromFilename extracts a MM-DD-YYYY date from an export filename,
// or nil when the filename carries none.
func PeriodEndFromFilename(name string) *time.Time {
	match := filenameDatePattern.FindString(name)
	if match == "" {
		return nil
	}
	end, err := time.Parse(filenameDateLayout, match)
	if err != nil {
		return nil
	}
	return &end
}
