package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/flockwatch/internal/config"
	"github.com/mamadbah2/flockwatch/internal/repository/sheets"
	"github.com/mamadbah2/flockwatch/internal/service/reporting"
	"github.com/mamadbah2/flockwatch/pkg/logger"
)

// rootOptions holds the persistent flags.
type rootOptions struct {
	envFile string
	date    string
	verbose bool
}

// serviceOpener builds the reporting service for one invocation.
type serviceOpener func(ctx context.Context, opts *rootOptions) (*reporting.Service, error)

func newRootCmd(open serviceOpener) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "flockctl",
		Short: "Egg farm analytics from the terminal",
		Long: `flockctl reads the farm workbook and prints analytics as JSON.

It uses the same configuration as the server (GOOGLE_SHEETS_CREDENTIALS_PATH,
GOOGLE_SHEET_DATABASE_ID, TIMEZONE and the analytics thresholds) but only
needs read access to the spreadsheet.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to a .env file")
	root.PersistentFlags().StringVar(&opts.date, "date", "", "reference date YYYY-MM-DD (default today in the farm timezone)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log workbook loading")

	root.AddCommand(
		newKPICmd(open, opts),
		newRiskCmd(open, opts),
		newForecastCmd(open, opts),
		newAlertsCmd(open, opts),
		newHealthCmd(open, opts),
		newStageCmd(open, opts),
		newPestsCmd(open, opts),
		newReportCmd(open, opts),
	)
	return root
}

func openService(ctx context.Context, opts *rootOptions) (*reporting.Service, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.NewDevelopment(opts.verbose)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", cfg.Reporting.Timezone, err)
	}

	repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, true, logger.Named(log, "repo.sheets"))
	if err != nil {
		return nil, err
	}

	loader := sheets.NewDatasetLoader(repo, cfg.Analytics.Settings(), logger.Named(log, "repo.dataset"))
	log.Debug("workbook source ready", zap.String("spreadsheet", cfg.Sheets.SpreadsheetID))

	return reporting.NewService(loader, nil, nil, reporting.Options{
		ForecastDays: cfg.Analytics.ForecastDays,
		Location:     loc,
	}, logger.Named(log, "svc.reporting")), nil
}

// refDate resolves --date, defaulting to today in the farm timezone.
func refDate(svc *reporting.Service, opts *rootOptions) (time.Time, error) {
	if opts.date == "" {
		return svc.Today(), nil
	}
	ref, err := time.Parse(time.DateOnly, opts.date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", opts.date)
	}
	return ref, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
