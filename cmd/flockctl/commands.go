package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newKPICmd(open serviceOpener, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "kpi",
		Short: "Print the KPI snapshot for the reference date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			ref, err := refDate(svc, opts)
			if err != nil {
				return err
			}
			kpi, err := svc.KPIs(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), kpi)
		},
	}
}

func newRiskCmd(open serviceOpener, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "risk",
		Short: "Print the outbreak risk assessment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			ref, err := refDate(svc, opts)
			if err != nil {
				return err
			}
			res, err := svc.Risk(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newForecastCmd(open serviceOpener, opts *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast daily egg production",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if days < 0 || days > 60 {
				return fmt.Errorf("--days must be between 1 and 60, got %d", days)
			}
			svc, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			res, err := svc.Forecast(cmd.Context(), days)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "forecast horizon in days (default FORECAST_DAYS)")
	return cmd
}

func newAlertsCmd(open serviceOpener, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "alerts",
		Short: "List operational alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			ref, err := refDate(svc, opts)
			if err != nil {
				return err
			}
			alerts, err := svc.Alerts(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), alerts)
		},
	}
}

func newHealthCmd(open serviceOpener, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health <flock>",
		Short: "Print a flock's health score breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			res, err := svc.FlockHealth(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newStageCmd(open serviceOpener, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stage <flock>",
		Short: "Print a flock's age and lifecycle stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			ref, err := refDate(svc, opts)
			if err != nil {
				return err
			}
			res, err := svc.FlockStage(cmd.Context(), args[0], ref)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}

func newPestsCmd(open serviceOpener, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pests",
		Short: "Print the biosecurity pest score (0-100)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			score, err := svc.PestScore(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int{"score": score})
		},
	}
}

func newReportCmd(open serviceOpener, opts *rootOptions) *cobra.Command {
	var weekly bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the WhatsApp report text without sending it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			ref, err := refDate(svc, opts)
			if err != nil {
				return err
			}

			var text string
			if weekly {
				text, err = svc.GenerateWeeklyReport(cmd.Context(), ref)
			} else {
				text, err = svc.GenerateDailyReport(cmd.Context(), ref)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
	cmd.Flags().BoolVar(&weekly, "weekly", false, "print the weekly report instead of the daily one")
	return cmd
}
