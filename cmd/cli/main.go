package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"earlyvote/adapters/excel"
	"earlyvote/adapters/render"
	"earlyvote/app"
	"earlyvote/domain/chart"
	"earlyvote/domain/voting"
	"earlyvote/internal"
	"earlyvote/internal/config"
)

// loadFlags are shared by every subcommand
type loadFlags struct {
	file string
	days string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &loadFlags{}
	defaults := config.LoadDataConfig()
	rootCmd := &cobra.Command{
		Use:          "earlyvote-cli",
		Short:        "Inspect the Texas early voting workbook without starting the dashboard",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.file, "file", defaults.ExcelFile, "Workbook with one sheet per reporting day")
	rootCmd.PersistentFlags().StringVar(&flags.days, "days", defaults.ReportingDays, "Reporting days, e.g. Oct-4..Oct-26 or Oct-4,Oct-5")

	rootCmd.AddCommand(
		newCountiesCmd(flags),
		newSeriesCmd(flags),
		newSummaryCmd(flags),
		newRenderCmd(flags),
	)
	return rootCmd
}

func newCountiesCmd(flags *loadFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "counties",
		Short: "List the counties offered in the dashboard dropdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, charts, err := flags.services()
			if err != nil {
				return err
			}
			for _, opt := range charts.CountyOptions() {
				fmt.Fprintln(cmd.OutOrStdout(), opt.Value)
			}
			return nil
		},
	}
}

func newSeriesCmd(flags *loadFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "series [county]",
		Short: "Print a county's per-day figures",
		Long: `Print one row per configured reporting day for a county.

Example: earlyvote-cli series TRAVIS --days Oct-13..Oct-20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, _, err := flags.services()
			if err != nil {
				return err
			}
			s, err := series.Extract(args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "date\tregistered\tby mail\tin person\tnew in person\ttotal\t")
			for _, r := range s.Records {
				fmt.Fprintf(tw, "%s\t%.0f\t%.0f\t%.0f\t%.0f\t%.0f\t\n",
					r.Date, r.RegisteredVoters, r.CumlByMailVoters, r.CumlInPersonVoters, r.NewInPersonVoters, r.TotalVoters)
			}
			return tw.Flush()
		},
	}
}

func newSummaryCmd(flags *loadFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [county]",
		Short: "Print turnout and daily in-person statistics for a county",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series, _, err := flags.services()
			if err != nil {
				return err
			}
			summary, err := series.Summary(args[0])
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newRenderCmd(flags *loadFlags) *cobra.Command {
	var out string
	var percentage bool

	cmd := &cobra.Command{
		Use:   "render [county]",
		Short: "Write a dashboard chart as SVG",
		Long: `Write the county's vote composition pie as SVG. With --percentage, write the
turnout comparison chart instead; the county argument is then optional.

Example: earlyvote-cli render "EL PASO" --out el_paso.svg`,
		Args: cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, charts, err := flags.services()
			if err != nil {
				return err
			}

			var spec chart.Spec
			switch {
			case percentage:
				spec, err = charts.DefaultPercentageChart()
			case len(args) == 1:
				spec, err = charts.CompositionPie(args[0])
			default:
				return fmt.Errorf("a county is required unless --percentage is set")
			}
			if err != nil {
				return err
			}
			for _, w := range spec.Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := render.SVG(f, spec); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "chart.svg", "Output SVG path")
	cmd.Flags().BoolVar(&percentage, "percentage", false, "Render the multi-county turnout chart")
	return cmd
}

// services loads the workbook and wires the read-only services on top of it
func (f *loadFlags) services() (*app.SeriesService, *app.ChartService, error) {
	days, err := voting.ParseDaySequence(f.days)
	if err != nil {
		return nil, nil, err
	}
	cfg := excel.DefaultExcelConfig()
	cfg.FilePath = f.file
	cfg.Days = days

	logger := internal.NewLogger(internal.LogLevelWarn)
	dataset, err := excel.NewDataReader(cfg, logger).LoadDataset()
	if err != nil {
		return nil, nil, err
	}
	series := app.NewSeriesService(dataset, logger)
	return series, app.NewChartService(series, logger), nil
}
