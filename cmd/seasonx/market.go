package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seasonx/seasonx/pkg/export"
)

func NewFilterCommand() *cobra.Command {
	var (
		marketName    string
		season        string
		sector        string
		compareSector string
	)

	cmd := &cobra.Command{
		Use:     "filter",
		Short:   "Set the market, season and sector filters",
		GroupID: gMarket,
		Long: `Set the market, season and sector filters.

Flags that are not given keep their current value. Pass an empty string to
--compare to stop comparing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := apiClient.GetSession(sessionID)
			if err != nil {
				return err
			}

			f := snap.Filters
			flags := cmd.Flags()
			if flags.Changed("market") {
				f.Market = marketName
			}
			if flags.Changed("season") {
				f.Season = season
			}
			if flags.Changed("sector") {
				f.Sector = sector
			}
			if flags.Changed("compare") {
				f.CompareSector = compareSector
			}

			snap, err = apiClient.SetFilters(sessionID, f)
			if err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{
				"market":  snap.Filters.Market,
				"season":  snap.Filters.Season,
				"sector":  snap.Filters.Sector,
				"compare": snap.Filters.CompareSector,
				"rows":    len(snap.Rows),
			}).Info("filters applied")
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&marketName, "market", "", "market (Gold, Oil, Stocks, Crypto, Forex)")
	f.StringVar(&season, "season", "", "season (Spring, Summer, Autumn, Winter)")
	f.StringVar(&sector, "sector", "", "sector (Technology, Healthcare, Finance)")
	f.StringVar(&compareSector, "compare", "", "sector to compare against")

	return cmd
}

func NewIndicatorsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "indicators",
		Short:   "Show the technical indicators of the selected date",
		GroupID: gMarket,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ind, err := apiClient.GetIndicators(sessionID)
			if err != nil {
				return err
			}
			if ind == nil {
				logrus.Info("no date selected, use 'seasonx calendar select' first")
				return nil
			}
			renderIndicators(cmd.OutOrStdout(), *ind, currentPalette())
			return nil
		},
	}
}

func NewChartCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "chart",
		Short:   "Print the seasonality chart",
		GroupID: gMarket,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := apiClient.GetChart(sessionID)
			if err != nil {
				return err
			}
			renderChart(cmd.OutOrStdout(), *s, currentPalette())
			return nil
		},
	}
}

func NewExportCommand() *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Download the loaded rows as CSV or XLSX",
		GroupID: gMarket,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := apiClient.Export(sessionID, format)
			if errors.Is(err, export.ErrNoData) {
				logrus.Info("nothing to export")
				return nil
			}
			if err != nil {
				return err
			}

			if output == "-" {
				_, err := cmd.OutOrStdout().Write(b)
				return err
			}
			if output == "" {
				output = export.CSVFileName
				if format == "xlsx" {
					output = export.XLSXFileName
				}
			}
			if err := os.WriteFile(output, b, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			logrus.Infof("exported %d bytes to %s", len(b), output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&format, "format", "f", "csv", "export format (csv, xlsx)")
	f.StringVarP(&output, "output", "o", "", "output file, - for stdout (default market-data.csv or market-data.xlsx)")

	return cmd
}

func NewRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "refresh",
		Short:   "Reload market data for every session now",
		GroupID: gAdvanced,
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			st, err := apiClient.Refresh()
			if err != nil {
				return err
			}
			if st.NextRun != nil {
				logrus.Infof("market data refreshed, next scheduled refresh at %s", formatTime(*st.NextRun))
			} else {
				logrus.Info("market data refreshed")
			}
			return nil
		},
	}
}

func NewSectorCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "sector NAME",
		Short:   "Switch the session to another sector",
		GroupID: gMarket,
		RunE: func(_ *cobra.Command, args []string) error {
			sector, err := parseStringArg(args, "sector")
			if err != nil {
				return err
			}

			snap, err := apiClient.SetSector(sessionID, sector)
			if err != nil {
				return err
			}
			logrus.WithField("rows", len(snap.Rows)).Infof("sector is now %s", snap.Filters.Sector)
			return nil
		},
	}
}

func NewCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "compare [NAME]",
		Short:   "Compare against another sector, or stop comparing",
		GroupID: gMarket,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			var sector string
			if len(args) == 1 {
				sector = strings.TrimSpace(args[0])
			}

			snap, err := apiClient.SetCompareSector(sessionID, sector)
			if err != nil {
				return err
			}
			if snap.Filters.CompareSector == "" {
				logrus.Info("comparison stopped")
				return nil
			}
			logrus.Infof("comparing %s against %s", snap.Filters.Sector, snap.Filters.CompareSector)
			return nil
		},
	}
}

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Change persisted daemon settings",
		GroupID: gAdvanced,
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Change a setting and save it to the config file",
	}
	set.AddCommand(
		&cobra.Command{
			Use:   "default-sector NAME",
			Short: "Sector that new sessions start with",
			RunE: func(_ *cobra.Command, args []string) error {
				sector, err := parseStringArg(args, "sector")
				if err != nil {
					return err
				}
				ret, err := apiClient.SetDefaultSector(sector)
				if err != nil {
					return err
				}
				logrus.Infof("new sessions start with %s", ret)
				return nil
			},
		},
		&cobra.Command{
			Use:   "refresh-schedule [EXPR]",
			Short: "Cron expression of the data refresh, empty to disable",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				var expr string
				if len(args) == 1 {
					expr = strings.TrimSpace(args[0])
				}
				st, err := apiClient.SetRefreshSchedule(expr)
				if err != nil {
					return err
				}
				switch {
				case st.Schedule == "":
					logrus.Info("scheduled refresh disabled")
				case st.NextRun != nil:
					logrus.Infof("refresh schedule is %q, next run at %s", st.Schedule, formatTime(*st.NextRun))
				default:
					logrus.Infof("refresh schedule is %q", st.Schedule)
				}
				return nil
			},
		},
	)
	cmd.AddCommand(set)

	return cmd
}
