package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seasonx/seasonx/pkg/calendar"
	"github.com/seasonx/seasonx/pkg/config"
	"github.com/seasonx/seasonx/pkg/dashboard"
	"github.com/seasonx/seasonx/pkg/types"
)

type statusData struct {
	session  *dashboard.Snapshot
	config   *config.RawFileConfig
	refresh  *types.RefreshStatus
	sessions []string
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData() (*statusData, error) {
	snap, err := apiClient.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	conf, err := apiClient.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	refresh, err := apiClient.GetRefreshStatus()
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh status: %w", err)
	}

	sessions, err := apiClient.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return &statusData{
		session:  snap,
		config:   conf,
		refresh:  refresh,
		sessions: sessions,
	}, nil
}

func NewStatusCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of seasonx",
		Long:    `Get the session state, data refresh status, and configuration.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData()
			if err != nil {
				return err
			}

			if asJSON {
				b, err := json.MarshalIndent(newStatusJSON(data), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}

			conf := config.NewFileFromConfig(data.config, "")
			snap := data.session

			cmd.Println(bold("Session %s:", snap.ID))
			cmd.Printf("  Zoom level: %s\n", bold("%s", snap.Level))
			switch {
			case snap.Range.Complete():
				cmd.Printf("  Range: %s to %s\n",
					bold("%s", snap.Range.Start.Format(calendar.DateLayout)),
					bold("%s", snap.Range.End.Format(calendar.DateLayout)))
			case snap.Range.Start != nil:
				cmd.Printf("  Range: starts %s, no end yet\n", bold("%s", snap.Range.Start.Format(calendar.DateLayout)))
			default:
				cmd.Println("  Range: none")
			}
			cmd.Printf("  Sector: %s\n", bold("%s", snap.Filters.Sector))
			if snap.Filters.CompareSector != "" {
				cmd.Printf("  Compared with: %s\n", bold("%s", snap.Filters.CompareSector))
			}
			if snap.Filters.Market != "" {
				cmd.Printf("  Market: %s\n", bold("%s", snap.Filters.Market))
			}
			if snap.Filters.Season != "" {
				cmd.Printf("  Season: %s\n", bold("%s", snap.Filters.Season))
			}
			cmd.Printf("  Rows loaded: %s\n", bold("%d", len(snap.Rows)+len(snap.CompareRows)))
			cmd.Printf("  Last change: %s\n", formatTime(snap.UpdatedAt))

			cmd.Println()

			cmd.Println(bold("Data refresh:"))
			if data.refresh.Schedule == "" {
				cmd.Println("  Schedule: disabled")
			} else {
				cmd.Printf("  Schedule: %s\n", bold("%s", data.refresh.Schedule))
			}
			if data.refresh.NextRun != nil {
				cmd.Printf("  Next run: %s\n", formatTime(*data.refresh.NextRun))
			}
			if data.refresh.LastRun != nil {
				cmd.Printf("  Last run: %s\n", formatTime(*data.refresh.LastRun))
			}
			cmd.Printf("  Last run succeeded: %s\n", bool2Text(data.refresh.LastError == ""))

			cmd.Println()

			cmd.Println(bold("Configuration:"))
			cmd.Printf("  Color mode: %s\n", bold("%s", conf.ColorMode()))
			cmd.Printf("  Provider: %s\n", bold("%s", conf.Provider()))
			cmd.Printf("  Time zone: %s\n", conf.Location())
			cmd.Printf("  Sessions: %d\n", len(data.sessions))
			cmd.Printf("  Allow non-root users to access the daemon: %s\n", bool2Text(conf.AllowNonRootAccess()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}
