package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seasonx/seasonx/pkg/calendar"
	"github.com/seasonx/seasonx/pkg/config"
	"github.com/seasonx/seasonx/pkg/events"
)

// currentPalette follows the daemon's color mode, falling back to dark.
func currentPalette() palette {
	opts, err := apiClient.GetOptions()
	if err != nil {
		logrus.Debugf("failed to get color mode, using dark: %v", err)
		return newPalette(config.ColorModeDark)
	}
	m, err := config.ParseColorMode(opts.ColorMode)
	if err != nil {
		return newPalette(config.ColorModeDark)
	}
	return newPalette(m)
}

func NewCalendarCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Select a date range and move around the calendar",
		GroupID: gCalendar,
	}

	cmd.AddCommand(
		newCalendarShowCommand(),
		newCalendarWatchCommand(),
		newCalendarSelectCommand(),
		newCalendarClearCommand(),
		newChoiceCommand("zoom", "Change the calendar zoom level", "", []string{"in", "out"}, func(dir string) (string, error) {
			l, err := apiClient.Zoom(sessionID, dir)
			if err != nil {
				return "", err
			}
			logrus.Infof("calendar is now at %s level", l)
			return "", nil
		}),
	)

	return cmd
}

func newCalendarShowCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the calendar at the current zoom level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showCalendar(cmd.OutOrStdout(), date)
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "reference date, YYYY-MM-DD (default today)")

	return cmd
}

func showCalendar(w io.Writer, date string) error {
	v, err := apiClient.GetView(sessionID, date)
	if err != nil {
		return err
	}
	snap, err := apiClient.GetSession(sessionID)
	if err != nil {
		return err
	}

	renderView(w, *v, currentPalette())
	renderRange(w, snap.Range)
	return nil
}

func newCalendarWatchCommand() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the calendar again whenever the session or color mode changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			if err := showCalendar(out, date); err != nil {
				return err
			}

			var watchErr error
			err := apiClient.WatchEvents(ctx, sessionID, func(ev events.Event) {
				switch ev.Name {
				case events.SessionUpdated, events.ConfigUpdated:
					logrus.WithField("event", ev.Name).Debug("redrawing calendar")
					fmt.Fprintln(out)
					if err := showCalendar(out, date); err != nil {
						logrus.WithError(err).Warn("failed to redraw calendar")
					}
				case events.SessionRemoved:
					watchErr = errSessionRemoved
					stop()
				}
			})
			if watchErr != nil {
				return watchErr
			}
			if err != nil {
				return err
			}
			if ctx.Err() == nil {
				logrus.Info("daemon closed the event stream")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "reference date, YYYY-MM-DD (default today)")

	return cmd
}

var errSessionRemoved = errors.New("session was removed")

func newCalendarSelectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "select [YYYY-MM-DD]",
		Short: "Click a date",
		Long: `Click a date on the calendar.

The first click starts a range, the second completes it (in either order)
and a third click clears the range again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := parseStringArg(args, "date")
			if err != nil {
				return err
			}
			if _, err := calendar.ParseDay(date, nil); err != nil {
				return err
			}

			snap, err := apiClient.SelectDate(sessionID, date)
			if err != nil {
				return fmt.Errorf("failed to select date: %w", err)
			}

			switch {
			case snap.Range.Complete():
				logrus.Infof("selected %s to %s", snap.Range.Start.Format(calendar.DateLayout), snap.Range.End.Format(calendar.DateLayout))
			case snap.Range.Start != nil:
				logrus.Infof("range starts at %s, select an end date", snap.Range.Start.Format(calendar.DateLayout))
			default:
				logrus.Info("range cleared")
			}
			renderRange(cmd.OutOrStdout(), snap.Range)
			return nil
		},
	}
}

func newCalendarClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the selected range",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := apiClient.ClearRange(sessionID); err != nil {
				return fmt.Errorf("failed to clear range: %w", err)
			}
			logrus.Info("range cleared")
			return nil
		},
	}
}
