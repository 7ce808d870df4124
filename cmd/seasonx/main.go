package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/seasonx/seasonx/pkg/client"
)

var (
	logLevel       = "info"
	unixSocketPath = "/var/run/seasonx.sock"
	configPath     = "/etc/seasonx.json"
	envFile        = ".env"
	sessionID      = ""
)

var apiClient *client.Client

var (
	gBasic        = "Basic:"
	gCalendar     = "Calendar:"
	gMarket       = "Market data:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gCalendar,
		gMarket,
		gAdvanced,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

// loadEnvFile exports the variables of a dotenv file, if there is one, so
// they can override the config file. Variables already set win.
func loadEnvFile() error {
	if envFile == "" {
		return nil
	}
	err := godotenv.Load(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return nil
}

func handleCmdError(err error) {
	if errors.Is(err, client.ErrDaemonNotRunning) {
		fmt.Fprintln(os.Stderr, "\nError: seasonx daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'seasonx daemon' or check --daemon-socket.")
	} else if errors.Is(err, client.ErrPermissionDenied) {
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(os.Stderr, "  - Or start the daemon with '--always-allow-non-root-access' to grant permissions to your user")
	} else if errors.Is(err, client.ErrNotFound) {
		fmt.Fprintln(os.Stderr, "\nError: not found")
		fmt.Fprintln(os.Stderr, "Check the session ID with 'seasonx session list'.")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seasonx",
		Short: "seasonx explores the seasonality of market sectors on a calendar",
		Long: `seasonx explores the seasonality of market sectors on a calendar.

A daemon keeps dashboard sessions: a selected date range, a zoom level,
market filters and the monthly rows loaded for them. The other commands
talk to it over a unix socket.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			err := setupLogger()
			if err != nil {
				return err
			}
			if err := loadEnvFile(); err != nil {
				return err
			}

			apiClient = client.NewClient(unixSocketPath)

			if clientVersion, daemonVersion, err := getVersion(); err == nil {
				if daemonVersion != clientVersion {
					logrus.WithFields(logrus.Fields{
						"clientVersion": clientVersion,
						"daemonVersion": daemonVersion,
					}).Warn("Version mismatch between client and daemon. seasonx may not work as expected.")
				}
			}

			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path")
	globalFlags.StringVar(&envFile, "env-file", envFile, "dotenv file with SEASONX_* overrides, empty to skip")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "seasonx daemon unix socket path")
	globalFlags.StringVarP(&sessionID, "session", "s", sessionID, "dashboard session ID (default session when empty)")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewStatusCommand(),
		NewThemeCommand(),
		NewSessionCommand(),
		NewCalendarCommand(),
		NewFilterCommand(),
		NewSectorCommand(),
		NewCompareCommand(),
		NewIndicatorsCommand(),
		NewChartCommand(),
		NewExportCommand(),
		NewRefreshCommand(),
		NewConfigCommand(),
	)

	return cmd
}
