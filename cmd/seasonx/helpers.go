package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seasonx/seasonx/pkg/version"
)

func getVersion() (clientVersion, daemonVersion string, err error) {
	daemonVersion, err = apiClient.GetVersion()
	if err != nil {
		return version.Version, "", err
	}
	return version.Version, daemonVersion, nil
}

func parseStringArg(args []string, valueName string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("invalid number of arguments")
	}

	value := strings.TrimSpace(args[0])
	if value == "" {
		return "", fmt.Errorf("invalid %s: empty", valueName)
	}

	return value, nil
}

// newChoiceCommand builds a parent command with one subcommand per choice.
func newChoiceCommand(
	use, short, groupID string,
	choices []string,
	apply func(choice string) (string, error),
) *cobra.Command {
	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		GroupID: groupID,
	}

	for _, choice := range choices {
		choice := choice
		cmd.AddCommand(&cobra.Command{
			Use:   choice,
			Short: fmt.Sprintf("%s: %s", short, choice),
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				ret, err := apply(choice)
				if err != nil {
					return fmt.Errorf("failed to %s %s: %w", use, choice, err)
				}
				if ret != "" {
					logrus.Infof("daemon responded: %s", ret)
				}
				return nil
			},
		})
	}

	return cmd
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
