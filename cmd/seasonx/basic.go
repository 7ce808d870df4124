package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/seasonx/seasonx/pkg/config"
	"github.com/seasonx/seasonx/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewThemeCommand() *cobra.Command {
	cmd := newChoiceCommand("theme", "Set the color mode", gBasic,
		[]string{string(config.ColorModeLight), string(config.ColorModeDark)},
		func(mode string) (string, error) {
			m, err := apiClient.SetColorMode(config.ColorMode(mode))
			if err != nil {
				return "", err
			}
			logrus.Infof("color mode set to %s", m)
			return "", nil
		},
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			opts, err := apiClient.GetOptions()
			if err != nil {
				return err
			}
			cur, err := config.ParseColorMode(opts.ColorMode)
			if err != nil {
				return err
			}

			m, err := apiClient.SetColorMode(cur.Toggle())
			if err != nil {
				return fmt.Errorf("failed to toggle color mode: %w", err)
			}
			logrus.Infof("color mode set to %s", m)
			return nil
		},
	})

	return cmd
}

func NewSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "session",
		Short:   "Manage dashboard sessions",
		GroupID: gBasic,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "new",
			Short: "Create a session and print its ID",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				snap, err := apiClient.CreateSession()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), snap.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List session IDs",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ids, err := apiClient.ListSessions()
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm [id]",
			Short: "Remove a session",
			RunE: func(_ *cobra.Command, args []string) error {
				id, err := parseStringArg(args, "session ID")
				if err != nil {
					return err
				}
				if err := apiClient.DeleteSession(id); err != nil {
					return err
				}
				logrus.Infof("session %s removed", id)
				return nil
			},
		},
	)

	return cmd
}
