package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSettingsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect the settings file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the settings and palette file paths",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				settings, path, err := root.loadSettings()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "settings: %s\npalettes: %s\n", path, settings.PalettePath(path))
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings as YAML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				settings, _, err := root.loadSettings()
				if err != nil {
					return err
				}
				for _, w := range settings.Validate().Warnings {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", w)
				}
				data, err := yaml.Marshal(settings)
				if err != nil {
					return fmt.Errorf("encode settings: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
	)
	return cmd
}
