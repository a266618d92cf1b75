package commands

import (
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/ronde/assets"
	configapp "github.com/doeshing/ronde/internal/application/config"
	configinfra "github.com/doeshing/ronde/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with its subcommands.
func NewConfigCommand(g *Globals) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect ronde configuration",
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show [config]",
			Short: "Print the configuration with defaults applied",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := g.Container(argOrEmpty(args)).ConfigProvider.Load(cmd.Context())
				if err != nil {
					return err
				}
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(cfg)
			},
		},
		&cobra.Command{
			Use:   "validate [config]",
			Short: "Validate the configuration",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := g.Container(argOrEmpty(args)).ConfigProvider.Load(cmd.Context())
				if err != nil {
					return err
				}
				if err := configapp.Validate(cfg); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
				return nil
			},
		},
		&cobra.Command{
			Use:   "diff [config]",
			Short: "Show differences from the example configuration",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := g.Container(argOrEmpty(args)).ConfigProvider.Load(cmd.Context())
				if err != nil {
					return err
				}
				example, err := configinfra.Parse("example.yaml", assets.DefaultConfigYAML)
				if err != nil {
					return err
				}
				diff := cmp.Diff(example, cfg)
				if diff == "" {
					fmt.Fprintln(cmd.OutOrStdout(), MsgNoDifferencesFromExample)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Differences (-example +current):")
				fmt.Fprint(cmd.OutOrStdout(), diff)
				return nil
			},
		},
	)
	return configCmd
}
