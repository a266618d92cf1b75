package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/doeshing/ronde/assets"
	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/pkg/filesystem"
)

// NewInitCommand creates the init command, which writes the example
// configuration.
func NewInitCommand(g *Globals) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write an example configuration",
		Long: `Write an example ronde configuration.

The file lists a few sample probes. After editing it:
  1. Run 'ronde doctor <path>' to check the setup
  2. Schedule 'ronde run <path>' from cron or a systemd timer
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.Container(argOrEmpty(args)).ConfigLoader.Path()
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := filesystem.WriteFileAtomic(path, assets.DefaultConfigYAML, domain.SecureFilePermissions); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
