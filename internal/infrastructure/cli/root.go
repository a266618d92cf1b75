package cli

import (
	"github.com/spf13/cobra"

	"github.com/doeshing/ronde/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. Without a subcommand it performs
// a monitoring run.
func NewRootCmd(opts Options) *cobra.Command {
	globals := &commands.Globals{Verbose: opts.Verbose}
	var runFlags commands.RunFlags

	root := &cobra.Command{
		Use:   "ronde [config]",
		Short: "Run health probes and publish a status page",
		Long: `ronde runs the shell commands listed in its configuration, keeps a
compact history of their outcomes, notifies on state changes and renders a
static status page.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := ""
			if len(args) == 1 {
				configPath = args[0]
			}
			return commands.RunProbes(cmd, globals, configPath, runFlags)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	runFlags.Bind(root)
	root.PersistentFlags().BoolVarP(&globals.Verbose, "verbose", "v", opts.Verbose, "Enable debug logging on stderr")

	root.AddCommand(commands.NewRunCommand(globals))
	root.AddCommand(commands.NewHistoryCommand())
	root.AddCommand(commands.NewDoctorCommand(globals))
	root.AddCommand(commands.NewConfigCommand(globals))
	root.AddCommand(commands.NewInitCommand(globals))
	root.AddCommand(commands.NewVersionCommand())
	return root
}
