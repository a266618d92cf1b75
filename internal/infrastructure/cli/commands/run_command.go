package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/doeshing/ronde/internal/application/monitor"
	"github.com/doeshing/ronde/internal/infrastructure/cli/helpers"
)

// RunFlags are the per-run overrides.
type RunFlags struct {
	HistoryFile string
	OutputDir   string
	NoNotify    bool
	Quiet       bool
}

// Bind registers the run flags on cmd.
func (f *RunFlags) Bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.HistoryFile, "history", "H", "", "Override history_file from the configuration")
	cmd.Flags().StringVarP(&f.OutputDir, "output-dir", "o", "", "Override output_dir from the configuration")
	cmd.Flags().BoolVar(&f.NoNotify, "no-notify", false, "Record results without sending notifications")
	cmd.Flags().BoolVarP(&f.Quiet, "quiet", "q", false, "Print nothing unless the run fails")
}

// NewRunCommand creates the run command.
func NewRunCommand(g *Globals) *cobra.Command {
	var flags RunFlags
	cmd := &cobra.Command{
		Use:   "run [config]",
		Short: "Run every probe once and publish the results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunProbes(cmd, g, argOrEmpty(args), flags)
		},
	}
	flags.Bind(cmd)
	return cmd
}

// RunProbes performs one monitoring run for the configuration at configPath.
func RunProbes(cmd *cobra.Command, g *Globals, configPath string, flags RunFlags) error {
	container := g.Container(configPath)
	if container.MonitorService == nil {
		return fmt.Errorf(ErrMonitorServiceUnavailable)
	}

	interactive := !flags.Quiet && !g.Verbose && !color.NoColor
	var spinner *helpers.Spinner
	if interactive {
		spinner = helpers.NewSpinner(os.Stderr, "running probes")
		spinner.Start()
	}

	report, err := container.MonitorService.Run(cmd.Context(), monitor.Options{
		HistoryFile: flags.HistoryFile,
		OutputDir:   flags.OutputDir,
		NoNotify:    flags.NoNotify,
	})
	if spinner != nil {
		spinner.Stop()
	}

	if !flags.Quiet && report.Results != nil {
		helpers.RenderReport(cmd.OutOrStdout(), report)
	}
	return err
}
