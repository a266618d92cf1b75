package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/doeshing/ronde/internal/domain"
)

// NewDoctorCommand creates the doctor command
func NewDoctorCommand(g *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [config]",
		Short: "Diagnose configuration and environment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctorDiagnostics(cmd, g, argOrEmpty(args))
		},
	}
}

// runDoctorDiagnostics runs environment diagnostics
func runDoctorDiagnostics(cmd *cobra.Command, g *Globals, configPath string) error {
	container := g.Container(configPath)
	if container.DoctorService == nil {
		return fmt.Errorf(ErrDoctorServiceUnavailable)
	}

	report, err := container.DoctorService.Run(cmd.Context())

	// Display report even if there were errors
	displayDoctorReport(cmd.OutOrStdout(), report)

	if err != nil {
		return fmt.Errorf("diagnostics completed with errors: %w", err)
	}
	if report.Failed() {
		return errors.New("diagnostics found problems")
	}
	return nil
}

var statusColors = map[domain.HealthStatus]*color.Color{
	domain.HealthOK:    color.New(color.FgGreen),
	domain.HealthWarn:  color.New(color.FgYellow),
	domain.HealthError: color.New(color.FgRed, color.Bold),
}

// displayDoctorReport displays the health check report
func displayDoctorReport(out io.Writer, report domain.HealthReport) {
	for _, check := range report.Checks {
		label := fmt.Sprintf("[%s]", strings.ToUpper(string(check.Status)))
		if c, ok := statusColors[check.Status]; ok {
			label = c.Sprint(label)
		}
		fmt.Fprintf(out, "%s %s - %s\n", label, check.Name, check.Details)
	}
}
