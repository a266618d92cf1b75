package commands

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/version"
)

const shortCommitLength = 12

// NewVersionCommand prints build metadata.
func NewVersionCommand() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show ronde build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Version)
				return err
			}
			return writeBuildInfo(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	return cmd
}

// writeBuildInfo prints "ronde <version> (<commit>, built <date>)" followed by
// the platform and the history backends compiled in.
func writeBuildInfo(out io.Writer) error {
	var meta []string
	if commit := version.Commit; commit != "" {
		if len(commit) > shortCommitLength {
			commit = commit[:shortCommitLength]
		}
		meta = append(meta, "commit "+commit)
	}
	if version.BuildDate != "" {
		meta = append(meta, "built "+version.BuildDate)
	}

	line := "ronde " + version.Version
	if len(meta) > 0 {
		line += " (" + strings.Join(meta, ", ") + ")"
	}
	_, err := fmt.Fprintf(out, "%s\n%s %s/%s\nhistory backends: %s, %s\n",
		line,
		runtime.Version(), runtime.GOOS, runtime.GOARCH,
		domain.HistoryBackendYAML, domain.HistoryBackendSQLite,
	)
	return err
}
