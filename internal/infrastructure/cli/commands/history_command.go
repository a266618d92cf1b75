package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/ronde/internal/application/sample"
	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/infrastructure/cli/helpers"
	"github.com/doeshing/ronde/internal/infrastructure/history"
	"github.com/doeshing/ronde/internal/infrastructure/render"
	"github.com/doeshing/ronde/internal/ports"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and convert history files",
	}

	historyCmd.AddCommand(
		newHistoryShowCommand(),
		newHistoryConvertCommand(),
		newHistoryRenderCommand(),
		newHistoryGenerateCommand(),
	)

	return historyCmd
}

// repositoryFor picks the backend from the file extension.
func repositoryFor(path string) ports.HistoryRepository {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return history.NewSQLiteStore(path, nil, nil)
	default:
		return history.NewFileStore(path, nil, nil)
	}
}

// loadHistory reads a history file, or YAML from stdin when path is "-".
func loadHistory(cmd *cobra.Command, path string) (*domain.History, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		return history.Decode(data)
	}
	return repositoryFor(path).Load(cmd.Context())
}

func newHistoryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Summarise every probe of a history file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHistory(cmd, args[0])
			if err != nil {
				return err
			}
			helpers.RenderHistory(cmd.OutOrStdout(), h, time.Now())
			return nil
		},
	}
}

func newHistoryConvertCommand() *cobra.Command {
	var pretty bool
	cmd := &cobra.Command{
		Use:   "convert <file|->",
		Short: "Print a history file as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHistory(cmd, args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(h)
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	return cmd
}

func newHistoryRenderCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "render <file> <output_dir>",
		Short: "Render the status page from a history file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHistory(cmd, args[0])
			if err != nil {
				return err
			}
			r := render.NewSiteRenderer(args[1], nil, nil)
			if err := r.Render(cmd.Context(), name, h.SummaryFromLatest(), h); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d probe(s) into %s\n", len(h.Probes), args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", DefaultSiteName, "Site name shown on the page")
	return cmd
}

func newHistoryGenerateCommand() *cobra.Command {
	var (
		probes int
		seed   uint64
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "generate <file>",
		Short: "Write a random history for page development",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			h := sample.NewGenerator(seed, sample.DefaultRates).History(probes, time.Now())
			if err := repositoryFor(path).Save(cmd.Context(), h); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d probe(s) to %s\n", probes, path)
			return nil
		},
	}
	cmd.Flags().IntVar(&probes, "probes", DefaultGeneratedProbes, "Number of probes to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed (default: current time)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
