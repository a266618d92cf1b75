package commands

import (
	"github.com/doeshing/ronde/internal/app"
)

// Globals carries the persistent flags shared by every command.
type Globals struct {
	Verbose bool
}

// Container builds the dependency graph for configPath.
func (g *Globals) Container(configPath string) *app.Container {
	return app.BuildContainer(configPath, g.Verbose)
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
