package history

import (
	"fmt"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/ports"
)

// ForConfig picks the repository matching cfg.HistoryBackend. path overrides
// cfg.HistoryFile when not empty.
func ForConfig(cfg domain.Config, path string) (ports.HistoryRepository, error) {
	if path == "" {
		path = cfg.HistoryFile
	}
	switch cfg.HistoryBackend {
	case "", domain.HistoryBackendYAML:
		return NewFileStore(path, cfg.UID, cfg.GID), nil
	case domain.HistoryBackendSQLite:
		return NewSQLiteStore(path, cfg.UID, cfg.GID), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}
