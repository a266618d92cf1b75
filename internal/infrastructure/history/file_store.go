package history

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/pkg/filesystem"
	"github.com/doeshing/ronde/internal/ports"
)

// FileStore keeps the whole history as one YAML document.
type FileStore struct {
	path string
	uid  *uint32
	gid  *uint32
}

// NewFileStore creates a store backed by path. When uid or gid is set the
// file is chowned after every write.
func NewFileStore(path string, uid, gid *uint32) *FileStore {
	return &FileStore{path: path, uid: uid, gid: gid}
}

// Load implements ports.HistoryRepository.
func (f *FileStore) Load(context.Context) (*domain.History, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewHistory(), nil
		}
		return nil, fmt.Errorf("read history %s: %w", f.path, err)
	}
	return Decode(data)
}

// Save implements ports.HistoryRepository. The previous document is replaced
// atomically.
func (f *FileStore) Save(_ context.Context, history *domain.History) error {
	data, err := yaml.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := filesystem.WriteFileAtomic(f.path, data, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write history %s: %w", f.path, err)
	}
	if err := filesystem.Chown(f.path, f.uid, f.gid); err != nil {
		return fmt.Errorf("chown history %s: %w", f.path, err)
	}
	return nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Decode parses a YAML history document.
func Decode(data []byte) (*domain.History, error) {
	history := domain.NewHistory()
	if err := yaml.Unmarshal(data, history); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrHistoryCorrupt, err)
	}
	if history.Probes == nil {
		history.Probes = []domain.ProbeHistory{}
	}
	if err := check(history); err != nil {
		return nil, err
	}
	return history, nil
}

func check(history *domain.History) error {
	seen := make(map[string]struct{}, len(history.Probes))
	for _, p := range history.Probes {
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: probe %q listed twice", domain.ErrHistoryCorrupt, p.Name)
		}
		seen[p.Name] = struct{}{}
		for i, e := range p.Entries {
			if !e.Outcome.Valid() {
				return fmt.Errorf("%w: probe %q entry %d has unknown outcome %q",
					domain.ErrHistoryCorrupt, p.Name, i, e.Outcome.Kind)
			}
		}
	}
	return nil
}

var _ ports.HistoryRepository = (*FileStore)(nil)
