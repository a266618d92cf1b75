package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/pkg/filesystem"
	"github.com/doeshing/ronde/internal/ports"
)

// DefaultConfigPath is used when neither a path nor RONDE_CONFIG is given.
const DefaultConfigPath = "/etc/ronde/config.yaml"

// FileLoader loads YAML or TOML configuration (overridable via RONDE_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Config{}, fmt.Errorf("config file %s not found", path)
		}
		return domain.Config{}, err
	}

	return Parse(path, data)
}

// Parse decodes data and applies defaults, as Load does for files.
func Parse(path string, data []byte) (domain.Config, error) {
	cfg, err := Decode(path, data)
	if err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

// Path returns the resolved configuration path.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return expandPath(l.overridePath)
	}
	if custom := os.Getenv("RONDE_CONFIG"); custom != "" {
		return expandPath(custom)
	}
	return DefaultConfigPath
}

// Decode parses data as TOML when path ends in .toml and as YAML otherwise.
func Decode(path string, data []byte) (domain.Config, error) {
	var cfg domain.Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return domain.Config{}, fmt.Errorf("parse toml config %s: %w", path, err)
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, fmt.Errorf("parse yaml config %s: %w", path, err)
	}
	return cfg, nil
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = domain.HistoryBackendYAML
	}
	cfg.HistoryFile = expandPath(cfg.HistoryFile)
	cfg.OutputDir = expandPath(cfg.OutputDir)
	cfg.MetricsFile = expandPath(cfg.MetricsFile)
	for i := range cfg.Probes {
		if cfg.Probes[i].Timeout == 0 {
			cfg.Probes[i].Timeout = domain.DefaultProbeTimeoutSeconds
		}
		cfg.Probes[i].Cwd = expandPath(cfg.Probes[i].Cwd)
	}
	return cfg
}

func expandPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(filesystem.UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
