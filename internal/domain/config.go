package domain

// Config mirrors the ronde configuration file (YAML or TOML).
type Config struct {
	Name           string              `yaml:"name" toml:"name"`
	HistoryFile    string              `yaml:"history_file" toml:"history_file"`
	HistoryBackend HistoryBackend      `yaml:"history_backend,omitempty" toml:"history_backend"`
	OutputDir      string              `yaml:"output_dir" toml:"output_dir"`
	MetricsFile    string              `yaml:"metrics_file,omitempty" toml:"metrics_file"`
	UID            *uint32             `yaml:"uid,omitempty" toml:"uid"`
	GID            *uint32             `yaml:"gid,omitempty" toml:"gid"`
	Notifications  *NotificationConfig `yaml:"notifications,omitempty" toml:"notifications"`
	Probes         []ProbeConfig       `yaml:"commands" toml:"commands"`
}

// HistoryBackend selects how history is persisted.
type HistoryBackend string

const (
	HistoryBackendYAML   HistoryBackend = "yaml"
	HistoryBackendSQLite HistoryBackend = "sqlite"
)

// ProbeConfig describes one health-check command.
type ProbeConfig struct {
	Name string `yaml:"name" toml:"name"`
	Run  string `yaml:"run" toml:"run"`
	// Timeout is in seconds.
	Timeout  uint16            `yaml:"timeout,omitempty" toml:"timeout"`
	UID      *uint32           `yaml:"uid,omitempty" toml:"uid"`
	GID      *uint32           `yaml:"gid,omitempty" toml:"gid"`
	Cwd      string            `yaml:"cwd,omitempty" toml:"cwd"`
	Env      map[string]string `yaml:"env,omitempty" toml:"env"`
	ClearEnv bool              `yaml:"clear_env,omitempty" toml:"clear_env"`
}

// NotificationConfig controls alerting.
type NotificationConfig struct {
	Pushover                     *PushoverConfig `yaml:"pushover,omitempty" toml:"pushover"`
	NotifyOnSuccessAfterFailure  bool            `yaml:"notify_on_success_after_failure" toml:"notify_on_success_after_failure"`
	MinutesBetweenContinuousFail *uint           `yaml:"minutes_between_continuous_failure_notification,omitempty" toml:"minutes_between_continuous_failure_notification"`
}

// PushoverConfig holds Pushover credentials.
type PushoverConfig struct {
	User  string `yaml:"user" toml:"user"`
	Token string `yaml:"token" toml:"token"`
	URL   string `yaml:"url,omitempty" toml:"url"`
}
