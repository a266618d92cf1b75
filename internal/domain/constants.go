package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// PublicFilePermissions is used for the rendered status page (rw-r--r--)
	PublicFilePermissions = 0o644
	// SecureFilePermissions is the permission for history and config files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultProbeTimeoutSeconds is used when a probe sets no timeout
	DefaultProbeTimeoutSeconds uint16 = 60
	// DefaultHTTPClientTimeout is the timeout for notification requests
	DefaultHTTPClientTimeout = 30 * time.Second
)

// Notification limits
const (
	// MaxNotificationTitle is the longest title Pushover accepts
	MaxNotificationTitle = 250
	// MaxNotificationMessage is the longest message Pushover accepts
	MaxNotificationMessage = 1024
)

// Output file names
const (
	IndexFile    = "index.html"
	MainJSONFile = "main.json"
	StyleFile    = "style.css"
	ScriptFile   = "main.js"
)

// Time formats
const (
	// TimestampFormat is used for human readable timestamps (RFC 2822 style)
	TimestampFormat = time.RFC1123Z
)
