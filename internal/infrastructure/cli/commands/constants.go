package commands

// Defaults
const (
	// DefaultGeneratedProbes is the number of probes `history generate` creates
	DefaultGeneratedProbes = 10
	// DefaultSiteName titles pages rendered from a bare history file
	DefaultSiteName = "Ronde"
)

// Error messages
const (
	ErrDoctorServiceUnavailable  = "doctor service unavailable"
	ErrMonitorServiceUnavailable = "monitor service unavailable"
)

// Messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromExample = "No differences from the example configuration."
)
