package domain

import "errors"

var (
	// ErrDuplicateProbeName is returned when two probes share a name.
	ErrDuplicateProbeName = errors.New("probe name is not unique")
	// ErrHistoryCorrupt wraps any failure to decode persisted history.
	ErrHistoryCorrupt = errors.New("history is corrupt")
)
