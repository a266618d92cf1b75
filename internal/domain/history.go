package domain

import (
	"slices"
	"time"
)

// HistoryEntry is one recorded run of a probe.
type HistoryEntry struct {
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	Tag       TimeTag   `yaml:"tag" json:"tag"`
	Command   string    `yaml:"command" json:"command"`
	Outcome   Outcome   `yaml:"outcome" json:"outcome"`
}

// IsFailure reports whether the entry recorded a failure.
func (e HistoryEntry) IsFailure() bool {
	return e.Outcome.IsFailure()
}

// mergeNewer folds a newer entry of the same bucket into e.
// A newer failure always wins, a newer success never hides an older failure,
// and between successes the newest one is kept whole.
func (e *HistoryEntry) mergeNewer(newer HistoryEntry) {
	switch {
	case newer.IsFailure():
		e.Outcome = newer.Outcome
		e.Timestamp = newer.Timestamp
	case e.IsFailure():
	default:
		*e = newer
	}
}

// ProbeResult pairs an outcome with the probe that produced it.
type ProbeResult struct {
	Name    string
	Command string
	Outcome Outcome
}

// ProbeHistory is the ordered log of one probe, oldest entry first.
type ProbeHistory struct {
	Name string `yaml:"name" json:"name"`
	// LastNotifiedAt is the reference time of the last notification sent for
	// this probe. It gates continuing-failure reminders.
	LastNotifiedAt *time.Time     `yaml:"last_notified_at,omitempty" json:"last_notified_at,omitempty"`
	Entries        []HistoryEntry `yaml:"entries" json:"entries"`
}

// Append records a new outcome at now. The tag is a placeholder until the
// next Retag.
func (p *ProbeHistory) Append(outcome Outcome, command string, now time.Time) {
	p.Entries = append(p.Entries, HistoryEntry{
		Timestamp: now.UTC(),
		Tag:       MinuteTag(0),
		Command:   command,
		Outcome:   outcome,
	})
}

// Latest returns the newest entry, if any.
func (p *ProbeHistory) Latest() (HistoryEntry, bool) {
	if len(p.Entries) == 0 {
		return HistoryEntry{}, false
	}
	return p.Entries[len(p.Entries)-1], true
}

// History holds the logs of every probe, in first-seen order. Names are unique.
type History struct {
	Probes []ProbeHistory `yaml:"probes" json:"probes"`
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{Probes: []ProbeHistory{}}
}

// Find returns the log of the named probe.
func (h *History) Find(name string) (*ProbeHistory, bool) {
	for i := range h.Probes {
		if h.Probes[i].Name == name {
			return &h.Probes[i], true
		}
	}
	return nil, false
}

// Names lists probe names in order.
func (h *History) Names() []string {
	names := make([]string, 0, len(h.Probes))
	for _, p := range h.Probes {
		names = append(names, p.Name)
	}
	return names
}

// Purge drops every probe whose name is not in current. Remaining probes keep
// their order and entries.
func (h *History) Purge(current []string) {
	h.Probes = slices.DeleteFunc(h.Probes, func(p ProbeHistory) bool {
		return !slices.Contains(current, p.Name)
	})
}

// Update appends one entry per result, creating logs for unseen probes.
func (h *History) Update(results []ProbeResult, now time.Time) {
	for _, r := range results {
		probe, ok := h.Find(r.Name)
		if !ok {
			h.Probes = append(h.Probes, ProbeHistory{Name: r.Name})
			probe = &h.Probes[len(h.Probes)-1]
		}
		probe.Append(r.Outcome, r.Command, now)
	}
}

// Retag recomputes the tags of every probe. See ProbeHistory.Retag.
func (h *History) Retag() {
	for i := range h.Probes {
		h.Probes[i].Retag()
	}
}

// Rotate compacts every probe. See ProbeHistory.Rotate.
func (h *History) Rotate() {
	for i := range h.Probes {
		h.Probes[i].Rotate()
	}
}

// Summary counts healthy and failing probes.
type Summary struct {
	OK      int `yaml:"nb_ok" json:"nb_ok"`
	Failing int `yaml:"nb_err" json:"nb_err"`
}

// Healthy reports whether nothing is failing.
func (s Summary) Healthy() bool {
	return s.Failing == 0
}

// Total is the number of probes counted.
func (s Summary) Total() int {
	return s.OK + s.Failing
}

// SummaryFromResults counts the outcomes of the current run.
func SummaryFromResults(results []ProbeResult) Summary {
	var s Summary
	for _, r := range results {
		if r.Outcome.IsFailure() {
			s.Failing++
		} else {
			s.OK++
		}
	}
	return s
}

// SummaryFromLatest counts the newest entry of each probe. Probes without
// entries are not counted.
func (h *History) SummaryFromLatest() Summary {
	var s Summary
	for i := range h.Probes {
		last, ok := h.Probes[i].Latest()
		if !ok {
			continue
		}
		if last.IsFailure() {
			s.Failing++
		} else {
			s.OK++
		}
	}
	return s
}
