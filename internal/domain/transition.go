package domain

import "time"

// Transition classifies the newest entry of a log against the one before it.
type Transition string

const (
	TransitionNone              Transition = "none"
	TransitionNewFailure        Transition = "new_failure"
	TransitionRecovered         Transition = "recovered"
	TransitionContinuingFailure Transition = "continuing_failure"
)

// IsNewFailure reports whether the newest entry is a failure and the previous
// one, if any, is not. A log holding a single failure counts.
func (p *ProbeHistory) IsNewFailure() bool {
	last, prev, hasPrev := p.lastTwo()
	if last == nil || !last.IsFailure() {
		return false
	}
	return !hasPrev || !prev.IsFailure()
}

// IsRecovered reports whether the newest entry is a success following a failure.
func (p *ProbeHistory) IsRecovered() bool {
	last, prev, hasPrev := p.lastTwo()
	return last != nil && !last.IsFailure() && hasPrev && prev.IsFailure()
}

// IsContinuingFailure reports whether the two newest entries are both failures.
func (p *ProbeHistory) IsContinuingFailure() bool {
	last, prev, hasPrev := p.lastTwo()
	return last != nil && last.IsFailure() && hasPrev && prev.IsFailure()
}

// ReminderPolicy controls continuing-failure reminders. A nil Cooldown
// disables them; a zero Cooldown reminds on every evaluation.
type ReminderPolicy struct {
	Cooldown *time.Duration
}

// Due reports whether a reminder may be sent at now given the last
// notification time.
func (r ReminderPolicy) Due(lastNotified *time.Time, now time.Time) bool {
	if r.Cooldown == nil {
		return false
	}
	if lastNotified == nil {
		return true
	}
	return now.Sub(*lastNotified) >= *r.Cooldown
}

// Transition classifies the log. The reference time for the cooldown is the
// newest entry's timestamp, not the wall clock.
func (p *ProbeHistory) Transition(policy ReminderPolicy) Transition {
	switch {
	case p.IsNewFailure():
		return TransitionNewFailure
	case p.IsRecovered():
		return TransitionRecovered
	case p.IsContinuingFailure():
		last, _ := p.Latest()
		if policy.Due(p.LastNotifiedAt, last.Timestamp) {
			return TransitionContinuingFailure
		}
	}
	return TransitionNone
}

// MarkNotified records that a notification was sent at at.
func (p *ProbeHistory) MarkNotified(at time.Time) {
	at = at.UTC()
	p.LastNotifiedAt = &at
}

func (p *ProbeHistory) lastTwo() (last, prev *HistoryEntry, hasPrev bool) {
	n := len(p.Entries)
	if n == 0 {
		return nil, nil, false
	}
	last = &p.Entries[n-1]
	if n == 1 {
		return last, nil, false
	}
	return last, &p.Entries[n-2], true
}
