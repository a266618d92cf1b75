// Package notification turns probe transitions into notifications.
package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/ronde/internal/domain"
	"github.com/doeshing/ronde/internal/ports"
)

// Intent is a notification the decider wants delivered, together with the
// reference time to record on the probe when delivery succeeds.
type Intent struct {
	Notification ports.Notification
	At           time.Time
}

// Decider classifies every probe of a history and emits intents.
type Decider struct {
	Policy           domain.ReminderPolicy
	NotifyRecoveries bool
}

// NewDecider builds a decider from the notification settings of cfg.
func NewDecider(cfg domain.Config) Decider {
	return Decider{
		Policy:           cfg.ReminderPolicy(),
		NotifyRecoveries: cfg.NotifyRecoveries(),
	}
}

// Decide returns the intents for history, in probe order.
func (d Decider) Decide(history *domain.History) []Intent {
	var intents []Intent
	for i := range history.Probes {
		probe := &history.Probes[i]
		t := probe.Transition(d.Policy)
		switch t {
		case domain.TransitionNone:
			continue
		case domain.TransitionRecovered:
			if !d.NotifyRecoveries {
				continue
			}
		}
		last, _ := probe.Latest()
		intents = append(intents, Intent{
			Notification: Compose(probe.Name, t, last),
			At:           last.Timestamp,
		})
	}
	return intents
}

// Compose builds the title and message for a transition of the named probe.
func Compose(name string, t domain.Transition, last domain.HistoryEntry) ports.Notification {
	n := ports.Notification{Probe: name, Transition: t}
	switch t {
	case domain.TransitionNewFailure:
		n.Title = fmt.Sprintf("New Failure of %s", name)
		n.Message = details(last)
	case domain.TransitionContinuingFailure:
		n.Title = fmt.Sprintf("Still failing: %s", name)
		n.Message = details(last)
	case domain.TransitionRecovered:
		n.Title = fmt.Sprintf("Back from failure on %s", name)
		n.Message = last.Command
	}
	return n
}

func details(e domain.HistoryEntry) string {
	o := e.Outcome
	var b strings.Builder
	b.WriteString(e.Command)
	b.WriteByte('\n')
	switch o.Kind {
	case domain.OutcomeSuccess, domain.OutcomeCommandFailure:
		fmt.Fprintf(&b, "exit code: %d\n>>>STDERR\n%s\n>>>STDOUT\n%s", o.ExitCode, o.Stderr, o.Stdout)
	default:
		b.WriteString(o.String())
	}
	return b.String()
}
