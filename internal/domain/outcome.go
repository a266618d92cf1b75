// Package domain defines the core entities of ronde: probe outcomes, the
// per-probe history log and the rules that tag, compact and interpret it.
//
// Nothing in this package performs I/O. Infrastructure adapters load and
// persist the types declared here and feed probe results into them.
package domain

import "fmt"

// OutcomeKind discriminates the variants of Outcome.
type OutcomeKind string

const (
	OutcomeSuccess        OutcomeKind = "success"
	OutcomeTimeout        OutcomeKind = "timeout"
	OutcomeCommandFailure OutcomeKind = "command_failure"
	OutcomeOther          OutcomeKind = "other"
)

// Outcome is the recorded result of running one probe. Exactly one variant
// holds, selected by Kind; fields that do not belong to the variant are zero.
//
//   - Success:        ExitCode, Stdout, Stderr
//   - Timeout:        TimeoutSeconds
//   - CommandFailure: ExitCode, Stdout, Stderr
//   - Other:          Message
type Outcome struct {
	Kind           OutcomeKind `yaml:"kind" json:"kind"`
	ExitCode       int         `yaml:"exit_code,omitempty" json:"exit_code,omitempty"`
	Stdout         string      `yaml:"stdout,omitempty" json:"stdout,omitempty"`
	Stderr         string      `yaml:"stderr,omitempty" json:"stderr,omitempty"`
	TimeoutSeconds uint16      `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Message        string      `yaml:"message,omitempty" json:"message,omitempty"`
}

// Success builds a successful outcome.
func Success(exitCode int, stdout, stderr string) Outcome {
	return Outcome{Kind: OutcomeSuccess, ExitCode: exitCode, Stdout: stdout, Stderr: stderr}
}

// Timeout builds an outcome for a probe that exceeded its deadline.
func Timeout(seconds uint16) Outcome {
	return Outcome{Kind: OutcomeTimeout, TimeoutSeconds: seconds}
}

// CommandFailure builds an outcome for a probe that exited non-zero.
func CommandFailure(exitCode int, stdout, stderr string) Outcome {
	return Outcome{Kind: OutcomeCommandFailure, ExitCode: exitCode, Stdout: stdout, Stderr: stderr}
}

// OtherFailure builds an outcome for a probe that could not run.
func OtherFailure(message string) Outcome {
	return Outcome{Kind: OutcomeOther, Message: message}
}

// IsFailure reports whether the outcome is one of the failure variants.
// Unknown kinds count as failures so a damaged record never reads as healthy.
func (o Outcome) IsFailure() bool {
	return o.Kind != OutcomeSuccess
}

// Valid reports whether Kind names a known variant.
func (o Outcome) Valid() bool {
	switch o.Kind {
	case OutcomeSuccess, OutcomeTimeout, OutcomeCommandFailure, OutcomeOther:
		return true
	default:
		return false
	}
}

// String renders a one-line description used in notifications and logs.
func (o Outcome) String() string {
	switch o.Kind {
	case OutcomeSuccess:
		return fmt.Sprintf("Command output: code: %d, stdout: %s, stderr: %s", o.ExitCode, o.Stdout, o.Stderr)
	case OutcomeTimeout:
		return fmt.Sprintf("Timeout %ds", o.TimeoutSeconds)
	case OutcomeCommandFailure:
		return fmt.Sprintf("Command error: exit: %d, stdout: %s, stderr: %s", o.ExitCode, o.Stdout, o.Stderr)
	case OutcomeOther:
		return fmt.Sprintf("Other error: %s", o.Message)
	default:
		return fmt.Sprintf("unknown outcome %q", string(o.Kind))
	}
}
