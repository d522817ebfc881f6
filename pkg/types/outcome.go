package types

import "fmt"

// OutcomeKind classifies what happened to a single removable unit or step.
type OutcomeKind int

const (
	// OutcomeSkipped means there was nothing to do: the unit was not present,
	// or policy prevented the attempt.
	OutcomeSkipped OutcomeKind = iota

	// OutcomeRemoved means the primary action completed and a confirmed
	// instance existed before it ran.
	OutcomeRemoved

	// OutcomeFailed means the primary action reported an error.
	OutcomeFailed
)

// String returns the lowercase name of the outcome kind
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRemoved:
		return "removed"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(k))
	}
}

// MarshalText lets outcome kinds appear by name in reports
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// RemovalOutcome is the per-unit result of one removal attempt.
// It is produced fresh for every attempt and never persisted.
type RemovalOutcome struct {
	Kind OutcomeKind `yaml:"kind"`

	// Unit is the technical name the outcome refers to (package, service
	// batch, task batch or component).
	Unit string `yaml:"unit"`

	// Reason is a short human-readable explanation.
	Reason string `yaml:"reason,omitempty"`

	// ExitCode is set when an external process produced the outcome.
	ExitCode *int `yaml:"exit_code,omitempty"`

	// Err is the underlying failure, if any.
	Err error `yaml:"-"`
}

// Skipped builds a skipped outcome
func Skipped(unit, reason string) RemovalOutcome {
	return RemovalOutcome{Kind: OutcomeSkipped, Unit: unit, Reason: reason}
}

// Removed builds a removed outcome
func Removed(unit, reason string) RemovalOutcome {
	return RemovalOutcome{Kind: OutcomeRemoved, Unit: unit, Reason: reason}
}

// Failed builds a failed outcome carrying the cause
func Failed(unit string, err error) RemovalOutcome {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return RemovalOutcome{Kind: OutcomeFailed, Unit: unit, Reason: reason, Err: err}
}

// WithExitCode attaches the exit code of the process that produced the outcome
func (o RemovalOutcome) WithExitCode(code int) RemovalOutcome {
	o.ExitCode = &code
	return o
}

// IsRemoved reports whether the outcome is OutcomeRemoved
func (o RemovalOutcome) IsRemoved() bool { return o.Kind == OutcomeRemoved }

// IsFailed reports whether the outcome is OutcomeFailed
func (o RemovalOutcome) IsFailed() bool { return o.Kind == OutcomeFailed }

// GroupRemovalResult aggregates the outcomes of every unit in a group.
type GroupRemovalResult struct {
	AnyRemoved bool `yaml:"any_removed"`
	HadError   bool `yaml:"had_error"`
}

// AggregateOutcomes folds unit outcomes into a GroupRemovalResult.
// reportedErrors counts errors the removal layer reported for units that
// still finished; any non-zero value marks the group as errored.
func AggregateOutcomes(outcomes []RemovalOutcome, reportedErrors int) GroupRemovalResult {
	result := GroupRemovalResult{HadError: reportedErrors > 0}
	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeRemoved:
			result.AnyRemoved = true
		case OutcomeFailed:
			result.HadError = true
		}
	}
	return result
}

// ShouldRunPostRemoval is true only when something was removed and nothing failed.
func (r GroupRemovalResult) ShouldRunPostRemoval() bool {
	return r.AnyRemoved && !r.HadError
}

// CombineOutcomes folds several step outcomes under one name with the usual
// precedence: any failure wins, then any removal, else skipped.
func CombineOutcomes(unit string, outcomes []RemovalOutcome) RemovalOutcome {
	combined := Skipped(unit, "nothing to do")
	for _, o := range outcomes {
		switch o.Kind {
		case OutcomeFailed:
			if !combined.IsFailed() {
				combined = RemovalOutcome{Kind: OutcomeFailed, Unit: unit, Reason: o.Reason, Err: o.Err, ExitCode: o.ExitCode}
			}
		case OutcomeRemoved:
			if combined.Kind == OutcomeSkipped {
				combined = Removed(unit, o.Reason)
			}
		}
	}
	return combined
}
