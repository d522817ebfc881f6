// Package steps implements the removal steps the orchestrator composes:
// policy-gated component removal through the helper tool, fail-closed
// backup-then-remove of services, and tolerant disabling of scheduled tasks.
//
// Steps never return errors. Every failure is folded into the
// types.RemovalOutcome they return so callers can keep going.
package steps
