package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/logging"
	"github.com/arthur-debert/winslim/pkg/types"
)

// Orchestrator removes groups of units and runs their post-removal
// procedures
type Orchestrator struct {
	groups     *types.GroupTable
	apps       types.AppRemover
	components ComponentRemover
	procedures ProcedureTable
	env        *Env
	sink       types.MessageSink
	now        func() time.Time
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithProcedures replaces the procedure table
func WithProcedures(table ProcedureTable) Option {
	return func(o *Orchestrator) { o.procedures = table }
}

// WithClock replaces the time source used for report timestamps
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// New creates an orchestrator. env carries the collaborators procedures act
// on; its Components and Sink fields are filled from the arguments when
// empty. The default procedure table is used unless WithProcedures is given.
func New(groups *types.GroupTable, apps types.AppRemover, components ComponentRemover, env *Env, sink types.MessageSink, opts ...Option) *Orchestrator {
	if env == nil {
		env = &Env{}
	}
	if env.Components == nil {
		env.Components = components
	}
	if env.Sink == nil {
		env.Sink = sink
	}
	o := &Orchestrator{
		groups:     groups,
		apps:       apps,
		components: components,
		procedures: DefaultProcedures(),
		env:        env,
		sink:       sink,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run processes groups in order. Unknown groups are reported and skipped.
// The returned error is non-nil only when the run ended early: a cancelled
// context (checked between groups) or a helper tool that cannot be
// extracted. The report is returned in every case.
func (o *Orchestrator) Run(ctx context.Context, groupNames []string) (*Report, error) {
	logger := logging.GetLogger("orchestrator")
	report := &Report{StartedAt: o.now()}
	defer func() { report.FinishedAt = o.now() }()
	defer logging.LogDuration(time.Now(), "remove groups")

	for i, name := range groupNames {
		if err := ctx.Err(); err != nil {
			report.Cancelled = true
			o.sink.Warn(fmt.Sprintf("Interrupted, %d group(s) left unprocessed.", len(groupNames)-i))
			logger.Warn().Int("remaining", len(groupNames)-i).Msg("Run cancelled")
			return report, err
		}

		group, ok := o.groups.Lookup(name)
		if !ok {
			notFound := errors.Newf(errors.ErrGroupNotFound, "unknown group %q", name)
			o.sink.Error(fmt.Sprintf("Unknown group %q, skipping it.", name))
			logger.Warn().Err(notFound).Msg("Group skipped")
			report.Groups = append(report.Groups, GroupReport{Name: name, Unknown: true, Err: notFound})
			continue
		}

		gr, err := o.runGroup(ctx, group)
		report.Groups = append(report.Groups, gr)
		if err != nil {
			report.Aborted = err.Error()
			o.sink.Error("Cannot continue without the helper tool, stopping.")
			logger.Error().Err(err).Str("group", name).Msg("Run aborted")
			return report, err
		}
	}

	removed, skipped, failed := report.Totals()
	logger.Info().
		Int("groups", len(report.Groups)).
		Int("removed", removed).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("Run finished")
	return report, nil
}

// runGroup returns an error only when the helper tool could not be
// extracted; the group is then left without post-removal.
func (o *Orchestrator) runGroup(ctx context.Context, group types.ComponentGroup) (GroupReport, error) {
	logger := logging.GetLogger("orchestrator").With().Str("group", group.Name).Logger()
	gr := GroupReport{Name: group.Name}
	done := logging.LogOperationStart(logger, "remove group")
	defer done()

	o.sink.Info(fmt.Sprintf("Removing group %s...", group.Name))
	for _, unit := range group.Units {
		outcome, reported := o.removeUnit(ctx, unit)
		gr.Units = append(gr.Units, outcome)
		gr.ReportedErrors += reported
		logger.Debug().Str("unit", unit.Name).Str("outcome", outcome.Kind.String()).Msg("Unit processed")

		if outcome.IsFailed() && errors.HasErrorCode(outcome.Err, errors.ErrExtraction) {
			gr.Result = types.AggregateOutcomes(gr.Units, gr.ReportedErrors)
			return gr, outcome.Err
		}
	}

	gr.Result = types.AggregateOutcomes(gr.Units, gr.ReportedErrors)
	if !gr.Result.ShouldRunPostRemoval() {
		logger.Info().Bool("anyRemoved", gr.Result.AnyRemoved).Bool("hadError", gr.Result.HadError).
			Msg("Post-removal skipped")
		return gr, nil
	}

	gr.PostRemoval = &ProcedureReport{Ran: true}
	procedure, ok := o.procedures[group.Name]
	if !ok || len(procedure) == 0 {
		o.sink.Info(fmt.Sprintf("Performing post-uninstall operations for %s... Nothing to do.", group.Name))
		return gr, nil
	}

	o.sink.Info(fmt.Sprintf("Performing post-uninstall operations for %s...", group.Name))
	gr.PostRemoval.Steps = procedure.Run(ctx, o.env)
	for _, step := range gr.PostRemoval.Steps {
		if step.IsFailed() && errors.HasErrorCode(step.Err, errors.ErrExtraction) {
			return gr, step.Err
		}
	}
	return gr, nil
}

// removeUnit runs the primary removal of one unit and prints exactly one
// line about its outcome. The int is the number of errors the removal layer
// reported.
func (o *Orchestrator) removeUnit(ctx context.Context, unit types.RemovableUnit) (types.RemovalOutcome, int) {
	switch unit.Kind {
	case types.UnitComponent:
		return o.components.RemoveIfAllowed(ctx, unit.Name), 0
	case types.UnitApp:
		return o.removeApp(ctx, unit.Name)
	default:
		err := errors.Newf(errors.ErrInternal, "unit %s has unknown kind %q", unit.Name, unit.Kind)
		o.sink.Error(err.Error())
		return types.Failed(unit.Name, err), 0
	}
}

func (o *Orchestrator) removeApp(ctx context.Context, name string) (types.RemovalOutcome, int) {
	result, err := o.apps.Remove(ctx, name, o.sink)
	if err != nil {
		o.sink.Error(fmt.Sprintf("Failed to remove app %s: %v", name, err))
		return types.Failed(name, err), result.Errors
	}

	switch {
	case result.Errors > 0:
		err := errors.Newf(errors.ErrExternalTool, "%d error(s) reported while removing %s", result.Errors, name)
		o.sink.Error(fmt.Sprintf("App %s was not removed cleanly: %d error(s) reported.", name, result.Errors))
		return types.Failed(name, err), result.Errors
	case !result.Found:
		o.sink.Info(fmt.Sprintf("App %s is not installed.", name))
		return types.Skipped(name, "not installed"), 0
	default:
		o.sink.Info(fmt.Sprintf("App %s removed.", name))
		return types.Removed(name, "removed for all users"), 0
	}
}
