package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/logging"
	"github.com/arthur-debert/winslim/pkg/types"
)

// ScheduledTasks disables scheduled tasks one by one
type ScheduledTasks struct {
	scheduler types.TaskScheduler
	sink      types.MessageSink
}

// NewScheduledTasks creates the step
func NewScheduledTasks(scheduler types.TaskScheduler, sink types.MessageSink) *ScheduledTasks {
	return &ScheduledTasks{scheduler: scheduler, sink: sink}
}

// DisableAll disables every task. Missing tasks are skipped; other errors
// are recorded and do not stop the remaining tasks.
func (s *ScheduledTasks) DisableAll(ctx context.Context, taskPaths []string) types.RemovalOutcome {
	batch := "tasks " + strings.Join(taskPaths, ", ")
	logger := logging.GetLogger("steps.tasks")

	disabled := 0
	var failedTasks []string
	var firstErr error
	for _, path := range taskPaths {
		changed, err := s.scheduler.Disable(ctx, path)
		switch {
		case err == nil && changed:
			disabled++
			s.sink.Info(fmt.Sprintf("Task %s has been disabled.", path))
		case err == nil:
			s.sink.Info(fmt.Sprintf("Task %s was already disabled.", path))
		case errors.IsErrorCode(err, errors.ErrNotFound):
			s.sink.Warn(fmt.Sprintf("Task %s was not found.", path))
			logger.Debug().Str("task", path).Msg("Task not found")
		default:
			failedTasks = append(failedTasks, path)
			if firstErr == nil {
				firstErr = err
			}
			s.sink.Error(fmt.Sprintf("Task %s could not be disabled: %v", path, err))
			logger.Error().Err(err).Str("task", path).Msg("Task disable failed")
		}
	}

	if len(failedTasks) > 0 {
		failure := errors.Wrapf(firstErr, errors.ErrTaskDisable, "could not disable %s", strings.Join(failedTasks, ", ")).
			WithDetail("tasks", failedTasks)
		return types.Failed(batch, failure)
	}
	if disabled == 0 {
		return types.Skipped(batch, "no task needed disabling")
	}
	return types.Removed(batch, fmt.Sprintf("%d task(s) disabled", disabled))
}
