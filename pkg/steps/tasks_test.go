package steps_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/sink"
	"github.com/arthur-debert/winslim/pkg/steps"
	"github.com/arthur-debert/winslim/pkg/testutil"
	"github.com/arthur-debert/winslim/pkg/types"
)

func TestScheduledTasks_OneMissing(t *testing.T) {
	scheduler := &testutil.MockTaskScheduler{}
	scheduler.On("Disable", `\Microsoft\Windows\Maps\MapsUpdateTask`).Return(true, nil)
	scheduler.On("Disable", `\Microsoft\Windows\Maps\Missing`).Return(false, notFound("task"))
	scheduler.On("Disable", `\Microsoft\Windows\Maps\MapsToastTask`).Return(true, nil)

	rec := sink.NewRecorder(nil)
	step := steps.NewScheduledTasks(scheduler, rec)
	outcome := step.DisableAll(context.Background(), []string{
		`\Microsoft\Windows\Maps\MapsUpdateTask`,
		`\Microsoft\Windows\Maps\Missing`,
		`\Microsoft\Windows\Maps\MapsToastTask`,
	})

	assert.Equal(t, types.OutcomeRemoved, outcome.Kind)
	assert.True(t, rec.Contains("Missing was not found"))
	assert.Equal(t, 2, rec.Count("has been disabled"))
	scheduler.AssertExpectations(t)
}

func TestScheduledTasks_ErrorDoesNotAbort(t *testing.T) {
	scheduler := &testutil.MockTaskScheduler{}
	scheduler.On("Disable", "a").Return(false, stderrors.New("access denied"))
	scheduler.On("Disable", "b").Return(true, nil)

	step := steps.NewScheduledTasks(scheduler, sink.NewRecorder(nil))
	outcome := step.DisableAll(context.Background(), []string{"a", "b"})

	assert.Equal(t, types.OutcomeFailed, outcome.Kind)
	assert.True(t, errors.IsErrorCode(outcome.Err, errors.ErrTaskDisable))
	scheduler.AssertCalled(t, "Disable", "b")
}

func TestScheduledTasks_NothingToDo(t *testing.T) {
	scheduler := &testutil.MockTaskScheduler{}
	scheduler.On("Disable", "a").Return(false, nil)
	scheduler.On("Disable", "b").Return(false, notFound("b"))

	rec := sink.NewRecorder(nil)
	step := steps.NewScheduledTasks(scheduler, rec)
	outcome := step.DisableAll(context.Background(), []string{"a", "b"})

	assert.Equal(t, types.OutcomeSkipped, outcome.Kind)
	assert.True(t, rec.Contains("already disabled"))
}
