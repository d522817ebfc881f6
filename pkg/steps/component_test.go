package steps_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/filesystem"
	"github.com/arthur-debert/winslim/pkg/helpertool"
	"github.com/arthur-debert/winslim/pkg/sink"
	"github.com/arthur-debert/winslim/pkg/steps"
	"github.com/arthur-debert/winslim/pkg/testutil"
	"github.com/arthur-debert/winslim/pkg/types"
)

func newGuard(runner *testutil.FakeRunner, payload []byte) *helpertool.Guard {
	return helpertool.NewGuard(runner,
		helpertool.WithFS(filesystem.NewMemory()),
		helpertool.WithLocker(testutil.NewFakeLocker()),
		helpertool.WithPath("/tmp/install_wim_tweak.exe"),
		helpertool.WithPayload(payload),
	)
}

func TestComponentRemoval_PolicyDenied(t *testing.T) {
	runner := &testutil.FakeRunner{}
	guard := newGuard(runner, []byte("MZ"))
	rec := sink.NewRecorder(nil)

	step := steps.NewComponentRemoval(guard, false, rec)
	outcome := step.RemoveIfAllowed(context.Background(), "LegacyComponentX")

	assert.Equal(t, types.OutcomeSkipped, outcome.Kind)
	assert.Empty(t, runner.Calls, "no process may be started")
	assert.Equal(t, helpertool.NotExtracted, guard.State())
	require.Len(t, rec.Texts(sink.LevelWarn), 1)
	assert.Contains(t, rec.Texts(sink.LevelWarn)[0], "LegacyComponentX")
	assert.True(t, errors.IsErrorCode(outcome.Err, errors.ErrPolicyDenied))
	assert.False(t, outcome.IsFailed())
}

func TestComponentRemoval_Success(t *testing.T) {
	runner := &testutil.FakeRunner{Handler: testutil.ExitWith(0, "done")}
	rec := sink.NewRecorder(nil)

	step := steps.NewComponentRemoval(newGuard(runner, []byte("MZ")), true, rec)
	outcome := step.RemoveIfAllowed(context.Background(), "Microsoft-Windows-ContactSupport")

	assert.Equal(t, types.OutcomeRemoved, outcome.Kind)
	require.NotNil(t, outcome.ExitCode)
	assert.Equal(t, 0, *outcome.ExitCode)
	assert.Equal(t, []string{"Component Microsoft-Windows-ContactSupport removed with install-wim-tweak."},
		rec.Texts(sink.LevelInfo), "one result line per unit")
	assert.Equal(t, []string{"done"}, rec.Texts(sink.LevelOutput))
}

func TestComponentRemoval_NonZeroExit(t *testing.T) {
	runner := &testutil.FakeRunner{Handler: testutil.ExitWith(1)}
	rec := sink.NewRecorder(nil)

	step := steps.NewComponentRemoval(newGuard(runner, []byte("MZ")), true, rec)
	outcome := step.RemoveIfAllowed(context.Background(), "Microsoft-PPIProjection-Package")

	assert.Equal(t, types.OutcomeFailed, outcome.Kind)
	require.NotNil(t, outcome.ExitCode)
	assert.Equal(t, 1, *outcome.ExitCode)
	assert.True(t, errors.IsErrorCode(outcome.Err, errors.ErrExternalTool))
	assert.True(t, rec.Contains("exited with status 1"))
	assert.Empty(t, rec.Texts(sink.LevelInfo))
	assert.Len(t, rec.Texts(sink.LevelError), 1)
}

func TestComponentRemoval_ExtractionFailure(t *testing.T) {
	runner := &testutil.FakeRunner{}
	rec := sink.NewRecorder(nil)

	step := steps.NewComponentRemoval(newGuard(runner, nil), true, rec)
	outcome := step.RemoveIfAllowed(context.Background(), "Microsoft-Windows-ContactSupport")

	assert.Equal(t, types.OutcomeFailed, outcome.Kind)
	assert.True(t, errors.HasErrorCode(outcome.Err, errors.ErrExtraction))
	assert.Empty(t, runner.Calls)
	assert.Len(t, rec.Texts(sink.LevelError), 1)
}

func TestComponentRemoval_ReusesExtractedHelper(t *testing.T) {
	runner := &testutil.FakeRunner{Handler: testutil.ExitWith(0)}
	guard := newGuard(runner, []byte("MZ"))
	step := steps.NewComponentRemoval(guard, true, sink.NewRecorder(nil))

	step.RemoveIfAllowed(context.Background(), "a")
	step.RemoveIfAllowed(context.Background(), "b")

	assert.Equal(t, 1, guard.Extractions())
	assert.Len(t, runner.Calls, 2)
}
