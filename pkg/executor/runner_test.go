package executor_test

import (
	"context"
	"runtime"
	"testing"

	"github.com/arthur-debert/winslim/pkg/executor"
	"github.com/arthur-debert/winslim/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shell(t *testing.T, script string) types.Command {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
	return types.Command{Path: "sh", Args: []string{"-c", script}}
}

func TestExecRunner_StreamsOutput(t *testing.T) {
	runner := executor.NewExecRunner()

	var lines []string
	code, err := runner.Run(context.Background(), shell(t, "echo first; echo second >&2; echo third"), func(line string) {
		lines = append(lines, line)
	})

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.ElementsMatch(t, []string{"first", "second", "third"}, lines)
}

func TestExecRunner_NonZeroExitIsNotAnError(t *testing.T) {
	runner := executor.NewExecRunner()

	code, err := runner.Run(context.Background(), shell(t, "echo failing; exit 3"), nil)

	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestExecRunner_MissingExecutable(t *testing.T) {
	runner := executor.NewExecRunner()

	code, err := runner.Run(context.Background(), types.Command{Path: "/definitely/not/here/helper.exe"}, nil)

	require.Error(t, err)
	assert.Equal(t, -1, code)
}

func TestExecRunner_CancelledBeforeStart(t *testing.T) {
	runner := executor.NewExecRunner()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	started := false
	_, err := runner.Run(ctx, shell(t, "echo should-not-run"), func(string) { started = true })

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, started)
}

func TestExecRunner_Env(t *testing.T) {
	runner := &executor.ExecRunner{Env: []string{"WINSLIM_TEST_VALUE=42"}}

	var lines []string
	code, err := runner.Run(context.Background(), shell(t, "echo $WINSLIM_TEST_VALUE"), func(line string) {
		lines = append(lines, line)
	})

	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"42"}, lines)
}
