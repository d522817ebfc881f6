package testutil

import (
	"context"
	"strings"

	"github.com/arthur-debert/winslim/pkg/types"
)

// RunResult is what a FakeRunner returns for one command
type RunResult struct {
	Lines    []string
	ExitCode int
	Err      error
}

// FakeRunner records commands and answers them from Handler.
// With no Handler every command succeeds silently.
type FakeRunner struct {
	Calls   []types.Command
	Handler func(cmd types.Command) RunResult
}

// Run implements types.CommandRunner
func (f *FakeRunner) Run(ctx context.Context, cmd types.Command, onLine func(string)) (int, error) {
	f.Calls = append(f.Calls, cmd)
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	result := RunResult{}
	if f.Handler != nil {
		result = f.Handler(cmd)
	}
	if onLine != nil {
		for _, line := range result.Lines {
			onLine(line)
		}
	}
	if result.Err != nil {
		return -1, result.Err
	}
	return result.ExitCode, nil
}

// CallsTo returns the recorded commands whose path ends with suffix
func (f *FakeRunner) CallsTo(suffix string) []types.Command {
	var out []types.Command
	for _, c := range f.Calls {
		if strings.HasSuffix(strings.ToLower(c.Path), strings.ToLower(suffix)) {
			out = append(out, c)
		}
	}
	return out
}

// ExitWith returns a handler answering every command with code
func ExitWith(code int, lines ...string) func(types.Command) RunResult {
	return func(types.Command) RunResult {
		return RunResult{Lines: lines, ExitCode: code}
	}
}

var _ types.CommandRunner = (*FakeRunner)(nil)
