package executor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/arthur-debert/winslim/pkg/logging"
	"github.com/arthur-debert/winslim/pkg/types"
)

// ExecRunner runs commands with os/exec.
//
// The context is only consulted before a process starts. A running child is
// never killed on cancellation: callers wait for the current external call to
// finish and stop afterwards.
type ExecRunner struct {
	// Env is appended to the inherited environment when non-empty.
	Env []string
}

// NewExecRunner creates a runner using the current environment
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements types.CommandRunner
func (r *ExecRunner) Run(ctx context.Context, command types.Command, onLine func(line string)) (int, error) {
	logger := logging.GetLogger("executor").With().Str("command", command.Path).Logger()

	if err := ctx.Err(); err != nil {
		return -1, fmt.Errorf("not starting %s: %w", command.Path, err)
	}

	logging.LogCommand(command.Path, command.Args)

	cmd := exec.Command(command.Path, command.Args...)
	if len(r.Env) > 0 {
		cmd.Env = append(cmd.Environ(), r.Env...)
	}

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		_ = pr.Close()
		return -1, fmt.Errorf("failed to start %s: %w", command.Path, err)
	}

	waitErr := make(chan error, 1)
	go func() {
		err := cmd.Wait()
		_ = pw.Close()
		waitErr <- err
	}()

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if onLine != nil {
			onLine(line)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn().Err(err).Msg("Failed to read process output")
		// Drain so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, pr)
	}

	err := <-waitErr
	if err == nil {
		logger.Debug().Int("exitCode", 0).Msg("Process exited")
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		logger.Debug().Int("exitCode", code).Msg("Process exited")
		return code, nil
	}
	return -1, fmt.Errorf("failed to wait for %s: %w", command.Path, err)
}

var _ types.CommandRunner = (*ExecRunner)(nil)
