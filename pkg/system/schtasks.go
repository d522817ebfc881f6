package system

import (
	"context"
	"io"
	"strings"

	"github.com/beevik/etree"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/logging"
	"github.com/arthur-debert/winslim/pkg/types"
)

// TaskIndex tells whether a task is registered. schtasks messages are
// localized, so presence is not read from them when an index is available.
type TaskIndex interface {
	Exists(taskPath string) (bool, error)
}

// Schtasks disables scheduled tasks with schtasks.exe
type Schtasks struct {
	runner types.CommandRunner
	path   string
	index  TaskIndex
}

// SchtasksOption configures a Schtasks client
type SchtasksOption func(*Schtasks)

// WithTaskIndex replaces the platform task index. nil leaves presence to
// the schtasks error text.
func WithTaskIndex(index TaskIndex) SchtasksOption {
	return func(s *Schtasks) { s.index = index }
}

// NewSchtasks creates a scheduler client running through runner
func NewSchtasks(runner types.CommandRunner, opts ...SchtasksOption) *Schtasks {
	s := &Schtasks{runner: runner, path: SchtasksPath(), index: NewTaskIndex()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Schtasks) run(ctx context.Context, args ...string) (int, []string, error) {
	var lines []string
	code, err := s.runner.Run(ctx, types.Command{Path: s.path, Args: args}, func(line string) {
		lines = append(lines, line)
	})
	return code, lines, err
}

// mentionsMissing is the fallback for platforms without a task index and
// only understands English output.
func mentionsMissing(lines []string) bool {
	for _, l := range lines {
		lower := strings.ToLower(l)
		if strings.Contains(lower, "cannot find") || strings.Contains(lower, "does not exist") {
			return true
		}
	}
	return false
}

// taskEnabled reads Task/Settings/Enabled from a task definition. Tasks
// without the element are enabled.
func taskEnabled(definition string) (bool, error) {
	doc := etree.NewDocument()
	// schtasks declares UTF-16 in the prolog but writes the console code page;
	// the bytes are parsed as they come
	doc.ReadSettings.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }
	if err := doc.ReadFromString(definition); err != nil {
		return false, err
	}
	root := doc.Root()
	if root == nil {
		return false, errors.New(errors.ErrInvalidInput, "empty task definition")
	}
	el := root.FindElement("./Settings/Enabled")
	if el == nil {
		return true, nil
	}
	return !strings.EqualFold(strings.TrimSpace(el.Text()), "false"), nil
}

// Disable implements types.TaskScheduler
func (s *Schtasks) Disable(ctx context.Context, taskPath string) (bool, error) {
	logger := logging.GetLogger("system.schtasks").With().Str("task", taskPath).Logger()

	if s.index != nil {
		exists, err := s.index.Exists(taskPath)
		switch {
		case err != nil:
			logger.Debug().Err(err).Msg("Task index unavailable, relying on schtasks")
		case !exists:
			return false, errors.Newf(errors.ErrNotFound, "task %s does not exist", taskPath)
		}
	}

	code, lines, err := s.run(ctx, "/Query", "/TN", taskPath, "/XML")
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrExternalTool, "cannot query task %s", taskPath)
	}
	if code != 0 {
		if mentionsMissing(lines) {
			return false, errors.Newf(errors.ErrNotFound, "task %s does not exist", taskPath)
		}
		return false, errors.Newf(errors.ErrTaskDisable, "querying task %s failed: %s", taskPath, strings.Join(lines, " ")).
			WithDetail("exitCode", code)
	}

	enabled, err := taskEnabled(strings.Join(lines, "\n"))
	if err != nil {
		logger.Warn().Err(err).Msg("Cannot read task definition, disabling anyway")
		enabled = true
	}
	if !enabled {
		return false, nil
	}

	code, lines, err = s.run(ctx, "/Change", "/TN", taskPath, "/Disable")
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrExternalTool, "cannot disable task %s", taskPath)
	}
	if code != 0 {
		return false, errors.Newf(errors.ErrTaskDisable, "disabling task %s failed: %s", taskPath, strings.Join(lines, " ")).
			WithDetail("exitCode", code)
	}
	logger.Info().Msg("Task disabled")
	return true, nil
}

var _ types.TaskScheduler = (*Schtasks)(nil)
