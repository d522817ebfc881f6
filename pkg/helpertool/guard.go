package helpertool

import (
	"bytes"
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/filesystem"
	"github.com/arthur-debert/winslim/pkg/logging"
	"github.com/arthur-debert/winslim/pkg/paths"
	"github.com/arthur-debert/winslim/pkg/types"
)

// State is the lifecycle state of the extracted helper
type State int

const (
	NotExtracted State = iota
	ExtractedAndLocked
)

func (s State) String() string {
	if s == ExtractedAndLocked {
		return "extracted-and-locked"
	}
	return "not-extracted"
}

// Handle is the extracted, locked helper executable
type Handle struct {
	Path string
	lock Lock
}

// Guard owns the single helper executable of the process. Build one with
// NewGuard at startup and defer ReleaseAll in the function that owns the run.
// A Guard is not safe for concurrent use; the engine is strictly sequential.
type Guard struct {
	fs      types.FS
	locker  Locker
	runner  types.CommandRunner
	path    string
	payload func() ([]byte, error)

	handle      *Handle
	extractions int
}

// Option configures a Guard
type Option func(*Guard)

// WithFS replaces the filesystem the payload is written to
func WithFS(fsys types.FS) Option {
	return func(g *Guard) { g.fs = fsys }
}

// WithLocker replaces the platform file lock
func WithLocker(l Locker) Option {
	return func(g *Guard) { g.locker = l }
}

// WithPath changes where the helper is extracted
func WithPath(path string) Option {
	return func(g *Guard) { g.path = path }
}

// WithPayload replaces the bundled executable
func WithPayload(data []byte) Option {
	return func(g *Guard) {
		g.payload = func() ([]byte, error) {
			if len(data) == 0 {
				return nil, errors.New(errors.ErrExtraction, "helper payload is empty")
			}
			return data, nil
		}
	}
}

// NewGuard creates a guard that runs the helper through runner
func NewGuard(runner types.CommandRunner, opts ...Option) *Guard {
	g := &Guard{
		fs:      filesystem.NewOS(),
		locker:  FileLocker{},
		runner:  runner,
		path:    paths.HelperToolPath(PayloadName),
		payload: BundledPayload,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// State reports whether the helper is currently extracted and locked
func (g *Guard) State() State {
	if g.handle == nil {
		return NotExtracted
	}
	return ExtractedAndLocked
}

// Extractions counts how many times the payload was written
func (g *Guard) Extractions() int {
	return g.extractions
}

// EnsureAvailable extracts and locks the helper on first use and returns the
// same handle afterwards, as long as the extracted file still exists.
func (g *Guard) EnsureAvailable() (*Handle, error) {
	logger := logging.GetLogger("helpertool").With().Str("path", g.path).Logger()

	if g.handle != nil {
		if _, err := g.fs.Stat(g.handle.Path); err == nil {
			return g.handle, nil
		}
		logger.Warn().Msg("Extracted helper disappeared, extracting again")
		if err := g.handle.lock.Release(); err != nil {
			logger.Debug().Err(err).Msg("Failed to release stale lock")
		}
		g.handle = nil
	}

	payload, err := g.payload()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrExtraction, "helper tool is unavailable")
	}

	if err := g.fs.MkdirAll(filepath.Dir(g.path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrExtraction, "cannot create %s", filepath.Dir(g.path)).
			WithDetail("path", g.path)
	}
	if err := g.fs.WriteFile(g.path, payload, 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrExtraction, "cannot write %s", g.path).
			WithDetail("path", g.path)
	}

	lock, err := g.locker.Lock(g.path)
	if err != nil {
		_ = g.fs.Remove(g.path)
		return nil, errors.Wrapf(err, errors.ErrExtraction, "cannot lock %s", g.path).
			WithDetail("path", g.path)
	}

	// The file was writable between WriteFile and Lock; make sure what we hold
	// is what we wrote.
	written, err := g.fs.ReadFile(g.path)
	if err != nil || !bytes.Equal(written, payload) {
		_ = lock.Release()
		_ = g.fs.Remove(g.path)
		return nil, errors.Newf(errors.ErrExtraction, "%s changed while it was being locked", g.path).
			WithDetail("path", g.path)
	}

	g.handle = &Handle{Path: g.path, lock: lock}
	g.extractions++
	logger.Debug().Int("bytes", len(payload)).Msg("Helper extracted and locked")
	return g.handle, nil
}

// Run executes the helper to remove component, streaming its output to sink,
// and returns the exit code. It blocks until the helper exits.
func (g *Guard) Run(ctx context.Context, component string, handle *Handle, sink types.MessageSink) (int, error) {
	if handle == nil || handle != g.handle {
		return -1, errors.New(errors.ErrInternal, "helper handle is not held by this guard")
	}

	cmd := types.Command{Path: handle.Path, Args: []string{"/o", "/c", component, "/r"}}
	code, err := g.runner.Run(ctx, cmd, sink.Output)
	if err != nil {
		return code, errors.Wrapf(err, errors.ErrExternalTool, "failed to run %s", PayloadName).
			WithDetail("component", component)
	}
	return code, nil
}

// ReleaseAll releases the lock and deletes the extracted file. It is safe to
// call more than once and when nothing was extracted.
func (g *Guard) ReleaseAll() error {
	if g.handle == nil {
		return nil
	}
	h := g.handle
	g.handle = nil

	var errs []error
	if err := h.lock.Release(); err != nil {
		errs = append(errs, errors.Wrap(err, errors.ErrFileLock, "failed to release helper lock"))
	}
	if err := g.fs.Remove(h.Path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		errs = append(errs, errors.Wrapf(err, errors.ErrFileAccess, "failed to delete %s", h.Path))
	}

	logger := logging.GetLogger("helpertool")
	logger.Debug().Str("path", h.Path).Msg("Helper released")
	return stderrors.Join(errs...)
}
