package types

import (
	"context"
	"io/fs"
	"strings"
)

// FS is the filesystem interface required for winslim operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
}

// MessageSink receives human-readable progress lines.
// Implementations decide presentation; callers only decide content.
type MessageSink interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)

	// Output forwards one line produced by an external process.
	Output(line string)
}

// Command is an executable plus its arguments
type Command struct {
	Path string
	Args []string
}

// String renders the command for logs and messages
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// CommandRunner runs external processes to completion.
// Run blocks until the process exits, calling onLine for every output line,
// and returns the exit code. The error is reserved for processes that could
// not be started or waited on; a non-zero exit is not an error.
type CommandRunner interface {
	Run(ctx context.Context, cmd Command, onLine func(line string)) (int, error)
}

// ServiceConfig is the restorable configuration of a background service
type ServiceConfig struct {
	Name           string   `toml:"name"`
	DisplayName    string   `toml:"display_name"`
	Description    string   `toml:"description"`
	BinaryPathName string   `toml:"binary_path"`
	ServiceType    uint32   `toml:"service_type"`
	StartType      uint32   `toml:"start_type"`
	ErrorControl   uint32   `toml:"error_control"`
	LoadOrderGroup string   `toml:"load_order_group"`
	Dependencies   []string `toml:"dependencies"`
	StartName      string   `toml:"start_name"`
}

// ServiceManager exposes the service control manager.
// Config returns a NOT_FOUND coded error for services that do not exist.
// Remove returns false when the service was not present.
type ServiceManager interface {
	Config(name string) (ServiceConfig, error)
	Remove(name string) (bool, error)
}

// BackupStore persists service configuration before removal.
// Backup returns a NOT_FOUND coded error when the service does not exist.
type BackupStore interface {
	Backup(ctx context.Context, service string) error
}

// TaskScheduler disables scheduled tasks.
// Disable returns false when the task was already disabled and a NOT_FOUND
// coded error when it does not exist.
type TaskScheduler interface {
	Disable(ctx context.Context, taskPath string) (bool, error)
}

// PolicyWriter writes registry policy values
type PolicyWriter interface {
	SetDWORD(keyPath, valueName string, value uint32) error
}

// ContextMenuCleaner deletes every subkey named name found below root and
// returns how many keys were deleted.
type ContextMenuCleaner interface {
	DeleteSubKeysNamed(root, name string) (int, error)
}

// AppRemoval describes what the app removal layer observed for one package
type AppRemoval struct {
	// Found is true when an installed package existed before removal.
	Found bool

	// Errors counts error lines the removal layer reported.
	Errors int
}

// AppRemover uninstalls store app packages for all users
type AppRemover interface {
	Remove(ctx context.Context, name string, sink MessageSink) (AppRemoval, error)
}
