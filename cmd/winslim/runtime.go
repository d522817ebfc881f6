package winslim

import (
	"io"

	"github.com/arthur-debert/winslim/pkg/executor"
	"github.com/arthur-debert/winslim/pkg/filesystem"
	"github.com/arthur-debert/winslim/pkg/helpertool"
	"github.com/arthur-debert/winslim/pkg/sink"
	"github.com/arthur-debert/winslim/pkg/system"
	"github.com/arthur-debert/winslim/pkg/types"
)

// Runtime holds the collaborators commands act on
type Runtime struct {
	Sink        types.MessageSink
	FS          types.FS
	Runner      types.CommandRunner
	Apps        types.AppRemover
	Scheduler   types.TaskScheduler
	Services    types.ServiceManager
	Policy      types.PolicyWriter
	ContextMenu types.ContextMenuCleaner

	// GuardOptions configure the helper tool guard
	GuardOptions []helpertool.Option
}

// RuntimeFactory builds the runtime for one command invocation; out is the
// command's output stream
type RuntimeFactory func(out io.Writer) *Runtime

// DefaultRuntime talks to the real system
func DefaultRuntime(out io.Writer) *Runtime {
	runner := executor.NewExecRunner()
	return &Runtime{
		Sink:        sink.NewConsole(out),
		FS:          filesystem.NewOS(),
		Runner:      runner,
		Apps:        system.NewAppxRemover(runner),
		Scheduler:   system.NewSchtasks(runner),
		Services:    system.NewServiceManager(),
		Policy:      system.NewPolicyWriter(),
		ContextMenu: system.NewContextMenuCleaner(),
	}
}
