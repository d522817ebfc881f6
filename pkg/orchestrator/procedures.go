package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/types"
)

// ServiceRemover is satisfied by steps.ServiceRemoval
type ServiceRemover interface {
	BackupAndRemove(ctx context.Context, names []string) types.RemovalOutcome
}

// TaskDisabler is satisfied by steps.ScheduledTasks
type TaskDisabler interface {
	DisableAll(ctx context.Context, taskPaths []string) types.RemovalOutcome
}

// ComponentRemover is satisfied by steps.ComponentRemoval
type ComponentRemover interface {
	RemoveIfAllowed(ctx context.Context, component string) types.RemovalOutcome
}

// Env is what procedure steps act on
type Env struct {
	Services    ServiceRemover
	Tasks       TaskDisabler
	Components  ComponentRemover
	Policy      types.PolicyWriter
	ContextMenu types.ContextMenuCleaner
	Sink        types.MessageSink
}

// Step is one action of a post-removal procedure
type Step interface {
	// Describe names the step for messages and reports
	Describe() string
	Apply(ctx context.Context, env *Env) types.RemovalOutcome
}

// Procedure is the ordered list of steps run after a group was removed
type Procedure []Step

// ProcedureTable maps group names to their procedure. Groups without an
// entry have nothing to do after removal.
type ProcedureTable map[string]Procedure

// RemoveServices backs up then removes services
type RemoveServices struct {
	Names []string
}

func (s RemoveServices) Describe() string {
	return "remove services " + strings.Join(s.Names, ", ")
}

func (s RemoveServices) Apply(ctx context.Context, env *Env) types.RemovalOutcome {
	env.Sink.Info("Removing app-related services...")
	o := env.Services.BackupAndRemove(ctx, s.Names)
	o.Unit = s.Describe()
	return o
}

// DisableTasks disables scheduled tasks
type DisableTasks struct {
	Paths []string
}

func (s DisableTasks) Describe() string {
	return "disable tasks " + strings.Join(s.Paths, ", ")
}

func (s DisableTasks) Apply(ctx context.Context, env *Env) types.RemovalOutcome {
	env.Sink.Info("Disabling app-related scheduled tasks...")
	o := env.Tasks.DisableAll(ctx, s.Paths)
	o.Unit = s.Describe()
	return o
}

// RemoveComponent removes a legacy component with the helper tool
type RemoveComponent struct {
	Component string
}

func (s RemoveComponent) Describe() string {
	return "remove component " + s.Component
}

func (s RemoveComponent) Apply(ctx context.Context, env *Env) types.RemovalOutcome {
	return env.Components.RemoveIfAllowed(ctx, s.Component)
}

// SetPolicyDWORD writes a DWORD policy value, creating the key if needed
type SetPolicyDWORD struct {
	Key   string
	Value string
	Data  uint32
}

func (s SetPolicyDWORD) Describe() string {
	return fmt.Sprintf(`set %s\%s = %d`, s.Key, s.Value, s.Data)
}

func (s SetPolicyDWORD) Apply(_ context.Context, env *Env) types.RemovalOutcome {
	if err := env.Policy.SetDWORD(s.Key, s.Value, s.Data); err != nil {
		env.Sink.Error(fmt.Sprintf("Cannot write policy %s: %v", s.Value, err))
		if !errors.IsErrorCode(err, errors.ErrRegistryWrite) {
			err = errors.Wrapf(err, errors.ErrRegistryWrite, "cannot write policy %s", s.Value)
		}
		return types.Failed(s.Describe(), err)
	}
	env.Sink.Info(fmt.Sprintf("Policy %s set to %d.", s.Value, s.Data))
	return types.Removed(s.Describe(), "policy written")
}

// DeleteContextMenuEntries deletes every key below Root named one of Names
type DeleteContextMenuEntries struct {
	Root  string
	Names []string
}

func (s DeleteContextMenuEntries) Describe() string {
	return fmt.Sprintf("delete %s entries below %s", strings.Join(s.Names, ", "), s.Root)
}

func (s DeleteContextMenuEntries) Apply(_ context.Context, env *Env) types.RemovalOutcome {
	env.Sink.Info("Removing context menu entries...")
	outcomes := make([]types.RemovalOutcome, 0, len(s.Names))
	for _, name := range s.Names {
		n, err := env.ContextMenu.DeleteSubKeysNamed(s.Root, name)
		switch {
		case err != nil:
			env.Sink.Error(fmt.Sprintf("Cannot delete %q context menu entries: %v", name, err))
			outcomes = append(outcomes, types.Failed(name, err))
		case n == 0:
			env.Sink.Info(fmt.Sprintf("No %q context menu entry found.", name))
			outcomes = append(outcomes, types.Skipped(name, "no entry found"))
		default:
			env.Sink.Info(fmt.Sprintf("Deleted %d %q context menu entries.", n, name))
			outcomes = append(outcomes, types.Removed(name, fmt.Sprintf("%d entries deleted", n)))
		}
	}
	return types.CombineOutcomes(s.Describe(), outcomes)
}

var (
	_ Step = RemoveServices{}
	_ Step = DisableTasks{}
	_ Step = RemoveComponent{}
	_ Step = SetPolicyDWORD{}
	_ Step = DeleteContextMenuEntries{}
)

// Registry locations used by the default procedures
const (
	GameDVRPolicyKey       = `HKLM\SOFTWARE\Policies\Microsoft\Windows\GameDVR`
	SystemFileAssociations = `HKCR\SystemFileAssociations`
)

// DefaultProcedures returns the cleanup run after each built-in group
func DefaultProcedures() ProcedureTable {
	syncService := Procedure{RemoveServices{Names: []string{"OneSyncSvc"}}}
	return ProcedureTable{
		"Mobile": {
			RemoveComponent{Component: "Microsoft-PPIProjection-Package"},
		},
		"HelpAndFeedback": {
			RemoveComponent{Component: "Microsoft-Windows-ContactSupport"},
		},
		"Maps": {
			RemoveServices{Names: []string{"MapsBroker", "lfsvc"}},
			DisableTasks{Paths: []string{
				`\Microsoft\Windows\Maps\MapsUpdateTask`,
				`\Microsoft\Windows\Maps\MapsToastTask`,
			}},
		},
		"Messaging": {
			RemoveServices{Names: []string{"MessagingService"}},
		},
		"MailAndCalendar": syncService,
		"People":          syncService,
		"Paint3D": {
			DeleteContextMenuEntries{Root: SystemFileAssociations, Names: []string{"3D Edit", "3D Print"}},
		},
		"Xbox": {
			RemoveServices{Names: []string{"XblAuthManager", "XblGameSave", "XboxNetApiSvc", "XboxGipSvc", "xbgm"}},
			DisableTasks{Paths: []string{
				`\Microsoft\XblGameSave\XblGameSaveTask`,
				`\Microsoft\XblGameSave\XblGameSaveTaskLogon`,
			}},
			SetPolicyDWORD{Key: GameDVRPolicyKey, Value: "AllowGameDVR", Data: 0},
		},
	}
}

// Run applies every step in order. A failing step does not stop the ones
// after it.
func (p Procedure) Run(ctx context.Context, env *Env) []types.RemovalOutcome {
	outcomes := make([]types.RemovalOutcome, 0, len(p))
	for _, step := range p {
		outcomes = append(outcomes, step.Apply(ctx, env))
	}
	return outcomes
}
