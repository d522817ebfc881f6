//go:build windows

package system

import (
	stderrors "errors"
	"strings"

	"golang.org/x/sys/windows/registry"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/logging"
	"github.com/arthur-debert/winslim/pkg/types"
)

// Registry writes policies and cleans context menu entries
type Registry struct{}

// NewPolicyWriter returns the registry backed policy writer
func NewPolicyWriter() types.PolicyWriter { return Registry{} }

// NewContextMenuCleaner returns the registry backed context menu cleaner
func NewContextMenuCleaner() types.ContextMenuCleaner { return Registry{} }

func hiveKey(hive string) registry.Key {
	switch hive {
	case HiveClassesRoot:
		return registry.CLASSES_ROOT
	case HiveCurrentUser:
		return registry.CURRENT_USER
	default:
		return registry.LOCAL_MACHINE
	}
}

// SetDWORD implements types.PolicyWriter, creating the key when missing
func (Registry) SetDWORD(keyPath, valueName string, value uint32) error {
	hive, sub, err := SplitRegistryPath(keyPath)
	if err != nil {
		return err
	}
	k, _, err := registry.CreateKey(hiveKey(hive), sub, registry.SET_VALUE)
	if err != nil {
		return errors.Wrapf(err, errors.ErrRegistryWrite, "cannot open %s", keyPath)
	}
	defer func() { _ = k.Close() }()

	if err := k.SetDWordValue(valueName, value); err != nil {
		return errors.Wrapf(err, errors.ErrRegistryWrite, "cannot set %s\\%s", keyPath, valueName)
	}
	logger := logging.GetLogger("system.registry")
	logger.Info().Str("key", keyPath).Str("value", valueName).Uint32("data", value).Msg("Policy written")
	return nil
}

// deleteTree removes sub and everything below it
func deleteTree(parent registry.Key, sub string) error {
	k, err := registry.OpenKey(parent, sub, registry.ENUMERATE_SUB_KEYS|registry.QUERY_VALUE)
	if err != nil {
		return err
	}
	children, err := k.ReadSubKeyNames(-1)
	if err != nil {
		_ = k.Close()
		return err
	}
	for _, child := range children {
		if err := deleteTree(k, child); err != nil {
			_ = k.Close()
			return err
		}
	}
	_ = k.Close()
	return registry.DeleteKey(parent, sub)
}

// findNamed collects the paths, relative to k, of every key named name
// below k. Matching keys are not descended into.
func findNamed(k registry.Key, prefix, name string, out *[]string) error {
	children, err := k.ReadSubKeyNames(-1)
	if err != nil {
		return err
	}
	for _, child := range children {
		rel := child
		if prefix != "" {
			rel = prefix + `\` + child
		}
		if strings.EqualFold(child, name) {
			*out = append(*out, rel)
			continue
		}
		ck, err := registry.OpenKey(k, child, registry.ENUMERATE_SUB_KEYS)
		if err != nil {
			continue
		}
		err = findNamed(ck, rel, name, out)
		_ = ck.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// DeleteSubKeysNamed implements types.ContextMenuCleaner. The whole tree
// below root is searched.
func (Registry) DeleteSubKeysNamed(root, name string) (int, error) {
	hive, sub, err := SplitRegistryPath(root)
	if err != nil {
		return 0, err
	}
	k, err := registry.OpenKey(hiveKey(hive), sub, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		if stderrors.Is(err, registry.ErrNotExist) {
			return 0, nil
		}
		return 0, errors.Wrapf(err, errors.ErrRegistryWrite, "cannot open %s", root)
	}
	defer func() { _ = k.Close() }()

	var matches []string
	if err := findNamed(k, "", name, &matches); err != nil {
		return 0, errors.Wrapf(err, errors.ErrRegistryWrite, "cannot search %s", root)
	}

	logger := logging.GetLogger("system.registry")
	deleted := 0
	var errs []error
	for _, rel := range matches {
		if err := deleteTree(k, rel); err != nil && !stderrors.Is(err, registry.ErrNotExist) {
			errs = append(errs, err)
			continue
		}
		deleted++
		logger.Debug().Str("key", root+`\`+rel).Msg("Context menu entry deleted")
	}
	if len(errs) > 0 {
		return deleted, errors.Wrapf(stderrors.Join(errs...), errors.ErrRegistryWrite, "cannot delete every %q entry below %s", name, root)
	}
	return deleted, nil
}

// TaskCacheTree is where the Task Scheduler registers every task by path
const TaskCacheTree = `SOFTWARE\Microsoft\Windows NT\CurrentVersion\Schedule\TaskCache\Tree`

// TaskCache reads task presence from the Task Scheduler registry cache
type TaskCache struct{}

// NewTaskIndex returns the registry backed task index
func NewTaskIndex() TaskIndex { return TaskCache{} }

// Exists implements TaskIndex
func (TaskCache) Exists(taskPath string) (bool, error) {
	key := TaskCacheTree + `\` + strings.Trim(taskPath, `\`)
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, key, registry.QUERY_VALUE)
	if err != nil {
		if stderrors.Is(err, registry.ErrNotExist) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrTaskDisable, "cannot read HKLM\\%s", key)
	}
	_ = k.Close()
	return true, nil
}
