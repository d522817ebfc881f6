//go:build !windows

package system

import (
	"runtime"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/types"
)

func unsupported(what string) error {
	return errors.Newf(errors.ErrUnsupported, "%s requires Windows (running on %s)", what, runtime.GOOS)
}

type unsupportedServices struct{}

// NewServiceManager returns a manager failing with UNSUPPORTED
func NewServiceManager() types.ServiceManager { return unsupportedServices{} }

func (unsupportedServices) Config(string) (types.ServiceConfig, error) {
	return types.ServiceConfig{}, unsupported("reading service configuration")
}

func (unsupportedServices) Remove(string) (bool, error) {
	return false, unsupported("removing services")
}

type unsupportedRegistry struct{}

// NewPolicyWriter returns a writer failing with UNSUPPORTED
func NewPolicyWriter() types.PolicyWriter { return unsupportedRegistry{} }

// NewContextMenuCleaner returns a cleaner failing with UNSUPPORTED
func NewContextMenuCleaner() types.ContextMenuCleaner { return unsupportedRegistry{} }

func (unsupportedRegistry) SetDWORD(string, string, uint32) error {
	return unsupported("writing registry policies")
}

func (unsupportedRegistry) DeleteSubKeysNamed(string, string) (int, error) {
	return 0, unsupported("editing the registry")
}

type unsupportedTaskIndex struct{}

// NewTaskIndex returns an index failing with UNSUPPORTED
func NewTaskIndex() TaskIndex { return unsupportedTaskIndex{} }

func (unsupportedTaskIndex) Exists(string) (bool, error) {
	return false, unsupported("reading the task cache")
}
