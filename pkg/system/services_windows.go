//go:build windows

package system

import (
	stderrors "errors"
	"time"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/logging"
	"github.com/arthur-debert/winslim/pkg/types"
)

const stopTimeout = 15 * time.Second

// SCManager reads and deletes services through the service control manager
type SCManager struct{}

// NewServiceManager returns the service control manager client
func NewServiceManager() types.ServiceManager {
	return &SCManager{}
}

func openService(name string) (*mgr.Mgr, *mgr.Service, error) {
	m, err := mgr.Connect()
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrPermission, "cannot connect to the service control manager")
	}
	s, err := m.OpenService(name)
	if err != nil {
		_ = m.Disconnect()
		if stderrors.Is(err, windows.ERROR_SERVICE_DOES_NOT_EXIST) {
			return nil, nil, errors.Newf(errors.ErrNotFound, "service %s does not exist", name)
		}
		return nil, nil, errors.Wrapf(err, errors.ErrServiceRemove, "cannot open service %s", name)
	}
	return m, s, nil
}

// Config implements types.ServiceManager
func (SCManager) Config(name string) (types.ServiceConfig, error) {
	m, s, err := openService(name)
	if err != nil {
		return types.ServiceConfig{}, err
	}
	defer func() { _ = m.Disconnect() }()
	defer func() { _ = s.Close() }()

	c, err := s.Config()
	if err != nil {
		return types.ServiceConfig{}, errors.Wrapf(err, errors.ErrBackup, "cannot query configuration of %s", name)
	}
	return types.ServiceConfig{
		Name:           name,
		DisplayName:    c.DisplayName,
		Description:    c.Description,
		BinaryPathName: c.BinaryPathName,
		ServiceType:    c.ServiceType,
		StartType:      c.StartType,
		ErrorControl:   c.ErrorControl,
		LoadOrderGroup: c.LoadOrderGroup,
		Dependencies:   c.Dependencies,
		StartName:      c.ServiceStartName,
	}, nil
}

// Remove implements types.ServiceManager. Running services are stopped
// first; deletion completes once every open handle is closed.
func (SCManager) Remove(name string) (bool, error) {
	logger := logging.GetLogger("system.services").With().Str("service", name).Logger()

	m, s, err := openService(name)
	if err != nil {
		if errors.IsErrorCode(err, errors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = m.Disconnect() }()
	defer func() { _ = s.Close() }()

	if status, err := s.Query(); err == nil && status.State != svc.Stopped {
		if _, err := s.Control(svc.Stop); err != nil {
			logger.Warn().Err(err).Msg("Cannot stop service, deleting anyway")
		} else {
			deadline := time.Now().Add(stopTimeout)
			for time.Now().Before(deadline) {
				status, err = s.Query()
				if err != nil || status.State == svc.Stopped {
					break
				}
				time.Sleep(300 * time.Millisecond)
			}
		}
	}

	if err := s.Delete(); err != nil {
		if stderrors.Is(err, windows.ERROR_SERVICE_MARKED_FOR_DELETE) {
			return true, nil
		}
		return false, errors.Wrapf(err, errors.ErrServiceRemove, "cannot delete service %s", name)
	}
	logger.Info().Msg("Service deleted")
	return true, nil
}
