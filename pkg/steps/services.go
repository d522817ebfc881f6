package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/arthur-debert/winslim/pkg/errors"
	"github.com/arthur-debert/winslim/pkg/logging"
	"github.com/arthur-debert/winslim/pkg/types"
)

// ServiceRemoval backs up and removes services as one two-phase action
type ServiceRemoval struct {
	store    types.BackupStore
	services types.ServiceManager
	sink     types.MessageSink
}

// NewServiceRemoval creates the step
func NewServiceRemoval(store types.BackupStore, services types.ServiceManager, sink types.MessageSink) *ServiceRemoval {
	return &ServiceRemoval{store: store, services: services, sink: sink}
}

// BackupAndRemove backs up every named service, then removes them.
// If any backup fails nothing is removed. Services that do not exist are
// skipped without failing the batch.
func (s *ServiceRemoval) BackupAndRemove(ctx context.Context, names []string) types.RemovalOutcome {
	batch := "services " + strings.Join(names, ", ")
	logger := logging.GetLogger("steps.services").With().Strs("services", names).Logger()

	present := make([]string, 0, len(names))
	var backupErrs []string
	for _, name := range names {
		err := s.store.Backup(ctx, name)
		switch {
		case err == nil:
			present = append(present, name)
			s.sink.Info(fmt.Sprintf("Backed up service %s.", name))
		case errors.IsErrorCode(err, errors.ErrNotFound):
			s.sink.Info(fmt.Sprintf("Service %s was not found.", name))
		default:
			backupErrs = append(backupErrs, name)
			s.sink.Error(fmt.Sprintf("Backup of service %s failed: %v", name, err))
			logger.Error().Err(err).Str("service", name).Msg("Service backup failed")
		}
	}

	if len(backupErrs) > 0 {
		s.sink.Error("Services were not removed because not every backup succeeded.")
		failure := errors.Newf(errors.ErrBackup, "backup failed for %s", strings.Join(backupErrs, ", ")).
			WithDetail("services", backupErrs)
		return types.Failed(batch, failure)
	}

	removed := 0
	var removeErrs []string
	var firstErr error
	for _, name := range present {
		ok, err := s.services.Remove(name)
		switch {
		case err != nil:
			removeErrs = append(removeErrs, name)
			if firstErr == nil {
				firstErr = err
			}
			s.sink.Error(fmt.Sprintf("Removal of service %s failed: %v", name, err))
			logger.Error().Err(err).Str("service", name).Msg("Service removal failed")
		case ok:
			removed++
			s.sink.Info(fmt.Sprintf("Service %s removed.", name))
		default:
			s.sink.Info(fmt.Sprintf("Service %s was not found.", name))
		}
	}

	if len(removeErrs) > 0 {
		failure := errors.Wrapf(firstErr, errors.ErrServiceRemove, "could not remove %s", strings.Join(removeErrs, ", ")).
			WithDetail("services", removeErrs)
		return types.Failed(batch, failure)
	}
	if removed == 0 {
		return types.Skipped(batch, "no service was present")
	}
	return types.Removed(batch, fmt.Sprintf("%d service(s) removed", removed))
}
