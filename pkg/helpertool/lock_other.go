//go:build !windows

package helpertool

import (
	"github.com/gofrs/flock"

	"github.com/arthur-debert/winslim/pkg/errors"
)

type flockLock struct {
	lock *flock.Flock
}

// lockFile takes a shared advisory lock: other readers may lock it too, but
// nobody can take the exclusive lock a writer would need.
func lockFile(path string) (Lock, error) {
	l := flock.New(path)
	locked, err := l.TryRLock()
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileLock, "failed to lock %s", path)
	}
	if !locked {
		return nil, errors.Newf(errors.ErrFileLock, "%s is locked by another process", path)
	}
	return &flockLock{lock: l}, nil
}

func (l *flockLock) Release() error {
	return l.lock.Close()
}
