//go:build windows

package helpertool

import (
	"golang.org/x/sys/windows"

	"github.com/arthur-debert/winslim/pkg/errors"
)

type handleLock struct {
	handle windows.Handle
}

// lockFile opens path for reading and shares it with readers only, so no
// other process can open it for writing or deletion until Release.
func lockFile(path string) (Lock, error) {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileLock, "invalid path %s", path)
	}
	h, err := windows.CreateFile(
		name,
		windows.GENERIC_READ,
		windows.FILE_SHARE_READ,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileLock, "failed to lock %s", path)
	}
	return &handleLock{handle: h}, nil
}

func (l *handleLock) Release() error {
	if l.handle == windows.InvalidHandle {
		return nil
	}
	err := windows.CloseHandle(l.handle)
	l.handle = windows.InvalidHandle
	return err
}
