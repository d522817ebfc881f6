package testutil

import (
	"fmt"

	"github.com/arthur-debert/winslim/pkg/helpertool"
)

// FakeLocker hands out in-memory locks and tracks which paths are held
type FakeLocker struct {
	Acquired int
	Released int
	Held     map[string]bool
	Fail     error

	// OnLock runs after the lock is taken, before Lock returns.
	OnLock func(path string)
}

// NewFakeLocker returns a locker with nothing held
func NewFakeLocker() *FakeLocker {
	return &FakeLocker{Held: make(map[string]bool)}
}

// Lock implements helpertool.Locker
func (f *FakeLocker) Lock(path string) (helpertool.Lock, error) {
	if f.Fail != nil {
		return nil, f.Fail
	}
	if f.Held[path] {
		return nil, fmt.Errorf("%s already locked", path)
	}
	f.Held[path] = true
	f.Acquired++
	if f.OnLock != nil {
		f.OnLock(path)
	}
	return &fakeLock{locker: f, path: path}, nil
}

type fakeLock struct {
	locker   *FakeLocker
	path     string
	released bool
}

func (l *fakeLock) Release() error {
	if l.released {
		return nil
	}
	l.released = true
	l.locker.Held[l.path] = false
	l.locker.Released++
	return nil
}

var _ helpertool.Locker = (*FakeLocker)(nil)
