package helpertool

// Locker acquires the lock that keeps the extracted helper from being
// replaced or deleted by anyone else while it is resident.
type Locker interface {
	Lock(path string) (Lock, error)
}

// Lock is a held file lock
type Lock interface {
	Release() error
}

// FileLocker is the platform lock: a read-only handle shared only with other
// readers on Windows, a shared flock elsewhere.
type FileLocker struct{}

// Lock implements Locker
func (FileLocker) Lock(path string) (Lock, error) {
	return lockFile(path)
}
