package tablestore

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created next to the metadata file.
const LockFileName = ".lexcurate.lock"

// Lock is an exclusive, process-wide claim on a dataset directory.
type Lock struct {
	path string
	lock *flock.Flock
}

// Lock acquires the dataset lock without blocking. A second writer gets
// ErrLocked.
func (s *Store) Lock() (*Lock, error) {
	return LockDir(s.dir)
}

// LockDir acquires the lock of the dataset in dir.
func LockDir(dir string) (*Lock, error) {
	path := filepath.Join(dir, LockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Unlock releases the lock. It is safe to call on a nil Lock.
func (l *Lock) Unlock() error {
	if l == nil {
		return nil
	}
	return l.lock.Unlock()
}
