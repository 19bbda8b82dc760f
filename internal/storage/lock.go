package storage

import (
	"fmt"
	"os"
	"path/filepath"
)

// Lock is an exclusive lock on the root directory, held for the duration of
// one read-modify-write of the stack.
type Lock struct {
	file *os.File
}

// Lock blocks until it holds the exclusive lock on the root.
func (s *Store) Lock() (*Lock, error) {
	if err := s.Init(); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(s.root, LockFile), os.O_CREATE|os.O_RDWR, filePerms)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	return &Lock{file: f}, nil
}

// Unlock releases the lock. The lock file is left in place so that a
// concurrent waiter keeps locking the same inode.
func (l *Lock) Unlock() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unlockFile(l.file)
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.file = nil
	return err
}
