//go:build !unix

package storage

import "os"

// Without flock, concurrent invocations fall back to last-writer-wins.
func lockFile(f *os.File) error {
	return nil
}

func unlockFile(f *os.File) error {
	return nil
}
