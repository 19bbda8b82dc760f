// Package storage persists the stack and its item records under a root
// directory.
//
// Layout:
//
//	<root>/list          JSON array of identifiers, newest first
//	<root>/<identifier>  one JSON item record per identifier
//	<root>/.lock         advisory lock file
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/nibzard/pile/internal/item"
)

const (
	// StackFile is the name of the stack file inside the root.
	StackFile = "list"

	// LockFile is the name of the lock file inside the root.
	LockFile = ".lock"

	dirPerms  = 0o755
	filePerms = 0o644
)

var (
	// ErrNotFound is returned when a record or stack entry does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidIdentifier is returned for names that cannot be used as a
	// record file name.
	ErrInvalidIdentifier = errors.New("invalid identifier")
)

// Store reads and writes the stack and item records.
type Store struct {
	root string
}

// New returns a store rooted at root.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the root directory.
func (s *Store) Root() string {
	return s.root
}

// Init creates the root directory if it does not exist.
func (s *Store) Init() error {
	if err := os.MkdirAll(s.root, dirPerms); err != nil {
		return fmt.Errorf("create root dir: %w", err)
	}
	return nil
}

// StackPath returns the path of the stack file.
func (s *Store) StackPath() string {
	return filepath.Join(s.root, StackFile)
}

// ItemPath returns the record path for id, case-folded.
func (s *Store) ItemPath(id string) string {
	return filepath.Join(s.root, item.Identifier(id))
}

// ValidateID checks that id can be used as a record file name.
func ValidateID(id string) error {
	id = item.Identifier(id)
	switch {
	case id == "":
		return fmt.Errorf("%w: empty", ErrInvalidIdentifier)
	case id == StackFile:
		return fmt.Errorf("%w: %q is reserved", ErrInvalidIdentifier, id)
	case strings.HasPrefix(id, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidIdentifier, id)
	case strings.ContainsAny(id, `/\`+"\x00"):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidIdentifier, id)
	}
	return nil
}

// LoadItem reads the record for id. A missing record returns nil, nil.
func (s *Store) LoadItem(id string) (*item.Item, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.ItemPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read item %s: %w", id, err)
	}

	var it item.Item
	if err := json.Unmarshal(data, &it); err != nil {
		return nil, fmt.Errorf("parse item %s: %w", id, err)
	}
	return &it, nil
}

// SaveItem writes the record for id, replacing any existing one.
func (s *Store) SaveItem(id string, it *item.Item) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	data, err := json.MarshalIndent(it, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal item %s: %w", id, err)
	}
	if err := s.write(s.ItemPath(id), data); err != nil {
		return fmt.Errorf("write item %s: %w", id, err)
	}
	return nil
}

// DeleteItem removes the record for id.
func (s *Store) DeleteItem(id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	if err := os.Remove(s.ItemPath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("delete item %s: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete item %s: %w", id, err)
	}
	return nil
}

// LoadStack reads the stack, newest first. A missing file is an empty stack.
func (s *Store) LoadStack() ([]string, error) {
	data, err := os.ReadFile(s.StackPath())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read stack: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []string{}, nil
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parse stack: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// SaveStack replaces the stack file.
func (s *Store) SaveStack(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stack: %w", err)
	}
	if err := s.write(s.StackPath(), data); err != nil {
		return fmt.Errorf("write stack: %w", err)
	}
	return nil
}

// ItemIDs lists the identifiers of all records on disk, sorted.
func (s *Store) ItemIDs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read root dir: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ValidateID(name) != nil || name != item.Identifier(name) {
			continue
		}
		ids = append(ids, name)
	}
	sort.Strings(ids)
	return ids, nil
}

// write replaces path via a temporary file and rename, then fixes permissions
// since atomic.WriteFile does not set them for new files.
func (s *Store) write(path string, data []byte) error {
	if err := s.Init(); err != nil {
		return err
	}
	data = append(data, '\n')
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return err
	}
	return os.Chmod(path, filePerms)
}
