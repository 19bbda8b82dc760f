// Package stack implements the ordered to-do stack: push, pop, cycle, pull
// and finish.
//
// Every operation is a whole-file read-modify-write of the stack, done while
// holding the store's exclusive lock.
package stack

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/nibzard/pile/internal/item"
	"github.com/nibzard/pile/internal/storage"
)

// ErrNotFound is returned for an empty stack, an identifier that is not on
// the stack, or a missing record.
var ErrNotFound = storage.ErrNotFound

// Manager applies stack operations to a store.
type Manager struct {
	store  *storage.Store
	logger *slog.Logger
}

// New returns a manager for store. A nil logger discards log output.
func New(store *storage.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{store: store, logger: logger}
}

func (m *Manager) withLock(fn func() error) (err error) {
	lock, err := m.store.Lock()
	if err != nil {
		return err
	}
	defer func() {
		if uerr := lock.Unlock(); err == nil && uerr != nil {
			err = fmt.Errorf("release lock: %w", uerr)
		}
	}()
	return fn()
}

// Stack returns the identifiers on the stack, newest first.
func (m *Manager) Stack() ([]string, error) {
	return m.store.LoadStack()
}

// Show returns the record for id.
func (m *Manager) Show(id string) (*item.Item, error) {
	it, err := m.store.LoadItem(id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("show %s: %w", id, ErrNotFound)
	}
	return it, nil
}

// Push saves it and puts its identifier on top. A nil item, as produced by a
// cancelled input, is a no-op. Pushing an identifier that is already on the
// stack replaces its record and moves it to the top.
func (m *Manager) Push(it *item.Item) error {
	if it == nil {
		m.logger.Debug("push skipped, no item")
		return nil
	}
	id := it.ID()
	if err := storage.ValidateID(id); err != nil {
		return fmt.Errorf("push: %w", err)
	}

	return m.withLock(func() error {
		if err := m.store.SaveItem(id, it); err != nil {
			return err
		}
		ids, err := m.store.LoadStack()
		if err != nil {
			return err
		}
		ids = prepend(without(ids, id), id)
		if err := m.store.SaveStack(ids); err != nil {
			return err
		}
		m.logger.Debug("pushed", "id", id, "depth", len(ids))
		return nil
	})
}

// Pop returns the top item. Unless keep is set, the record is deleted and the
// identifier removed from the stack.
func (m *Manager) Pop(keep bool) (*item.Item, error) {
	var it *item.Item
	err := m.withLock(func() error {
		ids, err := m.store.LoadStack()
		if err != nil {
			return err
		}
		it, err = m.pop(ids, keep)
		return err
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

// Peek returns the top item without changing anything.
func (m *Manager) Peek() (*item.Item, error) {
	return m.Pop(true)
}

// pop must be called with the lock held. ids is the stack as it should be
// before the top is removed; it is only persisted when keep is false.
func (m *Manager) pop(ids []string, keep bool) (*item.Item, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("pop: stack is empty: %w", ErrNotFound)
	}
	top, rest := removeAt(ids, 0)
	it, err := m.store.LoadItem(top)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("pop %s: record missing: %w", top, ErrNotFound)
	}
	if keep {
		return it, nil
	}

	if err := m.store.DeleteItem(top); err != nil {
		return nil, err
	}
	if err := m.store.SaveStack(rest); err != nil {
		return nil, err
	}
	m.logger.Debug("popped", "id", top, "depth", len(rest))
	return it, nil
}

// Cycle moves the top entry n positions toward the bottom, clamped to the end
// of the stack. A negative n is the inverse: the entry at position -n moves
// back to the top, so Cycle(n) followed by Cycle(-n) restores the order.
func (m *Manager) Cycle(n int) error {
	return m.withLock(func() error {
		ids, err := m.store.LoadStack()
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("cycle: stack is empty: %w", ErrNotFound)
		}
		if n == 0 || len(ids) == 1 {
			return nil
		}
		ids = cycle(ids, n)
		if err := m.store.SaveStack(ids); err != nil {
			return err
		}
		m.logger.Debug("cycled", "n", n, "top", ids[0])
		return nil
	})
}

// Pull moves id to the top of the stack. An identifier that is not on the
// stack is rejected before anything is written.
func (m *Manager) Pull(id string) error {
	return m.withLock(func() error {
		ids, err := m.store.LoadStack()
		if err != nil {
			return err
		}
		ids, err = pull(ids, id)
		if err != nil {
			return err
		}
		if err := m.store.SaveStack(ids); err != nil {
			return err
		}
		m.logger.Debug("pulled", "id", ids[0])
		return nil
	})
}

// Finish pulls id and pops it. Because Pull refuses unknown identifiers,
// finishing an id that is not on the stack never removes the real top item.
func (m *Manager) Finish(id string) (*item.Item, error) {
	var it *item.Item
	err := m.withLock(func() error {
		ids, err := m.store.LoadStack()
		if err != nil {
			return err
		}
		ids, err = pull(ids, id)
		if err != nil {
			return err
		}
		it, err = m.pop(ids, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

func pull(ids []string, id string) ([]string, error) {
	id = item.Identifier(id)
	i := slices.Index(ids, id)
	if i < 0 {
		return nil, fmt.Errorf("pull %s: not on stack: %w", id, ErrNotFound)
	}
	e, rest := removeAt(ids, i)
	return prepend(rest, e), nil
}

func cycle(ids []string, n int) []string {
	if n == 0 || len(ids) < 2 {
		return ids
	}
	if n > 0 {
		top, rest := removeAt(ids, 0)
		return insertAt(rest, n, top)
	}
	i := -n
	if i >= len(ids) {
		i = len(ids) - 1
	}
	e, rest := removeAt(ids, i)
	return prepend(rest, e)
}
