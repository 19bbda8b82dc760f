// Package listing produces the items shown by the list command, oldest push
// first, optionally filtered by deadline.
package listing

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/nibzard/pile/internal/deadline"
	"github.com/nibzard/pile/internal/item"
	"github.com/nibzard/pile/internal/storage"
)

// ErrBadFilter is returned for a filter argument that is neither "timeless"
// nor a deadline expression.
var ErrBadFilter = errors.New("invalid deadline filter")

// FilterKind selects which items survive filtering.
type FilterKind int

const (
	FilterNone FilterKind = iota
	FilterTimeless
	FilterWithin
)

// Filter restricts a listing by deadline.
type Filter struct {
	Kind   FilterKind
	Window time.Duration // only for FilterWithin
}

// NoFilter keeps every item.
func NoFilter() Filter {
	return Filter{Kind: FilterNone}
}

// Timeless keeps items without a deadline.
func Timeless() Filter {
	return Filter{Kind: FilterTimeless}
}

// Within keeps items whose timestamp deadline is less than d away.
func Within(d time.Duration) Filter {
	return Filter{Kind: FilterWithin, Window: d}
}

// ParseFilter parses a list filter argument.
func ParseFilter(text string) (Filter, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return NoFilter(), nil
	case strings.EqualFold(text, "timeless"):
		return Timeless(), nil
	}
	d, ok := deadline.Translate(text)
	if !ok {
		return Filter{}, fmt.Errorf("%w: %q", ErrBadFilter, text)
	}
	return Within(d), nil
}

// Keep reports whether it passes the filter at now.
func (f Filter) Keep(it *item.Item, now time.Time) bool {
	switch f.Kind {
	case FilterTimeless:
		return it.Deadline.IsAbsent()
	case FilterWithin:
		window := f.Window
		return deadline.IsBefore(it.Deadline.Until(now), &window)
	default:
		return true
	}
}

// Entry is one listed item.
type Entry struct {
	ID   string
	Item *item.Item
}

// Options controls a listing.
type Options struct {
	Filter Filter
	// Now is the reference time for deadline windows. Zero means time.Now().
	Now time.Time
}

// Lister reads listings from a store.
type Lister struct {
	store  *storage.Store
	logger *slog.Logger
}

// New returns a lister for store. A nil logger discards log output.
func New(store *storage.Store, logger *slog.Logger) *Lister {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Lister{store: store, logger: logger}
}

// List returns the stack's items in push order, oldest first. Identifiers
// without a record are skipped.
func (l *Lister) List(opts Options) ([]Entry, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	ids, err := l.store.LoadStack()
	if err != nil {
		return nil, err
	}
	ids = slices.Clone(ids)
	slices.Reverse(ids)

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		it, err := l.store.LoadItem(id)
		if err != nil {
			return nil, err
		}
		if it == nil {
			l.logger.Debug("skipping stack entry without record", "id", id)
			continue
		}
		if !opts.Filter.Keep(it, now) {
			continue
		}
		entries = append(entries, Entry{ID: id, Item: it})
	}
	return entries, nil
}
