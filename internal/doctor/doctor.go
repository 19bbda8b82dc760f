// Package doctor checks and repairs the link between the stack file and the
// item records.
//
// Every identifier on the stack should have a record, and every record should
// appear on the stack exactly once. Nothing enforces this transactionally, so
// an interrupted command can leave:
//   - dangling entries: identifiers on the stack without a record
//   - duplicate entries: the same identifier listed more than once
//   - orphan records: record files not referenced by the stack
//
// Records are also validated against a JSON Schema. Invalid records are only
// reported; repair never deletes a record.
package doctor

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nibzard/pile/internal/item"
	"github.com/nibzard/pile/internal/storage"
)

// ErrUnhealthy is returned when a check finds problems.
var ErrUnhealthy = errors.New("store has integrity problems")

// Problem is an invalid record and the reasons it failed.
type Problem struct {
	ID     string
	Errors []error
}

// Report lists integrity findings.
type Report struct {
	Dangling   []string
	Duplicates []string
	Orphans    []string
	Invalid    []Problem
	// Stack is the stack as read, newest first.
	Stack []string
}

// OK reports whether nothing was found.
func (r *Report) OK() bool {
	return len(r.Dangling) == 0 && len(r.Duplicates) == 0 &&
		len(r.Orphans) == 0 && len(r.Invalid) == 0
}

func (r *Report) invalid(id string) bool {
	for _, p := range r.Invalid {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Doctor inspects a store.
type Doctor struct {
	store  *storage.Store
	logger *slog.Logger
	schema *jsonschema.Schema
}

// New returns a doctor for store. A nil logger discards log output.
func New(store *storage.Store, logger *slog.Logger) (*Doctor, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}
	return &Doctor{store: store, logger: logger, schema: schema}, nil
}

// Check reads the stack and all records and reports problems.
func (d *Doctor) Check() (*Report, error) {
	ids, err := d.store.LoadStack()
	if err != nil {
		return nil, err
	}
	records, err := d.store.ItemIDs()
	if err != nil {
		return nil, err
	}

	report := &Report{Stack: ids}
	onDisk := make(map[string]bool, len(records))
	for _, id := range records {
		onDisk[id] = true
	}

	seen := make(map[string]int, len(ids))
	for _, id := range ids {
		seen[id]++
		switch seen[id] {
		case 1:
			if !onDisk[id] {
				report.Dangling = append(report.Dangling, id)
			}
		case 2:
			report.Duplicates = append(report.Duplicates, id)
		}
	}

	for _, id := range records {
		if seen[id] == 0 {
			report.Orphans = append(report.Orphans, id)
		}
		if errs := d.validate(id); len(errs) > 0 {
			report.Invalid = append(report.Invalid, Problem{ID: id, Errors: errs})
		}
	}

	d.logger.Debug("checked store",
		"stack", len(ids), "records", len(records),
		"dangling", len(report.Dangling), "duplicates", len(report.Duplicates),
		"orphans", len(report.Orphans), "invalid", len(report.Invalid))
	return report, nil
}

func (d *Doctor) validate(id string) []error {
	data, err := os.ReadFile(d.store.ItemPath(id))
	if err != nil {
		return []error{fmt.Errorf("read record: %w", err)}
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return []error{fmt.Errorf("parse record: %w", err)}
	}
	if err := d.schema.Validate(doc); err != nil {
		return schemaErrors(err)
	}

	var it item.Item
	if err := json.Unmarshal(data, &it); err != nil {
		return []error{fmt.Errorf("decode record: %w", err)}
	}
	if it.ID() != id {
		return []error{&FieldError{Path: "name", Err: fmt.Errorf("%q does not match identifier %q", it.Name, id)}}
	}
	return nil
}

// Repair fixes the stack while holding the store lock: dangling and duplicate
// entries are dropped and valid orphan records are appended at the bottom.
// It returns the report that was acted on.
func (d *Doctor) Repair() (report *Report, err error) {
	lock, err := d.store.Lock()
	if err != nil {
		return nil, err
	}
	defer func() {
		if uerr := lock.Unlock(); err == nil && uerr != nil {
			err = fmt.Errorf("release lock: %w", uerr)
		}
	}()

	report, err = d.Check()
	if err != nil {
		return nil, err
	}
	if len(report.Dangling) == 0 && len(report.Duplicates) == 0 && len(report.Orphans) == 0 {
		return report, nil
	}

	dangling := make(map[string]bool, len(report.Dangling))
	for _, id := range report.Dangling {
		dangling[id] = true
	}
	seen := make(map[string]bool, len(report.Stack))
	fixed := make([]string, 0, len(report.Stack)+len(report.Orphans))
	for _, id := range report.Stack {
		if dangling[id] || seen[id] {
			continue
		}
		seen[id] = true
		fixed = append(fixed, id)
	}
	for _, id := range report.Orphans {
		if report.invalid(id) {
			d.logger.Warn("leaving invalid orphan record off the stack", "id", id)
			continue
		}
		fixed = append(fixed, id)
	}

	if err := d.store.SaveStack(fixed); err != nil {
		return nil, err
	}
	d.logger.Info("repaired stack", "before", len(report.Stack), "after", len(fixed))
	return report, nil
}
