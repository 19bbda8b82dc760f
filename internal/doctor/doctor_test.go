package doctor

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/nibzard/pile/internal/item"
	"github.com/nibzard/pile/internal/storage"
)

func newDoctor(t *testing.T) (*Doctor, *storage.Store) {
	t.Helper()
	store := storage.New(t.TempDir())
	d, err := New(store, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return d, store
}

func save(t *testing.T, store *storage.Store, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := store.SaveItem(name, &item.Item{Name: name, Tags: []string{"t"}}); err != nil {
			t.Fatalf("SaveItem(%s) failed: %v", name, err)
		}
	}
}

func TestCheckHealthy(t *testing.T) {
	d, store := newDoctor(t)
	save(t, store, "a", "b")
	if err := store.SaveStack([]string{"b", "a"}); err != nil {
		t.Fatal(err)
	}

	report, err := d.Check()
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !report.OK() {
		t.Errorf("Check: expected healthy store, got %+v", report)
	}
}

func TestCheckFindsProblems(t *testing.T) {
	d, store := newDoctor(t)
	save(t, store, "a", "b", "orphan")
	if err := store.SaveStack([]string{"b", "ghost", "a", "b"}); err != nil {
		t.Fatal(err)
	}

	report, err := d.Check()
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if !reflect.DeepEqual(report.Dangling, []string{"ghost"}) {
		t.Errorf("Dangling: got %v, want [ghost]", report.Dangling)
	}
	if !reflect.DeepEqual(report.Duplicates, []string{"b"}) {
		t.Errorf("Duplicates: got %v, want [b]", report.Duplicates)
	}
	if !reflect.DeepEqual(report.Orphans, []string{"orphan"}) {
		t.Errorf("Orphans: got %v, want [orphan]", report.Orphans)
	}
	if report.OK() {
		t.Error("OK() = true for a broken store")
	}
}

func TestCheckInvalidRecords(t *testing.T) {
	d, store := newDoctor(t)
	save(t, store, "good")

	bad := map[string]string{
		"notjson":  "{oops",
		"badtype":  `{"name": "badtype", "deadline": true}`,
		"extra":    `{"name": "extra", "priority": 1}`,
		"badtags":  `{"name": "badtags", "tags": [1, 2]}`,
		"mismatch": `{"name": "Something Else"}`,
	}
	for id, body := range bad {
		if err := os.WriteFile(store.ItemPath(id), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	report, err := d.Check()
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}

	got := make(map[string]string)
	for _, p := range report.Invalid {
		var msgs []string
		for _, e := range p.Errors {
			msgs = append(msgs, e.Error())
		}
		got[p.ID] = strings.Join(msgs, "; ")
	}
	if len(got) != len(bad) {
		t.Fatalf("Invalid: got %d records %v, want %d", len(got), got, len(bad))
	}
	if _, ok := got["good"]; ok {
		t.Error("valid record reported as invalid")
	}
	if !strings.Contains(got["badtags"], "tags[0]") {
		t.Errorf("badtags error should point at tags[0], got %q", got["badtags"])
	}
	if !strings.Contains(got["mismatch"], "does not match identifier") {
		t.Errorf("mismatch error: got %q", got["mismatch"])
	}
}

func TestRepair(t *testing.T) {
	d, store := newDoctor(t)
	save(t, store, "a", "b", "orphan")
	if err := os.WriteFile(store.ItemPath("broken"), []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveStack([]string{"b", "ghost", "a", "b"}); err != nil {
		t.Fatal(err)
	}

	report, err := d.Repair()
	if err != nil {
		t.Fatalf("Repair failed: %v", err)
	}
	if report.OK() {
		t.Error("Repair should return the report it acted on")
	}

	ids, err := store.LoadStack()
	if err != nil {
		t.Fatalf("LoadStack failed: %v", err)
	}
	if want := []string{"b", "a", "orphan"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("repaired stack: got %v, want %v", ids, want)
	}
	if _, err := os.Stat(store.ItemPath("broken")); err != nil {
		t.Errorf("invalid record should be kept: %v", err)
	}

	after, err := d.Check()
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(after.Dangling)+len(after.Duplicates) != 0 {
		t.Errorf("problems left after repair: %+v", after)
	}
	if !reflect.DeepEqual(after.Orphans, []string{"broken"}) {
		t.Errorf("Orphans after repair: got %v, want [broken]", after.Orphans)
	}
}

func TestPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":           "",
		"#":          "",
		"/tags/0":    "tags[0]",
		"#/a/b~1c/2": "a.b/c[2]",
		"/deadline":  "deadline",
		"/x~0y/10/z": "x~y[10].z",
	}
	for in, want := range tests {
		if got := pointerToPath(in); got != want {
			t.Errorf("pointerToPath(%q) = %q, want %q", in, got, want)
		}
	}
}
