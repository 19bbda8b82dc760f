package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nibzard/pile/internal/item"
	"github.com/nibzard/pile/internal/listing"
)

var now = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func TestFormatDeadline(t *testing.T) {
	tests := []struct {
		name string
		d    item.Deadline
		want string
	}{
		{"absent", item.Absent(), "No particular deadline"},
		{"label", item.Label("after launch"), "after launch"},
		{"future", item.At(time.Date(2026, 10, 23, 15, 4, 0, 0, time.UTC)), "Friday, October 23, 2026 3:04 PM ("},
		{"past", item.At(now.Add(-48 * time.Hour)), "Thursday, October 15, 2026 9:30 AM ("},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDeadline(tt.d, now)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("FormatDeadline: got %q, want prefix %q", got, tt.want)
			}
		})
	}

	if got := FormatDeadline(item.At(now.Add(-48*time.Hour)), now); !strings.HasSuffix(got, "ago)") {
		t.Errorf("past deadline missing relative suffix: %q", got)
	}
	if got := FormatDeadline(item.At(now.Add(72*time.Hour)), now); !strings.HasSuffix(got, "from now)") {
		t.Errorf("future deadline missing relative suffix: %q", got)
	}
}

func TestItem(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf)

	it := &item.Item{Name: "Write report", Tags: []string{"work", "q4"}, Desc: "first\nsecond"}
	if err := p.Item(it, now); err != nil {
		t.Fatalf("Item failed: %v", err)
	}

	rule := strings.Repeat("-", 40)
	want := rule + "\nWrite report\nNo particular deadline\nTags: work, q4\n\nfirst\nsecond\n" + rule + "\n"
	if got := buf.String(); got != want {
		t.Errorf("Item output:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestList(t *testing.T) {
	entries := []listing.Entry{
		{ID: "a", Item: &item.Item{Name: "A", Tags: []string{"x", "y"}}},
		{ID: "b", Item: &item.Item{Name: "B"}},
	}

	tests := []struct {
		mode Mode
		want string
	}{
		{ModeCompact, "a\nb\n"},
		{ModeTags, "a [x, y]\nb []\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := New(&buf).List(entries, tt.mode, now); err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if buf.String() != tt.want {
			t.Errorf("List(mode %d): got %q, want %q", tt.mode, buf.String(), tt.want)
		}
	}

	var buf bytes.Buffer
	if err := New(&buf).List(entries, ModeFull, now); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if strings.Count(buf.String(), strings.Repeat("-", 40)) != 4 {
		t.Errorf("full listing should print two delimited items:\n%s", buf.String())
	}
}

func TestParseMode(t *testing.T) {
	if m, ok := ParseMode("single"); !ok || m != ModeCompact {
		t.Errorf("ParseMode(single) = %v, %v", m, ok)
	}
	if m, ok := ParseMode("tags"); !ok || m != ModeTags {
		t.Errorf("ParseMode(tags) = %v, %v", m, ok)
	}
	if _, ok := ParseMode("3d"); ok {
		t.Error("ParseMode(3d) should not be a mode")
	}
}
