package item

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the variant held by a Deadline.
type Kind int

const (
	KindAbsent Kind = iota
	KindTimestamp
	KindLabel
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindTimestamp:
		return "timestamp"
	case KindLabel:
		return "label"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Deadline is a tagged variant: absent, a unix timestamp, or a display label.
// The zero value is absent.
type Deadline struct {
	kind  Kind
	unix  int64
	label string
}

// Absent returns a deadline meaning "no deadline".
func Absent() Deadline {
	return Deadline{}
}

// At returns a timestamp deadline truncated to whole seconds.
func At(t time.Time) Deadline {
	return Deadline{kind: KindTimestamp, unix: t.Unix()}
}

// Label returns a deadline shown verbatim as text.
func Label(text string) Deadline {
	return Deadline{kind: KindLabel, label: text}
}

// Kind returns the variant.
func (d Deadline) Kind() Kind {
	return d.kind
}

// IsAbsent reports whether there is no deadline.
func (d Deadline) IsAbsent() bool {
	return d.kind == KindAbsent
}

// Time returns the timestamp and true for timestamp deadlines.
func (d Deadline) Time() (time.Time, bool) {
	if d.kind != KindTimestamp {
		return time.Time{}, false
	}
	return time.Unix(d.unix, 0), true
}

// Text returns the label of a label deadline, or "".
func (d Deadline) Text() string {
	return d.label
}

// Until returns the time left until a timestamp deadline, negative when it has
// passed. It returns nil for absent and label deadlines.
func (d Deadline) Until(now time.Time) *time.Duration {
	t, ok := d.Time()
	if !ok {
		return nil
	}
	left := t.Sub(now)
	return &left
}

// MarshalJSON encodes absent as null, a timestamp as an integer and a label as
// a string.
func (d Deadline) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case KindAbsent:
		return []byte("null"), nil
	case KindTimestamp:
		return []byte(strconv.FormatInt(d.unix, 10)), nil
	case KindLabel:
		return json.Marshal(d.label)
	default:
		return nil, fmt.Errorf("marshal deadline: unknown kind %v", d.kind)
	}
}

// UnmarshalJSON decodes the three encodings produced by MarshalJSON.
func (d *Deadline) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || string(data) == "null":
		*d = Absent()
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("unmarshal deadline label: %w", err)
		}
		*d = Label(s)
		return nil
	}

	if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*d = Deadline{kind: KindTimestamp, unix: n}
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("unmarshal deadline: unsupported value %s", data)
	}
	*d = Deadline{kind: KindTimestamp, unix: int64(f)}
	return nil
}

// Item is a single to-do entry.
type Item struct {
	Name     string   `json:"name"`
	Deadline Deadline `json:"deadline"`
	Tags     []string `json:"tags"`
	Desc     string   `json:"desc"`
}

// ID returns the identifier derived from the item's name.
func (it *Item) ID() string {
	return Identifier(it.Name)
}

// Identifier case-folds a name into the key used on the stack and on disk.
func Identifier(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
