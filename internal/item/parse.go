package item

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nibzard/pile/internal/deadline"
)

var (
	// ErrParse marks a malformed item segment.
	ErrParse = errors.New("parse error")

	// ErrEmptyName is returned when the name segment is blank.
	ErrEmptyName = errors.New("item name is empty")
)

// ParseError describes which segment of the raw text could not be parsed.
type ParseError struct {
	Segment string
	Text    string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Segment, e.Text, e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is makes every ParseError match ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Parse builds an item from raw text: name, deadline expression, tag list and
// description, separated by the first three line breaks. Relative deadlines
// are resolved against now.
func Parse(raw string, now time.Time) (*Item, error) {
	segs := strings.SplitN(raw, "\n", 4)
	for len(segs) < 4 {
		segs = append(segs, "")
	}

	name := strings.TrimSpace(segs[0])
	if name == "" {
		return nil, ErrEmptyName
	}

	tags, err := ParseTags(segs[2])
	if err != nil {
		return nil, err
	}

	return &Item{
		Name:     name,
		Deadline: ParseDeadline(segs[1], now),
		Tags:     tags,
		Desc:     trimFinalNewline(segs[3]),
	}, nil
}

// ParseDeadline resolves a deadline segment. A relative expression becomes a
// timestamp, blank text is absent, and anything else is kept as a label.
func ParseDeadline(text string, now time.Time) Deadline {
	text = strings.TrimSpace(text)
	if text == "" {
		return Absent()
	}
	if d, ok := deadline.Translate(text); ok {
		return At(now.Add(d))
	}
	if strings.HasPrefix(text, `"`) {
		if s, err := strconv.Unquote(text); err == nil {
			return Label(s)
		}
	}
	return Label(text)
}

// ParseTags parses a tag list literal. Duplicate tags are dropped, keeping the
// first occurrence.
func ParseTags(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	if strings.HasPrefix(text, "(") {
		if !strings.HasSuffix(text, ")") {
			return nil, &ParseError{Segment: "tags", Text: text, Err: errors.New("unterminated list")}
		}
		return dedupe(strings.Fields(text[1 : len(text)-1])), nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, &ParseError{Segment: "tags", Text: text, Err: err}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, &ParseError{Segment: "tags", Text: text, Err: errors.New("not a list")}
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode {
		return nil, &ParseError{Segment: "tags", Text: text, Err: errors.New("not a list")}
	}

	tags := make([]string, 0, len(seq.Content))
	for _, n := range seq.Content {
		if n.Kind != yaml.ScalarNode {
			return nil, &ParseError{Segment: "tags", Text: text, Err: errors.New("tags must be plain labels")}
		}
		if n.Tag == "!!null" || n.Value == "" {
			continue
		}
		tags = append(tags, n.Value)
	}
	return dedupe(tags), nil
}

func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// trimFinalNewline drops the single line break that ends the input. Other
// line breaks in the description are kept.
func trimFinalNewline(s string) string {
	if strings.HasSuffix(s, "\r\n") {
		return s[:len(s)-2]
	}
	return strings.TrimSuffix(s, "\n")
}
