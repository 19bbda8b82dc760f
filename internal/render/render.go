// Package render formats items and listings for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nibzard/pile/internal/item"
	"github.com/nibzard/pile/internal/listing"
)

// DateLayout is the layout used for timestamp deadlines.
const DateLayout = "Monday, January 2, 2006 3:04 PM"

// NoDeadline is shown for items without a deadline.
const NoDeadline = "No particular deadline"

const ruleWidth = 40

// Mode selects how a listing is printed.
type Mode int

const (
	ModeFull Mode = iota
	ModeCompact
	ModeTags
)

// ParseMode maps a list argument to a mode. It returns false for anything
// other than "single" or "tags".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "single":
		return ModeCompact, true
	case "tags":
		return ModeTags, true
	default:
		return ModeFull, false
	}
}

// Printer writes rendered output. Styles degrade to plain text when the
// writer is not a color terminal.
type Printer struct {
	w    io.Writer
	name lipgloss.Style
	rule lipgloss.Style
}

// New returns a printer writing to w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:    w,
		name: r.NewStyle().Bold(true),
		rule: r.NewStyle().Faint(true),
	}
}

// FormatDeadline renders d for display in now's location.
func FormatDeadline(d item.Deadline, now time.Time) string {
	switch d.Kind() {
	case item.KindTimestamp:
		t, _ := d.Time()
		t = t.In(now.Location())
		return fmt.Sprintf("%s (%s)", t.Format(DateLayout), humanize.RelTime(t, now, "ago", "from now"))
	case item.KindLabel:
		return d.Text()
	default:
		return NoDeadline
	}
}

// Item prints one item in full.
func (p *Printer) Item(it *item.Item, now time.Time) error {
	var b strings.Builder
	rule := p.rule.Render(strings.Repeat("-", ruleWidth))
	b.WriteString(rule + "\n")
	b.WriteString(p.name.Render(it.Name) + "\n")
	b.WriteString(FormatDeadline(it.Deadline, now) + "\n")
	b.WriteString("Tags: " + strings.Join(it.Tags, ", ") + "\n")
	if it.Desc != "" {
		b.WriteString("\n" + it.Desc + "\n")
	}
	b.WriteString(rule + "\n")
	_, err := io.WriteString(p.w, b.String())
	return err
}

// List prints entries in the given mode.
func (p *Printer) List(entries []listing.Entry, mode Mode, now time.Time) error {
	for _, e := range entries {
		var err error
		switch mode {
		case ModeCompact:
			_, err = fmt.Fprintln(p.w, e.ID)
		case ModeTags:
			_, err = fmt.Fprintf(p.w, "%s [%s]\n", e.ID, strings.Join(e.Item.Tags, ", "))
		default:
			err = p.Item(e.Item, now)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
