// Package input collects the body of a new item: a deadline line, a tag list
// line and a free-form description.
//
// On a terminal the body is typed into an editor; otherwise it is read from
// the input stream until EOF. Either way an interrupt cancels the push.
package input

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ErrCancelled is returned when the user abandons input.
var ErrCancelled = errors.New("input cancelled")

// Options controls where input comes from.
type Options struct {
	In  io.Reader
	Out io.Writer
	// Editor enables the interactive editor when In is a terminal.
	Editor bool
	// Title is shown above the editor.
	Title string
}

// Read returns the raw item body.
func Read(ctx context.Context, opts Options) (string, error) {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stderr
	}
	if opts.Editor && IsTerminal(opts.In) {
		return readEditor(ctx, opts)
	}
	return readAll(ctx, opts.In)
}

// IsTerminal reports whether r is a terminal.
func IsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type readResult struct {
	data []byte
	err  error
}

// readAll reads r to EOF unless ctx is cancelled first.
func readAll(ctx context.Context, r io.Reader) (string, error) {
	ch := make(chan readResult, 1)
	go func() {
		data, err := io.ReadAll(r)
		ch <- readResult{data: data, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ErrCancelled
	case res := <-ch:
		if res.err != nil {
			return "", fmt.Errorf("read input: %w", res.err)
		}
		if ctx.Err() != nil {
			return "", ErrCancelled
		}
		return string(res.data), nil
	}
}

func readEditor(ctx context.Context, opts Options) (string, error) {
	model := newEditorModel(opts.Title)
	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(opts.In),
		tea.WithOutput(opts.Out),
	)
	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("run editor: %w", err)
	}

	m, ok := final.(*editorModel)
	if !ok || m.cancelled || !m.submitted {
		return "", ErrCancelled
	}
	return m.Value(), nil
}
