package input

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

func TestReadAll(t *testing.T) {
	body := "3d\n[work]\nfirst\nsecond\n"
	got, err := Read(context.Background(), Options{In: strings.NewReader(body), Editor: true})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got != body {
		t.Errorf("Read: got %q, want %q", got, body)
	}
}

func TestReadCancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := Read(ctx, Options{In: r})
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, ErrCancelled) {
			t.Errorf("Read after cancel: got %v, want ErrCancelled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Read did not return after cancel")
	}
}

func TestReadError(t *testing.T) {
	r, w := io.Pipe()
	w.CloseWithError(errors.New("boom"))

	_, err := Read(context.Background(), Options{In: r})
	if err == nil || errors.Is(err, ErrCancelled) {
		t.Errorf("Read with failing reader: got %v, want read error", err)
	}
}

func TestIsTerminalNonFile(t *testing.T) {
	if IsTerminal(strings.NewReader("")) {
		t.Error("IsTerminal(strings.Reader) = true")
	}
}

func TestEditorModelSubmit(t *testing.T) {
	m := newEditorModel("push groceries")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2d")})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[home]")})

	if !strings.Contains(m.View(), "push groceries") {
		t.Errorf("View should include the title:\n%s", m.View())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	if !m.submitted || m.cancelled {
		t.Fatalf("ctrl+d: submitted=%v cancelled=%v", m.submitted, m.cancelled)
	}
	if cmd == nil {
		t.Fatal("ctrl+d should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+d command is not tea.Quit")
	}
	if got := m.Value(); got != "2d\n[home]" {
		t.Errorf("Value: got %q, want %q", got, "2d\n[home]")
	}
	if m.View() != "" {
		t.Error("View should be empty after submit")
	}
}

func TestEditorModelCancel(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := newEditorModel("")
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
		m.Update(tea.KeyMsg{Type: key})
		if !m.cancelled || m.submitted {
			t.Errorf("key %v: cancelled=%v submitted=%v", key, m.cancelled, m.submitted)
		}
	}
}
