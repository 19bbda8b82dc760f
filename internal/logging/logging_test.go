package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "info", Format: "text"})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer logger.Close()

	logger.Debug("hidden", "id", "a")
	logger.Info("pushed", "id", "groceries")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug record written at info level: %s", out)
	}
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "pushed") || !strings.Contains(out, "groceries") {
		t.Errorf("info record missing fields: %s", out)
	}
}

func TestFileFanout(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "pile.log")

	logger, err := New(&buf, Options{Level: "debug", Format: "logfmt", File: path})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	logger.Info("popped", "id", "a", "depth", 2)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if !strings.Contains(buf.String(), "popped") {
		t.Errorf("console missing record: %s", buf.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &rec); err != nil {
		t.Fatalf("log file is not JSON lines: %v\n%s", err, data)
	}
	if rec["msg"] != "popped" || rec["id"] != "a" {
		t.Errorf("log record: got %v", rec)
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("dropped")
	if err := l.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]log.Level{
		"debug":   log.DebugLevel,
		"info":    log.InfoLevel,
		"warn":    log.WarnLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"bogus":   log.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseLogFormatter(t *testing.T) {
	if ParseLogFormatter("json") != log.JSONFormatter {
		t.Error("json formatter")
	}
	if ParseLogFormatter("logfmt") != log.LogfmtFormatter {
		t.Error("logfmt formatter")
	}
	if ParseLogFormatter("") != log.TextFormatter {
		t.Error("default formatter")
	}
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pile.log")
	var content strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&content, "%s line %02d\n", strings.Repeat("x", 150), i)
	}
	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	var all bytes.Buffer
	if err := TailLog(context.Background(), &all, path, 0, false); err != nil {
		t.Fatalf("TailLog failed: %v", err)
	}
	if all.String() != content.String() {
		t.Error("TailLog with n=0 should copy the whole file")
	}

	var tail bytes.Buffer
	if err := TailLog(context.Background(), &tail, path, 3, false); err != nil {
		t.Fatalf("TailLog failed: %v", err)
	}
	got := tail.String()
	if !strings.HasSuffix(got, "line 49\n") {
		t.Errorf("tail should end with the last line: %q", got)
	}
	if strings.Contains(got, "line 00") {
		t.Error("tail should not include the first line")
	}
	if !strings.HasPrefix(got, strings.Repeat("x", 150)) {
		t.Errorf("tail should start at a line boundary: %q", got[:20])
	}
}

func TestTailLogFollow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pile.log")
	if err := os.WriteFile(path, []byte("first\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var buf safeBuffer
	done := make(chan error, 1)
	go func() { done <- TailLog(ctx, &buf, path, 0, true) }()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprintln(f, "second")
	f.Close()

	deadline := time.Now().Add(2 * time.Second)
	for !strings.Contains(buf.String(), "second") && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("TailLog follow: %v", err)
	}
	if got := buf.String(); got != "first\nsecond\n" {
		t.Errorf("follow output: got %q", got)
	}
}

func TestTailLogMissing(t *testing.T) {
	err := TailLog(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "nope"), 10, false)
	if err == nil {
		t.Error("TailLog on missing file: expected error")
	}
}
