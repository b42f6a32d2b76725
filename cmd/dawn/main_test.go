package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func runCLI(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--data-dir", dataDir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestCLIMorningSession(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "start", "--context", "gentle", "--wake", "06:15")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !strings.Contains(out, "protocol=gentle-day0") {
		t.Fatalf("unexpected start output: %s", out)
	}

	if _, err := runCLI(t, dir, "test", "pre", "--reactions", "520,480,500"); err != nil {
		t.Fatalf("test pre: %v", err)
	}
	if _, err := runCLI(t, dir, "energy", "pre", "2"); err != nil {
		t.Fatalf("energy pre: %v", err)
	}

	if _, err := runCLI(t, dir, "complete"); err == nil {
		t.Fatalf("complete without post test should need --skip-post-test")
	}

	out, err = runCLI(t, dir, "test", "post", "--reactions", "400,410,390")
	if err != nil {
		t.Fatalf("test post: %v", err)
	}
	if !strings.Contains(out, "post test: score=500") {
		t.Fatalf("unexpected post output: %s", out)
	}

	out, err = runCLI(t, dir, "complete")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !strings.Contains(out, "reaction 400 -> 500") {
		t.Fatalf("unexpected complete output: %s", out)
	}

	out, err = runCLI(t, dir, "dashboard")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !strings.Contains(out, "day 2 of 14") {
		t.Fatalf("unexpected dashboard output: %s", out)
	}
}

func TestParseWake(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	got, err := parseWake("06:45", now)
	if err != nil {
		t.Fatalf("parseWake: %v", err)
	}
	if want := time.Date(2026, 3, 2, 6, 45, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("wake = %v, want %v", got, want)
	}

	if got, err := parseWake("", now); err != nil || got != nil {
		t.Fatalf("empty wake = %v, %v", got, err)
	}
	if _, err := parseWake("6am", now); err == nil {
		t.Fatalf("expected error for malformed wake time")
	}
}

func TestReadEvents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "events.json")
	doc := `[{"timestamp":1772433000450,"stimulus_shown_at":1772433000000,"reaction_time_ms":450}]`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	events, err := readEvents(path)
	if err != nil {
		t.Fatalf("readEvents: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	if ms := events[0].RespondedAt.Sub(events[0].StimulusShownAt).Milliseconds(); ms != 450 {
		t.Fatalf("reaction = %dms, want 450", ms)
	}
}
