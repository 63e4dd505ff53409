package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"

	goccy "github.com/goccy/go-json"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "run.txt")
	if err := WriteFileAtomic(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("second")); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("got %q, want %q", got, "second")
	}
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestSaveLoadState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.json")
	want := &State{
		Room:       "vault",
		Inventory:  map[string]string{"dns.cfg": "phrase", "auth.log": ""},
		Transcript: map[string][]string{"DNS": {"TOKEN[DNS]=phrase", "EVIDENCE[DNS].KEY=hint4"}},
	}
	if err := SaveState(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := LoadState(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("state mismatch: %v", diff)
	}
}

func TestLoadStateErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadState(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want os.ErrNotExist", err)
	}
	garbage := filepath.Join(dir, "garbage.json")
	if err := os.WriteFile(garbage, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadState(garbage); !errors.Is(err, ErrInvalidSave) {
		t.Errorf("got %v, want ErrInvalidSave", err)
	}
	old := filepath.Join(dir, "old.json")
	if err := os.WriteFile(old, []byte(`{"version":0,"room":"dns"}`), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadState(old); !errors.Is(err, ErrInvalidSave) {
		t.Errorf("got %v, want ErrInvalidSave", err)
	}
	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{"version":1,"room":"lobby"}`), 0600); err != nil {
		t.Fatal(err)
	}
	state, err := LoadState(empty)
	if err != nil {
		t.Fatal(err)
	}
	if state.Inventory == nil || state.Transcript == nil {
		t.Errorf("maps should never be nil after load: %+v", state)
	}
}

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func TestAuditLogger(t *testing.T) {
	buf := &bufferCloser{}
	a := NewAuditWriter(buf)
	a.now = func() time.Time { return time.Date(2025, 8, 9, 12, 0, 0, 0, time.UTC) }
	ctx := SetSessionID(context.Background(), "abc")
	a.Log(ctx, "ROOM_SOLVED", AuditRoomSolved{Room: "DNS", Item: "dns.cfg", Token: "phrase"})
	a.Log(context.Background(), "SESSION_END", AuditSessionEnd{Reason: "quit"})
	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if !buf.closed {
		t.Errorf("underlying writer not closed")
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	got := map[string]any{}
	if err := goccy.Unmarshal([]byte(lines[0]), &got); err != nil {
		t.Fatal(err)
	}
	want := map[string]any{
		"time":       "2025-08-09T12:00:00Z",
		"session_id": "abc",
		"event":      "ROOM_SOLVED",
		"data":       map[string]any{"room": "DNS", "item": "dns.cfg", "token": "phrase"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("entry mismatch: %v", diff)
	}
	if strings.Contains(lines[1], "session_id") {
		t.Errorf("entry without session should omit session_id: %s", lines[1])
	}
}

func TestNilAuditLogger(t *testing.T) {
	var a *AuditLogger
	a.Log(context.Background(), "SESSION_END", AuditSessionEnd{Reason: "quit"})
	if err := a.Close(); err != nil {
		t.Errorf("nil logger Close() = %v", err)
	}
}
