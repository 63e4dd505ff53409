package structs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRoomLookups(t *testing.T) {
	for _, r := range Rooms {
		got, ok := ParseRoom(r.Key())
		if !ok || got != r {
			t.Errorf("ParseRoom(%q) = %v, %v, want %v", r.Key(), got, ok, r)
		}
		if item := r.Item(); item != NoItem && item.Room() != r {
			t.Errorf("%v.Item().Room() = %v", r, item.Room())
		}
	}
	if r, ok := ParseRoom("GATE"); !ok || r != FinalGate {
		t.Errorf("ParseRoom should ignore case, got %v, %v", r, ok)
	}
	if _, ok := ParseRoom("kitchen"); ok {
		t.Errorf("kitchen should not be a room")
	}
	if Lobby.Item() != NoItem || FinalGate.Item() != NoItem {
		t.Errorf("lobby and gate have no inspectable item")
	}
	if FinalGate.UseAction() != "gate" || SOC.UseAction() != "" {
		t.Errorf("only the final gate has a use action")
	}
}

func TestKinds(t *testing.T) {
	want := map[Kind]Item{
		KindDNS:    DNSConfig,
		KindKeypad: AuthLog,
		KindSafe:   VaultDump,
		KindPID:    ProcTree,
	}
	got := map[Kind]Item{}
	for _, item := range PuzzleItems {
		got[item.Kind()] = item
		back, ok := item.Kind().Item()
		if !ok || back != item {
			t.Errorf("%v.Kind().Item() = %v, %v", item, back, ok)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kind mapping mismatch: %v", diff)
	}
	if _, ok := Kind("BOGUS").Item(); ok {
		t.Errorf("unknown kind should not resolve")
	}
	if got := KindDNS.Token("phrase"); got != "TOKEN[DNS]=phrase" {
		t.Errorf("got %q", got)
	}
	if got := KindKeypad.Evidence("COUNT", 4); got != "EVIDENCE[KEYPAD].COUNT=4" {
		t.Errorf("got %q", got)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "escape.yaml")
	if err := os.WriteFile(path, []byte("data_dir: puzzles\nstart: vault\nintro: false\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	want := DefaultConfig()
	want.DataDir = "puzzles"
	want.Start = "vault"
	want.Intro = false
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch: %v", diff)
	}
	if r, err := cfg.StartRoom(); err != nil || r != Vault {
		t.Errorf("StartRoom() = %v, %v", r, err)
	}

	if err := os.WriteFile(path, []byte("colour: blue\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("unknown fields should be rejected")
	}

	if err := os.WriteFile(path, []byte("start: kitchen\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("unknown start room should be rejected")
	}

	if err := os.WriteFile(path, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if cfg, err := LoadConfig(path); err != nil {
		t.Errorf("empty file should give defaults, got %v", err)
	} else if cfg.Start != Lobby.Key() {
		t.Errorf("got start %q", cfg.Start)
	}
}
