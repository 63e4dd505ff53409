package storage

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/zond/escaperoom"

	goccy "github.com/goccy/go-json"
)

var (
	ErrInvalidSave = errors.New("invalid save file")
)

// WriteFileAtomic replaces path with content through a renamed temporary file.
func WriteFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return escaperoom.WithStack(err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return escaperoom.WithStack(err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return escaperoom.WithStack(err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return escaperoom.WithStack(err)
	}
	if err := tmp.Close(); err != nil {
		return escaperoom.WithStack(err)
	}
	return escaperoom.WithStack(os.Rename(tmp.Name(), path))
}

// State is the persisted form of a game session.
type State struct {
	Version int `json:"version"`
	// Room is the move name of the current room.
	Room string `json:"room"`
	// Inventory maps item file names to tokens.
	Inventory map[string]string `json:"inventory"`
	// Transcript maps room names to their evidence lines.
	Transcript map[string][]string `json:"transcript"`
}

const (
	stateVersion = 1
)

func SaveState(path string, state *State) error {
	state.Version = stateVersion
	b, err := goccy.MarshalIndent(state, "", "  ")
	if err != nil {
		return escaperoom.WithStack(err)
	}
	return WriteFileAtomic(path, b)
}

func LoadState(path string) (*State, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, escaperoom.WithStack(err)
	}
	state := &State{}
	if err := goccy.Unmarshal(b, state); err != nil {
		return nil, errors.Wrapf(ErrInvalidSave, "%q: %v", path, err)
	}
	if state.Version != stateVersion {
		return nil, errors.Wrapf(ErrInvalidSave, "%q has version %d, want %d", path, state.Version, stateVersion)
	}
	if state.Inventory == nil {
		state.Inventory = map[string]string{}
	}
	if state.Transcript == nil {
		state.Transcript = map[string][]string{}
	}
	return state, nil
}
