// Package solvers extracts room tokens from the evidence files of the puzzle rooms.
package solvers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/zond/escaperoom"
	"github.com/zond/escaperoom/structs"
	"github.com/zond/escaperoom/transcript"
)

var (
	ErrNoResource      = errors.New("evidence file not found")
	ErrNoEntries       = errors.New("no valid entries")
	ErrMissingSelector = errors.New("token_tag not found")
	ErrInvalidSelector = errors.New("token_tag invalid or not a hint key")
	ErrUndecodableHint = errors.New("hint missing or undecodable")
	ErrNoWord          = errors.New("no word in decoded line")
	ErrNoAttack        = errors.New("no attacking subnet found")
	ErrNotSolved       = errors.New("vault not solved")
	ErrAmbiguous       = errors.New("too many candidates, no token returned")
	ErrNoExfil         = errors.New("no exfil process found")
)

// Solver turns the content of a room's evidence file into a token.
// On success it has appended its evidence lines to the transcript.
type Solver interface {
	Room() structs.Room
	Solve(input []byte, t *transcript.Transcript) (string, error)
}

// For returns the solver of a puzzle room.
func For(room structs.Room) (Solver, bool) {
	switch room {
	case structs.DNS:
		return DNS{}, true
	case structs.SOC:
		return SOC{}, true
	case structs.Vault:
		return Vault{}, true
	case structs.Malware:
		return Malware{}, true
	}
	return nil, false
}

// Run reads the evidence file of room from dataDir and solves it.
func Run(dataDir string, room structs.Room, t *transcript.Transcript) (string, error) {
	solver, found := For(room)
	if !found {
		return "", errors.Errorf("%s has nothing to solve", room.Name())
	}
	path := filepath.Join(dataDir, room.Item().File())
	input, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", errors.Wrapf(ErrNoResource, "%s not found in %s", room.Item().File(), dataDir)
	} else if err != nil {
		return "", errors.Wrapf(ErrNoResource, "reading %s: %v", path, err)
	}
	token, err := solver.Solve(input, t)
	if err != nil {
		return "", escaperoom.WithStack(err)
	}
	return token, nil
}

// splitLines splits text the way a line oriented file read would: a final
// newline does not start an extra empty line, and carriage returns are dropped.
func splitLines(text []byte) []string {
	s := strings.TrimSuffix(string(text), "\n")
	if s == "" && len(text) == 0 {
		return nil
	}
	lines := strings.Split(s, "\n")
	for idx := range lines {
		lines[idx] = strings.TrimSuffix(lines[idx], "\r")
	}
	return lines
}
