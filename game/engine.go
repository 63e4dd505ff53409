// Package game holds the engine that sequences player commands against the
// room state, the inventory and the transcript.
package game

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/buildkite/shellwords"
	"github.com/pkg/errors"
	"github.com/zond/escaperoom"
	"github.com/zond/escaperoom/inventory"
	"github.com/zond/escaperoom/storage"
	"github.com/zond/escaperoom/structs"
	"github.com/zond/escaperoom/termio"
	"github.com/zond/escaperoom/transcript"
)

const (
	GateFile = "final_gate.txt"
)

// Engine is a single game session.
type Engine struct {
	ctx        context.Context
	config     *structs.Config
	room       structs.Room
	inventory  *inventory.Inventory
	transcript *transcript.Transcript
	audit      *storage.AuditLogger
	done       bool
}

// New starts a session in the configured start room. audit may be nil.
func New(ctx context.Context, config *structs.Config, t *transcript.Transcript, audit *storage.AuditLogger) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	room, err := config.StartRoom()
	if err != nil {
		return nil, err
	}
	e := &Engine{
		ctx:        storage.SetSessionID(ctx, escaperoom.NextUniqueID()),
		config:     config,
		room:       room,
		inventory:  inventory.New(),
		transcript: t,
		audit:      audit,
	}
	e.audit.Log(e.ctx, "SESSION_START", storage.AuditSessionStart{Room: room.Name()})
	return e, nil
}

func (e *Engine) Room() structs.Room {
	return e.room
}

func (e *Engine) Inventory() *inventory.Inventory {
	return e.inventory
}

func (e *Engine) Transcript() *transcript.Transcript {
	return e.transcript
}

// Done reports whether the session has terminated.
func (e *Engine) Done() bool {
	return e.done
}

// Intro prints the welcome banner.
func (e *Engine) Intro() {
	e.transcript.Print("Welcome to the escape room game")
	e.transcript.PrintBlock(banner)
	e.transcript.Print("Enjoy the escape room!")
	e.transcript.Print("Type quit to quit")
	e.transcript.Print("Type hint for assistance")
}

// Command executes one line of player input and reports whether the session continues.
func (e *Engine) Command(line string) bool {
	if e.done {
		return false
	}
	e.transcript.Log("User called " + line)
	words, err := shellwords.SplitPosix(line)
	if err != nil {
		// Stray quotes, like in "what's up", are plain text.
		words = strings.Fields(line)
	}
	if len(words) == 0 {
		return true
	}
	if found, err := e.commands().attempt(e, strings.ToLower(words[0]), words[1:]); err != nil {
		e.transcript.Print(err.Error())
	} else if !found {
		e.transcript.Printf("Unknown command: %s, type hint to see a list of available commands", line)
	}
	return !e.done
}

// Run feeds lines to Command until the session terminates.
// The end of the input and a cancelled ctx both count as quit.
func (e *Engine) Run(ctx context.Context, lines termio.LineReader) error {
	for !e.done {
		line, err := readLine(ctx, lines)
		switch {
		case ctx.Err() != nil:
			e.transcript.Print("")
			e.quit("interrupted")
		case errors.Is(err, io.EOF):
			e.quit("end of input")
		case err != nil:
			e.quit("read failed")
			return escaperoom.WithStack(err)
		default:
			e.Command(line)
		}
	}
	return nil
}

type readResult struct {
	line string
	err  error
}

func readLine(ctx context.Context, lines termio.LineReader) (string, error) {
	results := make(chan readResult, 1)
	go func() {
		line, err := lines.ReadLine()
		results <- readResult{line: line, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-results:
		return res.line, res.err
	}
}

func (e *Engine) quit(reason string) {
	e.transcript.Print("Thank you for playing")
	if err := e.transcript.Save(e.config.TranscriptPath, e.config.ChronologicalPath); err != nil {
		e.transcript.Printf("Unable to save the transcript: %v", err)
	} else {
		e.transcript.Printf("Transcript saved to %s", e.config.TranscriptPath)
	}
	e.audit.Log(e.ctx, "SESSION_END", storage.AuditSessionEnd{Reason: reason})
	e.done = true
}

func (e *Engine) gatePath() string {
	return filepath.Join(e.config.DataDir, GateFile)
}

func (e *Engine) readGate() ([]byte, error) {
	b, err := os.ReadFile(e.gatePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Errorf("%s not found in %s", GateFile, e.config.DataDir)
	} else if err != nil {
		return nil, escaperoom.WithStack(err)
	}
	return b, nil
}

// state captures the session for saving.
func (e *Engine) state() *storage.State {
	return &storage.State{
		Room:       e.room.Key(),
		Inventory:  e.inventory.Snapshot(),
		Transcript: e.transcript.Snapshot(),
	}
}

// restore replaces the session with state, and returns warnings for the
// parts of it that were skipped. An unknown room leaves the session unchanged.
func (e *Engine) restore(state *storage.State) ([]string, error) {
	room, found := structs.ParseRoom(state.Room)
	if !found {
		return nil, errors.Wrapf(storage.ErrInvalidSave, "unknown room %q", state.Room)
	}
	warnings := []string{}
	inv := inventory.New()
	for _, name := range inv.Restore(state.Inventory) {
		warnings = append(warnings, "The key "+name+" is not a valid item")
	}
	for _, name := range e.transcript.Restore(state.Transcript) {
		warnings = append(warnings, "The key "+name+" is not a valid room")
	}
	e.room = room
	e.inventory = inv
	return warnings, nil
}
