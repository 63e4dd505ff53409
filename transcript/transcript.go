// Package transcript keeps the graded per-room evidence buffers and the
// chronological log of everything shown to, or typed by, the player.
package transcript

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/zond/escaperoom"
	"github.com/zond/escaperoom/storage"
	"github.com/zond/escaperoom/structs"
)

const (
	TimestampLayout = "2006-01-02 15:04:05.000000"
)

type Transcript struct {
	out   io.Writer
	now   func() time.Time
	rooms map[structs.Room][]string
	log   []string
}

// New returns a transcript printing messages to out.
func New(out io.Writer) *Transcript {
	if out == nil {
		out = io.Discard
	}
	return &Transcript{
		out:   out,
		now:   time.Now,
		rooms: map[structs.Room][]string{},
	}
}

// WithClock replaces the clock used to timestamp the chronological log.
func (t *Transcript) WithClock(now func() time.Time) *Transcript {
	t.now = now
	return t
}

// SetOutput replaces the writer messages are printed to.
func (t *Transcript) SetOutput(out io.Writer) {
	t.out = out
}

// Append adds an evidence line to the room buffer and to the chronological log.
func (t *Transcript) Append(room structs.Room, line string) {
	if line == "" {
		return
	}
	t.rooms[room] = append(t.rooms[room], line)
	t.Log(fmt.Sprintf("%s: %s", room.Name(), line))
}

// SetRoom replaces the whole buffer of a room with content.
func (t *Transcript) SetRoom(room structs.Room, content string) {
	if content == "" {
		delete(t.rooms, room)
	} else {
		t.rooms[room] = strings.Split(content, "\n")
	}
	t.Log(fmt.Sprintf("%s: %s", room.Name(), strings.ReplaceAll(content, "\n", " | ")))
}

// Room returns the newline joined buffer of a room.
func (t *Transcript) Room(room structs.Room) string {
	return strings.Join(t.rooms[room], "\n")
}

func (t *Transcript) Lines(room structs.Room) []string {
	return slices.Clone(t.rooms[room])
}

// Log adds a timestamped line to the chronological log without printing it.
func (t *Transcript) Log(text string) {
	t.log = append(t.log, fmt.Sprintf("%s - %s", t.now().Format(TimestampLayout), text))
}

// Print writes message to the output and logs it.
func (t *Transcript) Print(message string) {
	fmt.Fprintln(t.out, message)
	t.Log(message)
}

func (t *Transcript) Printf(format string, args ...any) {
	t.Print(fmt.Sprintf(format, args...))
}

// PrintBlock prints every line of a multi line block, like a rendered table.
func (t *Transcript) PrintBlock(block string) {
	for _, line := range strings.Split(strings.TrimRight(block, "\n"), "\n") {
		t.Print(line)
	}
}

// Chronological returns a copy of the chronological log.
func (t *Transcript) Chronological() []string {
	return slices.Clone(t.log)
}

// Deliverable renders the graded transcript: every non-empty room, in room order.
func (t *Transcript) Deliverable() []byte {
	buf := &bytes.Buffer{}
	for _, room := range structs.Rooms {
		if lines := t.rooms[room]; len(lines) > 0 {
			fmt.Fprintln(buf, strings.Join(lines, "\n"))
		}
	}
	return buf.Bytes()
}

// Snapshot returns the room buffers keyed by room name, for saving.
func (t *Transcript) Snapshot() map[string][]string {
	result := map[string][]string{}
	for room, lines := range t.rooms {
		result[room.Name()] = slices.Clone(lines)
	}
	return result
}

// Restore replaces the room buffers with those of a snapshot.
// Unknown room names are returned and skipped.
func (t *Transcript) Restore(snapshot map[string][]string) []string {
	rooms := map[structs.Room][]string{}
	unknown := []string{}
	for _, name := range slices.Sorted(maps.Keys(snapshot)) {
		room, found := roomByName(name)
		if !found {
			unknown = append(unknown, name)
			continue
		}
		if lines := snapshot[name]; len(lines) > 0 {
			rooms[room] = slices.Clone(lines)
		}
	}
	t.rooms = rooms
	return unknown
}

func roomByName(name string) (structs.Room, bool) {
	for _, room := range structs.Rooms {
		if room.Name() == name {
			return room, true
		}
	}
	return structs.Lobby, false
}

// Save writes the deliverable transcript and the chronological log.
// Both files are attempted even when the first write fails.
func (t *Transcript) Save(transcriptPath, chronologicalPath string) error {
	var errs []error
	if err := storage.WriteFileAtomic(chronologicalPath, []byte(strings.Join(t.log, "\n")+"\n")); err != nil {
		errs = append(errs, err)
	}
	if err := storage.WriteFileAtomic(transcriptPath, t.Deliverable()); err != nil {
		errs = append(errs, err)
	}
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return escaperoom.WithStack(errs[0])
	}
	return escaperoom.WithStack(fmt.Errorf("%v; %v", errs[0], errs[1]))
}
