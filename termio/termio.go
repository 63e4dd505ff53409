// Package termio provides the line sources the game loop reads commands from.
package termio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/zond/escaperoom"
	"golang.org/x/term"
)

const (
	DefaultPrompt = "> "
)

// LineReader returns one line of input per call, and io.EOF when the input ends.
type LineReader interface {
	ReadLine() (string, error)
}

// IsTerminal reports whether f is connected to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Terminal is an interactive, line edited terminal on a raw mode file descriptor.
// Output meant for the player must be written to the Terminal itself, since
// raw mode leaves newline translation to it.
type Terminal struct {
	term  *term.Terminal
	fd    int
	state *term.State
}

type readWriter struct {
	io.Reader
	io.Writer
}

// NewTerminal puts in into raw mode. Close restores it.
func NewTerminal(in *os.File, out io.Writer, prompt string) (*Terminal, error) {
	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, escaperoom.WithStack(err)
	}
	return &Terminal{
		term:  term.NewTerminal(readWriter{Reader: in, Writer: out}, prompt),
		fd:    fd,
		state: state,
	}, nil
}

func (t *Terminal) ReadLine() (string, error) {
	return t.term.ReadLine()
}

func (t *Terminal) Write(b []byte) (int, error) {
	return t.term.Write(b)
}

func (t *Terminal) Close() error {
	return escaperoom.WithStack(term.Restore(t.fd, t.state))
}

// Scanner reads lines from a plain reader, like a script file or a pipe.
type Scanner struct {
	scanner *bufio.Scanner
	prompt  string
	out     io.Writer
}

// NewScanner returns a Scanner that writes prompt to out before each line.
// A nil out disables the prompt.
func NewScanner(in io.Reader, out io.Writer, prompt string) *Scanner {
	return &Scanner{
		scanner: bufio.NewScanner(in),
		prompt:  prompt,
		out:     out,
	}
}

func (s *Scanner) ReadLine() (string, error) {
	if s.out != nil && s.prompt != "" {
		fmt.Fprint(s.out, s.prompt)
	}
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", escaperoom.WithStack(err)
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}

// Lines is a LineReader over a fixed list of lines.
type Lines []string

func (l *Lines) ReadLine() (string, error) {
	if len(*l) == 0 {
		return "", io.EOF
	}
	line := (*l)[0]
	*l = (*l)[1:]
	return line, nil
}
