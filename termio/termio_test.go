package termio

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func readAll(t *testing.T, r LineReader) []string {
	t.Helper()
	result := []string{}
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			return result
		} else if err != nil {
			t.Fatal(err)
		}
		result = append(result, line)
	}
}

func TestScanner(t *testing.T) {
	out := &bytes.Buffer{}
	s := NewScanner(strings.NewReader("look\r\nmove dns\n\ninspect dns.cfg"), out, DefaultPrompt)
	if diff := cmp.Diff([]string{"look", "move dns", "", "inspect dns.cfg"}, readAll(t, s)); diff != "" {
		t.Errorf("lines mismatch: %v", diff)
	}
	if got, want := out.String(), strings.Repeat(DefaultPrompt, 5); got != want {
		t.Errorf("got prompts %q, want %q", got, want)
	}
}

func TestScannerWithoutPrompt(t *testing.T) {
	s := NewScanner(strings.NewReader("quit\n"), nil, DefaultPrompt)
	if diff := cmp.Diff([]string{"quit"}, readAll(t, s)); diff != "" {
		t.Errorf("lines mismatch: %v", diff)
	}
}

func TestLines(t *testing.T) {
	l := &Lines{"look", "quit"}
	if diff := cmp.Diff([]string{"look", "quit"}, readAll(t, l)); diff != "" {
		t.Errorf("lines mismatch: %v", diff)
	}
	if _, err := l.ReadLine(); err != io.EOF {
		t.Errorf("got %v, want io.EOF", err)
	}
}
