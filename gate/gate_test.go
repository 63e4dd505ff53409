package gate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/zond/escaperoom/structs"
)

type tokens map[structs.Item]string

func (t tokens) Token(item structs.Item) string {
	return t[item]
}

var collected = tokens{
	structs.ProcTree:  "433",
	structs.DNSConfig: "phrase",
	structs.AuthLog:   "424",
	structs.VaultDump: "1-2-3",
}

func TestAssemble(t *testing.T) {
	directive := `# final gate control
group_id = team-7
expected_hmac=9f2c1ab0
token_order = PID,DNS,KEYPAD,SAFE
`
	record, err := Assemble([]byte(directive), collected)
	if err != nil {
		t.Fatal(err)
	}
	want := "FINAL_GATE=PENDING\nMSG=team-7|433-phrase-424-1-2-3\nEXPECTED_HMAC=9f2c1ab0"
	if got := record.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAssembleOrder(t *testing.T) {
	record, err := Assemble([]byte("token_order = SAFE , KEYPAD,DNS,  PID\ngroup_id=g\nexpected_hmac = h\n"), collected)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := record.Message(), "g|1-2-3-424-phrase-433"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseDirective(t *testing.T) {
	got, err := ParseDirective([]byte("  group_id = g-1\r\nexpected_hmac = abc\r\ntoken_order = PID,PID,PID,PID\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	want := &Directive{
		GroupID:      "g-1",
		ExpectedHMAC: "abc",
		TokenOrder:   [4]string{"PID", "PID", "PID", "PID"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("directive mismatch: %v", diff)
	}
}

func TestAssembleFailures(t *testing.T) {
	const (
		group = "group_id = g\n"
		hmac  = "expected_hmac = h\n"
		order = "token_order = PID,DNS,KEYPAD,SAFE\n"
	)
	tests := []struct {
		name      string
		directive string
		want      error
	}{
		{"missing group", hmac + order, ErrFormat},
		{"missing hmac", group + order, ErrFormat},
		{"missing order", group + hmac, ErrFormat},
		{"duplicate group", group + group + hmac + order, ErrFormat},
		{"empty group", "group_id =\n" + hmac + order, ErrFormat},
		{"bad hmac", group + "expected_hmac = not-hex-ish\n" + order, ErrFormat},
		{"three entries", group + hmac + "token_order = PID,DNS,KEYPAD\n", ErrFormat},
		{"five entries", group + hmac + "token_order = PID,DNS,KEYPAD,SAFE,PID\n", ErrFormat},
		{"empty entry", group + hmac + "token_order = PID,,KEYPAD,SAFE\n", ErrFormat},
		{"unknown tag", group + hmac + "token_order = PID,DNS,DOOR,SAFE\n", ErrInvalidToken},
		{"lower case tag", group + hmac + "token_order = pid,DNS,KEYPAD,SAFE\n", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := Assemble([]byte(tt.directive), collected)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, %v, want %v", record, err, tt.want)
			}
			if record != nil {
				t.Errorf("failed assembly should produce no record")
			}
		})
	}
}
