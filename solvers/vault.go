package solvers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/zond/escaperoom/structs"
	"github.com/zond/escaperoom/transcript"
)

var (
	safePattern = regexp.MustCompile(`(?i)\s*S\s*A\s*F\s*E\s*\{\s*(\d+)\s*-\s*(\d+)\s*-\s*(\d+)\s*\}\s*`)
)

// Vault finds the single SAFE{a-b-c} code in a text dump where a+b=c.
type Vault struct{}

func (Vault) Room() structs.Room {
	return structs.Vault
}

type safeCode struct {
	span    string
	a, b, c string
}

func (s safeCode) token() string {
	return fmt.Sprintf("%s-%s-%s", s.a, s.b, s.c)
}

// findSafeCodes returns every distinct match, in source order.
// Matches are compared without their surrounding whitespace.
func findSafeCodes(text string) []safeCode {
	result := []safeCode{}
	seen := map[string]bool{}
	for _, match := range safePattern.FindAllStringSubmatch(text, -1) {
		span := strings.TrimSpace(match[0])
		if seen[span] {
			continue
		}
		seen[span] = true
		result = append(result, safeCode{span: span, a: match[1], b: match[2], c: match[3]})
	}
	return result
}

// balanced reports whether the code parses as numbers with a+b=c.
// Codes that don't parse are noise, not errors.
func (s safeCode) balanced() bool {
	a, err := strconv.ParseFloat(s.a, 64)
	if err != nil {
		return false
	}
	b, err := strconv.ParseFloat(s.b, 64)
	if err != nil {
		return false
	}
	c, err := strconv.ParseFloat(s.c, 64)
	if err != nil {
		return false
	}
	return a+b == c
}

func (v Vault) Solve(input []byte, t *transcript.Transcript) (string, error) {
	valid := []safeCode{}
	for _, code := range findSafeCodes(string(input)) {
		if code.balanced() {
			t.Printf("The values %s are valid", code.token())
			valid = append(valid, code)
		}
	}
	if len(valid) == 0 {
		return "", errors.WithStack(ErrNotSolved)
	}
	if len(valid) > 1 {
		tokens := make([]string, len(valid))
		for idx, code := range valid {
			tokens[idx] = code.token()
		}
		return "", errors.Wrapf(ErrAmbiguous, "found %s", strings.Join(tokens, ", "))
	}
	code := valid[0]
	kind := structs.VaultDump.Kind()
	t.Append(v.Room(), kind.Token(code.token()))
	t.Append(v.Room(), kind.Evidence("MATCH", code.span))
	t.Append(v.Room(), kind.Evidence("CHECK", fmt.Sprintf("%s+%s=%s", code.a, code.b, code.c)))
	t.Printf("Returning token: %s", code.token())
	return code.token(), nil
}
