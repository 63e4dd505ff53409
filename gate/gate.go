// Package gate parses the final gate directive and assembles the pending record.
package gate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/zond/escaperoom/structs"
)

var (
	ErrFormat       = errors.New("invalid format")
	ErrInvalidToken = errors.New("invalid token")
)

const (
	groupIDKey      = "group_id"
	expectedHMACKey = "expected_hmac"
	tokenOrderKey   = "token_order"
)

var (
	groupIDPattern      = regexp.MustCompile(`^\s*([\w-]+)\s*$`)
	expectedHMACPattern = regexp.MustCompile(`^\s*(\w+)\s*$`)
	tokenOrderPattern   = regexp.MustCompile(`^\s*(\w+)\s*,\s*(\w+)\s*,\s*(\w+)\s*,\s*(\w+)\s*$`)
)

func directiveLines(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(key) + `[ \t]*=(.*)$`)
}

var (
	groupIDLines      = directiveLines(groupIDKey)
	expectedHMACLines = directiveLines(expectedHMACKey)
	tokenOrderLines   = directiveLines(tokenOrderKey)
)

// Directive is the parsed content of the gate control file.
type Directive struct {
	GroupID      string
	ExpectedHMAC string
	// TokenOrder holds the tags in the order their tokens are joined.
	TokenOrder [4]string
}

// single finds the one line for a key and matches its value against valuePattern.
func single(text, key string, lines, valuePattern *regexp.Regexp) ([]string, error) {
	found := lines.FindAllStringSubmatch(text, -1)
	if len(found) != 1 {
		return nil, errors.Wrapf(ErrFormat, "want exactly one %s, found %d", key, len(found))
	}
	match := valuePattern.FindStringSubmatch(found[0][1])
	if match == nil {
		return nil, errors.Wrapf(ErrFormat, "%s %q", key, strings.TrimSpace(found[0][1]))
	}
	return match[1:], nil
}

func ParseDirective(text []byte) (*Directive, error) {
	s := string(text)
	groupID, err := single(s, groupIDKey, groupIDLines, groupIDPattern)
	if err != nil {
		return nil, err
	}
	hmac, err := single(s, expectedHMACKey, expectedHMACLines, expectedHMACPattern)
	if err != nil {
		return nil, err
	}
	order, err := single(s, tokenOrderKey, tokenOrderLines, tokenOrderPattern)
	if err != nil {
		return nil, err
	}
	result := &Directive{
		GroupID:      groupID[0],
		ExpectedHMAC: hmac[0],
	}
	copy(result.TokenOrder[:], order)
	return result, nil
}

// TokenSource gives the token collected for an item.
type TokenSource interface {
	Token(item structs.Item) string
}

// Record is the pending verification record produced by the gate.
type Record struct {
	GroupID      string
	Tokens       string
	ExpectedHMAC string
}

// Message returns the MSG value, "<group_id>|<tokens>".
func (r *Record) Message() string {
	return fmt.Sprintf("%s|%s", r.GroupID, r.Tokens)
}

func (r *Record) String() string {
	return fmt.Sprintf("FINAL_GATE=PENDING\nMSG=%s\nEXPECTED_HMAC=%s", r.Message(), r.ExpectedHMAC)
}

// Assemble orders the tokens of source by the directive.
func (d *Directive) Assemble(source TokenSource) (*Record, error) {
	parts := make([]string, 0, len(d.TokenOrder))
	for _, tag := range d.TokenOrder {
		item, found := structs.Kind(tag).Item()
		if !found {
			return nil, errors.Wrapf(ErrInvalidToken, "of type %s", tag)
		}
		parts = append(parts, source.Token(item))
	}
	return &Record{
		GroupID:      d.GroupID,
		Tokens:       strings.Join(parts, "-"),
		ExpectedHMAC: d.ExpectedHMAC,
	}, nil
}

// Assemble parses text as a directive and orders the tokens of source by it.
func Assemble(text []byte, source TokenSource) (*Record, error) {
	directive, err := ParseDirective(text)
	if err != nil {
		return nil, err
	}
	return directive.Assemble(source)
}
