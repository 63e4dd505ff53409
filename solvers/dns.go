package solvers

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/zond/escaperoom/structs"
	"github.com/zond/escaperoom/transcript"
)

var (
	hintKeyPattern = regexp.MustCompile(`(?i)^hint[0-9]+$`)
	digitsPattern  = regexp.MustCompile(`^[0-9]+$`)
	wordPattern    = regexp.MustCompile(`[A-Za-z0-9_]+`)

	selectorKeys = []string{"token_tag", "tokenTag", "token"}
)

// DNS decodes the Base64 hint selected by token_tag in a key = value config.
type DNS struct{}

func (DNS) Room() structs.Room {
	return structs.DNS
}

// parseConfigLine returns the key and value of one config line, or false for junk.
func parseConfigLine(line string) (string, string, bool) {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		line = line[:idx]
	}
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

// ParseConfig collects the key = value pairs of text. Later duplicates win.
func ParseConfig(text []byte) map[string]string {
	result := map[string]string{}
	for _, line := range splitLines(text) {
		if key, value, ok := parseConfigLine(line); ok {
			result[key] = value
		}
	}
	return result
}

// DecodeHints decodes every hint<digits> value, dropping the undecodable ones.
func DecodeHints(raw map[string]string) map[string]string {
	result := map[string]string{}
	for key, value := range raw {
		if !hintKeyPattern.MatchString(key) {
			continue
		}
		if decoded, ok := DecodeLoose(value); ok {
			result[key] = decoded
		}
	}
	return result
}

// resolveSelector turns the token_tag of a config into a hint key.
func resolveSelector(raw map[string]string) (string, error) {
	tag := ""
	for _, key := range selectorKeys {
		if tag = raw[key]; tag != "" {
			break
		}
	}
	if tag == "" {
		return "", errors.WithStack(ErrMissingSelector)
	}
	normalize := func(candidate string) string {
		candidate = strings.TrimSpace(candidate)
		if digitsPattern.MatchString(candidate) {
			candidate = "hint" + candidate
		}
		return candidate
	}
	candidate := tag
	if decoded, ok := DecodeLoose(tag); ok {
		candidate = decoded
	}
	key := normalize(candidate)
	if !hintKeyPattern.MatchString(key) {
		return "", errors.Wrapf(ErrInvalidSelector, "%q resolves to %q", tag, key)
	}
	return key, nil
}

// LastWord returns the last run of letters, digits and underscores in s.
func LastWord(s string) string {
	words := wordPattern.FindAllString(s, -1)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}

func (d DNS) Solve(input []byte, t *transcript.Transcript) (string, error) {
	t.Print("[DNS] starting decode")
	raw := ParseConfig(input)
	if len(raw) == 0 {
		return "", errors.Wrap(ErrNoEntries, structs.DNSConfig.File())
	}
	hints := DecodeHints(raw)
	key, err := resolveSelector(raw)
	if err != nil {
		return "", err
	}
	sentence, found := hints[key]
	if !found {
		return "", errors.Wrapf(ErrUndecodableHint, "could not decode the value for %s", key)
	}
	token := LastWord(sentence)
	if token == "" {
		return "", errors.Wrapf(ErrNoWord, "no valid last word found in decoded line for %s", key)
	}
	t.Printf("Decoded line: %q", sentence)
	t.Printf("Token formed: %s", token)
	kind := structs.DNSConfig.Kind()
	t.Append(d.Room(), kind.Token(token))
	t.Append(d.Room(), kind.Evidence("KEY", key))
	t.Append(d.Room(), kind.Evidence("DECODED_LINE", sentence))
	return token, nil
}
