package solvers

import (
	"encoding/base64"
	"strings"
)

func isBase64Alphabet(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '+' || r == '/'
}

// DecodeLoose decodes standard Base64 while tolerating whitespace, line
// continuations, stray characters and missing padding.
// It returns false when nothing decodable remains.
func DecodeLoose(s string) (string, bool) {
	data := make([]byte, 0, len(s))
	for _, r := range s {
		if r == '=' {
			// Padding only terminates the data once a quantum has two characters.
			if len(data)%4 >= 2 {
				break
			}
			continue
		}
		if isBase64Alphabet(r) {
			data = append(data, byte(r))
		}
	}
	if len(data) == 0 || len(data)%4 == 1 {
		return "", false
	}
	decoded, err := base64.RawStdEncoding.DecodeString(string(data))
	if err != nil || len(decoded) == 0 {
		return "", false
	}
	return strings.ToValidUTF8(string(decoded), "\uFFFD"), true
}
