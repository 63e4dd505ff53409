package lang

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gertd/go-pluralize"
)

const (
	DefaultPattern   = "%s"
	DefaultSeparator = ","
	DefaultOperator  = "and"
)

var (
	pluralizer = pluralize.NewClient()

	smallNumbers = []string{"no", "one", "two", "three"}
)

// Enumerator joins elements into an English list, like "a, b, and c".
type Enumerator struct {
	Pattern   string
	Separator string
	Operator  string
}

func (e Enumerator) Do(elements ...string) string {
	pattern, separator, operator := DefaultPattern, DefaultSeparator, DefaultOperator
	if e.Pattern != "" {
		pattern = e.Pattern
	}
	if e.Separator != "" {
		separator = e.Separator
	}
	if e.Operator != "" {
		operator = e.Operator
	}
	formatted := make([]string, len(elements))
	for idx, element := range elements {
		formatted[idx] = fmt.Sprintf(pattern, element)
	}
	switch len(formatted) {
	case 0:
		return ""
	case 1:
		return formatted[0]
	case 2:
		return fmt.Sprintf("%s %s %s", formatted[0], operator, formatted[1])
	}
	last := len(formatted) - 1
	return fmt.Sprintf("%s%s %s %s", strings.Join(formatted[:last], separator+" "), separator, operator, formatted[last])
}

func Plural(word string) string {
	return pluralizer.Plural(word)
}

func Singular(word string) string {
	return pluralizer.Singular(word)
}

// Capitalize upper cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Article returns "a" or "an" for word.
func Article(word string) string {
	lower := strings.ToLower(word)
	for _, prefix := range []string{"hour", "honest", "heir", "8", "11", "18"} {
		if strings.HasPrefix(lower, prefix) {
			return "an"
		}
	}
	for _, prefix := range []string{"uni", "use", "one", "once"} {
		if strings.HasPrefix(lower, prefix) {
			return "a"
		}
	}
	if lower != "" && strings.ContainsRune("aeiou", rune(lower[0])) {
		return "an"
	}
	return "a"
}

func Indef(word string) string {
	return fmt.Sprintf("%s %s", Article(word), word)
}

// Card renders count and word as a counted phrase, like "no items", "an item" or "4 items".
func Card(count int, word string) string {
	switch {
	case count == 1:
		return Indef(Singular(word))
	case count >= 0 && count < len(smallNumbers):
		return fmt.Sprintf("%s %s", smallNumbers[count], Plural(word))
	}
	return fmt.Sprintf("%d %s", count, Plural(word))
}
