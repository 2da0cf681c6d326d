// Package validate holds the pure predicates and normalizers applied to every
// free-text contact field before it is stored or compared.
package validate

import (
	"regexp"
	"strings"
)

const (
	// MinPhoneDigits is the fewest digits a phone number may carry.
	MinPhoneDigits = 7

	// MaxPhoneDigits is the most digits a phone number may carry (E.164 limit).
	MaxPhoneDigits = 15
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// Phone reports whether s holds between MinPhoneDigits and MaxPhoneDigits
// digits once every non-digit character is stripped. Signs, spaces, dashes
// and brackets are therefore accepted anywhere.
func Phone(s string) bool {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n >= MinPhoneDigits && n <= MaxPhoneDigits
}

// Email reports whether s is an acceptable email address. The field is
// optional, so empty or whitespace-only input is valid.
func Email(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	return emailPattern.MatchString(s)
}

// Normalize trims s and collapses every internal whitespace run to one space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tags splits a comma-separated list into normalized labels, dropping empties.
// The result is never nil.
func Tags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := Normalize(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// NormalizeTags normalizes an already-split tag list, dropping empties.
func NormalizeTags(in []string) []string {
	tags := make([]string, 0, len(in))
	for _, t := range in {
		if t = Normalize(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
