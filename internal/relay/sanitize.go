package relay

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)[^>]*?>.*?</(script|style)\s*>`)
	tagRe         = regexp.MustCompile(`</?[a-zA-Z!?][^<>]*>`)
	spaceRe       = regexp.MustCompile(`[\r\n\t ]+`)
	octetRe       = regexp.MustCompile(`%[a-fA-F0-9]{2}`)
)

// Sanitize cleans a single-line text field: markup is stripped, whitespace
// collapsed, control characters and percent-encoded octets removed.
// Invalid UTF-8 yields "".
func Sanitize(s string) string {
	if !utf8.ValidString(s) {
		return ""
	}

	if strings.Contains(s, "<") {
		s = scriptStyleRe.ReplaceAllString(s, "")
		s = tagRe.ReplaceAllString(s, "")
		s = strings.ReplaceAll(s, "<", "&lt;")
	}

	s = spaceRe.ReplaceAllString(s, " ")
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)

	for {
		stripped := octetRe.ReplaceAllString(s, "")
		if stripped == s {
			break
		}
		s = stripped
	}

	return strings.TrimSpace(s)
}
