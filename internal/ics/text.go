package ics

import (
	"strings"
	"unicode/utf8"
)

const (
	crlf = "\r\n"

	// maxLineOctets is the RFC 5545 content line limit, excluding CRLF.
	maxLineOctets = 75
)

// textEscaper applies the RFC 5545 TEXT escapes. A Replacer works in a
// single pass, so backslashes introduced for ';' ',' and newline are never
// escaped a second time.
var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`;`, `\;`,
	`,`, `\,`,
	"\n", `\n`,
)

// Escape escapes text for use in a TEXT property value.
func Escape(text string) string {
	return textEscaper.Replace(text)
}

// FoldLine folds a content line longer than 75 octets. Continuation lines
// start with a single space. Cuts never fall inside a UTF-8 sequence.
func FoldLine(line string) string {
	if len(line) <= maxLineOctets {
		return line
	}

	var b strings.Builder
	b.Grow(len(line) + 3*(len(line)/maxLineOctets))

	rest := line
	for len(rest) > maxLineOctets {
		cut := maxLineOctets
		for cut > 0 && !utf8.RuneStart(rest[cut]) {
			cut--
		}
		if cut == 0 {
			// Not valid UTF-8; fall back to a hard cut.
			cut = maxLineOctets
		}
		b.WriteString(rest[:cut])
		b.WriteString(crlf + " ")
		rest = rest[cut:]
	}
	b.WriteString(rest)

	return b.String()
}
