// Package sanitize reduces arbitrary text to the ASCII subset the PDF core
// fonts can draw.
package sanitize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// replacements is applied in order before any remaining non-ASCII rune is
// dropped.
var replacements = []string{
	"–", "-", // en dash
	"—", "-", // em dash
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"…", "...",
	"₹", "Rs.",
	"°", " degrees",
	"×", "x",
	"÷", "/",
	"±", "+/-",
	"≤", "<=",
	"≥", ">=",
	"≠", "!=",
	"™", "(TM)",
	"©", "(C)",
	"®", "(R)",
	"•", "*",
	"→", "->",
	"←", "<-",
	"↑", "^",
	"↓", "v",
	"\u00a0", " ", // no-break space
}

var replacer = strings.NewReplacer(replacements...)

var dropNonASCII = runes.Remove(runes.Predicate(func(r rune) bool {
	return r > unicode.MaxASCII
}))

// Text converts v to its string form and returns an ASCII-only version of it.
// It never fails: characters without a substitute are dropped. A nil value
// yields the empty string.
func Text(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		s = fmt.Sprint(t)
	}
	return String(s)
}

// String is Text for values already known to be strings.
func String(s string) string {
	if isASCII(s) {
		return s
	}
	s = replacer.Replace(s)
	out, _, err := transform.String(dropNonASCII, s)
	if err != nil {
		// runes.Remove cannot fail on valid input; fall back to a manual pass
		// for malformed UTF-8.
		return strings.Map(func(r rune) rune {
			if r > unicode.MaxASCII {
				return -1
			}
			return r
		}, s)
	}
	return out
}

// IsASCII reports whether s holds only ASCII code points.
func IsASCII(s string) bool {
	return isASCII(s)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
