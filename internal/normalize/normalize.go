// Package normalize produces canonical join keys from free-text labels so
// that datasets with inconsistent spellings can be matched on equality.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD, removes combining marks, and recomposes,
// turning "Île" into "Ile".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Label standardizes a free-text label for cross-dataset matching by:
//  1. Trimming whitespace
//  2. Converting to lowercase
//  3. Removing diacritical marks (é -> e, î -> i, ç -> c)
//  4. Treating hyphens as spaces ("Île-de-France" matches "ile de france")
//  5. Collapsing runs of whitespace into single spaces
//
// The result is a join key, never a display value. Label is pure and
// idempotent: Label(Label(s)) == Label(s) for all s.
func Label(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)

	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}

	// Region names are commonly hyphenated in one dataset and spaced in the
	// other; fold both forms before collapsing whitespace.
	s = strings.ReplaceAll(s, "-", " ")

	return strings.Join(strings.Fields(s), " ")
}
