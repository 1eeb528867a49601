// Package ingest turns the raw materials export into a search.Database.
//
// The export is not reliably well-formed CSV: lines mix quoted and unquoted
// fields, carry a trailing inclusion date, start with stray punctuation and
// sometimes hold several (id, description) pairs. Each line goes through
//
//	NormalizeLine → SplitFields → ExtractPairs
//
// and the recovered pairs are accumulated by LoadDatabase. A malformed line
// is reported and skipped, it never aborts the load.
package ingest

import (
	"regexp"
	"strings"
)

var (
	// trailingDateRE matches an optional ';', optional spaces and a
	// DD.MM.YYYY date at the very end of the line.
	trailingDateRE = regexp.MustCompile(`;?[\s\p{Z}]*\d{2}\.\d{2}\.\d{4}$`)

	// leadingJunkRE matches a run of exclamation/question marks, guillemets,
	// typographic and ASCII double quotes and whitespace at line start.
	leadingJunkRE = regexp.MustCompile(`^[!?«»“”„"\s\p{Z}]+`)
)

// NormalizeLine trims the line, strips a trailing date and a leading run of
// junk characters. An empty result means the line carries no fields.
func NormalizeLine(raw string) string {
	line := strings.TrimSpace(raw)
	if line == "" {
		return ""
	}
	line = trailingDateRE.ReplaceAllString(line, "")
	line = leadingJunkRE.ReplaceAllString(line, "")
	return line
}
