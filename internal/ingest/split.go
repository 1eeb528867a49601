package ingest

import "strings"

// DefaultDelimiter separates fields in the export.
const DefaultDelimiter = ';'

// SplitFields splits a normalized line on delim, ignoring delimiters that
// sit inside a quoted span.
//
// Quote tracking is a plain toggle flipped by every '"' rather than pair
// matching, so an odd number of quotes before a delimiter hides it. Quote
// characters stay in the field text; CleanField removes them later. The last
// field is kept only when non-empty.
func SplitFields(line string, delim rune) []string {
	if line == "" {
		return nil
	}

	var (
		parts    []string
		cur      strings.Builder
		inQuotes bool
	)
	for _, c := range line {
		if c == '"' {
			inQuotes = !inQuotes
		}
		if c == delim && !inQuotes {
			parts = append(parts, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteRune(c)
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
