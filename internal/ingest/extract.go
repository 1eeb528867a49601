package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/search"
)

// DefaultMinDescriptionRunes is the shortest description accepted by
// ExtractPairs. It is a noise filter for stray short fields, not a format
// rule, and can be tuned with WithMinDescriptionRunes.
const DefaultMinDescriptionRunes = 6

// CleanField trims the field, strips the double quotes around it and then
// collapses every whitespace run to one space. Whitespace that was inside
// the quotes survives as a single space, so `" 42 "` cleans to " 42 ".
func CleanField(s string) string {
	s = strings.Trim(strings.TrimFunc(s, isSpace), `"`)
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if isSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// isSpace also counts the ASCII file, group, record and unit separators,
// which exports occasionally carry as padding.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// ExtractPairs scans the split fields of one line for (id, description)
// pairs.
//
// A field that is purely decimal digits is a candidate id; it is paired with
// the following field when that one, cleaned, is non-empty, not purely
// digits and at least minRunes long. A matched pair consumes both fields;
// otherwise only the candidate is skipped and the next field stays eligible.
//
// An id that does not fit in uint64 is skipped like an unpaired candidate.
// The pairs found on the rest of the line are still returned, together
// with an error wrapping ErrBadIdentifier for each skipped id.
func ExtractPairs(fields []string, minRunes int) ([]domain.Record, error) {
	if minRunes <= 0 {
		minRunes = DefaultMinDescriptionRunes
	}

	var (
		out  []domain.Record
		errs []error
	)
	for i := 0; i < len(fields); {
		part := CleanField(fields[i])
		if search.IsDigits(part) && i+1 < len(fields) {
			desc := CleanField(fields[i+1])
			if isDescription(desc, minRunes) {
				id, err := strconv.ParseUint(part, 10, 64)
				if err != nil {
					errs = append(errs, fmt.Errorf("%w: field %d: %v", ErrBadIdentifier, i+1, err))
					i++
					continue
				}
				out = append(out, domain.Record{ID: id, Description: desc})
				i += 2
				continue
			}
		}
		i++
	}
	return out, errors.Join(errs...)
}

func isDescription(s string, minRunes int) bool {
	return s != "" && !search.IsDigits(s) && utf8.RuneCountInString(s) >= minRunes
}
