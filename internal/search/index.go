// Package search holds the materials lookup table and answers queries
// against it. The table is deterministic, concurrency-safe and in-memory:
//
//   - No logging in the library (callers decide how/what to log)
//   - Immutable after Build (safe for unsynchronized concurrent reads)
//   - Exact-id OR case-insensitive substring matching, no ranking
//   - Results always sorted ascending by identifier
//
// Matching is a full scan per query. The list is modest in size and
// substring semantics leave nothing for an inverted index to prune.
package search

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
)

// entry is one stored record plus its lower-cased description, computed once
// at build time so queries never re-case the whole table.
type entry struct {
	desc  string
	lower string
}

// Database is the immutable id → description mapping built from the source
// export. The zero value is an empty database.
type Database struct {
	entries map[uint64]entry
}

// Builder accumulates records for a Database. Later Puts for the same id
// replace earlier ones. A Builder is not safe for concurrent use.
type Builder struct {
	m     map[uint64]string
	built bool
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{m: make(map[uint64]string)}
}

// Put inserts or replaces the description for id.
func (b *Builder) Put(id uint64, desc string) {
	if b.built {
		panic("search: Put after Build")
	}
	b.m[id] = desc
}

// Len reports how many distinct ids have been put so far.
func (b *Builder) Len() int { return len(b.m) }

// Build freezes the accumulated records into a Database. The Builder must
// not be used afterwards.
func (b *Builder) Build() *Database {
	b.built = true
	lower := newLowerer()
	entries := make(map[uint64]entry, len(b.m))
	for id, d := range b.m {
		entries[id] = entry{desc: d, lower: lower.String(d)}
	}
	b.m = nil
	return &Database{entries: entries}
}

// NewDatabase builds a Database directly from records, in order; duplicate
// ids keep the last description.
func NewDatabase(records []domain.Record) *Database {
	b := NewBuilder()
	for _, r := range records {
		b.Put(r.ID, r.Description)
	}
	return b.Build()
}

// Len returns the number of records.
func (db *Database) Len() int {
	if db == nil {
		return 0
	}
	return len(db.entries)
}

// Get returns the description stored for id.
func (db *Database) Get(id uint64) (string, bool) {
	if db == nil {
		return "", false
	}
	e, ok := db.entries[id]
	return e.desc, ok
}

// All returns every record sorted ascending by id.
func (db *Database) All() []domain.Record {
	if db == nil {
		return nil
	}
	out := make([]domain.Record, 0, len(db.entries))
	for id, e := range db.entries {
		out = append(out, domain.Record{ID: id, Description: e.desc})
	}
	sortByID(out)
	return out
}

// Search returns the records matching query, sorted ascending by id.
//
// A blank query yields nil. Otherwise the query is trimmed and lower-cased;
// an entry matches when the query is all decimal digits and equals its id
// numerically, or when its lower-cased description contains the query.
func (db *Database) Search(query string) []domain.Record {
	if db == nil || len(db.entries) == 0 {
		return nil
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	q = newLowerer().String(q)

	wantID, byID := parseID(q)

	var out []domain.Record
	for id, e := range db.entries {
		if (byID && id == wantID) || strings.Contains(e.lower, q) {
			out = append(out, domain.Record{ID: id, Description: e.desc})
		}
	}
	sortByID(out)
	return out
}

// Search is the free-function form of (*Database).Search.
func Search(db *Database, query string) []domain.Record {
	return db.Search(query)
}

// ----------------------------------------------------------------------------
// Helpers

// newLowerer returns a fresh lower-casing Caser. Casers keep state between
// calls and must not be shared across goroutines.
func newLowerer() cases.Caser {
	return cases.Lower(language.Russian)
}

// parseID reports whether s is a purely decimal identifier and its value.
// Digit strings that overflow uint64 cannot equal any stored id.
func parseID(s string) (uint64, bool) {
	if !IsDigits(s) {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsDigits reports whether s is non-empty and consists only of ASCII decimal
// digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func sortByID(rs []domain.Record) {
	sort.Slice(rs, func(a, b int) bool { return rs[a].ID < rs[b].ID })
}
