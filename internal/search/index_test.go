package search

import (
	"reflect"
	"sync"
	"testing"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
)

// ---------- helpers ----------
func ids(rs []domain.Record) []uint64 {
	out := make([]uint64, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func sampleDB() *Database {
	return NewDatabase([]domain.Record{
		{ID: 3632, Description: "Брошюра «Пример» автора N"},
		{ID: 12, Description: "Книга «Первая» издательства X"},
		{ID: 7, Description: "КНИГА вторая, печатное издание"},
		{ID: 500, Description: "Музыкальный альбом группы Y"},
		{ID: 44, Description: "Статья с упоминанием номера 7 в тексте"},
	})
}

// ---------- Builder / Database ----------
func TestBuilder_LastWriteWins(t *testing.T) {
	b := NewBuilder()
	b.Put(1, "first description")
	b.Put(2, "other description")
	b.Put(1, "second description")
	if b.Len() != 2 {
		t.Fatalf("builder Len = %d; want 2", b.Len())
	}
	db := b.Build()
	if db.Len() != 2 {
		t.Fatalf("db Len = %d; want 2", db.Len())
	}
	if got, ok := db.Get(1); !ok || got != "second description" {
		t.Fatalf("Get(1) = %q,%v; want last description", got, ok)
	}
}

func TestBuilder_PutAfterBuildPanics(t *testing.T) {
	b := NewBuilder()
	b.Build()
	defer func() {
		if recover() == nil {
			t.Fatalf("Put after Build should panic")
		}
	}()
	b.Put(1, "late")
}

func TestDatabase_NilAndEmpty(t *testing.T) {
	var db *Database
	if db.Len() != 0 {
		t.Fatalf("nil db Len should be 0")
	}
	if _, ok := db.Get(1); ok {
		t.Fatalf("nil db Get should miss")
	}
	if db.Search("x") != nil || db.All() != nil {
		t.Fatalf("nil db should return nil slices")
	}
	empty := NewBuilder().Build()
	if empty.Search("книга") != nil {
		t.Fatalf("empty db should return nil")
	}
}

func TestDatabase_AllSorted(t *testing.T) {
	got := ids(sampleDB().All())
	want := []uint64{7, 12, 44, 500, 3632}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("All ids = %v; want %v", got, want)
	}
}

// ---------- Search ----------
func TestSearch_BlankQuery(t *testing.T) {
	db := sampleDB()
	for _, q := range []string{"", "   ", "\t\n"} {
		if out := db.Search(q); out != nil {
			t.Fatalf("Search(%q) = %v; want nil", q, out)
		}
	}
}

func TestSearch_ExactID(t *testing.T) {
	db := sampleDB()
	out := Search(db, "3632")
	if len(out) != 1 || out[0].ID != 3632 {
		t.Fatalf("Search(3632) = %v; want exactly id 3632", out)
	}
	if out := Search(db, " 9999 "); len(out) != 0 {
		t.Fatalf("Search(9999) = %v; want empty", out)
	}
	// leading zeros still compare numerically
	if out := Search(db, "0012"); len(out) != 1 || out[0].ID != 12 {
		t.Fatalf("Search(0012) = %v; want id 12", out)
	}
}

func TestSearch_DigitsAlsoMatchDescriptions(t *testing.T) {
	// "7" is id 7 and also appears inside the description of 44
	got := ids(sampleDB().Search("7"))
	want := []uint64{7, 44}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Search(7) ids = %v; want %v", got, want)
	}
}

func TestSearch_SubstringCaseInsensitiveSorted(t *testing.T) {
	db := sampleDB()
	for _, q := range []string{"книга", "КНИГА", "  Книга "} {
		got := ids(db.Search(q))
		want := []uint64{7, 12}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Search(%q) ids = %v; want %v", q, got, want)
		}
	}
	if out := db.Search("альбом группы"); len(out) != 1 || out[0].ID != 500 {
		t.Fatalf("multi-word substring failed: %v", out)
	}
	if out := db.Search("несуществующее"); len(out) != 0 {
		t.Fatalf("expected no matches, got %v", out)
	}
}

func TestSearch_OverflowingDigitsFallBackToSubstring(t *testing.T) {
	db := NewDatabase([]domain.Record{{ID: 1, Description: "код 123456789012345678901234567890"}})
	out := db.Search("123456789012345678901234567890")
	if len(out) != 1 || out[0].ID != 1 {
		t.Fatalf("expected substring match for huge digit query, got %v", out)
	}
}

func TestSearch_ConcurrentReaders(t *testing.T) {
	db := sampleDB()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if n := len(db.Search("книга")); n != 2 {
					t.Errorf("concurrent Search returned %d results; want 2", n)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestIsDigits(t *testing.T) {
	cases := map[string]bool{
		"":     false,
		"0":    true,
		"123":  true,
		"12a":  false,
		" 12":  false,
		"١٢":   false, // non-ASCII digits are not identifiers
		"3632": true,
	}
	for in, want := range cases {
		if got := IsDigits(in); got != want {
			t.Fatalf("IsDigits(%q) = %v; want %v", in, got, want)
		}
	}
}
