package ingest

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeLine(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   \t ", ""},
		{"101;Some long description text here;01.01.2020", "101;Some long description text here"},
		{"101;Some long description text here;01.01.2020\r", "101;Some long description text here"},
		// spaces between delimiter and date are part of the suffix
		{"5;Книга о важном ; 12.03.2019", "5;Книга о важном "},
		// date without delimiter
		{"1;desc text 01.01.2020", "1;desc text"},
		// leading junk run
		{`  !!?«»“"  7;Брошюра «Слово»`, "7;Брошюра «Слово»"},
		{`„12;Листовка без даты”`, "12;Листовка без даты”"},
		// date not at the end stays
		{"01.01.2020;3;Статья в журнале", "01.01.2020;3;Статья в журнале"},
		// two-digit year is not a date suffix
		{"3;Статья в журнале;01.01.20", "3;Статья в журнале;01.01.20"},
		// only a date
		{"12.03.2019", ""},
		{"no date here", "no date here"},
	}
	for _, tc := range cases {
		if got := NormalizeLine(tc.in); got != tc.want {
			t.Fatalf("NormalizeLine(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeLine_RemovesExactlyTheDateSuffix(t *testing.T) {
	bodies := []string{
		"101;Some long description text here",
		"abc ",
		"x;01.01.2020",
		"12;описание 12",
		`1;"quoted; text"`,
		"a",
	}
	dates := []string{"01.01.2020", "31.12.1999", "07.08.2015"}
	for _, b := range bodies {
		for _, d := range dates {
			line := b + ";" + d
			if got := NormalizeLine(line); got != b {
				t.Fatalf("NormalizeLine(%q) = %q; want %q", line, got, b)
			}
		}
	}
}

func TestSplitFields(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"a;b;c", []string{"a", "b", "c"}},
		{`a;"b;c";d`, []string{"a", `"b;c"`, "d"}},
		{"a;b;", []string{"a", "b"}},
		{";a", []string{"", "a"}},
		{"a;;b", []string{"a", "", "b"}},
		// odd quote hides every later delimiter
		{`a"b;c;d`, []string{`a"b;c;d`}},
		{`"";x`, []string{`""`, "x"}},
		{`1;"Книга ""Слово""; том 2";3`, []string{"1", `"Книга ""Слово""; том 2"`, "3"}},
	}
	for _, tc := range cases {
		got := SplitFields(tc.in, DefaultDelimiter)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SplitFields(%q) = %#v; want %#v", tc.in, got, tc.want)
		}
	}
}

func TestSplitFields_CustomDelimiter(t *testing.T) {
	got := SplitFields(`1,"a,b",c`, ',')
	want := []string{"1", `"a,b"`, "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitFields(comma) = %#v; want %#v", got, want)
	}
}

// Every delimiter preceded by an even number of quotes is a split point and
// every delimiter preceded by an odd number is not.
func TestSplitFields_QuoteToggleInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	alphabet := []string{"a", "б", ";", `"`, " "}

	for n := 0; n < 2000; n++ {
		var sb strings.Builder
		for i := rng.Intn(24); i > 0; i-- {
			sb.WriteString(alphabet[rng.Intn(len(alphabet))])
		}
		line := sb.String()

		// reference: cut at delimiters with an even quote count before them
		var want []string
		quotes, last := 0, 0
		for i, c := range line {
			if c == '"' {
				quotes++
			}
			if c == ';' && quotes%2 == 0 {
				want = append(want, line[last:i])
				last = i + 1
			}
		}
		if last < len(line) {
			want = append(want, line[last:])
		}

		got := SplitFields(line, ';')
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("SplitFields(%q) = %#v; want %#v", line, got, want)
		}
	}
}

func TestSplitLines(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"\n", []string{""}},
		{"a", []string{"a"}},
		{"a\n", []string{"a"}},
		{"a\r\nb\rc\n", []string{"a", "b", "c"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"a\r\n", []string{"a"}},
		{"a\r\n\r\nb", []string{"a", "", "b"}},
		{"1;Первая\u2028запись\u20292;Вторая", []string{"1;Первая", "запись", "2;Вторая"}},
		{"a\vb\fc\x1cd\x1de\x1ef", []string{"a", "b", "c", "d", "e", "f"}},
		{"a\u0085b", []string{"a", "b"}},
		{"a\x1fb", []string{"a\x1fb"}},
		{"a\u2029", []string{"a"}},
	}
	for _, tc := range cases {
		if got := splitLines(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitLines(%q) = %#v; want %#v", tc.in, got, tc.want)
		}
	}
}
