package ingest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
)

type boomReader struct{}

func (boomReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLoadString_EndToEnd(t *testing.T) {
	db, st, fails, err := LoadString(context.Background(), "101;Some long description text here;01.01.2020\n")
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if len(fails) != 0 {
		t.Fatalf("unexpected failures: %v", fails)
	}
	if db.Len() != 1 {
		t.Fatalf("db.Len = %d; want 1", db.Len())
	}
	desc, ok := db.Get(101)
	if !ok || desc != "Some long description text here" {
		t.Fatalf("Get(101) = %q,%v", desc, ok)
	}
	if st.Lines != 1 || st.Pairs != 1 || st.Records != 1 || st.FailedLines != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestLoadString_MalformedLinesAreSkipped(t *testing.T) {
	valid := []string{
		"1;Первая запись в реестре;01.01.2020",
		`2;"Вторая; запись с разделителем";02.02.2021`,
		"!!«3;Третья запись с мусором»",
		"4;Четвёртая запись",
	}
	junk := []string{
		`"""";;;`,
		"abc",
		";;;",
		`x"12;Unclosed quote desc`,
		"!!!",
		"",
		"12;abc",
		`xx;"yy;zz`,
	}

	var lines []string
	for i := range valid {
		lines = append(lines, junk[i%len(junk)], valid[i], junk[(i+4)%len(junk)])
	}
	lines = append(lines, "99999999999999999999999;Слишком большой номер")

	db, st, fails, err := LoadString(context.Background(), strings.Join(lines, "\n"))
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if db.Len() != len(valid) {
		t.Fatalf("db.Len = %d; want %d (%v)", db.Len(), len(valid), db.All())
	}
	if st.Lines != len(lines) {
		t.Fatalf("Lines = %d; want %d", st.Lines, len(lines))
	}
	if len(fails) != 1 || st.FailedLines != 1 {
		t.Fatalf("want one failed line, got %v (stats %+v)", fails, st)
	}
	if fails[0].Line != len(lines) || !errors.Is(fails[0], ErrBadIdentifier) {
		t.Fatalf("unexpected failure %#v", fails[0])
	}
	if d, _ := db.Get(2); d != "Вторая; запись с разделителем" {
		t.Fatalf("Get(2) = %q", d)
	}
	if d, _ := db.Get(3); d != "Третья запись с мусором»" {
		t.Fatalf("Get(3) = %q", d)
	}
}

func TestLoadString_OverflowKeepsSiblingPairs(t *testing.T) {
	var buf bytes.Buffer
	src := "99999999999999999999999;Слишком большой номер;8;Соседняя запись в строке\n"
	db, st, fails, err := LoadString(context.Background(), src, WithLogger(zerolog.New(&buf)))
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if d, ok := db.Get(8); !ok || d != "Соседняя запись в строке" {
		t.Fatalf("Get(8) = %q,%v", d, ok)
	}
	if db.Len() != 1 || st.Pairs != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if len(fails) != 1 || fails[0].Line != 1 || !errors.Is(fails[0], ErrBadIdentifier) {
		t.Fatalf("overflow not reported: %v", fails)
	}
	if !strings.Contains(buf.String(), `"kept_pairs":1`) {
		t.Fatalf("warning should count the kept pairs: %s", buf.String())
	}
}

func TestLoadString_LastDuplicateWins(t *testing.T) {
	src := "5;Старое описание записи\n5;Новое описание записи\n"
	db, st, _, err := LoadString(context.Background(), src)
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if d, _ := db.Get(5); d != "Новое описание записи" {
		t.Fatalf("Get(5) = %q", d)
	}
	if st.Pairs != 2 || st.Records != 1 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestLoadString_SeveralPairsOnOneLine(t *testing.T) {
	db, _, _, err := LoadString(context.Background(), "10;Описание десятой записи;11;Описание одиннадцатой записи;01.01.2020")
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if db.Len() != 2 {
		t.Fatalf("db.Len = %d; want 2", db.Len())
	}
	if d, _ := db.Get(11); d != "Описание одиннадцатой записи" {
		t.Fatalf("Get(11) = %q", d)
	}
}

func TestLoadString_CustomOptions(t *testing.T) {
	db, _, _, err := LoadString(context.Background(), "1|abc|2|d",
		WithDelimiter('|'), WithMinDescriptionRunes(3))
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if db.Len() != 1 {
		t.Fatalf("db.Len = %d; want 1", db.Len())
	}
	if d, _ := db.Get(1); d != "abc" {
		t.Fatalf("Get(1) = %q", d)
	}
}

func TestLoadDatabase_ReadError(t *testing.T) {
	db, _, _, err := LoadDatabase(context.Background(), boomReader{})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if db == nil || db.Len() != 0 {
		t.Fatalf("expected an empty database on failure")
	}
}

func TestLoadDatabase_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, _, err := LoadString(ctx, "1;Какое-то описание\n")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoadFile_Windows1251(t *testing.T) {
	text := "3632;Книга «Пример» автора;01.01.2020\r\n7;Листовка с призывами\r\n"
	encoded, err := charmap.Windows1251.NewEncoder().String(text)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "exportfsm.csv")
	if err := os.WriteFile(path, []byte(encoded), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	db, st, _, err := LoadFile(context.Background(), path, "windows-1251")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if st.Lines != 2 || db.Len() != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
	if d, _ := db.Get(3632); d != "Книга «Пример» автора" {
		t.Fatalf("Get(3632) = %q", d)
	}

	// an empty label falls back to the default encoding
	if db, _, _, err := LoadFile(context.Background(), path, ""); err != nil || db.Len() != 2 {
		t.Fatalf("default encoding load failed: %v", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, _, _, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), DefaultEncoding)
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestLoadFile_UnknownEncoding(t *testing.T) {
	_, _, _, err := LoadFile(context.Background(), "irrelevant.csv", "klingon-8")
	if !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("expected ErrUnknownEncoding, got %v", err)
	}
}

func TestLoadDatabase_LogsSkippedLines(t *testing.T) {
	var buf bytes.Buffer
	lg := zerolog.New(&buf)

	_, _, fails, err := LoadString(context.Background(),
		"1;Нормальная строка\n18446744073709551616;Переполнение номера\n", WithLogger(lg))
	if err != nil {
		t.Fatalf("LoadString: %v", err)
	}
	if len(fails) != 1 || fails[0].Line != 2 {
		t.Fatalf("unexpected failures %v", fails)
	}
	out := buf.String()
	if !strings.Contains(out, "malformed line") || !strings.Contains(out, `"line":2`) {
		t.Fatalf("warning not logged: %s", out)
	}
	if !strings.Contains(out, "database loaded") {
		t.Fatalf("summary not logged: %s", out)
	}
}
