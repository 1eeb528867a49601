package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/ingest"
)

func newReportDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:ingestsvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.IngestRun{}, &domain.LineFailure{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestIngestService_RecordAndLatest(t *testing.T) {
	s := &IngestService{DB: newReportDB(t)}
	ctx := context.Background()

	if _, err := s.Latest(ctx); !errors.Is(err, ErrNoIngestRun) {
		t.Fatalf("expected ErrNoIngestRun, got %v", err)
	}
	if _, _, err := s.FailuresPage(ctx, 1, 10); !errors.Is(err, ErrNoIngestRun) {
		t.Fatalf("expected ErrNoIngestRun, got %v", err)
	}

	long := strings.Repeat("ш", 500)
	fails := []ingest.LineError{
		{Line: 4, Text: "99999999999999999999999;Описание", Err: ingest.ErrBadIdentifier},
		{Line: 8, Text: long, Err: ingest.ErrMalformedLine},
	}
	st := ingest.Stats{Lines: 10, Pairs: 9, FailedLines: 2, Records: 8, Duration: 1500 * time.Millisecond}
	run, err := s.Record(ctx, "exportfsm.csv", "windows-1251", st, fails)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if run.DurationMS != 1500 || run.Records != 8 {
		t.Fatalf("unexpected run %+v", run)
	}

	latest, err := s.Latest(ctx)
	if err != nil || latest.ID != run.ID {
		t.Fatalf("Latest = %+v, %v", latest, err)
	}

	items, total, err := s.FailuresPage(ctx, 1, 1)
	if err != nil || total != 2 || len(items) != 1 || items[0].Line != 4 {
		t.Fatalf("FailuresPage(1) = %+v, %d, %v", items, total, err)
	}
	if items[0].Error != ingest.ErrBadIdentifier.Error() {
		t.Fatalf("error text %q", items[0].Error)
	}
	items, _, _ = s.FailuresPage(ctx, 2, 1)
	if len(items) != 1 || utf8.RuneCountInString(items[0].Excerpt) != excerptRunes+1 {
		t.Fatalf("excerpt not clipped: %d runes", utf8.RuneCountInString(items[0].Excerpt))
	}
}

func TestIngestService_CleanRunHasNoFailures(t *testing.T) {
	s := &IngestService{DB: newReportDB(t)}
	ctx := context.Background()
	if _, err := s.Record(ctx, "a.csv", "utf-8", ingest.Stats{Lines: 1, Records: 1}, nil); err != nil {
		t.Fatalf("Record: %v", err)
	}
	items, total, err := s.FailuresPage(ctx, 0, 0)
	if err != nil || total != 0 || len(items) != 0 {
		t.Fatalf("FailuresPage = %+v, %d, %v", items, total, err)
	}
}

func TestIngestService_PrunesOldRuns(t *testing.T) {
	db := newReportDB(t)
	s := &IngestService{DB: db, KeepRuns: 2}
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := s.Record(ctx, "a.csv", "utf-8", ingest.Stats{Lines: i}, nil); err != nil {
			t.Fatalf("Record: %v", err)
		}
		time.Sleep(2 * time.Millisecond)
	}
	var n int64
	db.Model(&domain.IngestRun{}).Count(&n)
	if n != 2 {
		t.Fatalf("kept %d runs; want 2", n)
	}
	latest, _ := s.Latest(ctx)
	if latest.Lines != 3 {
		t.Fatalf("latest run has Lines=%d; want 3", latest.Lines)
	}
}
