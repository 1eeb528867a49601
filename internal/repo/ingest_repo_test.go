package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
)

func newReportDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:reports_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func failures(lines ...int) []domain.LineFailure {
	out := make([]domain.LineFailure, len(lines))
	for i, n := range lines {
		out[i] = domain.LineFailure{Line: n, Error: "identifier out of range", Excerpt: fmt.Sprintf("line %d", n)}
	}
	return out
}

func TestCreateRun_Error_NoTable(t *testing.T) {
	db := newReportDB(t /* no migrations */)
	if err := CreateRun(context.Background(), db, &domain.IngestRun{Source: "a.csv"}, nil); err == nil {
		t.Fatalf("expected error creating without table")
	}
}

func TestCreateRun_FillsIDsAndStoresFailures(t *testing.T) {
	db := newReportDB(t, &domain.IngestRun{}, &domain.LineFailure{})
	ctx := context.Background()

	run := &domain.IngestRun{Source: "exportfsm.csv", Encoding: "windows-1251", Lines: 10, FailedLines: 3, Records: 7}
	fs := failures(9, 2, 5)
	if err := CreateRun(ctx, db, run, fs); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	if run.ID == "" || run.CreatedAt.IsZero() {
		t.Fatalf("run id/timestamp not filled: %+v", run)
	}
	for _, f := range fs {
		if f.ID == "" || f.RunID != run.ID {
			t.Fatalf("failure not attached: %+v", f)
		}
	}

	got, err := GetRun(ctx, db, run.ID)
	if err != nil || got.Records != 7 || got.Encoding != "windows-1251" {
		t.Fatalf("GetRun = %+v, %v", got, err)
	}
	n, err := CountFailures(ctx, db, run.ID)
	if err != nil || n != 3 {
		t.Fatalf("CountFailures = %d, %v", n, err)
	}

	page, err := ListFailuresPage(ctx, db, run.ID, 0, 2)
	if err != nil {
		t.Fatalf("ListFailuresPage: %v", err)
	}
	if len(page) != 2 || page[0].Line != 2 || page[1].Line != 5 {
		t.Fatalf("unexpected first page %+v", page)
	}
	page, _ = ListFailuresPage(ctx, db, run.ID, 2, 2)
	if len(page) != 1 || page[0].Line != 9 {
		t.Fatalf("unexpected second page %+v", page)
	}
}

func TestLatestRun(t *testing.T) {
	db := newReportDB(t, &domain.IngestRun{}, &domain.LineFailure{})
	ctx := context.Background()

	if _, err := LatestRun(ctx, db); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}

	base := time.Now().UTC()
	older := &domain.IngestRun{Source: "old.csv", Encoding: "utf-8", CreatedAt: base.Add(-time.Hour)}
	newer := &domain.IngestRun{Source: "new.csv", Encoding: "utf-8", CreatedAt: base}
	for _, r := range []*domain.IngestRun{newer, older} {
		if err := CreateRun(ctx, db, r, nil); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
	}
	got, err := LatestRun(ctx, db)
	if err != nil || got.Source != "new.csv" {
		t.Fatalf("LatestRun = %+v, %v", got, err)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	db := newReportDB(t, &domain.IngestRun{}, &domain.LineFailure{})
	if _, err := GetRun(context.Background(), db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPruneRuns_KeepsNewest(t *testing.T) {
	db := newReportDB(t, &domain.IngestRun{}, &domain.LineFailure{})
	ctx := context.Background()

	base := time.Now().UTC()
	var ids []string
	for i := 0; i < 4; i++ {
		r := &domain.IngestRun{Source: "s.csv", Encoding: "utf-8", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := CreateRun(ctx, db, r, failures(i+1)); err != nil {
			t.Fatalf("CreateRun: %v", err)
		}
		ids = append(ids, r.ID)
	}

	removed, err := PruneRuns(ctx, db, 2)
	if err != nil || removed != 2 {
		t.Fatalf("PruneRuns = %d, %v", removed, err)
	}
	for i, id := range ids {
		_, err := GetRun(ctx, db, id)
		if i < 2 && !errors.Is(err, ErrNotFound) {
			t.Fatalf("old run %d still present", i)
		}
		if i >= 2 && err != nil {
			t.Fatalf("new run %d missing: %v", i, err)
		}
	}
	var orphans int64
	db.Model(&domain.LineFailure{}).Where("run_id IN ?", ids[:2]).Count(&orphans)
	if orphans != 0 {
		t.Fatalf("failures of pruned runs left behind: %d", orphans)
	}

	if removed, err := PruneRuns(ctx, db, 5); err != nil || removed != 0 {
		t.Fatalf("PruneRuns no-op = %d, %v", removed, err)
	}
}
