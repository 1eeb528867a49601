package domain

import (
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newDomainDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:domain_models?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// Enforce FKs so cascades actually execute.
	db.Exec("PRAGMA foreign_keys=ON;")
	return db
}

func TestTableNames(t *testing.T) {
	if (IngestRun{}).TableName() != "ingest_runs" {
		t.Fatalf("IngestRun.TableName() = %q; want %q", (IngestRun{}).TableName(), "ingest_runs")
	}
	if (LineFailure{}).TableName() != "line_failures" {
		t.Fatalf("LineFailure.TableName() = %q; want %q", (LineFailure{}).TableName(), "line_failures")
	}
}

func TestMigrations_Indexes_AndCascades(t *testing.T) {
	db := newDomainDB(t)

	if err := db.AutoMigrate(&IngestRun{}, &LineFailure{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	m := db.Migrator()

	for _, tbl := range []any{&IngestRun{}, &LineFailure{}} {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}
	if !m.HasIndex(&LineFailure{}, "idx_run_lines") {
		t.Fatalf("expected index idx_run_lines on line_failures")
	}

	now := time.Now().UTC()
	run := &IngestRun{ID: "r1", Source: "exportfsm.csv", Encoding: "windows-1251", Lines: 3, Pairs: 2, FailedLines: 1, Records: 2, CreatedAt: now}
	if err := db.Create(run).Error; err != nil {
		t.Fatalf("insert run: %v", err)
	}
	lf := &LineFailure{ID: "f1", RunID: "r1", Line: 2, Error: "identifier out of range", Excerpt: "99999999999999999999;x"}
	if err := db.Create(lf).Error; err != nil {
		t.Fatalf("insert failure: %v", err)
	}

	// CASCADE: deleting the run removes its failures
	if err := db.Delete(&IngestRun{}, "id = ?", "r1").Error; err != nil {
		t.Fatalf("delete run: %v", err)
	}
	var cnt int64
	if err := db.Model(&LineFailure{}).Where("run_id = ?", "r1").Count(&cnt).Error; err != nil {
		t.Fatalf("count failures after run delete: %v", err)
	}
	if cnt != 0 {
		t.Fatalf("expected failures to cascade-delete with their run, got count=%d", cnt)
	}
}
