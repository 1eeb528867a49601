// Package repo implements the persistence layer for ingestion reports,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver) and schema migrations.
//
// The report store defaults to a shared in-memory database, so nothing
// outlives the process unless REPORT_DB_PATH points at a file.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
)

// DefaultDSN is the shared in-memory report database.
const DefaultDSN = "file:ingest?mode=memory&cache=shared"

const maxOpenConns = 10

// filePragmas only make sense for an on-disk database.
var (
	filePragmas   = []string{"journal_mode=WAL", "synchronous=NORMAL"}
	commonPragmas = []string{"foreign_keys=ON", "busy_timeout=5000"}
)

// OpenSQLite opens the report store at path (DefaultDSN when empty),
// applies the PRAGMAs for its kind and installs the GORM tracing plugin so
// report queries show up as spans. A file path whose directory is missing
// is rejected before the driver gets to it.
func OpenSQLite(path string) (*gorm.DB, error) {
	if path == "" {
		path = DefaultDSN
	}
	memory := isMemoryDSN(path)
	if !memory {
		if _, err := os.Stat(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("report db directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open report db: %w", err)
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("report db tracing: %w", err)
	}

	pragmas := commonPragmas
	if !memory {
		pragmas = append(slices.Clone(filePragmas), commonPragmas...)
	}
	for _, p := range pragmas {
		if err := db.Exec("PRAGMA " + p).Error; err != nil {
			return nil, fmt.Errorf("pragma %s: %w", p, err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxOpenConns)
	// A shared in-memory database dies with its last connection, so only
	// file databases get recycled.
	if !memory {
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// AutoMigrate creates or updates the report tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.IngestRun{},
		&domain.LineFailure{},
	)
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}
