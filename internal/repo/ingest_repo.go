// Package repo implements the persistence layer for ingestion reports,
// backed by GORM. This file provides repository functions for the
// IngestRun and LineFailure models.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions. They follow the "thin repository"
// approach: no business logic, only persistence and query composition.
//
// Error semantics:
//   - A missing run is reported as gorm.ErrRecordNotFound (ErrNotFound).
//   - Any other DB error is propagated unchanged.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// failureBatch bounds the rows per INSERT when storing line failures.
const failureBatch = 500

// CreateRun stores run and its line failures in one transaction. Missing
// ids and timestamps are filled in; failures are attached to run.
func CreateRun(ctx context.Context, db *gorm.DB, run *domain.IngestRun, failures []domain.LineFailure) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	for i := range failures {
		if failures[i].ID == "" {
			failures[i].ID = uuid.NewString()
		}
		failures[i].RunID = run.ID
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(run).Error; err != nil {
			return err
		}
		if len(failures) == 0 {
			return nil
		}
		return tx.Omit("Run").CreateInBatches(failures, failureBatch).Error
	})
}

// LatestRun returns the most recent run, or ErrNotFound when none exists.
func LatestRun(ctx context.Context, db *gorm.DB) (*domain.IngestRun, error) {
	var r domain.IngestRun
	err := db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(1).Take(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRun fetches one run by id.
func GetRun(ctx context.Context, db *gorm.DB, id string) (*domain.IngestRun, error) {
	var r domain.IngestRun
	if err := db.WithContext(ctx).Where("id = ?", id).Take(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// CountFailures returns the number of failed lines stored for runID.
func CountFailures(ctx context.Context, db *gorm.DB, runID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.LineFailure{}).Where("run_id = ?", runID).Count(&n).Error
	return n, err
}

// ListFailuresPage returns a page of failures for runID ordered by line.
func ListFailuresPage(ctx context.Context, db *gorm.DB, runID string, offset, limit int) ([]domain.LineFailure, error) {
	var out []domain.LineFailure
	err := db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("line ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// PruneRuns keeps the newest keep runs and deletes the rest together with
// their failures. It returns the number of runs removed.
func PruneRuns(ctx context.Context, db *gorm.DB, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}
	var removed int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stale []string
		if err := tx.Model(&domain.IngestRun{}).
			Order("created_at DESC, id DESC").
			Offset(keep).
			Limit(-1).
			Pluck("id", &stale).Error; err != nil {
			return err
		}
		if len(stale) == 0 {
			return nil
		}
		// explicit delete; foreign_keys is a per-connection pragma
		if err := tx.Where("run_id IN ?", stale).Delete(&domain.LineFailure{}).Error; err != nil {
			return err
		}
		res := tx.Where("id IN ?", stale).Delete(&domain.IngestRun{})
		removed = res.RowsAffected
		return res.Error
	})
	return removed, err
}
