// Package services – IngestService
//
// This file implements IngestService, which records the outcome of each
// load of the source export and serves those reports back to operators.
// Reports live in the GORM-backed store opened by the repo package; the
// dataset itself is never persisted.
package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/ingest"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/observability"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/repo"
)

// excerptRunes bounds the stored excerpt of a failed line.
const excerptRunes = 120

// IngestService stores and lists ingestion reports.
type IngestService struct {
	DB *gorm.DB

	// KeepRuns is how many reports are retained; older ones are pruned on
	// every Record. Zero keeps 10.
	KeepRuns int
}

// Record stores the report of one load and publishes its figures.
func (s *IngestService) Record(ctx context.Context, source, encoding string, st ingest.Stats, fails []ingest.LineError) (*domain.IngestRun, error) {
	observability.ObserveIngest(st.Lines, st.FailedLines, st.Records, st.Duration)

	run := &domain.IngestRun{
		Source:      source,
		Encoding:    encoding,
		Lines:       st.Lines,
		Pairs:       st.Pairs,
		FailedLines: st.FailedLines,
		Records:     st.Records,
		DurationMS:  st.Duration.Milliseconds(),
	}
	rows := make([]domain.LineFailure, 0, len(fails))
	for _, f := range fails {
		rows = append(rows, domain.LineFailure{
			Line:    f.Line,
			Error:   f.Err.Error(),
			Excerpt: excerpt(f.Text),
		})
	}
	if err := repo.CreateRun(ctx, s.DB, run, rows); err != nil {
		return nil, err
	}

	keep := s.KeepRuns
	if keep <= 0 {
		keep = 10
	}
	if _, err := repo.PruneRuns(ctx, s.DB, keep); err != nil {
		return run, err
	}
	return run, nil
}

// Latest returns the most recent report or ErrNoIngestRun.
func (s *IngestService) Latest(ctx context.Context) (*domain.IngestRun, error) {
	r, err := repo.LatestRun(ctx, s.DB)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNoIngestRun
	}
	return r, err
}

// FailuresPage returns one page (1-based) of the latest run's failed lines
// and their total count.
func (s *IngestService) FailuresPage(ctx context.Context, page, pageSize int) ([]domain.LineFailure, int64, error) {
	run, err := s.Latest(ctx)
	if err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	total, err := repo.CountFailures(ctx, s.DB, run.ID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.LineFailure{}, 0, nil
	}
	items, err := repo.ListFailuresPage(ctx, s.DB, run.ID, (page-1)*pageSize, pageSize)
	return items, total, err
}

func excerpt(s string) string {
	if utf8.RuneCountInString(s) <= excerptRunes {
		return s
	}
	r := []rune(s)
	return string(r[:excerptRunes]) + "…"
}
