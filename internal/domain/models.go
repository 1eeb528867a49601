// Package domain defines the persistence models for ingestion reports. These
// types are mapped with GORM and describe what happened when the materials
// list was loaded: one IngestRun per load and one LineFailure per line that
// could not be parsed.
package domain

import (
	"time"
)

// IngestRun summarizes a single load of the source export.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Source: path of the export that was read.
//   - Encoding: encoding label the source was decoded from.
//   - Lines: number of lines visited.
//   - Pairs: number of (id, description) pairs extracted, duplicates included.
//   - FailedLines: number of lines skipped because of a parse failure.
//   - Records: size of the resulting lookup table after de-duplication.
//   - DurationMS: wall-clock time spent loading.
//   - CreatedAt: timestamp managed by GORM.
type IngestRun struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	Source      string    `json:"source"       gorm:"type:varchar(512);not null"`
	Encoding    string    `json:"encoding"     gorm:"type:varchar(64);not null"`
	Lines       int       `json:"lines"        gorm:"not null;default:0"`
	Pairs       int       `json:"pairs"        gorm:"not null;default:0"`
	FailedLines int       `json:"failed_lines" gorm:"not null;default:0"`
	Records     int       `json:"records"      gorm:"not null;default:0"`
	DurationMS  int64     `json:"duration_ms"  gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"   gorm:"index"`
}

// TableName returns the database table name for IngestRun.
func (IngestRun) TableName() string { return "ingest_runs" }

// LineFailure records one source line that was skipped during a load.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - RunID: owning ingest run (indexed together with Line for ordered paging).
//   - Line: 1-based line number in the source.
//   - Error: the failure message.
//   - Excerpt: the beginning of the offending line, for operators.
//   - Run: FK association, cascade-deleted with its run.
type LineFailure struct {
	ID      string `json:"id"      gorm:"type:char(36);primaryKey"`
	RunID   string `json:"run_id"  gorm:"type:char(36);not null;index:idx_run_lines,priority:1"`
	Line    int    `json:"line"    gorm:"not null;index:idx_run_lines,priority:2"`
	Error   string `json:"error"   gorm:"type:text;not null"`
	Excerpt string `json:"excerpt" gorm:"type:text"`

	Run IngestRun `json:"-" gorm:"foreignKey:RunID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for LineFailure.
func (LineFailure) TableName() string { return "line_failures" }
