package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FileStatus string

const (
	FileIngested FileStatus = "ingested"
	FileSkipped  FileStatus = "skipped"
	FileFailed   FileStatus = "failed"
)

// FileResult is the terminal state of one document in a batch.
type FileResult struct {
	File        string     `json:"file"`
	Status      FileStatus `json:"status"`
	AgreementID string     `json:"agreement_id,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// BatchSummary aggregates per-file outcomes for one ingestion run.
type BatchSummary struct {
	InputDir   string       `json:"input_dir"`
	Total      int          `json:"total"`
	Ingested   int          `json:"ingested"`
	Skipped    int          `json:"skipped"`
	Failed     int          `json:"failed"`
	Results    []FileResult `json:"results,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// IngestRun is the relational ledger row recorded after each batch.
type IngestRun struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	InputDir   string         `gorm:"column:input_dir;not null" json:"input_dir"`
	Total      int            `gorm:"column:total;not null;default:0" json:"total"`
	Ingested   int            `gorm:"column:ingested;not null;default:0" json:"ingested"`
	Skipped    int            `gorm:"column:skipped;not null;default:0" json:"skipped"`
	Failed     int            `gorm:"column:failed;not null;default:0" json:"failed"`
	Detail     datatypes.JSON `gorm:"column:detail" json:"detail,omitempty"`
	StartedAt  time.Time      `gorm:"column:started_at;not null" json:"started_at"`
	FinishedAt time.Time      `gorm:"column:finished_at;not null" json:"finished_at"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
}

func (IngestRun) TableName() string { return "ingest_run" }
