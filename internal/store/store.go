// Package store persists extracted company records and fetch run history.
package store

import (
	"context"
	"time"

	"github.com/oshima-research/edinet-cli/internal/model"
)

// RecordFilter specifies criteria for listing company records.
type RecordFilter struct {
	SecCode       string `json:"sec_code,omitempty"`
	RetrievedDate string `json:"retrieved_date,omitempty"`
	Limit         int    `json:"limit,omitempty"`
	Offset        int    `json:"offset,omitempty"`
}

// FetchRun is one completed fetch invocation, kept for audit.
type FetchRun struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"`
	Documents  int       `json:"documents"`
	Extracted  int       `json:"extracted"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Store defines the persistence interface for the extraction pipeline.
// SaveRecords is an upsert keyed by document id: refiling the same document
// replaces the previous record (latest wins).
type Store interface {
	SaveRecords(ctx context.Context, records []model.CompanyRecord) (int, error)
	GetRecord(ctx context.Context, docID string) (*model.CompanyRecord, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]model.CompanyRecord, error)

	RecordRun(ctx context.Context, run FetchRun) error

	Migrate(ctx context.Context) error
	Close() error
}
