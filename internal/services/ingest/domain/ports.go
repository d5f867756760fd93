package domain

import (
	"context"
	"io"

	"vitals/internal/adapters/ingest/healthexport"
)

// Element re-exports the scanner event shape used by the extractor
type Element = healthexport.Element

// Emit receives one live event; a non-nil error aborts the session
// emitting may block, which is how transport backpressure reaches the pipeline
type Emit func(Event) error

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	// Run drives one ingestion session over a stored upload
	// every exit path removes the upload artifact exactly once
	Run(ctx context.Context, handle string, win Window, emit Emit) error
}

// ScannerPort is the structural event reader over one source
type ScannerPort interface {
	Next() (Element, error)
	Stats() (elements int, bytes int64)
	Close() error
}

// ScannerFactory builds a scanner over an opened source
type ScannerFactory interface {
	New(rc io.ReadCloser) ScannerPort
}

// StorageRepo is the persistence surface for sessions and accepted records
type StorageRepo interface {
	// StartSession records the beginning of a run (idempotent upsert)
	StartSession(ctx context.Context, sessionID, uploadID string) error

	// FinishSession records the terminal accounting for a run
	FinishSession(ctx context.Context, sessionID string, fin SessionFinish) error

	// InsertRecords persists one flushed batch, returns rows inserted
	InsertRecords(ctx context.Context, sessionID string, recs []Record) (int, error)
}
