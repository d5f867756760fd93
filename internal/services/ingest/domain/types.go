// Package domain holds the core types and ports for the ingestion pipeline
package domain

import (
	"time"

	"vitals/internal/core/timeparse"
	perr "vitals/internal/platform/errors"
	ptime "vitals/internal/platform/time"
)

// Record is one accepted health measurement
// Value stays a string on purpose; numeric typing is the consumer's concern
type Record struct {
	Type          string `json:"type"`
	Value         string `json:"value"`
	Unit          string `json:"unit,omitempty"`
	SourceName    string `json:"source_name,omitempty"`
	SourceVersion string `json:"source_version,omitempty"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
}

// Window is an optional inclusive [start, end] filter range
type Window struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether no bound is set
func (w Window) IsZero() bool { return w.Start == nil && w.End == nil }

// ParseWindow builds a Window from raw query parameters
// empty strings leave the bound open; unparsable bounds are an input error
func ParseWindow(start, end string) (Window, error) {
	var w Window
	if start != "" {
		t, ok := timeparse.Parse(start)
		if !ok {
			return Window{}, perr.InvalidArgf("unparsable start bound %q", start)
		}
		w.Start = ptime.Ptr(t)
	}
	if end != "" {
		t, ok := timeparse.Parse(end)
		if !ok {
			return Window{}, perr.InvalidArgf("unparsable end bound %q", end)
		}
		w.End = ptime.Ptr(t)
	}
	return w, nil
}

// Progress is a point-in-time ingestion snapshot
type Progress struct {
	BytesRead        int64 `json:"bytes_read"`
	TotalBytes       int64 `json:"total_bytes"`
	RecordsProcessed int   `json:"records_processed"`
}

// EventKind names the live event kinds the session emits
type EventKind string

// Event kinds, in the order a session can produce them
const (
	EventProgress EventKind = "progress"
	EventRecord   EventKind = "record"
	EventComplete EventKind = "complete"
	EventError    EventKind = "error"
)

// Event is one element of the live event sequence a session produces
// Records is set for record and complete kinds, Error for error
type Event struct {
	Kind     EventKind `json:"kind"`
	Records  []Record  `json:"records,omitempty"`
	Progress Progress  `json:"progress"`
	Error    string    `json:"error,omitempty"`
}

// Terminal reports whether the event ends the session
func (e Event) Terminal() bool { return e.Kind == EventComplete || e.Kind == EventError }

// Session statuses persisted in bookkeeping rows
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// SessionFinish carries the final accounting for one ingestion run
type SessionFinish struct {
	Status    string
	BytesRead int64
	Records   int
	ElapsedMS int
	ErrText   string
}
