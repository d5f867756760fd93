// Package timeparse implements the timestamp grammar used throughout the
// ingestion pipeline. Apple Health exports write timestamps like
// "2024-01-01 08:00:00 +0000"; callers of the API tend to send RFC 3339 or a
// bare date. One grammar, used by the filter and the extractor alike
package timeparse

import (
	"strings"
	"time"
)

// layouts in order of how often we see them in the wild
var layouts = []string{
	"2006-01-02 15:04:05 -0700",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Parse parses s against the pipeline timestamp grammar.
// ok is false when no layout matches; callers decide policy (the date filter
// fails closed, the record builder keeps the raw string either way)
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// MustParse is a test helper style constructor; panics on bad input
func MustParse(s string) time.Time {
	t, ok := Parse(s)
	if !ok {
		panic("timeparse: unparsable timestamp " + s)
	}
	return t
}
