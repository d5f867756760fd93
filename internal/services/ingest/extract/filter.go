package extract

import (
	"vitals/internal/core/timeparse"
	"vitals/internal/services/ingest/domain"
)

// InRange reports whether a record with the given start timestamp falls
// inside the window. Bounds are inclusive. With no bounds set the answer is
// true without parsing; with any bound set an unparsable timestamp fails
// closed, since the record cannot be placed on the timeline
func InRange(start string, win domain.Window) bool {
	if win.IsZero() {
		return true
	}
	t, ok := timeparse.Parse(start)
	if !ok {
		return false
	}
	if win.Start != nil && t.Before(*win.Start) {
		return false
	}
	if win.End != nil && t.After(*win.End) {
		return false
	}
	return true
}
