// Package extract implements the health record extractor state machine
package extract

import (
	"vitals/internal/adapters/ingest/healthexport"
	"vitals/internal/core/healthkinds"
	"vitals/internal/core/normalize"
	"vitals/internal/services/ingest/domain"
)

// Defaults for batch bound and progress cadence
const (
	DefaultBatchSize     = 5000
	DefaultProgressEvery = 5000
)

// Config tunes batching and progress cadence
type Config struct {
	// BatchSize bounds the record batch; <=0 -> DefaultBatchSize
	BatchSize int

	// ProgressEvery emits a progress event each time the accepted counter
	// crosses a multiple; <=0 -> DefaultProgressEvery
	ProgressEvery int
}

type state int

const (
	idle state = iota
	inRecord
	inWorkout
)

// Extractor consumes scanner events and emits batched record events plus
// periodic progress snapshots. One extractor per session; not safe for
// concurrent use and never shared
type Extractor struct {
	cfg   Config
	win   domain.Window
	emit  domain.Emit
	bytes func() int64
	total int64

	st       state
	cand     domain.Record
	batch    []domain.Record
	accepted int
}

// New builds an extractor for one session
// bytesRead reports how much of the source has been consumed so far
func New(cfg Config, win domain.Window, totalBytes int64, bytesRead func() int64, emit domain.Emit) *Extractor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.ProgressEvery <= 0 {
		cfg.ProgressEvery = DefaultProgressEvery
	}
	return &Extractor{
		cfg:   cfg,
		win:   win,
		emit:  emit,
		bytes: bytesRead,
		total: totalBytes,
		batch: make([]domain.Record, 0, cfg.BatchSize),
	}
}

// Accepted returns the accepted-record counter
func (x *Extractor) Accepted() int { return x.accepted }

func (x *Extractor) snapshot() domain.Progress {
	return domain.Progress{
		BytesRead:        x.bytes(),
		TotalBytes:       x.total,
		RecordsProcessed: x.accepted,
	}
}

// OnElement advances the state machine by one scanner event
// any returned error comes from the emit sink and aborts the session
func (x *Extractor) OnElement(el domain.Element) error {
	switch el.Name {
	case "record":
		if el.Kind == healthexport.Open {
			return x.openRecord(el.Attrs.Get("type"), el)
		}
		return x.closeRecord()
	case "workout":
		if el.Kind == healthexport.Open {
			return x.openWorkout(el)
		}
		if x.st == inWorkout {
			x.st = idle
		}
		return nil
	default:
		// unknown markup is ignored in every state
		return nil
	}
}

func (x *Extractor) openRecord(typeID string, el domain.Element) error {
	if x.st != idle {
		return nil
	}
	if !healthkinds.Relevant(typeID) || !InRange(el.Attrs.Get("startdate"), x.win) {
		// rejection is silent and cheap; no candidate is built and the
		// matching close is a no-op from idle
		return nil
	}
	x.cand = domain.Record{
		Type:          typeID,
		Value:         el.Attrs.Get("value"),
		Unit:          el.Attrs.Get("unit"),
		SourceName:    normalize.Provenance(el.Attrs.Get("sourcename")),
		SourceVersion: normalize.Provenance(el.Attrs.Get("sourceversion")),
		StartDate:     el.Attrs.Get("startdate"),
		EndDate:       el.Attrs.Get("enddate"),
	}
	x.st = inRecord
	return nil
}

func (x *Extractor) closeRecord() error {
	if x.st != inRecord {
		return nil
	}
	x.st = idle
	// a candidate missing its required fields at close is dropped, not an error
	if x.cand.Type == "" || x.cand.Value == "" {
		x.cand = domain.Record{}
		return nil
	}
	rec := x.cand
	x.cand = domain.Record{}
	return x.accept(rec)
}

func (x *Extractor) openWorkout(el domain.Element) error {
	if x.st != idle {
		return nil
	}
	if !InRange(el.Attrs.Get("startdate"), x.win) {
		return nil
	}
	x.st = inWorkout

	// workouts carry everything in attributes, so they finalize at open time
	// and decompose into up to four derived records on the same time window
	base := domain.Record{
		SourceName:    normalize.Provenance(el.Attrs.Get("sourcename")),
		SourceVersion: normalize.Provenance(el.Attrs.Get("sourceversion")),
		StartDate:     el.Attrs.Get("startdate"),
		EndDate:       el.Attrs.Get("enddate"),
	}

	derived := make([]domain.Record, 0, 4)

	w := base
	w.Type = healthkinds.Workout
	w.Value = el.Attrs.Get("workoutactivitytype")
	derived = append(derived, w)

	if v := el.Attrs.Get("duration"); v != "" {
		d := base
		d.Type = healthkinds.WorkoutDuration
		d.Value = v
		d.Unit = el.Attrs.Get("durationunit")
		derived = append(derived, d)
	}
	if v := el.Attrs.Get("totaldistance"); v != "" {
		d := base
		d.Type = healthkinds.WorkoutDistance
		d.Value = v
		d.Unit = el.Attrs.Get("totaldistanceunit")
		derived = append(derived, d)
	}
	if v := el.Attrs.Get("totalenergyburned"); v != "" {
		d := base
		d.Type = healthkinds.WorkoutEnergy
		d.Value = v
		d.Unit = el.Attrs.Get("totalenergyburnedunit")
		derived = append(derived, d)
	}

	// the counter moves once per workout, not once per derived record
	return x.append(derived, 1)
}

// accept appends one measurement record and bumps the counter
func (x *Extractor) accept(rec domain.Record) error {
	return x.append([]domain.Record{rec}, 1)
}

func (x *Extractor) append(recs []domain.Record, counted int) error {
	// grow one record at a time so a full batch is always exactly the bound
	for _, rec := range recs {
		x.batch = append(x.batch, rec)
		if len(x.batch) == x.cfg.BatchSize {
			if err := x.flush(); err != nil {
				return err
			}
		}
	}
	x.accepted += counted
	if x.accepted%x.cfg.ProgressEvery == 0 {
		if err := x.emit(domain.Event{Kind: domain.EventProgress, Progress: x.snapshot()}); err != nil {
			return err
		}
	}
	return nil
}

// flush emits the current batch as an independent copy and clears it
func (x *Extractor) flush() error {
	out := make([]domain.Record, len(x.batch))
	copy(out, x.batch)
	x.batch = x.batch[:0]
	return x.emit(domain.Event{Kind: domain.EventRecord, Records: out, Progress: x.snapshot()})
}

// Finish emits the terminal complete event carrying whatever remains in the
// batch, possibly an empty list, so the caller always sees exactly one
func (x *Extractor) Finish() error {
	out := make([]domain.Record, len(x.batch))
	copy(out, x.batch)
	x.batch = x.batch[:0]
	return x.emit(domain.Event{Kind: domain.EventComplete, Records: out, Progress: x.snapshot()})
}
