// Package service implements the ingestion session controller
package service

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"vitals/internal/adapters/uploads"
	"vitals/internal/modkit/repokit"
	perr "vitals/internal/platform/errors"
	"vitals/internal/platform/logger"
	"vitals/internal/services/ingest/domain"
	"vitals/internal/services/ingest/extract"
)

// Config tunes one session's batching and persistence
type Config struct {
	BatchSize     int
	ProgressEvery int

	// InsertChunk is the per-TX insert size; 0 -> default
	InsertChunk int
}

// Service drives ingestion sessions end to end
// each Run is fully independent; the service itself holds no session state
type Service struct {
	db       repokit.TxRunner // optional; nil disables persistence
	binder   repokit.Binder[domain.StorageRepo]
	uploads  uploads.Store
	scanners domain.ScannerFactory
	cfg      Config
}

// New constructs the service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.StorageRepo],
	up uploads.Store,
	sf domain.ScannerFactory,
	cfg Config,
) *Service {
	if up == nil {
		panic("ingest.Service requires a non nil upload store")
	}
	if sf == nil {
		panic("ingest.Service requires a non nil scanner factory")
	}
	if db != nil && binder == nil {
		panic("ingest.Service requires a repo binder when a TxRunner is set")
	}
	return &Service{db: db, binder: binder, uploads: up, scanners: sf, cfg: cfg}
}

// Run executes one ingestion session over the stored upload
// events reach emit one at a time, in order; emit blocking pauses the
// pipeline (that is the backpressure contract). The upload artifact is
// removed exactly once on every exit path, including caller cancellation
func (s *Service) Run(ctx context.Context, handle string, win domain.Window, emit domain.Emit) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// single internal event channel: every state machine transition writes
	// here, one consumer loop forwards to the transport
	events := make(chan domain.Event)
	done := make(chan error, 1)
	go func() {
		done <- s.pipeline(ctx, handle, win, events)
		close(events)
	}()

	var emitErr error
	for ev := range events {
		if emitErr != nil {
			continue // drain so the pipeline can unwind
		}
		if err := emit(ev); err != nil {
			emitErr = err
			cancel()
		}
	}
	runErr := <-done
	if emitErr != nil {
		return emitErr
	}
	return runErr
}

func (s *Service) pipeline(ctx context.Context, handle string, win domain.Window, out chan<- domain.Event) error {
	log := logger.Named("ingest").With().Str("upload_id", handle).Logger()
	sessionID := uuid.NewString()
	started := time.Now()

	send := func(ev domain.Event) error {
		select {
		case out <- ev:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	fin := domain.SessionFinish{Status: domain.StatusFailed}
	defer func() {
		// cleanup is best effort and never becomes the session outcome
		cctx := context.WithoutCancel(ctx)
		if err := s.uploads.Remove(cctx, handle); err != nil {
			log.Warn().Err(err).Msg("upload cleanup failed")
		}
		if s.db != nil {
			fin.ElapsedMS = int(time.Since(started).Milliseconds())
			if err := s.binder.Bind(s.db).FinishSession(cctx, sessionID, fin); err != nil {
				log.Warn().Err(err).Msg("session bookkeeping finish failed")
			}
		}
	}()

	fail := func(err error) error {
		fin.ErrText = err.Error()
		log.Error().Err(err).Msg("ingestion failed")
		// best effort: the consumer may already be gone
		_ = send(domain.Event{Kind: domain.EventError, Error: err.Error()})
		return err
	}

	if s.db != nil {
		if err := s.binder.Bind(s.db).StartSession(ctx, sessionID, handle); err != nil {
			return fail(err)
		}
	}

	rc, total, err := s.uploads.Open(ctx, handle)
	if err != nil {
		return fail(err)
	}
	sc := s.scanners.New(rc)
	defer func() { _ = sc.Close() }()

	bytesRead := func() int64 {
		_, b := sc.Stats()
		return b
	}

	// flushed batches persist before they are forwarded, so accepted work
	// survives a consumer that disappears mid stream
	sink := func(ev domain.Event) error {
		if s.db != nil && len(ev.Records) > 0 {
			if _, err := s.insertRobust(ctx, sessionID, ev.Records); err != nil {
				return err
			}
		}
		return send(ev)
	}

	x := extract.New(
		extract.Config{BatchSize: s.cfg.BatchSize, ProgressEvery: s.cfg.ProgressEvery},
		win, total, bytesRead, sink,
	)
	defer func() {
		fin.BytesRead = bytesRead()
		fin.Records = x.Accepted()
	}()

	for {
		if err := ctx.Err(); err != nil {
			fin.ErrText = err.Error()
			return err
		}
		el, err := sc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(err)
		}
		if err := x.OnElement(el); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				fin.ErrText = err.Error()
				return err
			}
			return fail(err)
		}
	}

	if err := x.Finish(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			fin.ErrText = err.Error()
			return err
		}
		return fail(err)
	}

	fin.Status = domain.StatusCompleted
	log.Info().
		Int("records", x.Accepted()).
		Int64("bytes", bytesRead()).
		Dur("elapsed", time.Since(started)).
		Msg("ingestion completed")
	return nil
}

// insertRobust writes a batch in chunks with retries; a chunk that keeps
// failing retryably is bisected so one poisoned row cannot sink the rest
func (s *Service) insertRobust(ctx context.Context, sessionID string, recs []domain.Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	chunk := s.cfg.InsertChunk
	if chunk <= 0 {
		chunk = 500
	}
	total := 0
	for i := 0; i < len(recs); i += chunk {
		end := min(i+chunk, len(recs))
		n, err := s.insertChunkRobust(ctx, sessionID, recs[i:end])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *Service) insertChunkRobust(ctx context.Context, sessionID string, recs []domain.Record) (int, error) {
	const maxAttempts = 4
	base := 250 * time.Millisecond

	tryOnce := func(xs []domain.Record) (int, error) {
		var n int
		err := s.db.Tx(ctx, func(q repokit.Queryer) error {
			i, e := s.binder.Bind(q).InsertRecords(ctx, sessionID, xs)
			if e == nil {
				n = i
			}
			return e
		})
		return n, err
	}

	var last error
	tot := 0
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		n, err := tryOnce(recs)
		tot += n
		if err == nil {
			return tot, nil
		}
		last = err
		if !perr.Retryable(err) || attempt == maxAttempts {
			break
		}
		d := min(base<<(attempt-1), 5*time.Second)
		sleep := d/2 + time.Duration(rand.Int63n(int64(d/2)))
		if se := sleepCtx(ctx, sleep); se != nil {
			return tot, err
		}
	}

	if !perr.Retryable(last) {
		return tot, last
	}
	if len(recs) == 1 {
		return tot, last
	}
	mid := len(recs) / 2
	ln, lerr := s.insertChunkRobust(ctx, sessionID, recs[:mid])
	if lerr != nil {
		return tot + ln, lerr
	}
	rn, rerr := s.insertChunkRobust(ctx, sessionID, recs[mid:])
	return tot + ln + rn, rerr
}

// sleepCtx sleeps for d or until ctx is done
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
