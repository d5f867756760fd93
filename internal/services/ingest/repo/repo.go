// Package repo provides postgres access for ingestion bookkeeping and records
package repo

import (
	"context"

	"vitals/internal/modkit/repokit"
	perr "vitals/internal/platform/errors"
	"vitals/internal/services/ingest/domain"
)

type (
	// PG is a Postgres binder for domain.StorageRepo
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG returns a Postgres binder for domain.StorageRepo
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind implements repokit.Binder
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

// StartSession marks the start of an ingestion run (idempotent)
func (r *queries) StartSession(ctx context.Context, sessionID, uploadID string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ingest_sessions (session_id, upload_id, started_at, status)
		VALUES ($1, $2, now(), 'running')
		ON CONFLICT (session_id) DO UPDATE
		SET started_at = now(), status = 'running', error = null, finished_at = null
	`, sessionID, uploadID)
	if err != nil {
		return perr.FromPostgres(err, "start ingest session")
	}
	return nil
}

// FinishSession records the terminal accounting for a run (idempotent)
func (r *queries) FinishSession(ctx context.Context, sessionID string, fin domain.SessionFinish) error {
	_, err := r.q.Exec(ctx, `
		UPDATE ingest_sessions SET
			finished_at = now(),
			status = $2,
			bytes_read = $3,
			records = $4,
			elapsed_ms = $5,
			error = NULLIF($6,'')
		WHERE session_id = $1
	`, sessionID, fin.Status, fin.BytesRead, fin.Records, fin.ElapsedMS, fin.ErrText)
	if err != nil {
		return perr.FromPostgres(err, "finish ingest session")
	}
	return nil
}

// InsertRecords persists one flushed batch as a single multi-row statement.
// Duplicate measurements within a session are dropped by the conflict target
func (r *queries) InsertRecords(ctx context.Context, sessionID string, recs []domain.Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	types := make([]string, len(recs))
	values := make([]string, len(recs))
	units := make([]string, len(recs))
	sources := make([]string, len(recs))
	versions := make([]string, len(recs))
	starts := make([]string, len(recs))
	ends := make([]string, len(recs))
	for i, rec := range recs {
		types[i] = rec.Type
		values[i] = rec.Value
		units[i] = rec.Unit
		sources[i] = rec.SourceName
		versions[i] = rec.SourceVersion
		starts[i] = rec.StartDate
		ends[i] = rec.EndDate
	}

	tag, err := r.q.Exec(ctx, `
		INSERT INTO health_records (
			session_id, record_type, value, unit,
			source_name, source_version, start_date, end_date
		)
		SELECT $1, t.record_type, t.value, NULLIF(t.unit,''),
		       NULLIF(t.source_name,''), NULLIF(t.source_version,''),
		       t.start_date, t.end_date
		FROM UNNEST(
			$2::text[], $3::text[], $4::text[],
			$5::text[], $6::text[], $7::text[], $8::text[]
		) AS t(record_type, value, unit, source_name, source_version, start_date, end_date)
		ON CONFLICT (session_id, record_type, start_date, end_date, value) DO NOTHING
	`, sessionID, types, values, units, sources, versions, starts, ends)
	if err != nil {
		return 0, perr.FromPostgresf(err, "insert %d health records", len(recs))
	}
	return int(tag.RowsAffected()), nil
}
