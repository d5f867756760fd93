package module

import (
	"vitals/internal/platform/config"
)

// Options holds configuration options for the ingestion service
type Options struct {
	BatchSize     int
	ProgressEvery int
	InsertChunk   int

	UploadDir      string
	MaxUploadBytes int64

	// Persist toggles session and record bookkeeping in postgres
	Persist bool
}

// FromConfig reads the ingestion options from config with CORE_INGEST_ prefix
func FromConfig(cfg config.Conf) Options {
	in := cfg.Prefix("CORE_INGEST_")
	return Options{
		BatchSize:      in.MayInt("BATCH_SIZE", 5000),
		ProgressEvery:  in.MayInt("PROGRESS_EVERY", 5000),
		InsertChunk:    in.MayInt("INSERT_CHUNK", 500),
		UploadDir:      in.MayString("UPLOAD_DIR", ""),
		MaxUploadBytes: in.MayInt64("MAX_UPLOAD_BYTES", 0),
		Persist:        in.MayBool("PERSIST", true),
	}
}
