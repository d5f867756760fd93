// Package http provides http transport for ingestion
package http

import (
	"io"
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"vitals/internal/adapters/uploads"
	"vitals/internal/modkit/httpkit"
	perr "vitals/internal/platform/errors"
	pnet "vitals/internal/platform/net"
	phttp "vitals/internal/platform/net/http"
	"vitals/internal/services/ingest/domain"
)

// Deps are the handler dependencies
type Deps struct {
	Runner  domain.RunnerPort
	Uploads uploads.Store

	// MaxUploadBytes caps one export upload; 0 means no cap
	MaxUploadBytes int64
}

type handlers struct {
	deps Deps
}

// Register mounts ingestion endpoints on the given router
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	// store an export artifact
	httpkit.Post(r, "/uploads", h.upload)

	// live event stream over one stored artifact
	r.Get("/uploads/{id}/events", h.events)
}

// UploadResponse acknowledges a stored export artifact
// swagger:model
type UploadResponse struct {
	UploadID string `json:"upload_id" example:"6f1c3f2a-0b30-49a8-9f62-6f2c51d0a8e7"`
	Bytes    int64  `json:"bytes"     example:"1048576"`
}

// swagger:route POST /ingest/uploads Ingest ingestUpload
// @Summary Store an export file for ingestion
// @Tags Ingest
// @Accept mpfd
// @Produce json
// @Success 200 type UploadResponse "stored"
// @Router /ingest/uploads [post]
func (h *handlers) upload(r *stdhttp.Request) (any, error) {
	r.Body = stdhttp.MaxBytesReader(nil, r.Body, h.maxBytes())

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, perr.InvalidArgf("multipart body required: %s", err)
	}
	// callers sometimes rename the field, so take the first file part
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, perr.InvalidArgf("read multipart body: %s", err)
		}
		if part.FileName() == "" {
			_ = part.Close()
			continue
		}
		handle, size, err := h.deps.Uploads.Save(r.Context(), part)
		_ = part.Close()
		if err != nil {
			return nil, err
		}
		return UploadResponse{UploadID: handle, Bytes: size}, nil
	}
	return nil, perr.InvalidArgf("no file part in upload")
}

// swagger:route GET /ingest/uploads/{id}/events Ingest ingestEvents
// @Summary Stream ingestion events for a stored export
// @Tags Ingest
// @Produce text/event-stream
// @Param id path string true "upload id"
// @Param start query string false "inclusive lower bound"
// @Param end query string false "inclusive upper bound"
// @Router /ingest/uploads/{id}/events [get]
func (h *handlers) events(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := chi.URLParam(r, "id")
	win, err := domain.ParseWindow(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	stream, err := phttp.NewStream(w)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	ctx := pnet.WithUpload(r.Context(), id)
	emit := func(ev domain.Event) error {
		return stream.Send(string(ev.Kind), ev)
	}

	// errors inside the run already reached the client as an error event;
	// the stream just ends here either way
	_ = h.deps.Runner.Run(ctx, id, win, emit)
}

func (h *handlers) maxBytes() int64 {
	if h.deps.MaxUploadBytes > 0 {
		return h.deps.MaxUploadBytes
	}
	return 2 << 30
}
