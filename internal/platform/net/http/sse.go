package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "vitals/internal/platform/errors"
)

// Stream writes server-sent events over a ResponseWriter
// each Send is one named event with a JSON payload, flushed immediately
type Stream struct {
	w stdhttp.ResponseWriter
	f stdhttp.Flusher
}

// NewStream prepares w for server-sent events and writes the stream headers
// returns an error when the underlying writer cannot flush
func NewStream(w stdhttp.ResponseWriter) (*Stream, error) {
	f, ok := w.(stdhttp.Flusher)
	if !ok {
		return nil, perr.Unavailablef("response writer does not support streaming")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(stdhttp.StatusOK)
	f.Flush()
	return &Stream{w: w, f: f}, nil
}

// Send writes one event frame and flushes it to the client
func (s *Stream) Send(event string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode sse payload")
	}
	if _, err := s.w.Write([]byte("event: " + event + "\n")); err != nil {
		return err
	}
	if _, err := s.w.Write(append(append([]byte("data: "), payload...), '\n', '\n')); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}

// Comment writes a comment frame, useful as a keepalive
func (s *Stream) Comment(text string) error {
	if _, err := s.w.Write([]byte(": " + text + "\n\n")); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}
