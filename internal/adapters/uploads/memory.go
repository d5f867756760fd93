package uploads

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/google/uuid"

	perr "vitals/internal/platform/errors"
)

// Memory is an in-memory Store for tests
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte

	// Removed records handles passed to Remove, in order
	Removed []string
}

// NewMemory returns an empty in-memory store
func NewMemory() *Memory {
	return &Memory{blobs: map[string][]byte{}}
}

// Put seeds an artifact under a fresh handle
func (m *Memory) Put(data []byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	handle := uuid.NewString()
	m.blobs[handle] = append([]byte(nil), data...)
	return handle
}

// Save implements Store
func (m *Memory) Save(_ context.Context, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, perr.Wrap(err, perr.ErrorCodeSourceIO, "read upload")
	}
	return m.Put(data), int64(len(data)), nil
}

// Open implements Store
func (m *Memory) Open(_ context.Context, handle string) (io.ReadCloser, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[handle]
	if !ok {
		return nil, 0, perr.NotFoundf("upload %s not found", handle)
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

// Remove implements Store
func (m *Memory) Remove(_ context.Context, handle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, handle)
	m.Removed = append(m.Removed, handle)
	return nil
}

// Has reports whether an artifact is still stored
func (m *Memory) Has(handle string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[handle]
	return ok
}
