// Package uploads stores raw export uploads as temporary files addressed by opaque handles
package uploads

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	perr "vitals/internal/platform/errors"
)

// Store is the temp artifact seam the ingest session depends on
// handles are opaque; callers never see paths
type Store interface {
	// Save writes the source to a new artifact and returns its handle
	Save(ctx context.Context, r io.Reader) (handle string, size int64, err error)

	// Open returns a reader over the artifact plus its total size in bytes
	Open(ctx context.Context, handle string) (io.ReadCloser, int64, error)

	// Remove deletes the artifact; removing a missing handle is not an error
	Remove(ctx context.Context, handle string) error
}

// FS stores artifacts as files under a single directory
type FS struct {
	dir string
}

// NewFS creates the directory if needed and returns a file-backed Store
func NewFS(dir string) (*FS, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "vitals-uploads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeSourceIO, "create upload dir")
	}
	return &FS{dir: dir}, nil
}

// path maps a handle to its file, refusing anything that is not a bare uuid
func (s *FS) path(handle string) (string, error) {
	id, err := uuid.Parse(handle)
	if err != nil {
		return "", perr.InvalidArgf("invalid upload handle")
	}
	return filepath.Join(s.dir, id.String()+".xml"), nil
}

// Save implements Store
func (s *FS) Save(_ context.Context, r io.Reader) (string, int64, error) {
	handle := uuid.NewString()
	p := filepath.Join(s.dir, handle+".xml")
	f, err := os.Create(p)
	if err != nil {
		return "", 0, perr.Wrap(err, perr.ErrorCodeSourceIO, "create upload artifact")
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(p)
		return "", 0, perr.Wrap(err, perr.ErrorCodeSourceIO, "write upload artifact")
	}
	return handle, n, nil
}

// Open implements Store
func (s *FS) Open(_ context.Context, handle string) (io.ReadCloser, int64, error) {
	p, err := s.path(handle)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, perr.NotFoundf("upload %s not found", handle)
		}
		return nil, 0, perr.Wrap(err, perr.ErrorCodeSourceIO, "open upload artifact")
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, perr.Wrap(err, perr.ErrorCodeSourceIO, "stat upload artifact")
	}
	return f, st.Size(), nil
}

// Remove implements Store
func (s *FS) Remove(_ context.Context, handle string) error {
	p, err := s.path(handle)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return perr.Wrap(err, perr.ErrorCodeSourceIO, "remove upload artifact")
	}
	return nil
}
