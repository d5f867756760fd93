package uploads

import (
	"context"
	"io"
	"strings"
	"testing"

	perr "vitals/internal/platform/errors"
)

func TestFS_SaveOpenRemove(t *testing.T) {
	ctx := context.Background()
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}

	const body = "<HealthData></HealthData>"
	handle, size, err := s.Save(ctx, strings.NewReader(body))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len(body)) {
		t.Fatalf("size = %d, want %d", size, len(body))
	}

	rc, total, err := s.Open(ctx, handle)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	_ = rc.Close()
	if string(got) != body || total != int64(len(body)) {
		t.Fatalf("round trip mismatch: %q total=%d", got, total)
	}

	if err := s.Remove(ctx, handle); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, _, err := s.Open(ctx, handle); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found after remove, got %v", err)
	}

	// removing again is fine
	if err := s.Remove(ctx, handle); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
}

func TestFS_RejectsNonUUIDHandles(t *testing.T) {
	ctx := context.Background()
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	if _, _, err := s.Open(ctx, "../../etc/passwd"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid handle error, got %v", err)
	}
	if err := s.Remove(ctx, "not-a-handle"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid handle error, got %v", err)
	}
}

func TestMemory_TracksRemovals(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	handle, size, err := m.Save(ctx, strings.NewReader("abc"))
	if err != nil || size != 3 {
		t.Fatalf("Save: %v size=%d", err, size)
	}
	if !m.Has(handle) {
		t.Fatal("expected artifact stored")
	}
	if err := m.Remove(ctx, handle); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if m.Has(handle) {
		t.Fatal("expected artifact gone")
	}
	if len(m.Removed) != 1 || m.Removed[0] != handle {
		t.Fatalf("Removed = %v", m.Removed)
	}
	if _, _, err := m.Open(ctx, handle); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
