package fileview

import (
	"fmt"
	"io"
	"os"
)

// ReadAt fills p from the file starting at off. It returns the number of
// bytes read, which is short only at end-of-file. The engines use this
// for their large block scans so that all file access goes through the
// owning View.
func (v *View) ReadAt(p []byte, off int64) (int, error) {
	if v.f == nil {
		return 0, ErrClosed
	}
	n, err := v.f.ReadAt(p, off)
	if err != nil && err != io.EOF {
		return n, fmt.Errorf("read %s @%d: %w", v.path, off, err)
	}
	return n, nil
}

// EnterWrite reopens the handle read-write for the duration of a commit.
func (v *View) EnterWrite() error {
	if v.f == nil {
		return ErrClosed
	}
	if v.writable {
		return nil
	}
	rw, err := os.OpenFile(v.path, os.O_RDWR, 0)
	if err != nil {
		if os.IsPermission(err) {
			return fmt.Errorf("%w: %s", ErrPermissionDenied, v.path)
		}
		return fmt.Errorf("reopen rw %s: %w", v.path, err)
	}
	_ = v.f.Close()
	v.f = rw
	v.writable = true
	return nil
}

// ExitWrite returns the handle to read-only after a commit. The reopen
// is best-effort on top of a just-synced file, so a failure here is a
// real error, not something to swallow.
func (v *View) ExitWrite() error {
	if v.f == nil {
		return ErrClosed
	}
	if !v.writable {
		return nil
	}
	ro, err := os.Open(v.path)
	if err != nil {
		return fmt.Errorf("reopen ro %s: %w", v.path, err)
	}
	_ = v.f.Close()
	v.f = ro
	v.writable = false
	return nil
}

// WriteAt writes p at off. The handle must be in write mode.
func (v *View) WriteAt(p []byte, off int64) (int, error) {
	if v.f == nil {
		return 0, ErrClosed
	}
	if !v.writable {
		return 0, fmt.Errorf("write %s: handle is read-only", v.path)
	}
	n, err := v.f.WriteAt(p, off)
	if err != nil {
		return n, fmt.Errorf("write %s @%d: %w", v.path, off, err)
	}
	return n, nil
}

// Truncate resizes the file. The handle must be in write mode.
func (v *View) Truncate(size int64) error {
	if v.f == nil {
		return ErrClosed
	}
	if !v.writable {
		return fmt.Errorf("truncate %s: handle is read-only", v.path)
	}
	if err := v.f.Truncate(size); err != nil {
		return fmt.Errorf("truncate %s to %d: %w", v.path, size, err)
	}
	return nil
}

// Sync flushes written data to disk.
func (v *View) Sync() error {
	if v.f == nil {
		return ErrClosed
	}
	if err := v.f.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", v.path, err)
	}
	return nil
}
