// Package fileview provides offset-addressed buffered access to one open
// file. A View owns the file handle, the current window offset and the
// in-memory window contents; the search, diff, scroll and edit engines
// all operate through it.
package fileview

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/linuxCowboy/vbl/pkg/config"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates the file cannot be opened for reading.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrEmpty indicates a zero-length file, which vbl refuses at startup.
	ErrEmpty = errors.New("file is empty")

	// ErrTooLarge indicates the file exceeds the supported maximum size.
	ErrTooLarge = errors.New("file is too big")

	// ErrClosed indicates use of a View after Close.
	ErrClosed = errors.New("view is closed")
)

// View is one open file with its buffered display window.
type View struct {
	f    *os.File
	path string

	size   int64
	offset int64
	mark   int64

	window   []byte // current contents, len == bytes actually read
	capacity int

	editable bool // path is writable by this process
	writable bool // handle currently open read-write
	maxSize  int64
}

// Option configures Open.
type Option func(*View)

// WithCapacity sets the initial window capacity in bytes.
func WithCapacity(n int) Option {
	return func(v *View) { v.capacity = n }
}

// WithMaxSize overrides the supported maximum file size. Tests use this;
// the default is config.MaxFileSize.
func WithMaxSize(n int64) Option {
	return func(v *View) { v.maxSize = n }
}

// Open probes write access on path, records whether the file is editable,
// then opens it read-only and reads the first window. The returned View
// holds a read-only handle; editing reopens it transiently.
func Open(path string, opts ...Option) (*View, error) {
	v := &View{
		path:     path,
		capacity: config.LineWidth * 16,
		maxSize:  config.MaxFileSize,
	}
	for _, opt := range opts {
		opt(v)
	}

	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	// Probe write access. The handle is discarded immediately; the
	// editable flag only gates whether edit mode can be entered.
	if rw, err := os.OpenFile(path, os.O_RDWR, 0); err == nil {
		v.editable = true
		_ = rw.Close()
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	v.f = f

	size, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("seek end %s: %w", path, err)
	}
	v.size = size

	if size == 0 {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	if size > v.maxSize {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrTooLarge, path)
	}

	if err := v.MoveTo(0); err != nil {
		_ = f.Close()
		return nil, err
	}
	return v, nil
}

// Close releases the file handle. The View must not be used afterwards.
func (v *View) Close() error {
	if v.f == nil {
		return nil
	}
	err := v.f.Close()
	v.f = nil
	v.window = nil
	return err
}

// Path returns the display name of the file.
func (v *View) Path() string { return v.path }

// Size returns the file size observed at the last read or reload.
func (v *View) Size() int64 { return v.size }

// Offset returns the byte offset where the current window begins.
func (v *View) Offset() int64 { return v.offset }

// Window returns the current window contents. Callers must treat the
// slice as read-only; it is reused on every MoveTo.
func (v *View) Window() []byte { return v.window }

// Len returns the number of bytes in the current window. It is shorter
// than the capacity near end-of-file.
func (v *View) Len() int { return len(v.window) }

// Capacity returns the window capacity in bytes.
func (v *View) Capacity() int { return v.capacity }

// Editable reports whether the underlying path is writable.
func (v *View) Editable() bool { return v.editable }

// SetCapacity resizes the window (display geometry changed) and re-reads
// the current position.
func (v *View) SetCapacity(n int) error {
	if n < config.LineWidth {
		n = config.LineWidth
	}
	v.capacity = n
	return v.MoveTo(v.offset)
}

// PageStep is the distance of a one-page move: a full window minus one
// line of overlap.
func (v *View) PageStep() int64 {
	return int64(v.capacity - config.LineWidth)
}

// MoveTo clamps offset to [0, size], seeks there and fills the window.
// After a successful call the window holds a fresh read from the clamped
// offset.
func (v *View) MoveTo(offset int64) error {
	if v.f == nil {
		return ErrClosed
	}
	if offset < 0 {
		offset = 0
	}
	if offset > v.size {
		offset = v.size
	}
	v.offset = offset

	buf := make([]byte, v.capacity)
	n, err := v.f.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		v.window = buf[:0]
		return fmt.Errorf("read %s @%d: %w", v.path, offset, err)
	}
	v.window = buf[:n]
	return nil
}

// MoveBy moves the window by delta bytes.
func (v *View) MoveBy(delta int64) error {
	return v.MoveTo(v.offset + delta)
}

// MoveToEnd shows the last full page of the file.
func (v *View) MoveToEnd() error {
	return v.MoveTo(v.size - v.PageStep())
}

// Skip jumps by percent of the file size, backward when back is set.
func (v *View) Skip(percent int, back bool) error {
	step := v.size / 100 * int64(percent)
	if back {
		step = -step
	}
	return v.MoveBy(step)
}

// SyncTo positions this view at the other view's offset, or at the end
// when the other window is empty (fully past end-of-file).
func (v *View) SyncTo(other *View) error {
	if other.Len() > 0 {
		return v.MoveTo(other.Offset())
	}
	return v.MoveToEnd()
}

// SwapMark exchanges the current offset with the remembered mark and
// moves there, so repeated calls toggle between two positions.
func (v *View) SwapMark() error {
	target := v.mark
	v.mark = v.offset
	return v.MoveTo(target)
}

// Mark returns the remembered position.
func (v *View) Mark() int64 { return v.mark }

// SetMark remembers the current offset without moving.
func (v *View) SetMark() { v.mark = v.offset }

// Percent returns the window position as a percentage of the file,
// clamped to 100.
func (v *View) Percent() int {
	if v.size == 0 {
		return 0
	}
	p := (v.offset + int64(v.Len())) * 100 / v.size
	if p > 100 {
		p = 100
	}
	return int(p)
}

// Reload re-reads the file size from the handle and refreshes the window
// at the current offset. Editing calls this after every commit.
func (v *View) Reload() error {
	if v.f == nil {
		return ErrClosed
	}
	size, err := v.f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("seek end %s: %w", v.path, err)
	}
	v.size = size
	return v.MoveTo(v.offset)
}

// MaxSize returns the supported maximum file size for this view.
func (v *View) MaxSize() int64 { return v.maxSize }
