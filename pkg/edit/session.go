// Package edit implements in-place file editing: an editable copy of
// the current window supporting insert and delete, and a commit that
// rewrites the file, streaming the unaffected tail when the edited
// region changed length.
package edit

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/linuxCowboy/vbl/pkg/fileview"
)

// Tag classifies a byte in the edit buffer, for display only.
type Tag byte

const (
	// TagUnchanged marks a byte still equal to the seed window.
	TagUnchanged Tag = iota

	// TagChanged marks a byte whose value was modified.
	TagChanged

	// TagInserted marks a freshly inserted byte.
	TagInserted
)

// State is the lifecycle state of a Session.
type State int

const (
	StateIdle State = iota
	StateEditing
	StateConfirming
	StateCommitting
	StateSuccess
	StateFailed
)

// Sentinel errors.
var (
	// ErrNotEditable means the underlying path is not writable.
	ErrNotEditable = errors.New("file is not editable")

	// ErrPastEOF means the view is positioned entirely past end-of-file,
	// where there is no window to edit.
	ErrPastEOF = errors.New("view is past end of file")

	// ErrWrongState means an operation does not apply in the session's
	// current state.
	ErrWrongState = errors.New("operation not valid in this state")

	// ErrShiftNeedsConfirm means the commit would shift more bytes than
	// the confirmation threshold and the caller has not approved it.
	ErrShiftNeedsConfirm = errors.New("large file shift needs confirmation")

	// ErrOversizedCommit means the commit would grow the file past the
	// supported maximum size. Nothing has been written.
	ErrOversizedCommit = errors.New("commit exceeds maximum file size")

	// ErrOutOfRange means a buffer index is out of bounds.
	ErrOutOfRange = errors.New("index out of range")
)

// ProgressFunc reports shift progress in chunk units.
type ProgressFunc func(done, total int)

// Session is one edit-mode interaction: seeded from the current window,
// mutated in memory, then committed or discarded.
type Session struct {
	v      *fileview.View
	origin int64
	seed   []byte

	buf  []byte
	tags []Tag

	state State

	chunkSize    int
	confirmAbove int64
	progress     ProgressFunc
}

// Option configures a Session.
type Option func(*Session)

// WithChunkSize sets the staging chunk for the commit shift.
func WithChunkSize(n int) Option {
	return func(s *Session) { s.chunkSize = n }
}

// WithConfirmThreshold sets the shift size above which Commit demands
// explicit approval.
func WithConfirmThreshold(n int64) Option {
	return func(s *Session) { s.confirmAbove = n }
}

// WithProgress installs a progress callback for the shift phase.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Session) { s.progress = fn }
}

// Begin copies the view's current window into an edit buffer.
func Begin(v *fileview.View, opts ...Option) (*Session, error) {
	if !v.Editable() {
		return nil, fmt.Errorf("%w: %s", ErrNotEditable, v.Path())
	}
	if v.Len() == 0 && v.Offset() > 0 {
		return nil, ErrPastEOF
	}
	s := &Session{
		v:            v,
		origin:       v.Offset(),
		seed:         append([]byte(nil), v.Window()...),
		chunkSize:    8 << 20,
		confirmAbove: 256 << 20,
		state:        StateEditing,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.buf = append([]byte(nil), s.seed...)
	s.tags = make([]Tag, len(s.buf))
	return s, nil
}

// Bytes returns the edit buffer. Callers must treat it as read-only.
func (s *Session) Bytes() []byte { return s.buf }

// Tags returns the per-byte tags parallel to Bytes.
func (s *Session) Tags() []Tag { return s.tags }

// Len returns the current buffer length, which may differ from the seed
// window length after inserts or deletes.
func (s *Session) Len() int { return len(s.buf) }

// Origin returns the file offset the buffer was seeded from.
func (s *Session) Origin() int64 { return s.origin }

// State returns the session's lifecycle state.
func (s *Session) State() State { return s.state }

// Dirty reports whether the buffer differs from the seed.
func (s *Session) Dirty() bool {
	return !bytes.Equal(s.buf, s.seed)
}

func (s *Session) editable() error {
	if s.state != StateEditing {
		return fmt.Errorf("%w: state %d", ErrWrongState, s.state)
	}
	return nil
}

// SetByte sets the byte at index i.
func (s *Session) SetByte(i int, b byte) error {
	if err := s.editable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.buf) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	if s.buf[i] != b {
		s.buf[i] = b
		if s.tags[i] != TagInserted {
			s.tags[i] = TagChanged
		}
	}
	return nil
}

// SetNibble sets one hex digit of the byte at index i.
func (s *Session) SetNibble(i int, high bool, nib byte) error {
	if err := s.editable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.buf) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	var b byte
	if high {
		b = nib<<4 | s.buf[i]&0x0F
	} else {
		b = s.buf[i]&0xF0 | nib&0x0F
	}
	return s.SetByte(i, b)
}

// CopyFrom copies the byte at the same window position from the paired
// view (two-file mode).
func (s *Session) CopyFrom(other *fileview.View, i int) error {
	if err := s.editable(); err != nil {
		return err
	}
	w := other.Window()
	if i < 0 || i >= len(w) || i >= len(s.buf) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	return s.SetByte(i, w[i])
}

// Insert inserts b before index i, growing the buffer. i == Len appends.
func (s *Session) Insert(i int, b byte) error {
	if err := s.editable(); err != nil {
		return err
	}
	if i < 0 || i > len(s.buf) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	s.buf = append(s.buf, 0)
	copy(s.buf[i+1:], s.buf[i:])
	s.buf[i] = b
	s.tags = append(s.tags, 0)
	copy(s.tags[i+1:], s.tags[i:])
	s.tags[i] = TagInserted
	return nil
}

// Delete removes the byte at index i, shrinking the buffer.
func (s *Session) Delete(i int) error {
	if err := s.editable(); err != nil {
		return err
	}
	if i < 0 || i >= len(s.buf) {
		return fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	s.buf = append(s.buf[:i], s.buf[i+1:]...)
	s.tags = append(s.tags[:i], s.tags[i+1:]...)
	return nil
}

// Resume returns a session parked in StateConfirming to StateEditing,
// for a user who declined the large shift but wants to keep editing.
func (s *Session) Resume() {
	if s.state == StateConfirming {
		s.state = StateEditing
	}
}

// Discard abandons the session without touching the file.
func (s *Session) Discard() {
	s.state = StateIdle
	s.buf = nil
	s.tags = nil
}
