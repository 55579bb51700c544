// Package search implements the byte pattern matcher: blocked forward
// and backward scans over a file with a word-at-a-time fast path for
// rejecting non-matching positions ("turbo search").
package search

import (
	"context"
	"errors"

	"github.com/linuxCowboy/vbl/pkg/fileview"
)

// Result classifies the outcome of a scan. "Not found" and interruption
// are ordinary results, not errors.
type Result int

const (
	// NotFound means the scan exhausted the file without a match. The
	// view is left at the end (forward) or start (backward) of the file.
	NotFound Result = iota

	// Found means the view has been repositioned onto the match.
	Found

	// Interrupted means the caller cancelled mid-scan. The view is left
	// at the last fully scanned block boundary, never past a match.
	Interrupted
)

// ErrEmptyPattern is returned by New for a zero-length pattern.
var ErrEmptyPattern = errors.New("empty search pattern")

// Matcher holds a compiled pattern and the resume state for repeated
// find-next / find-prev over the same pattern.
type Matcher struct {
	pattern []byte // bytes to match, folded if caseFold
	display []byte // pattern as given, for the UI

	caseFold bool
	pivot    int  // first non-zero byte, used to build the skip word
	turbo    bool // false when the pattern is all zero bytes

	blockSize     int
	backBlockSize int
	indent        int64 // context bytes shown above a match

	lastMatch int64 // -1 while no match has landed
	advance   bool  // resume strictly after/before lastMatch
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithCaseFold lower-cases pattern and haystack before all comparisons.
func WithCaseFold() Option {
	return func(m *Matcher) { m.caseFold = true }
}

// WithBlockSizes overrides the forward and backward read block sizes.
func WithBlockSizes(forward, backward int) Option {
	return func(m *Matcher) {
		m.blockSize = forward
		m.backBlockSize = backward
	}
}

// WithIndent sets the number of context bytes kept above a match when
// the view repositions.
func WithIndent(indent int64) Option {
	return func(m *Matcher) { m.indent = indent }
}

// New compiles a pattern. The pattern must contain at least one byte.
func New(pattern []byte, opts ...Option) (*Matcher, error) {
	if len(pattern) == 0 {
		return nil, ErrEmptyPattern
	}
	m := &Matcher{
		display:       append([]byte(nil), pattern...),
		blockSize:     1 << 20,
		backBlockSize: 8 << 20,
		lastMatch:     -1,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.pattern = append([]byte(nil), pattern...)
	if m.caseFold {
		foldBytes(m.pattern)
	}

	// A zero byte XORed against a zero word gives no discriminating
	// signal, so bias the skip word onto the first non-zero byte. An
	// all-zero pattern disables the fast path entirely.
	m.pivot = -1
	for i, b := range m.pattern {
		if b != 0 {
			m.pivot = i
			break
		}
	}
	m.turbo = m.pivot >= 0
	if m.pivot < 0 {
		m.pivot = 0
	}
	return m, nil
}

// Pattern returns the pattern as given to New.
func (m *Matcher) Pattern() []byte { return m.display }

// Len returns the pattern length.
func (m *Matcher) Len() int { return len(m.pattern) }

// MatchOffset returns where the previous match landed, or -1.
func (m *Matcher) MatchOffset() int64 { return m.lastMatch }

// Reset forgets the previous match, so the next scan starts fresh from
// the view's current offset. Any non-search navigation calls this.
func (m *Matcher) Reset() {
	m.lastMatch = -1
	m.advance = false
}

// Forward finds the next occurrence at or after the view's offset (or
// strictly after the previous match) and repositions the view there.
func (m *Matcher) Forward(ctx context.Context, v *fileview.View) (Result, error) {
	start := v.Offset()
	if m.advance {
		start = m.lastMatch + 1
	}

	patLen := len(m.pattern)
	buf := make([]byte, m.blockSize+patLen-1)
	carry := 0   // bytes carried over the block seam, at buf[:carry]
	pos := start // file offset of the next unread byte

	for {
		if interrupted(ctx) {
			res := Interrupted
			if err := v.MoveTo(pos - int64(carry)); err != nil {
				return res, err
			}
			return res, nil
		}

		n, err := v.ReadAt(buf[carry:], pos)
		if err != nil {
			return NotFound, err
		}
		if n == 0 {
			break
		}
		hay := buf[:carry+n]
		if m.caseFold {
			foldBytes(hay[carry:])
		}

		if idx := m.scan(hay); idx >= 0 {
			match := pos - int64(carry) + int64(idx)
			return Found, m.land(v, match)
		}

		pos += int64(n)
		carry = patLen - 1
		if carry > len(hay) {
			carry = len(hay)
		}
		copy(buf[:carry], hay[len(hay)-carry:])
	}

	m.advance = false
	return NotFound, v.MoveToEnd()
}

// Backward finds the nearest occurrence strictly before the view's
// offset (or before the previous match) and repositions the view there.
func (m *Matcher) Backward(ctx context.Context, v *fileview.View) (Result, error) {
	bound := v.Offset()
	if m.advance {
		bound = m.lastMatch
	}
	// Matches start at most at bound-1 but may extend past it.
	patLen := len(m.pattern)
	end := bound + int64(patLen) - 1
	if end > v.Size() {
		end = v.Size()
	}

	buf := make([]byte, m.backBlockSize+patLen-1)

	for end > 0 {
		if interrupted(ctx) {
			if err := v.MoveTo(end); err != nil {
				return Interrupted, err
			}
			return Interrupted, nil
		}

		blockStart := end - int64(m.backBlockSize)
		if blockStart < 0 {
			blockStart = 0
		}
		hay := buf[:end-blockStart]
		n, err := v.ReadAt(hay, blockStart)
		if err != nil {
			return NotFound, err
		}
		hay = hay[:n]
		if m.caseFold {
			foldBytes(hay)
		}

		if idx := m.scanReverse(hay); idx >= 0 {
			match := blockStart + int64(idx)
			if match < bound {
				return Found, m.land(v, match)
			}
		}
		if blockStart == 0 {
			break
		}
		// Re-read the seam so matches straddling it are seen.
		end = blockStart + int64(patLen) - 1
	}

	m.advance = false
	return NotFound, v.MoveTo(0)
}

// land repositions the view so the match is visible with the configured
// leading context and records the resume state.
func (m *Matcher) land(v *fileview.View, match int64) error {
	m.lastMatch = match
	m.advance = true
	if m.indent > 0 && match >= m.indent {
		return v.MoveTo(match - m.indent)
	}
	return v.MoveTo(match)
}

// interrupted polls for cancellation between block reads.
func interrupted(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
