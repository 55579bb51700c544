// Package diffengine compares the windows of two file views byte by
// byte and drives next/previous-difference navigation, skipping long
// identical regions with a large-block bulk equality check.
package diffengine

import (
	"context"

	"github.com/linuxCowboy/vbl/pkg/fileview"
)

// Result classifies the outcome of a Next/Prev navigation.
type Result int

const (
	// NotFound means no further difference exists in that direction.
	// The views are left at the end (or start) of the files.
	NotFound Result = iota

	// Found means both views are positioned on a window containing at
	// least one differing byte.
	Found

	// Interrupted means the caller cancelled; the views are left at the
	// last page boundary compared.
	Interrupted
)

// Engine owns the diff flag buffer for a pair of views.
type Engine struct {
	top, bottom *fileview.View

	flags []bool
	count int

	skipBlock  int
	bufA, bufB []byte
}

// Option configures an Engine.
type Option func(*Engine)

// WithSkipBlock overrides the bulk-equality block size.
func WithSkipBlock(n int) Option {
	return func(e *Engine) { e.skipBlock = n }
}

// New creates a diff engine over two views.
func New(top, bottom *fileview.View, opts ...Option) *Engine {
	e := &Engine{
		top:       top,
		bottom:    bottom,
		skipBlock: 32 << 20,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Flags returns the per-byte difference flags for the current windows.
// The slice is owned by the engine; callers must not modify it.
func (e *Engine) Flags() []bool { return e.flags }

// Count returns the number of differing positions found by the last
// Compute.
func (e *Engine) Count() int { return e.count }

// Compute clears and refills the flag buffer for the current windows
// and returns the number of differing positions. A view whose window is
// entirely empty (moved fully past end-of-file) is snapped back to its
// last page first, so the diff display always shows trailing context.
func (e *Engine) Compute() (int, error) {
	if e.top.Len() == 0 && e.top.Offset() > 0 {
		if err := e.top.MoveToEnd(); err != nil {
			return 0, err
		}
	}
	if e.bottom.Len() == 0 && e.bottom.Offset() > 0 {
		if err := e.bottom.MoveToEnd(); err != nil {
			return 0, err
		}
	}

	a, b := e.top.Window(), e.bottom.Window()
	short, long := len(a), len(b)
	if short > long {
		short, long = long, short
	}

	if cap(e.flags) < long {
		e.flags = make([]bool, long)
	}
	e.flags = e.flags[:long]
	for i := range e.flags {
		e.flags[i] = false
	}

	count := 0
	for i := 0; i < short; i++ {
		if a[i] != b[i] {
			e.flags[i] = true
			count++
		}
	}
	// Excess length of the longer window counts as all-different.
	for i := short; i < long; i++ {
		e.flags[i] = true
		count++
	}

	e.count = count
	return count, nil
}

// pageStep returns the common page step of the two views.
func (e *Engine) pageStep() int64 {
	p := e.top.PageStep()
	if bp := e.bottom.PageStep(); bp < p {
		p = bp
	}
	return p
}

// bothAtEnd reports whether both windows already reach their files'
// ends, so no forward step can show anything new.
func (e *Engine) bothAtEnd() bool {
	return e.top.Offset()+int64(e.top.Len()) >= e.top.Size() &&
		e.bottom.Offset()+int64(e.bottom.Len()) >= e.bottom.Size()
}

// Next advances both views page by page to the next window containing a
// difference. Identical spans are skipped a whole block at a time.
func (e *Engine) Next(ctx context.Context) (Result, error) {
	page := e.pageStep()
	for {
		select {
		case <-ctx.Done():
			return Interrupted, nil
		default:
		}

		// Checked before moving: the snap in Compute parks a finished
		// view one page before its end, which would otherwise bounce
		// between that page and end-of-file forever.
		if e.bothAtEnd() {
			if _, err := e.Compute(); err != nil {
				return NotFound, err
			}
			return NotFound, nil
		}

		skipped, err := e.skipForward(page)
		if err != nil {
			return NotFound, err
		}
		if !skipped {
			if err := e.top.MoveBy(page); err != nil {
				return NotFound, err
			}
			if err := e.bottom.MoveBy(page); err != nil {
				return NotFound, err
			}
			count, err := e.Compute()
			if err != nil {
				return NotFound, err
			}
			if count > 0 {
				return Found, nil
			}
		}
	}
}

// Prev steps both views backward to the previous differing window.
func (e *Engine) Prev(ctx context.Context) (Result, error) {
	page := e.pageStep()
	for {
		select {
		case <-ctx.Done():
			return Interrupted, nil
		default:
		}

		// At the start of either file there is nothing further back;
		// stop rather than looping on offset zero.
		if e.top.Offset() == 0 || e.bottom.Offset() == 0 {
			if _, err := e.Compute(); err != nil {
				return NotFound, err
			}
			return NotFound, nil
		}

		skipped, err := e.skipBackward(page)
		if err != nil {
			return NotFound, err
		}
		if !skipped {
			if err := e.top.MoveBy(-page); err != nil {
				return NotFound, err
			}
			if err := e.bottom.MoveBy(-page); err != nil {
				return NotFound, err
			}
			count, err := e.Compute()
			if err != nil {
				return NotFound, err
			}
			if count > 0 {
				return Found, nil
			}
		}
	}
}
