// Package scroll implements the single-file "smart scroll": advancing
// the window while collapsing runs of identical lines, so a page of
// output shows only lines that differ from the line above them.
package scroll

import (
	"bytes"
	"context"

	"github.com/linuxCowboy/vbl/pkg/config"
	"github.com/linuxCowboy/vbl/pkg/fileview"
)

// Result classifies a scroll outcome.
type Result int

const (
	// Done means a full or final page was produced.
	Done Result = iota

	// Interrupted means the caller cancelled; the page holds the lines
	// emitted so far and the next call resumes where the scan stopped.
	Interrupted
)

// Page is the rendered result of one smart scroll step.
type Page struct {
	// Offset is the file offset of the first emitted line.
	Offset int64

	// Data holds the emitted lines, a multiple of the line width except
	// possibly a short final line at end-of-file.
	Data []byte

	// Skips holds, per emitted line, how many identical lines were
	// collapsed between it and the previous emitted line. The true file
	// offset of line i is therefore cumulative:
	// Offset + sum(lines+skips before i) * LineWidth.
	Skips []int64

	// Collapsed reports whether any lines were skipped at all.
	Collapsed bool
}

// Engine drives repeated smart scrolls over one view.
type Engine struct {
	v *fileview.View

	scrollOff  int64 // resume offset; 0 = inactive
	blockPages int
}

// Option configures an Engine.
type Option func(*Engine)

// WithBlockPages sets how many window-sized pages are read per block.
func WithBlockPages(n int) Option {
	return func(e *Engine) { e.blockPages = n }
}

// New creates a scroll engine for a view.
func New(v *fileview.View, opts ...Option) *Engine {
	e := &Engine{
		v:          v,
		blockPages: 1000,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Active reports whether a previous scroll left a resume position.
func (e *Engine) Active() bool { return e.scrollOff != 0 }

// Reset drops the resume position. Any non-scroll navigation calls this.
func (e *Engine) Reset() { e.scrollOff = 0 }

// Scroll advances by one collapsed page. Near end-of-file it degrades to
// a plain page move with no collapsing.
func (e *Engine) Scroll(ctx context.Context) (*Page, Result, error) {
	lineWidth := config.LineWidth
	capacity := e.v.Capacity()
	numLines := capacity / lineWidth

	newPos := e.scrollOff
	if newPos == 0 {
		newPos = (e.v.Offset() + 0x10) &^ 0xF
	}

	// Too close to the end to collapse anything: plain move.
	if e.v.Size()-newPos < int64(capacity) {
		e.scrollOff = 0
		if err := e.v.MoveTo(newPos); err != nil {
			return nil, Done, err
		}
		return &Page{Offset: e.v.Offset(), Data: e.v.Window()}, Done, nil
	}

	page := &Page{
		Offset: newPos,
		Data:   make([]byte, 0, capacity),
		Skips:  make([]int64, 0, numLines),
	}

	block := make([]byte, e.blockPages*capacity)
	var repeat int64
	consumed := int64(0) // bytes walked past newPos
	emitted := 0
	var last []byte

	emit := func(line []byte) {
		page.Data = append(page.Data, line...)
		page.Skips = append(page.Skips, repeat)
		if repeat > 0 {
			page.Collapsed = true
		}
		last = page.Data[len(page.Data)-len(line):]
		repeat = 0
		emitted++
	}

	for emitted < numLines {
		if canceled(ctx) {
			e.scrollOff = newPos + consumed
			return page, Interrupted, nil
		}
		n, err := e.v.ReadAt(block, newPos+consumed)
		if err != nil {
			return nil, Done, err
		}
		if n == 0 {
			// End of file: flush a pending repeated line.
			if repeat > 0 {
				repeat--
				emit(last)
			}
			break
		}

		walked := 0
		for walked+lineWidth <= n && emitted < numLines {
			line := block[walked : walked+lineWidth]
			if last == nil || !bytes.Equal(line, last) {
				emit(line)
			} else {
				repeat++
			}
			walked += lineWidth
		}
		consumed += int64(walked)

		if emitted >= numLines {
			break
		}
		if tail := n - walked; tail > 0 && tail < lineWidth && walked+tail == n && n < len(block) {
			// Short final line at end-of-file.
			page.Skips = append(page.Skips, repeat)
			page.Data = append(page.Data, block[walked:n]...)
			consumed += int64(tail)
			repeat = 0
			break
		}
	}

	e.scrollOff = newPos + consumed
	if err := e.v.MoveTo(newPos); err != nil {
		return nil, Done, err
	}
	return page, Done, nil
}

func canceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
