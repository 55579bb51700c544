package search

import (
	"context"

	"github.com/linuxCowboy/vbl/pkg/fileview"
)

// SeekNotChar positions the view at the next byte (or previous, when
// upward is set) that differs from the first byte of the current window.
// Runs of a single value are common in firmware images; this jumps past
// them in one command.
func SeekNotChar(ctx context.Context, v *fileview.View, blockSize int, upward bool) (Result, error) {
	if v.Len() == 0 {
		return NotFound, nil
	}
	head := v.Window()[0]
	buf := make([]byte, blockSize)

	if upward {
		end := v.Offset()
		for end > 0 {
			if interrupted(ctx) {
				if err := v.MoveTo(end); err != nil {
					return Interrupted, err
				}
				return Interrupted, nil
			}
			blockStart := end - int64(blockSize)
			if blockStart < 0 {
				blockStart = 0
			}
			n, err := v.ReadAt(buf[:end-blockStart], blockStart)
			if err != nil {
				return NotFound, err
			}
			for i := n - 1; i >= 0; i-- {
				if buf[i] != head {
					hit := blockStart + int64(i)
					// Back off a page so the hit lands at the bottom
					// of the window instead of the top.
					if hit >= v.PageStep() {
						hit -= v.PageStep()
					}
					return Found, v.MoveTo(hit)
				}
			}
			end = blockStart
		}
		return NotFound, v.MoveTo(0)
	}

	pos := v.Offset() + 1
	for {
		if interrupted(ctx) {
			if err := v.MoveTo(pos); err != nil {
				return Interrupted, err
			}
			return Interrupted, nil
		}
		n, err := v.ReadAt(buf, pos)
		if err != nil {
			return NotFound, err
		}
		if n == 0 {
			return NotFound, v.MoveToEnd()
		}
		for i := 0; i < n; i++ {
			if buf[i] != head {
				return Found, v.MoveTo(pos + int64(i))
			}
		}
		pos += int64(n)
	}
}
