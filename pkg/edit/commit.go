package edit

import (
	"context"
	"fmt"
)

// Commit writes the buffer back to the file. A buffer equal to the seed
// is a no-op with no write syscalls. When the buffer length matches the
// seed the region is overwritten in place; otherwise the unaffected
// tail of the file is shifted chunk by chunk to open or close the gap.
//
// The shift phase is not interruptible: once the first tail chunk moves
// the file is inconsistent until the last one lands, so ctx is honored
// only before any byte is written. Shifts larger than the confirmation
// threshold are refused with ErrShiftNeedsConfirm unless allowLargeShift
// is set; the session then parks in StateConfirming so the caller can
// retry after asking the user.
//
// The view is reloaded afterwards regardless of outcome, so the window
// reflects whatever is on disk now.
func (s *Session) Commit(ctx context.Context, allowLargeShift bool) error {
	if s.state != StateEditing && s.state != StateConfirming {
		return fmt.Errorf("%w: state %d", ErrWrongState, s.state)
	}
	if !s.Dirty() {
		s.state = StateIdle
		return nil
	}

	delta := int64(len(s.buf)) - int64(len(s.seed))
	tailStart := s.origin + int64(len(s.seed))
	tailLen := s.v.Size() - tailStart

	if newSize := s.v.Size() + delta; newSize > s.v.MaxSize() {
		s.state = StateFailed
		return fmt.Errorf("%w: %d bytes", ErrOversizedCommit, newSize)
	}
	if delta != 0 && tailLen > s.confirmAbove && !allowLargeShift {
		s.state = StateConfirming
		return fmt.Errorf("%w: %d bytes", ErrShiftNeedsConfirm, tailLen)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.state = StateCommitting
	err := s.write(delta, tailStart, tailLen)

	if xerr := s.v.ExitWrite(); xerr != nil && err == nil {
		err = xerr
	}
	if rerr := s.v.Reload(); rerr != nil && err == nil {
		err = rerr
	}
	if err != nil {
		s.state = StateFailed
		return err
	}
	s.state = StateSuccess
	return nil
}

func (s *Session) write(delta, tailStart, tailLen int64) error {
	if err := s.v.EnterWrite(); err != nil {
		return err
	}

	switch {
	case delta > 0:
		if err := s.shiftDown(tailStart, tailLen, delta); err != nil {
			return err
		}
	case delta < 0:
		if err := s.shiftUp(tailStart, tailLen, -delta); err != nil {
			return err
		}
	}

	if _, err := s.v.WriteAt(s.buf, s.origin); err != nil {
		return err
	}
	if delta < 0 {
		if err := s.v.Truncate(s.v.Size() + delta); err != nil {
			return err
		}
	}
	return s.v.Sync()
}

// shiftDown moves the tail toward higher offsets to make room, working
// from the end backward so no unread byte is overwritten. The first
// chunk write lands past the current end-of-file and extends it.
func (s *Session) shiftDown(tailStart, tailLen, delta int64) error {
	buf := make([]byte, s.chunkSize)
	total := chunks(tailLen, s.chunkSize)
	done := 0

	remaining := tailLen
	for remaining > 0 {
		n := int64(s.chunkSize)
		if n > remaining {
			n = remaining
		}
		src := tailStart + remaining - n
		if err := s.moveChunk(buf[:n], src, src+delta); err != nil {
			return err
		}
		remaining -= n
		done++
		s.report(done, total)
	}
	return nil
}

// shiftUp moves the tail toward lower offsets to close a gap, working
// from the start forward.
func (s *Session) shiftUp(tailStart, tailLen, delta int64) error {
	buf := make([]byte, s.chunkSize)
	total := chunks(tailLen, s.chunkSize)
	done := 0

	moved := int64(0)
	for moved < tailLen {
		n := int64(s.chunkSize)
		if n > tailLen-moved {
			n = tailLen - moved
		}
		src := tailStart + moved
		if err := s.moveChunk(buf[:n], src, src-delta); err != nil {
			return err
		}
		moved += n
		done++
		s.report(done, total)
	}
	return nil
}

func (s *Session) moveChunk(buf []byte, src, dst int64) error {
	n, err := s.v.ReadAt(buf, src)
	if err != nil {
		return err
	}
	if n < len(buf) {
		return fmt.Errorf("short read at %d: %d of %d bytes", src, n, len(buf))
	}
	_, err = s.v.WriteAt(buf, dst)
	return err
}

func (s *Session) report(done, total int) {
	if s.progress != nil {
		s.progress(done, total)
	}
}

func chunks(n int64, chunk int) int {
	return int((n + int64(chunk) - 1) / int64(chunk))
}
