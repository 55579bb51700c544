package diffengine

import "bytes"

// skipForward tries to jump both views over a long identical region in
// one step. It reads one large block from each file just past the
// current windows and bulk-compares them; on equality every intermediate
// page is known to be identical and both views advance by the whole
// block. Returns false when the block is short, unequal, or the
// configured block is too small to beat plain paging.
func (e *Engine) skipForward(page int64) (bool, error) {
	skipPages := int64(e.skipBlock) / page
	if skipPages < 2 {
		return false, nil
	}
	span := e.ensureBuffers(skipPages*page + int64(e.maxCapacity()))

	na, err := e.top.ReadAt(e.bufA[:span], e.top.Offset()+page)
	if err != nil {
		return false, err
	}
	nb, err := e.bottom.ReadAt(e.bufB[:span], e.bottom.Offset()+page)
	if err != nil {
		return false, err
	}
	if int64(na) < span || int64(nb) < span {
		return false, nil
	}
	if !bytes.Equal(e.bufA[:span], e.bufB[:span]) {
		return false, nil
	}

	if err := e.top.MoveBy(skipPages * page); err != nil {
		return false, err
	}
	if err := e.bottom.MoveBy(skipPages * page); err != nil {
		return false, err
	}
	return true, nil
}

// skipBackward is the mirror of skipForward for Prev navigation.
func (e *Engine) skipBackward(page int64) (bool, error) {
	skipPages := int64(e.skipBlock) / page
	if skipPages < 2 {
		return false, nil
	}
	if e.top.Offset() < skipPages*page || e.bottom.Offset() < skipPages*page {
		return false, nil
	}
	span := e.ensureBuffers(skipPages*page + int64(e.maxCapacity()))

	na, err := e.top.ReadAt(e.bufA[:span], e.top.Offset()-skipPages*page)
	if err != nil {
		return false, err
	}
	nb, err := e.bottom.ReadAt(e.bufB[:span], e.bottom.Offset()-skipPages*page)
	if err != nil {
		return false, err
	}
	if int64(na) < span || int64(nb) < span {
		return false, nil
	}
	if !bytes.Equal(e.bufA[:span], e.bufB[:span]) {
		return false, nil
	}

	if err := e.top.MoveBy(-skipPages * page); err != nil {
		return false, err
	}
	if err := e.bottom.MoveBy(-skipPages * page); err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) maxCapacity() int {
	c := e.top.Capacity()
	if bc := e.bottom.Capacity(); bc > c {
		c = bc
	}
	return c
}

// ensureBuffers sizes the two staging buffers, reusing them across
// navigation steps.
func (e *Engine) ensureBuffers(span int64) int64 {
	n := int(span)
	if cap(e.bufA) < n {
		e.bufA = make([]byte, n)
		e.bufB = make([]byte, n)
	}
	e.bufA = e.bufA[:n]
	e.bufB = e.bufB[:n]
	return span
}
