package search

import (
	"encoding/binary"
	"math/bits"
)

const (
	wordLo = 0x0101010101010101
	wordHi = 0x8080808080808080
)

// zeroBytes flags bytes of x that are zero by setting their high bit.
// Borrow propagation can flag extra bytes above the first real zero;
// candidates are always confirmed by verify, so that only costs a
// comparison, never a false match.
func zeroBytes(x uint64) uint64 {
	return (x - wordLo) & ^x & wordHi
}

// scan returns the lowest index of a complete pattern match in hay, or
// -1. Candidates are rejected up to eight positions per comparison by
// XORing a word of haystack bytes, taken at the pivot offset, against a
// word filled with the pivot byte.
func (m *Matcher) scan(hay []byte) int {
	patLen := len(m.pattern)
	last := len(hay) - patLen
	if last < 0 {
		return -1
	}

	if !m.turbo {
		// All-zero pattern: no discriminating byte, plain scan.
		for i := 0; i <= last; i++ {
			if hay[i] == 0 && m.verify(hay, i) {
				return i
			}
		}
		return -1
	}

	pv := m.pattern[m.pivot]
	w := uint64(pv) * wordLo

	i := 0
	for ; i+7 <= last && i+m.pivot+8 <= len(hay); i += 8 {
		v := binary.LittleEndian.Uint64(hay[i+m.pivot:])
		z := zeroBytes(v ^ w)
		for z != 0 {
			c := i + bits.TrailingZeros64(z)>>3
			if c <= last && m.verify(hay, c) {
				return c
			}
			z &= z - 1
		}
	}
	for ; i <= last; i++ {
		if hay[i+m.pivot] == pv && m.verify(hay, i) {
			return i
		}
	}
	return -1
}

// scanReverse returns the highest index of a complete pattern match in
// hay, or -1.
func (m *Matcher) scanReverse(hay []byte) int {
	patLen := len(m.pattern)
	last := len(hay) - patLen
	if last < 0 {
		return -1
	}

	if !m.turbo {
		for i := last; i >= 0; i-- {
			if hay[i] == 0 && m.verify(hay, i) {
				return i
			}
		}
		return -1
	}

	pv := m.pattern[m.pivot]
	w := uint64(pv) * wordLo

	i := last
	// base+pivot+8 <= len(hay) holds for any full candidate word below
	// last because pivot < patLen.
	for ; i-7 >= 0; i -= 8 {
		base := i - 7
		v := binary.LittleEndian.Uint64(hay[base+m.pivot:])
		z := zeroBytes(v ^ w)
		for z != 0 {
			k := (63 - bits.LeadingZeros64(z)) >> 3
			c := base + k
			if m.verify(hay, c) {
				return c
			}
			z &^= 0xFF << (8 * k)
		}
	}
	for ; i >= 0; i-- {
		if hay[i+m.pivot] == pv && m.verify(hay, i) {
			return i
		}
	}
	return -1
}

// verify confirms a full pattern match at position i, a machine word at
// a time. The caller guarantees i+len(pattern) <= len(hay).
func (m *Matcher) verify(hay []byte, i int) bool {
	p := m.pattern
	j := 0
	for ; j+8 <= len(p); j += 8 {
		if binary.LittleEndian.Uint64(hay[i+j:]) != binary.LittleEndian.Uint64(p[j:]) {
			return false
		}
	}
	for ; j < len(p); j++ {
		if hay[i+j] != p[j] {
			return false
		}
	}
	return true
}

// foldBytes lower-cases ASCII letters in place.
func foldBytes(b []byte) {
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
}
