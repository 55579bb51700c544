package search

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadHex is returned by ParseHex for input that is not hex bytes.
var ErrBadHex = errors.New("invalid hex pattern")

// ParseHex converts a space-separated hex string ("AA BB cc 0d") into
// pattern bytes. Single digits stand for a byte with a zero high nibble.
func ParseHex(s string) ([]byte, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrBadHex)
	}
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			return nil, fmt.Errorf("%w: %q is longer than one byte", ErrBadHex, f)
		}
		var b byte
		for _, c := range []byte(f) {
			n, ok := hexNibble(c)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrBadHex, f)
			}
			b = b<<4 | n
		}
		out = append(out, b)
	}
	return out, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
