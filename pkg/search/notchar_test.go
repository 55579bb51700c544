package search_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxCowboy/vbl/pkg/search"
)

func TestSeekNotChar_Downward(t *testing.T) {
	t.Parallel()

	// 3000 bytes of zero padding, then payload.
	data := append(bytes.Repeat([]byte{0x00}, 3000), bytes.Repeat([]byte{0x55}, 1000)...)
	v := openTemp(t, data)

	res, err := search.SeekNotChar(context.Background(), v, 256, false)
	require.NoError(t, err)
	assert.Equal(t, search.Found, res)
	assert.Equal(t, int64(3000), v.Offset())
}

func TestSeekNotChar_Upward(t *testing.T) {
	t.Parallel()

	// Payload, then a long run of 0xFF that the view sits inside.
	data := append(bytes.Repeat([]byte{0x55}, 1000), bytes.Repeat([]byte{0xFF}, 3000)...)
	v := openTemp(t, data)
	require.NoError(t, v.MoveTo(2000))

	res, err := search.SeekNotChar(context.Background(), v, 256, true)
	require.NoError(t, err)
	assert.Equal(t, search.Found, res)

	// The last differing byte is at 999; the view backs off one page so
	// the hit is visible at the bottom of the window.
	assert.Equal(t, int64(999)-v.PageStep(), v.Offset())
}

func TestSeekNotChar_UniformFile(t *testing.T) {
	t.Parallel()

	v := openTemp(t, bytes.Repeat([]byte{0x00}, 2048))

	res, err := search.SeekNotChar(context.Background(), v, 256, false)
	require.NoError(t, err)
	assert.Equal(t, search.NotFound, res)
	assert.Equal(t, v.Size()-v.PageStep(), v.Offset())

	require.NoError(t, v.MoveTo(1000))
	res, err = search.SeekNotChar(context.Background(), v, 256, true)
	require.NoError(t, err)
	assert.Equal(t, search.NotFound, res)
	assert.Equal(t, int64(0), v.Offset())
}
