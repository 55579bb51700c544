package search_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxCowboy/vbl/pkg/fileview"
	"github.com/linuxCowboy/vbl/pkg/search"
)

func openTemp(t *testing.T, data []byte) *fileview.View {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hay.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	v, err := fileview.Open(path, fileview.WithCapacity(256))
	require.NoError(t, err)
	t.Cleanup(func() { _ = v.Close() })
	return v
}

// plant builds a filler buffer and writes pattern at the given offsets.
func plant(size int, pattern []byte, offsets ...int) []byte {
	data := bytes.Repeat([]byte{0xEE}, size)
	for _, off := range offsets {
		copy(data[off:], pattern)
	}
	return data
}

func TestNew_RejectsEmptyPattern(t *testing.T) {
	t.Parallel()

	_, err := search.New(nil)
	assert.ErrorIs(t, err, search.ErrEmptyPattern)
}

func TestForward_FindsAndRepositions(t *testing.T) {
	t.Parallel()

	pattern := []byte("needle")
	v := openTemp(t, plant(8000, pattern, 5000))

	m, err := search.New(pattern, search.WithIndent(96))
	require.NoError(t, err)

	res, err := m.Forward(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, search.Found, res)
	assert.Equal(t, int64(5000), m.MatchOffset())
	assert.Equal(t, int64(5000-96), v.Offset(), "match shown with leading context")
}

func TestForward_MatchStraddlesBlockSeam(t *testing.T) {
	t.Parallel()

	pattern := []byte("seamtest")
	// Block size 64: a match at 60 crosses the first seam.
	v := openTemp(t, plant(512, pattern, 60))

	m, err := search.New(pattern, search.WithBlockSizes(64, 64))
	require.NoError(t, err)

	res, err := m.Forward(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, search.Found, res)
	assert.Equal(t, int64(60), m.MatchOffset())
}

func TestForward_RepeatAdvancesPastLastMatch(t *testing.T) {
	t.Parallel()

	pattern := []byte{0xCA, 0xFE}
	v := openTemp(t, plant(4096, pattern, 100, 101+1, 3000))
	// Overlapping occurrence directly after the first: 0xCA 0xFE at 100,
	// again at 102, then far away at 3000.

	m, err := search.New(pattern)
	require.NoError(t, err)

	ctx := context.Background()
	for _, want := range []int64{100, 102, 3000} {
		res, err := m.Forward(ctx, v)
		require.NoError(t, err)
		require.Equal(t, search.Found, res)
		assert.Equal(t, want, m.MatchOffset())
	}

	res, err := m.Forward(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, search.NotFound, res)
	assert.Equal(t, v.Size()-v.PageStep(), v.Offset(), "exhausted scan parks at the end")
}

func TestForward_NoFalseMatch(t *testing.T) {
	t.Parallel()

	v := openTemp(t, bytes.Repeat([]byte{0xAA, 0xBB}, 2048))

	m, err := search.New([]byte{0xAA, 0xBB, 0xCC})
	require.NoError(t, err)

	res, err := m.Forward(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, search.NotFound, res)
}

func TestForward_CaseFold(t *testing.T) {
	t.Parallel()

	v := openTemp(t, plant(1024, []byte("NeEdLe"), 500))

	m, err := search.New([]byte("needle"), search.WithCaseFold())
	require.NoError(t, err)

	res, err := m.Forward(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, search.Found, res)
	assert.Equal(t, int64(500), m.MatchOffset())
}

func TestForward_ZeroLeadPattern(t *testing.T) {
	t.Parallel()

	// Leading zero bytes: the skip word pivots on the first non-zero one.
	pattern := []byte{0x00, 0x00, 0x7F}
	v := openTemp(t, plant(2048, pattern, 700))

	m, err := search.New(pattern)
	require.NoError(t, err)

	res, err := m.Forward(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, search.Found, res)
	assert.Equal(t, int64(700), m.MatchOffset())
}

func TestForward_AllZeroPattern(t *testing.T) {
	t.Parallel()

	data := bytes.Repeat([]byte{0xFF}, 1024)
	copy(data[640:], []byte{0x00, 0x00, 0x00, 0x00})
	v := openTemp(t, data)

	m, err := search.New([]byte{0x00, 0x00, 0x00, 0x00})
	require.NoError(t, err)

	res, err := m.Forward(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, search.Found, res)
	assert.Equal(t, int64(640), m.MatchOffset())
}

func TestForward_SingleBytePattern(t *testing.T) {
	t.Parallel()

	v := openTemp(t, plant(4096, []byte{0x42}, 1234))

	m, err := search.New([]byte{0x42})
	require.NoError(t, err)

	res, err := m.Forward(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, search.Found, res)
	assert.Equal(t, int64(1234), m.MatchOffset())
}

func TestForward_Interrupted(t *testing.T) {
	t.Parallel()

	pattern := []byte("unreachable")
	v := openTemp(t, plant(4096, pattern, 4000))

	m, err := search.New(pattern, search.WithBlockSizes(64, 64))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := m.Forward(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, search.Interrupted, res)
	assert.LessOrEqual(t, v.Offset(), int64(4000), "never left past an unseen match")
	assert.Equal(t, int64(-1), m.MatchOffset())
}

func TestBackward_FindsNearestBefore(t *testing.T) {
	t.Parallel()

	pattern := []byte("marker")
	v := openTemp(t, plant(8000, pattern, 1000, 4000))
	require.NoError(t, v.MoveTo(6000))

	m, err := search.New(pattern, search.WithBlockSizes(256, 256))
	require.NoError(t, err)

	ctx := context.Background()
	res, err := m.Backward(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, search.Found, res)
	assert.Equal(t, int64(4000), m.MatchOffset())

	res, err = m.Backward(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, search.Found, res)
	assert.Equal(t, int64(1000), m.MatchOffset())

	res, err = m.Backward(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, search.NotFound, res)
	assert.Equal(t, int64(0), v.Offset(), "exhausted scan parks at the start")
}

func TestBackward_MatchStraddlesBlockSeam(t *testing.T) {
	t.Parallel()

	pattern := []byte("seamtest")
	// Backward block 128: a match at 124 straddles the 128 boundary when
	// scanning down from 512.
	v := openTemp(t, plant(512, pattern, 124))
	require.NoError(t, v.MoveTo(400))

	m, err := search.New(pattern, search.WithBlockSizes(128, 128))
	require.NoError(t, err)

	res, err := m.Backward(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, search.Found, res)
	assert.Equal(t, int64(124), m.MatchOffset())
}

func TestBackward_ExcludesMatchAtOffset(t *testing.T) {
	t.Parallel()

	pattern := []byte("here")
	v := openTemp(t, plant(2048, pattern, 500))
	require.NoError(t, v.MoveTo(500))

	m, err := search.New(pattern)
	require.NoError(t, err)

	res, err := m.Backward(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, search.NotFound, res, "a match at the offset itself is not before it")
}

func TestReset_ForgetsResumeState(t *testing.T) {
	t.Parallel()

	pattern := []byte("again")
	v := openTemp(t, plant(2048, pattern, 300))

	m, err := search.New(pattern)
	require.NoError(t, err)

	ctx := context.Background()
	res, err := m.Forward(ctx, v)
	require.NoError(t, err)
	require.Equal(t, search.Found, res)

	// Without Reset the next Forward would move past 300. After Reset it
	// starts from the view's offset again and refinds the same match.
	m.Reset()
	require.NoError(t, v.MoveTo(0))
	res, err = m.Forward(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, search.Found, res)
	assert.Equal(t, int64(300), m.MatchOffset())
}
