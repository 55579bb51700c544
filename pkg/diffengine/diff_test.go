package diffengine_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxCowboy/vbl/pkg/diffengine"
	"github.com/linuxCowboy/vbl/pkg/fileview"
)

func openPair(t *testing.T, a, b []byte) (*fileview.View, *fileview.View) {
	t.Helper()
	dir := t.TempDir()
	pa := filepath.Join(dir, "a.bin")
	pb := filepath.Join(dir, "b.bin")
	require.NoError(t, os.WriteFile(pa, a, 0o600))
	require.NoError(t, os.WriteFile(pb, b, 0o600))

	va, err := fileview.Open(pa, fileview.WithCapacity(256))
	require.NoError(t, err)
	t.Cleanup(func() { _ = va.Close() })
	vb, err := fileview.Open(pb, fileview.WithCapacity(256))
	require.NoError(t, err)
	t.Cleanup(func() { _ = vb.Close() })
	return va, vb
}

func TestCompute_FlagsDifferingBytes(t *testing.T) {
	t.Parallel()

	a := bytes.Repeat([]byte{0x11}, 1024)
	b := bytes.Repeat([]byte{0x11}, 1024)
	b[3] = 0xFF
	b[100] = 0xFF

	va, vb := openPair(t, a, b)
	eng := diffengine.New(va, vb)

	count, err := eng.Compute()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, count, eng.Count())

	flags := eng.Flags()
	assert.True(t, flags[3])
	assert.True(t, flags[100])
	assert.False(t, flags[0])
}

func TestCompute_ExcessLengthIsAllDifferent(t *testing.T) {
	t.Parallel()

	a := bytes.Repeat([]byte{0x22}, 100)
	b := bytes.Repeat([]byte{0x22}, 160)

	va, vb := openPair(t, a, b)
	eng := diffengine.New(va, vb)

	count, err := eng.Compute()
	require.NoError(t, err)
	assert.Equal(t, 60, count)

	flags := eng.Flags()
	assert.False(t, flags[99])
	for i := 100; i < 160; i++ {
		require.True(t, flags[i], "byte %d past the shorter file", i)
	}
}

func TestNext_FindsDifference(t *testing.T) {
	t.Parallel()

	size := 100_000
	a := bytes.Repeat([]byte{0x33}, size)
	b := bytes.Repeat([]byte{0x33}, size)
	b[50_000] = 0x00

	va, vb := openPair(t, a, b)
	eng := diffengine.New(va, vb, diffengine.WithSkipBlock(4096))

	res, err := eng.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, diffengine.Found, res)
	assert.Equal(t, va.Offset(), vb.Offset())

	// The difference is inside the landed window.
	off := int(va.Offset())
	assert.LessOrEqual(t, off, 50_000)
	assert.Greater(t, off+va.Len(), 50_000)
	assert.Positive(t, eng.Count())
}

func TestNext_SkipMatchesPlainPaging(t *testing.T) {
	t.Parallel()

	// Differences sprinkled so some fall inside skippable regions and
	// some right after them.
	size := 300_000
	a := bytes.Repeat([]byte{0x44}, size)
	b := bytes.Repeat([]byte{0x44}, size)
	for _, off := range []int{10_000, 10_031, 150_017, 299_990} {
		b[off] = 0xAB
	}

	landings := func(skipBlock int) []int64 {
		va, vb := openPair(t, a, b)
		opts := []diffengine.Option{diffengine.WithSkipBlock(skipBlock)}
		eng := diffengine.New(va, vb, opts...)

		var out []int64
		ctx := context.Background()
		for {
			res, err := eng.Next(ctx)
			require.NoError(t, err)
			if res != diffengine.Found {
				break
			}
			out = append(out, va.Offset())
		}
		return out
	}

	// A skip block smaller than two pages disables the bulk skip.
	plain := landings(1)
	skipped := landings(8192)
	assert.Equal(t, plain, skipped, "bulk skip must not change navigation")
	assert.NotEmpty(t, plain)
}

func TestNext_IdenticalFilesStopAtEOF(t *testing.T) {
	t.Parallel()

	a := bytes.Repeat([]byte{0x55}, 10_000)
	va, vb := openPair(t, a, a)
	eng := diffengine.New(va, vb, diffengine.WithSkipBlock(2048))

	res, err := eng.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, diffengine.NotFound, res)
	assert.Zero(t, eng.Count())
}

func TestPrev_FindsEarlierDifference(t *testing.T) {
	t.Parallel()

	size := 100_000
	a := bytes.Repeat([]byte{0x66}, size)
	b := bytes.Repeat([]byte{0x66}, size)
	b[20_000] = 0x01

	va, vb := openPair(t, a, b)
	require.NoError(t, va.MoveTo(90_000))
	require.NoError(t, vb.MoveTo(90_000))

	eng := diffengine.New(va, vb, diffengine.WithSkipBlock(4096))
	res, err := eng.Prev(context.Background())
	require.NoError(t, err)
	assert.Equal(t, diffengine.Found, res)

	off := int(va.Offset())
	assert.LessOrEqual(t, off, 20_000)
	assert.Greater(t, off+va.Len(), 20_000)
}

func TestPrev_StopsAtStart(t *testing.T) {
	t.Parallel()

	a := bytes.Repeat([]byte{0x77}, 10_000)
	va, vb := openPair(t, a, a)
	require.NoError(t, va.MoveTo(5000))
	require.NoError(t, vb.MoveTo(5000))

	eng := diffengine.New(va, vb, diffengine.WithSkipBlock(1024))
	res, err := eng.Prev(context.Background())
	require.NoError(t, err)
	assert.Equal(t, diffengine.NotFound, res)
	assert.Equal(t, int64(0), va.Offset())
}

func TestNext_Interrupted(t *testing.T) {
	t.Parallel()

	a := bytes.Repeat([]byte{0x88}, 10_000)
	va, vb := openPair(t, a, a)
	eng := diffengine.New(va, vb)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := eng.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, diffengine.Interrupted, res)
}
