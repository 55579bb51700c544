package fileview_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxCowboy/vbl/pkg/config"
	"github.com/linuxCowboy/vbl/pkg/fileview"
)

// writeTemp creates a file with deterministic content: byte i is i%251,
// so every offset is distinguishable across page boundaries.
func writeTemp(t *testing.T, size int) string {
	t.Helper()
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestOpen_ReadsFirstWindow(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, 4096)
	v, err := fileview.Open(path, fileview.WithCapacity(256))
	require.NoError(t, err)
	defer v.Close()

	assert.Equal(t, int64(4096), v.Size())
	assert.Equal(t, int64(0), v.Offset())
	assert.Equal(t, 256, v.Len())
	assert.Equal(t, byte(0), v.Window()[0])
	assert.Equal(t, byte(255%251), v.Window()[255])
	assert.True(t, v.Editable())
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()

	t.Run("not found", func(t *testing.T) {
		t.Parallel()
		_, err := fileview.Open(filepath.Join(t.TempDir(), "missing"))
		assert.ErrorIs(t, err, fileview.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		_, err := fileview.Open(t.TempDir())
		assert.ErrorIs(t, err, fileview.ErrIsDirectory)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "empty")
		require.NoError(t, os.WriteFile(path, nil, 0o600))
		_, err := fileview.Open(path)
		assert.ErrorIs(t, err, fileview.ErrEmpty)
	})

	t.Run("too large", func(t *testing.T) {
		t.Parallel()
		path := writeTemp(t, 1024)
		_, err := fileview.Open(path, fileview.WithMaxSize(512))
		assert.ErrorIs(t, err, fileview.ErrTooLarge)
	})
}

func TestMoveTo_ClampsToFile(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, 1000)
	v, err := fileview.Open(path, fileview.WithCapacity(256))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.MoveTo(-50))
	assert.Equal(t, int64(0), v.Offset())

	require.NoError(t, v.MoveTo(5000))
	assert.Equal(t, int64(1000), v.Offset())
	assert.Equal(t, 0, v.Len())

	require.NoError(t, v.MoveTo(900))
	assert.Equal(t, int64(900), v.Offset())
	assert.Equal(t, 100, v.Len(), "window is short at end-of-file")
	assert.Equal(t, byte(900%251), v.Window()[0])
}

func TestMoveBy_And_PageStep(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, 10000)
	v, err := fileview.Open(path, fileview.WithCapacity(8*config.LineWidth))
	require.NoError(t, err)
	defer v.Close()

	step := v.PageStep()
	assert.Equal(t, int64(7*config.LineWidth), step, "one line of overlap per page")

	require.NoError(t, v.MoveBy(step))
	assert.Equal(t, step, v.Offset())
	require.NoError(t, v.MoveBy(-2*step))
	assert.Equal(t, int64(0), v.Offset())
}

func TestMoveToEnd_ShowsLastPage(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, 10000)
	v, err := fileview.Open(path, fileview.WithCapacity(256))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.MoveToEnd())
	assert.Equal(t, int64(10000)-v.PageStep(), v.Offset())
	assert.Positive(t, v.Len())
	assert.Equal(t, 100, v.Percent())
}

func TestSkip_MovesByPercent(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, 10000)
	v, err := fileview.Open(path, fileview.WithCapacity(256))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.Skip(5, false))
	assert.Equal(t, int64(500), v.Offset())

	require.NoError(t, v.Skip(1, true))
	assert.Equal(t, int64(400), v.Offset())
}

func TestMarks_SwapTogglesPositions(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, 10000)
	v, err := fileview.Open(path, fileview.WithCapacity(256))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.MoveTo(1000))
	v.SetMark()
	require.NoError(t, v.MoveTo(5000))

	require.NoError(t, v.SwapMark())
	assert.Equal(t, int64(1000), v.Offset())
	require.NoError(t, v.SwapMark())
	assert.Equal(t, int64(5000), v.Offset())
}

func TestSyncTo_CopiesPosition(t *testing.T) {
	t.Parallel()

	a, err := fileview.Open(writeTemp(t, 10000), fileview.WithCapacity(256))
	require.NoError(t, err)
	defer a.Close()
	b, err := fileview.Open(writeTemp(t, 10000), fileview.WithCapacity(256))
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.MoveTo(3000))
	require.NoError(t, b.SyncTo(a))
	assert.Equal(t, int64(3000), b.Offset())
}

func TestSetCapacity_RereadsWindow(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, 10000)
	v, err := fileview.Open(path, fileview.WithCapacity(256))
	require.NoError(t, err)
	defer v.Close()

	require.NoError(t, v.MoveTo(100))
	require.NoError(t, v.SetCapacity(512))
	assert.Equal(t, 512, v.Len())
	assert.Equal(t, byte(100%251), v.Window()[0])
}

func TestReadAt_ShortOnlyAtEOF(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, 1000)
	v, err := fileview.Open(path, fileview.WithCapacity(256))
	require.NoError(t, err)
	defer v.Close()

	buf := make([]byte, 300)
	n, err := v.ReadAt(buf, 900)
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	n, err = v.ReadAt(buf, 100)
	require.NoError(t, err)
	assert.Equal(t, 300, n)
	assert.Equal(t, byte(100%251), buf[0])
}

func TestWriteAt_RequiresWriteMode(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, 1000)
	v, err := fileview.Open(path, fileview.WithCapacity(256))
	require.NoError(t, err)
	defer v.Close()

	_, err = v.WriteAt([]byte{1}, 0)
	require.Error(t, err)

	require.NoError(t, v.EnterWrite())
	_, err = v.WriteAt([]byte{0xAB}, 0)
	require.NoError(t, err)
	require.NoError(t, v.ExitWrite())

	require.NoError(t, v.Reload())
	assert.Equal(t, byte(0xAB), v.Window()[0])
}

func TestClose_RejectsFurtherUse(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, 1000)
	v, err := fileview.Open(path)
	require.NoError(t, err)
	require.NoError(t, v.Close())

	assert.ErrorIs(t, v.MoveTo(0), fileview.ErrClosed)
	_, err = v.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, fileview.ErrClosed)
}
