package raw

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sglx/errs"
	"github.com/arloliu/sglx/meta"
)

// writeBin writes a channel-interleaved little-endian int16 file where the
// word for (ch, t) is t*10 + ch, so every position is distinguishable.
func writeBin(t *testing.T, nChans int, nSamps int) string {
	t.Helper()

	buf := make([]byte, nChans*nSamps*2)
	for samp := 0; samp < nSamps; samp++ {
		for ch := 0; ch < nChans; ch++ {
			off := (samp*nChans + ch) * 2
			binary.LittleEndian.PutUint16(buf[off:], uint16(int16(samp*10+ch)))
		}
	}

	path := filepath.Join(t.TempDir(), "rec.nidq.bin")
	require.NoError(t, os.WriteFile(path, buf, 0o644))

	return path
}

func testMeta(nChans int) meta.Meta {
	return meta.Meta{
		meta.KeySavedChans:   strconv.Itoa(nChans),
		meta.KeyFileTimeSecs: "1.0",
	}
}

func TestOpen(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		path := writeBin(t, 4, 100)
		rec, err := Open(path, testMeta(4))
		require.NoError(t, err)
		defer rec.Close()

		require.Equal(t, 4, rec.Channels())
		require.Equal(t, int64(100), rec.Samples())
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "gone.bin"), testMeta(4))
		require.ErrorIs(t, err, errs.ErrMissingStream)
	})

	t.Run("TruncatedByOneByte", func(t *testing.T) {
		path := writeBin(t, 4, 100)
		require.NoError(t, os.Truncate(path, 4*100*2-1))

		_, err := Open(path, testMeta(4))
		require.ErrorIs(t, err, errs.ErrCorruptRecording)
	})

	t.Run("EmptyFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.bin")
		require.NoError(t, os.WriteFile(path, nil, 0o644))

		_, err := Open(path, testMeta(4))
		require.ErrorIs(t, err, errs.ErrCorruptRecording)
	})

	t.Run("DeclaredSizeMismatch", func(t *testing.T) {
		path := writeBin(t, 4, 100)
		m := testMeta(4)
		m[meta.KeyFileSize] = "808" // geometry-consistent but wrong

		_, err := Open(path, m)
		require.ErrorIs(t, err, errs.ErrCorruptRecording)
	})
}

func TestReadInt16(t *testing.T) {
	path := writeBin(t, 4, 100)
	rec, err := Open(path, testMeta(4))
	require.NoError(t, err)
	defer rec.Close()

	v, err := rec.ReadInt16(2, 7)
	require.NoError(t, err)
	require.Equal(t, int16(72), v)

	v, err = rec.ReadInt16(3, 99)
	require.NoError(t, err)
	require.Equal(t, int16(993), v)

	_, err = rec.ReadInt16(4, 0)
	require.ErrorIs(t, err, errs.ErrRange)
	_, err = rec.ReadInt16(0, 100)
	require.ErrorIs(t, err, errs.ErrRange)
	_, err = rec.ReadInt16(-1, 0)
	require.ErrorIs(t, err, errs.ErrRange)
}

func TestReadRange(t *testing.T) {
	path := writeBin(t, 4, 100)
	rec, err := Open(path, testMeta(4))
	require.NoError(t, err)
	defer rec.Close()

	t.Run("Matrix", func(t *testing.T) {
		m, err := rec.ReadRange(1, 2, 10, 12)
		require.NoError(t, err)
		require.Len(t, m, 2)
		require.Equal(t, []int16{101, 111, 121}, m[0])
		require.Equal(t, []int16{102, 112, 122}, m[1])
	})

	t.Run("Idempotent", func(t *testing.T) {
		first, err := rec.ReadRange(0, 3, 0, 99)
		require.NoError(t, err)
		second, err := rec.ReadRange(0, 3, 0, 99)
		require.NoError(t, err)
		require.Equal(t, first, second, "re-reading the same range must be byte-identical")
	})

	t.Run("SingleSample", func(t *testing.T) {
		m, err := rec.ReadRange(0, 0, 50, 50)
		require.NoError(t, err)
		require.Equal(t, [][]int16{{500}}, m)
	})

	t.Run("OutOfRange", func(t *testing.T) {
		_, err := rec.ReadRange(0, 4, 0, 10)
		require.ErrorIs(t, err, errs.ErrRange)
		_, err = rec.ReadRange(0, 0, 0, 100)
		require.ErrorIs(t, err, errs.ErrRange)
		_, err = rec.ReadRange(2, 1, 0, 10)
		require.ErrorIs(t, err, errs.ErrRange)
		_, err = rec.ReadRange(0, 0, 50, 40)
		require.ErrorIs(t, err, errs.ErrRange)
	})
}

func TestClose(t *testing.T) {
	path := writeBin(t, 4, 10)
	rec, err := Open(path, testMeta(4))
	require.NoError(t, err)

	require.NoError(t, rec.Close())
	require.NoError(t, rec.Close(), "Close must be idempotent")

	_, err = rec.ReadInt16(0, 0)
	require.ErrorIs(t, err, os.ErrClosed)
	_, err = rec.ReadRange(0, 0, 0, 1)
	require.ErrorIs(t, err, os.ErrClosed)
}
