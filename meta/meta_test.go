package meta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sglx/errs"
	"github.com/arloliu/sglx/format"
)

func writeMeta(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rec.nidq.meta")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

const nidqSidecar = `niSampRate=25000
nSavedChans=257
fileTimeSecs=10.0
fileSizeBytes=128500000
typeThis=nidq
snsMnMaXaDw=192,64,0,1
~snsChanMap=(256,0,0)(MN0;0:0)
`

func TestReadMeta(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		m, err := ReadMeta(writeMeta(t, nidqSidecar))
		require.NoError(t, err)

		n, err := m.ChannelCount()
		require.NoError(t, err)
		require.Equal(t, 257, n)

		secs, err := m.FileTimeSecs()
		require.NoError(t, err)
		require.InDelta(t, 10.0, secs, 0)

		size, ok := m.FileSizeBytes()
		require.True(t, ok)
		require.Equal(t, int64(128500000), size)

		require.Equal(t, format.StreamNIDQ, m.Stream())

		// '~' prefix of table-valued keys is stripped.
		v, ok := m.Str("snsChanMap")
		require.True(t, ok)
		require.Equal(t, "(256,0,0)(MN0;0:0)", v)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := ReadMeta(filepath.Join(t.TempDir(), "nope.meta"))
		require.ErrorIs(t, err, errs.ErrMetadataParse)
	})

	t.Run("MalformedLine", func(t *testing.T) {
		_, err := ReadMeta(writeMeta(t, "niSampRate=25000\nnot a pair\n"))
		require.ErrorIs(t, err, errs.ErrMetadataParse)
	})

	t.Run("MissingRequiredKey", func(t *testing.T) {
		_, err := ReadMeta(writeMeta(t, "niSampRate=25000\nnSavedChans=8\n"))
		require.ErrorIs(t, err, errs.ErrMetadataParse)
	})

	t.Run("NonNumericDuration", func(t *testing.T) {
		_, err := ReadMeta(writeMeta(t, "nSavedChans=8\nfileTimeSecs=ten\n"))
		require.ErrorIs(t, err, errs.ErrMetadataParse)
	})

	t.Run("NegativeDuration", func(t *testing.T) {
		_, err := ReadMeta(writeMeta(t, "nSavedChans=8\nfileTimeSecs=-1\n"))
		require.ErrorIs(t, err, errs.ErrMetadataParse)
	})

	t.Run("ValueWithEquals", func(t *testing.T) {
		m, err := ReadMeta(writeMeta(t, "nSavedChans=8\nfileTimeSecs=1\nimroTbl=(0,384)=foo\n"))
		require.NoError(t, err)
		v, _ := m.Str("imroTbl")
		require.Equal(t, "(0,384)=foo", v, "split must happen on the first '=' only")
	})
}

func TestSidecarPath(t *testing.T) {
	p, err := SidecarPath("/data/sess1/run_g0_t0.nidq.bin")
	require.NoError(t, err)
	require.Equal(t, "/data/sess1/run_g0_t0.nidq.meta", p)

	_, err = SidecarPath("/data/sess1/notes.txt")
	require.ErrorIs(t, err, errs.ErrMetadataParse)
}

func TestNIChannelCounts(t *testing.T) {
	m, err := ReadMeta(writeMeta(t, nidqSidecar))
	require.NoError(t, err)

	mn, ma, xa, dw, err := m.NIChannelCounts()
	require.NoError(t, err)
	require.Equal(t, []int{192, 64, 0, 1}, []int{mn, ma, xa, dw})

	t.Run("Missing", func(t *testing.T) {
		_, _, _, _, err := Meta{}.NIChannelCounts()
		require.ErrorIs(t, err, errs.ErrMetadataParse)
	})

	t.Run("WrongArity", func(t *testing.T) {
		_, _, _, _, err := Meta{KeyNIChanCounts: "1,2,3"}.NIChannelCounts()
		require.ErrorIs(t, err, errs.ErrMetadataParse)
	})
}
