package artifact

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/sglx/errs"
	"github.com/arloliu/sglx/format"
)

func sampleArtifact() *Artifact {
	return &Artifact{
		PrimaryRate: 25000.5,
		Iterations:  []int64{500, 1500, 2500, 3500, 4500, 5500},
		ProbeRates:  map[int]float64{0: 30000.271, 2: 29999.934},
		Missing:     map[int]string{1: "expected stream file not found: imec1"},
	}
}

func TestArtifactValidate(t *testing.T) {
	require.NoError(t, sampleArtifact().Validate())

	t.Run("ZeroRate", func(t *testing.T) {
		a := sampleArtifact()
		a.PrimaryRate = 0
		require.ErrorIs(t, a.Validate(), errs.ErrInvalidPayload)
	})

	t.Run("NonMonotonic", func(t *testing.T) {
		a := sampleArtifact()
		a.Iterations = []int64{10, 10}
		require.ErrorIs(t, a.Validate(), errs.ErrInvalidPayload)
	})

	t.Run("NegativeIndex", func(t *testing.T) {
		a := sampleArtifact()
		a.Iterations = []int64{-1, 5}
		require.ErrorIs(t, a.Validate(), errs.ErrInvalidPayload)
	})

	t.Run("ProbeBothResolvedAndMissing", func(t *testing.T) {
		a := sampleArtifact()
		a.Missing[0] = "also missing"
		require.ErrorIs(t, a.Validate(), errs.ErrInvalidPayload)
	})

	t.Run("EmptyIterationsValid", func(t *testing.T) {
		a := sampleArtifact()
		a.Iterations = nil
		require.NoError(t, a.Validate())
	})
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		opts []EncoderOption
	}{
		{"Defaults", nil},
		{"RawEncoding", []EncoderOption{WithEncoding(format.TypeRaw)}},
		{"BigEndian", []EncoderOption{WithBigEndian()}},
		{"Zstd", []EncoderOption{WithCompression(format.CompressionZstd)}},
		{"LZ4Raw", []EncoderOption{WithCompression(format.CompressionLZ4), WithEncoding(format.TypeRaw)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc, err := NewEncoder(tc.opts...)
			require.NoError(t, err)

			want := sampleArtifact()
			data, err := enc.Encode(want)
			require.NoError(t, err)

			got, err := Decode(data)
			require.NoError(t, err)
			require.Equal(t, want.PrimaryRate, got.PrimaryRate)
			require.Equal(t, want.Iterations, got.Iterations)
			require.Equal(t, want.ProbeRates, got.ProbeRates)
			require.Equal(t, want.Missing, got.Missing)
		})
	}
}

func TestEncodeEmptyIterations(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	a := &Artifact{
		PrimaryRate: 1000,
		Iterations:  []int64{},
		ProbeRates:  map[int]float64{},
		Missing:     map[int]string{},
	}

	data, err := enc.Encode(a)
	require.NoError(t, err)

	got, err := Decode(data)
	require.NoError(t, err)
	require.Empty(t, got.Iterations)
	require.Empty(t, got.ProbeRates)
	require.Empty(t, got.Missing)
}

func TestEncodeDeterministic(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)

	first, err := enc.Encode(sampleArtifact())
	require.NoError(t, err)
	second, err := enc.Encode(sampleArtifact())
	require.NoError(t, err)
	require.Equal(t, first, second, "encoding must be deterministic for fingerprinting")
}

func TestFingerprint(t *testing.T) {
	a := sampleArtifact()
	b := sampleArtifact()

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fa, fb)

	b.Iterations = append(b.Iterations, 9999)
	fc, err := b.Fingerprint()
	require.NoError(t, err)
	require.NotEqual(t, fa, fc)
}

func TestDecodeCorruption(t *testing.T) {
	enc, err := NewEncoder()
	require.NoError(t, err)
	data, err := enc.Encode(sampleArtifact())
	require.NoError(t, err)

	t.Run("Truncated", func(t *testing.T) {
		_, err := Decode(data[:HeaderSize-1])
		require.ErrorIs(t, err, errs.ErrInvalidHeaderSize)
	})

	t.Run("TruncatedPayload", func(t *testing.T) {
		_, err := Decode(data[:len(data)-1])
		require.Error(t, err)
	})

	t.Run("BadMagic", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[0] = 0x00
		bad[1] = 0x00
		_, err := Decode(bad)
		require.ErrorIs(t, err, errs.ErrInvalidMagic)
	})

	t.Run("OversizedGapLength", func(t *testing.T) {
		var h Header
		require.NoError(t, h.Parse(data))

		// Rewrite the gap section so the reason length claims 2^64-1 bytes.
		bad := append([]byte(nil), data[:h.GapOffset]...)
		bad = binary.AppendUvarint(bad, 1)
		bad = binary.AppendUvarint(bad, math.MaxUint64)
		bad = append(bad, "gone"...)

		_, err := Decode(bad)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})

	t.Run("TruncatedGapReason", func(t *testing.T) {
		var h Header
		require.NoError(t, h.Parse(data))

		bad := append([]byte(nil), data[:h.GapOffset]...)
		bad = binary.AppendUvarint(bad, 1)
		bad = binary.AppendUvarint(bad, 64)
		bad = append(bad, "short"...)

		_, err := Decode(bad)
		require.ErrorIs(t, err, errs.ErrInvalidPayload)
	})
}

func TestEncoderInvalidOptions(t *testing.T) {
	_, err := NewEncoder(WithCompression(format.CompressionType(0x77)))
	require.ErrorIs(t, err, errs.ErrInvalidCompression)

	_, err = NewEncoder(WithEncoding(format.EncodingType(0x77)))
	require.ErrorIs(t, err, errs.ErrInvalidEncoding)
}
