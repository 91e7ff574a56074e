package artifact

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/arloliu/sglx/compress"
	"github.com/arloliu/sglx/errs"
	"github.com/arloliu/sglx/format"
	"github.com/arloliu/sglx/internal/options"
	"github.com/arloliu/sglx/internal/pool"
)

// Encoder serializes artifacts into the versioned blob format.
// A zero-option encoder produces the canonical encoding used by Fingerprint.
// Encoders are stateless between Encode calls and safe for reuse.
type Encoder struct {
	flag Flag
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*Encoder]

// WithCompression selects the compression applied to the iteration index
// payload. The probe table and gap section are small and stay uncompressed.
func WithCompression(ct format.CompressionType) EncoderOption {
	return options.New(func(e *Encoder) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return fmt.Errorf("%w: %s", errs.ErrInvalidCompression, ct)
		}
		e.flag.CompressionType = uint8(ct)

		return nil
	})
}

// WithEncoding selects the iteration index encoding: format.TypeDelta
// (default, compact) or format.TypeRaw (fixed-width, seekable).
func WithEncoding(et format.EncodingType) EncoderOption {
	return options.New(func(e *Encoder) error {
		switch et {
		case format.TypeRaw, format.TypeDelta:
			e.flag.EncodingType = uint8(et)
			return nil
		default:
			return fmt.Errorf("%w: %s", errs.ErrInvalidEncoding, et)
		}
	})
}

// WithBigEndian stores multi-byte fields in big-endian byte order.
func WithBigEndian() EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.flag.Options |= EndiannessMask
	})
}

// WithLittleEndian stores multi-byte fields in little-endian byte order (default).
func WithLittleEndian() EncoderOption {
	return options.NoError(func(e *Encoder) {
		e.flag.Options &^= EndiannessMask
	})
}

// NewEncoder creates an artifact encoder with the given options.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{flag: NewFlag()}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Encode serializes the artifact. The returned slice is newly allocated and
// owned by the caller.
func (e *Encoder) Encode(a *Artifact) ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if len(a.Iterations) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: iteration count %d exceeds format limit", errs.ErrInvalidPayload, len(a.Iterations))
	}
	if len(a.ProbeRates) > math.MaxUint16 || len(a.Missing) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: probe count exceeds format limit", errs.ErrInvalidPayload)
	}

	engine := e.flag.GetEndianEngine()

	buf := pool.GetArtifactBuffer()
	defer pool.PutArtifactBuffer(buf)

	switch format.EncodingType(e.flag.EncodingType) {
	case format.TypeDelta:
		buf.B = encodeIndexDelta(buf.B, a.Iterations)
	case format.TypeRaw:
		buf.B = encodeIndexRaw(buf.B, engine, a.Iterations)
	}

	codec, err := compress.GetCodec(format.CompressionType(e.flag.CompressionType))
	if err != nil {
		return nil, err
	}
	indexPayload, err := codec.Compress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("compress iteration index: %w", err)
	}

	probeTable := e.encodeProbeTable(a)
	gapSection := encodeGapSection(a)

	indexOffset := int64(HeaderSize)
	probeOffset := indexOffset + int64(len(indexPayload))
	gapOffset := probeOffset + int64(len(probeTable))
	total := gapOffset + int64(len(gapSection))
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("%w: blob size %d exceeds format limit", errs.ErrInvalidPayload, total)
	}

	h := Header{
		Flag:           e.flag,
		IterationCount: uint32(len(a.Iterations)),
		ProbeCount:     uint16(len(a.ProbeRates)),
		GapCount:       uint16(len(a.Missing)),
		PrimaryRate:    a.PrimaryRate,
		IndexOffset:    uint32(indexOffset),
		ProbeOffset:    uint32(probeOffset),
		GapOffset:      uint32(gapOffset),
	}

	out := make([]byte, 0, total)
	out = append(out, h.Bytes()...)
	out = append(out, indexPayload...)
	out = append(out, probeTable...)
	out = append(out, gapSection...)

	return out, nil
}

// encodeProbeTable emits fixed-size entries sorted by insertion number so the
// encoding is deterministic.
func (e *Encoder) encodeProbeTable(a *Artifact) []byte {
	engine := e.flag.GetEndianEngine()

	probes := sortedKeys(a.ProbeRates)
	table := make([]byte, 0, len(probes)*ProbeEntrySize)
	for _, probe := range probes {
		table = engine.AppendUint32(table, uint32(probe))
		table = engine.AppendUint64(table, math.Float64bits(a.ProbeRates[probe]))
	}

	return table
}

// encodeGapSection emits one (uvarint insertion, uvarint length, reason bytes)
// record per missing probe, sorted by insertion number.
func encodeGapSection(a *Artifact) []byte {
	probes := sortedKeys(a.Missing)
	var section []byte
	for _, probe := range probes {
		reason := a.Missing[probe]
		section = binary.AppendUvarint(section, uint64(probe))
		section = binary.AppendUvarint(section, uint64(len(reason)))
		section = append(section, reason...)
	}

	return section
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	return keys
}
