package artifact

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/arloliu/sglx/compress"
	"github.com/arloliu/sglx/errs"
	"github.com/arloliu/sglx/format"
)

// Decode parses an artifact blob produced by Encoder.Encode.
//
// The header, section offsets, payload sizes, and the decoded iteration table's
// monotonicity are all validated; corruption fails with one of the errs
// sentinels rather than producing a partial artifact.
func Decode(data []byte) (*Artifact, error) {
	var h Header
	if err := h.Parse(data); err != nil {
		return nil, err
	}

	if h.IndexOffset != HeaderSize ||
		h.ProbeOffset < h.IndexOffset ||
		h.GapOffset < h.ProbeOffset ||
		int64(h.GapOffset) > int64(len(data)) {
		return nil, fmt.Errorf("%w: inconsistent section offsets", errs.ErrInvalidPayload)
	}
	if int(h.GapOffset-h.ProbeOffset) != int(h.ProbeCount)*ProbeEntrySize {
		return nil, fmt.Errorf("%w: probe table is %d bytes, want %d entries * %d",
			errs.ErrInvalidPayload, h.GapOffset-h.ProbeOffset, h.ProbeCount, ProbeEntrySize)
	}

	engine := h.Flag.GetEndianEngine()

	codec, err := compress.GetCodec(format.CompressionType(h.Flag.CompressionType))
	if err != nil {
		return nil, err
	}
	indexPayload, err := codec.Decompress(data[h.IndexOffset:h.ProbeOffset])
	if err != nil {
		return nil, fmt.Errorf("%w: iteration index: %w", errs.ErrInvalidPayload, err)
	}

	var iterations []int64
	switch format.EncodingType(h.Flag.EncodingType) {
	case format.TypeDelta:
		iterations, err = decodeIndexDelta(indexPayload, int(h.IterationCount))
	case format.TypeRaw:
		iterations, err = decodeIndexRaw(indexPayload, engine, int(h.IterationCount))
	}
	if err != nil {
		return nil, err
	}

	probeRates := make(map[int]float64, h.ProbeCount)
	table := data[h.ProbeOffset:h.GapOffset]
	for i := 0; i < int(h.ProbeCount); i++ {
		entry := table[i*ProbeEntrySize:]
		probe := int(engine.Uint32(entry[0:4]))
		probeRates[probe] = math.Float64frombits(engine.Uint64(entry[4:12]))
	}

	missing, err := decodeGapSection(data[h.GapOffset:], int(h.GapCount))
	if err != nil {
		return nil, err
	}

	a := &Artifact{
		PrimaryRate: h.PrimaryRate,
		Iterations:  iterations,
		ProbeRates:  probeRates,
		Missing:     missing,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	return a, nil
}

func decodeGapSection(data []byte, count int) (map[int]string, error) {
	missing := make(map[int]string, count)

	pos := 0
	for i := 0; i < count; i++ {
		probe, n := binary.Uvarint(data[pos:])
		if n <= 0 {
			return nil, fmt.Errorf("%w: truncated gap entry %d", errs.ErrInvalidPayload, i)
		}
		pos += n

		// Compare as uint64: a huge length would wrap negative as an int and
		// slip past an int comparison into the slice expression below.
		length, n := binary.Uvarint(data[pos:])
		if n <= 0 || length > uint64(len(data)-pos-n) {
			return nil, fmt.Errorf("%w: truncated gap reason %d", errs.ErrInvalidPayload, i)
		}
		pos += n

		missing[int(probe)] = string(data[pos : pos+int(length)])
		pos += int(length)
	}

	if pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after gap section", errs.ErrInvalidPayload, len(data)-pos)
	}

	return missing, nil
}
