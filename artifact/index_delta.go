package artifact

import (
	"encoding/binary"
	"fmt"

	"github.com/arloliu/sglx/endian"
	"github.com/arloliu/sglx/errs"
)

// encodeIndexDelta appends the delta+varint encoding of a strictly increasing
// iteration table to dst.
//
// The first index is stored as a full uvarint; every subsequent index as the
// uvarint of its (always positive) delta from the previous one. Regular
// behavioral loops have near-constant deltas well under 2^14, so most
// boundaries take one or two bytes against eight for raw encoding.
func encodeIndexDelta(dst []byte, indices []int64) []byte {
	if len(indices) == 0 {
		return dst
	}

	dst = binary.AppendUvarint(dst, uint64(indices[0]))
	prev := indices[0]
	for _, idx := range indices[1:] {
		dst = binary.AppendUvarint(dst, uint64(idx-prev))
		prev = idx
	}

	return dst
}

// decodeIndexDelta decodes count indices from a delta+varint payload,
// validating that the payload is fully consumed and the result is strictly
// increasing and non-negative.
func decodeIndexDelta(data []byte, count int) ([]int64, error) {
	indices := make([]int64, 0, count)

	pos := 0
	var prev int64
	for i := 0; i < count; i++ {
		v, n := binary.Uvarint(data[pos:])
		if n <= 0 {
			return nil, fmt.Errorf("%w: truncated varint at index %d", errs.ErrInvalidPayload, i)
		}
		pos += n

		if i == 0 {
			prev = int64(v)
		} else {
			if v == 0 {
				return nil, fmt.Errorf("%w: zero delta at index %d", errs.ErrInvalidPayload, i)
			}
			prev += int64(v)
		}
		if prev < 0 {
			return nil, fmt.Errorf("%w: index overflow at %d", errs.ErrInvalidPayload, i)
		}
		indices = append(indices, prev)
	}

	if pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes after iteration payload", errs.ErrInvalidPayload, len(data)-pos)
	}

	return indices, nil
}

// encodeIndexRaw appends each index as a fixed 8-byte word in the engine's
// byte order. Used when random access into the stored payload matters more
// than size.
func encodeIndexRaw(dst []byte, engine endian.EndianEngine, indices []int64) []byte {
	for _, idx := range indices {
		dst = engine.AppendUint64(dst, uint64(idx))
	}

	return dst
}

// decodeIndexRaw decodes count fixed-width indices, validating length and
// strict monotonicity.
func decodeIndexRaw(data []byte, engine endian.EndianEngine, count int) ([]int64, error) {
	if len(data) != count*8 {
		return nil, fmt.Errorf("%w: raw iteration payload is %d bytes, want %d", errs.ErrInvalidPayload, len(data), count*8)
	}

	indices := make([]int64, count)
	prev := int64(-1)
	for i := range indices {
		v := int64(engine.Uint64(data[i*8 : i*8+8]))
		if v < 0 || v <= prev {
			return nil, fmt.Errorf("%w: iteration table not strictly increasing at %d", errs.ErrInvalidPayload, i)
		}
		indices[i] = v
		prev = v
	}

	return indices, nil
}
