package artifact

import (
	"math"

	"github.com/arloliu/sglx/endian"
	"github.com/arloliu/sglx/errs"
	"github.com/arloliu/sglx/format"
)

const (
	// Bit masks for the packed options word.
	EndiannessMask   = 0x0002 // endianness bit (bit 1): 0=little, 1=big
	ReservedBitsMask = 0x000D // reserved bits (0, 2, 3), must be zero
	MagicNumberMask  = 0xFFF0 // magic number (bits 4-15)

	// MagicSyncV1Opt is the version 1 magic number for the sync artifact format.
	MagicSyncV1Opt = 0xEC10

	// HeaderSize is the fixed header size in bytes.
	HeaderSize = 32

	// ProbeEntrySize is the fixed probe rate table entry size in bytes.
	ProbeEntrySize = 12
)

// Flag is the packed 4-byte field holding the magic number, endianness bit,
// and the encoding/compression types of the iteration index payload.
type Flag struct {
	Options         uint16
	EncodingType    uint8
	CompressionType uint8
}

// NewFlag returns the default flag: v1 magic, little-endian, delta-encoded
// index, no compression.
func NewFlag() Flag {
	return Flag{
		Options:         MagicSyncV1Opt,
		EncodingType:    uint8(format.TypeDelta),
		CompressionType: uint8(format.CompressionNone),
	}
}

// Validate checks the magic number and the encoding/compression types.
func (f Flag) Validate() error {
	if f.Options&MagicNumberMask != MagicSyncV1Opt {
		return errs.ErrInvalidMagic
	}

	switch format.EncodingType(f.EncodingType) {
	case format.TypeRaw, format.TypeDelta:
	default:
		return errs.ErrInvalidEncoding
	}

	switch format.CompressionType(f.CompressionType) {
	case format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4:
	default:
		return errs.ErrInvalidCompression
	}

	return nil
}

// IsBigEndian reports whether multi-byte header fields and payloads use
// big-endian byte order.
func (f Flag) IsBigEndian() bool {
	return f.Options&EndiannessMask != 0
}

// GetEndianEngine returns the engine matching the endianness bit.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	if f.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Header is the fixed-size section at the start of an artifact blob.
//
// Byte layout (offsets in the 32-byte header):
//
//	0-3   flag: options word (always little-endian), encoding, compression
//	4-7   iteration count
//	8-9   probe table entry count
//	10-11 gap section entry count
//	12-19 primary sampling rate (IEEE 754 bits)
//	20-23 iteration index payload offset
//	24-27 probe table offset
//	28-31 gap section offset
type Header struct {
	Flag           Flag
	IterationCount uint32
	ProbeCount     uint16
	GapCount       uint16
	PrimaryRate    float64
	IndexOffset    uint32
	ProbeOffset    uint32
	GapOffset      uint32
}

// Parse parses and validates a header from data, which must be at least
// HeaderSize bytes.
func (h *Header) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	// The options word itself is always little-endian; it carries the bit
	// that determines the byte order of everything after it.
	h.Flag.Options = uint16(data[0]) | (uint16(data[1]) << 8)
	h.Flag.EncodingType = data[2]
	h.Flag.CompressionType = data[3]
	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.IterationCount = engine.Uint32(data[4:8])
	h.ProbeCount = engine.Uint16(data[8:10])
	h.GapCount = engine.Uint16(data[10:12])
	h.PrimaryRate = math.Float64frombits(engine.Uint64(data[12:20]))
	h.IndexOffset = engine.Uint32(data[20:24])
	h.ProbeOffset = engine.Uint32(data[24:28])
	h.GapOffset = engine.Uint32(data[28:32])

	return nil
}

// Bytes serializes the header into a fresh HeaderSize-byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.EncodingType
	b[3] = h.Flag.CompressionType

	engine := h.Flag.GetEndianEngine()
	engine.PutUint32(b[4:8], h.IterationCount)
	engine.PutUint16(b[8:10], h.ProbeCount)
	engine.PutUint16(b[10:12], h.GapCount)
	engine.PutUint64(b[12:20], math.Float64bits(h.PrimaryRate))
	engine.PutUint32(b[20:24], h.IndexOffset)
	engine.PutUint32(b[24:28], h.ProbeOffset)
	engine.PutUint32(b[28:32], h.GapOffset)

	return b
}
