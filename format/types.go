package format

type (
	EncodingType    uint8
	CompressionType uint8
	StreamKind      uint8
)

const (
	TypeRaw   EncodingType = 0x1 // TypeRaw stores iteration indices as fixed-width integers.
	TypeDelta EncodingType = 0x2 // TypeDelta stores iteration indices as varint deltas.

	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.

	StreamUnknown StreamKind = 0x0 // StreamUnknown represents an unrecognized acquisition type.
	StreamNIDQ    StreamKind = 0x1 // StreamNIDQ is the behavioral/sync board stream (primary clock).
	StreamImec    StreamKind = 0x2 // StreamImec is a probe headstage stream with its own clock.
)

func (e EncodingType) String() string {
	switch e {
	case TypeRaw:
		return "Raw"
	case TypeDelta:
		return "Delta"
	default:
		return "Unknown"
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

func (s StreamKind) String() string {
	switch s {
	case StreamNIDQ:
		return "NIDQ"
	case StreamImec:
		return "Imec"
	default:
		return "Unknown"
	}
}

// ParseCompression maps a textual compression name (as used in CLI flags and
// config files) to its CompressionType. Returns false for unknown names.
func ParseCompression(name string) (CompressionType, bool) {
	switch name {
	case "none", "None", "":
		return CompressionNone, true
	case "zstd", "Zstd":
		return CompressionZstd, true
	case "s2", "S2":
		return CompressionS2, true
	case "lz4", "LZ4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
