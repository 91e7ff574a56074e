package compress

// ZstdCompressor provides Zstandard compression for artifact payloads.
//
// Zstd offers the best ratio of the supported codecs and is the recommended
// choice when artifacts are archived long-term or shipped over constrained
// links. Two implementations exist, selected at build time:
//   - cgo builds use valyala/gozstd (libzstd bindings)
//   - pure Go builds use klauspost/compress/zstd
//
// Both produce standard Zstandard frames, so blobs are interchangeable between
// the two builds.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
