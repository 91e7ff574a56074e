package compress

// NoOpCompressor bypasses data without compression.
//
// Useful when the payload is short (sparse behavioral sessions), when measuring
// codec overhead, or when debugging artifact blobs with a hex dump.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a new no-operation compressor.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input slice as-is, without processing or copying.
//
// Note: the returned slice shares the input's underlying memory. Callers must
// not modify the input after calling this method if they use the result.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is, without processing or copying.
//
// Note: the returned slice shares the input's underlying memory. Callers must
// not modify the input after calling this method if they use the result.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}
