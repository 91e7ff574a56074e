// Package compress provides compression codecs for synchronization artifact payloads.
//
// An artifact's iteration index payload is delta+varint encoded before it is
// compressed, so the codecs here form the second stage of a two-stage scheme:
//
//  1. Encoding exploits the structure of the data (strictly increasing sample
//     indices collapse to small deltas).
//  2. Compression squeezes the encoded bytes with a general-purpose algorithm.
//
// Long sessions record millions of iteration boundaries; a delta-encoded index
// of a regular behavioral loop is highly repetitive and compresses well.
//
// Supported algorithms:
//   - None: no compression, fastest, for short sessions or debugging
//   - Zstd: best ratio, moderate speed (cgo gozstd when available, pure Go otherwise)
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression, moderate ratio
//
// The package defines three interfaces: Compressor, Decompressor, and Codec
// (both). All built-in codecs are stateless values safe for concurrent use;
// internal encoder/decoder instances are pooled.
package compress
