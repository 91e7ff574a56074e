// Package errs defines the sentinel errors returned by the sglx packages.
//
// All errors returned by the public API either are one of these sentinels or
// wrap one of them, so callers can classify failures with errors.Is:
//
//	artifact, err := sglx.Synchronize(ctx, dir, probes)
//	if errors.Is(err, errs.ErrMissingStream) {
//	    // session directory is incomplete
//	}
package errs

import "errors"

// Session ingestion errors.
var (
	// ErrMetadataParse indicates a sidecar metadata file is missing, unreadable,
	// has a malformed line, or lacks a required key. Fatal for the stream it
	// belongs to.
	ErrMetadataParse = errors.New("sidecar metadata parse failed")

	// ErrCorruptRecording indicates a raw binary file whose size is inconsistent
	// with the channel geometry declared by its sidecar metadata.
	ErrCorruptRecording = errors.New("corrupt raw recording")

	// ErrRange indicates a sample or channel request outside the bounds of a
	// recording. Requests are never clamped; out-of-range access always fails.
	ErrRange = errors.New("sample or channel range out of bounds")

	// ErrInvalidLine indicates a digital line index outside the bit width of
	// the packed digital word (0-15 for the 16-bit word format).
	ErrInvalidLine = errors.New("digital line index out of word width")

	// ErrMissingStream indicates an expected stream file could not be located
	// in the session directory. Fatal for the primary stream; recorded per
	// probe for probe streams.
	ErrMissingStream = errors.New("expected stream file not found")

	// ErrAmbiguousStream indicates more than one file matched a stream's
	// expected pattern. A duplicated recording in a session directory is an
	// acquisition error and is surfaced rather than resolved by tie-break.
	ErrAmbiguousStream = errors.New("multiple files match stream pattern")
)

// Artifact codec errors.
var (
	// ErrInvalidHeaderSize indicates an artifact blob shorter than its fixed header.
	ErrInvalidHeaderSize = errors.New("invalid artifact header size")

	// ErrInvalidMagic indicates an artifact blob whose magic number does not
	// match any supported format version.
	ErrInvalidMagic = errors.New("invalid artifact magic number")

	// ErrInvalidEncoding indicates an unsupported iteration index encoding type.
	ErrInvalidEncoding = errors.New("invalid iteration index encoding")

	// ErrInvalidCompression indicates an unsupported payload compression type.
	ErrInvalidCompression = errors.New("invalid payload compression")

	// ErrInvalidPayload indicates a payload section that is truncated, overlaps
	// the header, or decodes to a non-monotonic iteration index.
	ErrInvalidPayload = errors.New("invalid artifact payload")
)
