package meta

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/arloliu/sglx/errs"
	"github.com/arloliu/sglx/format"
)

// BytesPerSample is the sample word width of the SpikeGLX raw format.
// All streams record signed 16-bit samples.
const BytesPerSample = 2

// Required keys every sidecar carries regardless of acquisition type.
const (
	KeySavedChans   = "nSavedChans"
	KeyFileTimeSecs = "fileTimeSecs"
	KeyType         = "typeThis"
	KeyFileSize     = "fileSizeBytes"
	KeyNIChanCounts = "snsMnMaXaDw"
)

// Meta is the parsed key/value property set of one sidecar file.
// Treated as immutable after ReadMeta returns; values stay strings and are
// converted on access.
type Meta map[string]string

// ReadMeta parses the sidecar metadata file at path.
//
// Each non-empty line is split on the first '='; a line without '=' is
// malformed. SpikeGLX prefixes some keys with '~' (table-valued entries such as
// ~snsChanMap); the prefix is stripped so lookups use the bare key name.
//
// Returns an error wrapping errs.ErrMetadataParse if the file is missing,
// unreadable, malformed, or lacks the keys required by every acquisition type
// (nSavedChans, fileTimeSecs).
func ReadMeta(path string) (Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", errs.ErrMetadataParse, path, err)
	}
	defer f.Close()

	m := make(Meta)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("%w: %s:%d: no '=' separator", errs.ErrMetadataParse, path, lineNo)
		}

		key = strings.TrimSpace(strings.TrimPrefix(key, "~"))
		if key == "" {
			return nil, fmt.Errorf("%w: %s:%d: empty key", errs.ErrMetadataParse, path, lineNo)
		}
		m[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", errs.ErrMetadataParse, path, err)
	}

	for _, key := range []string{KeySavedChans, KeyFileTimeSecs} {
		if _, ok := m[key]; !ok {
			return nil, fmt.Errorf("%w: %s: missing required key %q", errs.ErrMetadataParse, path, key)
		}
	}
	// Validate the numeric invariants up front so downstream stages can trust
	// the accessors.
	if secs, err := m.FileTimeSecs(); err != nil {
		return nil, err
	} else if secs < 0 {
		return nil, fmt.Errorf("%w: %s: fileTimeSecs is negative (%v)", errs.ErrMetadataParse, path, secs)
	}
	if n, err := m.ChannelCount(); err != nil {
		return nil, err
	} else if n <= 0 {
		return nil, fmt.Errorf("%w: %s: nSavedChans is not positive (%d)", errs.ErrMetadataParse, path, n)
	}

	return m, nil
}

// SidecarPath derives the .meta sidecar path paired with a .bin recording.
// The stem up to the last ".bin" is kept: "run_g0_t0.nidq.bin" pairs with
// "run_g0_t0.nidq.meta".
func SidecarPath(binPath string) (string, error) {
	idx := strings.LastIndex(binPath, ".bin")
	if idx < 0 {
		return "", fmt.Errorf("%w: %s: not a .bin path", errs.ErrMetadataParse, binPath)
	}

	return binPath[:idx] + ".meta", nil
}

// Str returns the raw string value for key.
func (m Meta) Str(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Float parses the value for key as a float64.
func (m Meta) Float(key string) (float64, error) {
	raw, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing key %q", errs.ErrMetadataParse, key)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: key %q: non-numeric value %q", errs.ErrMetadataParse, key, raw)
	}

	return v, nil
}

// Int parses the value for key as an int.
func (m Meta) Int(key string) (int, error) {
	raw, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing key %q", errs.ErrMetadataParse, key)
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: key %q: non-integer value %q", errs.ErrMetadataParse, key, raw)
	}

	return v, nil
}

// ChannelCount returns the number of channels saved per sample (nSavedChans).
func (m Meta) ChannelCount() (int, error) {
	return m.Int(KeySavedChans)
}

// FileTimeSecs returns the recording duration in seconds (fileTimeSecs).
func (m Meta) FileTimeSecs() (float64, error) {
	return m.Float(KeyFileTimeSecs)
}

// FileSizeBytes returns the declared binary file size, when the sidecar
// carries one. Older rig versions omit it.
func (m Meta) FileSizeBytes() (int64, bool) {
	raw, ok := m[KeyFileSize]
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}

// Stream classifies the acquisition type from typeThis.
func (m Meta) Stream() format.StreamKind {
	switch m[KeyType] {
	case "nidq":
		return format.StreamNIDQ
	case "imec":
		return format.StreamImec
	default:
		return format.StreamUnknown
	}
}

// NIChannelCounts parses snsMnMaXaDw: the per-sample channel layout of a nidq
// stream as four comma-separated counts of multiplexed-neural (MN), multiplexed
// -aux (MA), plain-analog (XA) and digital-word (DW) channels, in saved order.
// The first digital word channel therefore sits at index MN+MA+XA.
func (m Meta) NIChannelCounts() (mn, ma, xa, dw int, err error) {
	raw, ok := m[KeyNIChanCounts]
	if !ok {
		return 0, 0, 0, 0, fmt.Errorf("%w: missing key %q", errs.ErrMetadataParse, KeyNIChanCounts)
	}

	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return 0, 0, 0, 0, fmt.Errorf("%w: key %q: want 4 counts, got %q", errs.ErrMetadataParse, KeyNIChanCounts, raw)
	}

	counts := make([]int, 4)
	for i, p := range parts {
		counts[i], err = strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, 0, fmt.Errorf("%w: key %q: non-integer count %q", errs.ErrMetadataParse, KeyNIChanCounts, p)
		}
	}

	return counts[0], counts[1], counts[2], counts[3], nil
}
