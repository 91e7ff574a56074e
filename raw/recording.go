package raw

import (
	"encoding/binary"
	"fmt"
	"os"
	"unsafe"

	"github.com/edsrzf/mmap-go"

	"github.com/arloliu/sglx/endian"
	"github.com/arloliu/sglx/errs"
	"github.com/arloliu/sglx/meta"
)

// Recording is a read-only, memory-mapped view of one raw .bin file, shaped
// [channels, samples]. It is owned by the goroutine that opened it; Close
// releases the mapping.
type Recording struct {
	f    *os.File
	data mmap.MMap
	// words reinterprets the mapping as int16 values when the host byte order
	// matches the file's little-endian layout; nil on big-endian hosts, which
	// decode word by word instead.
	words  []int16
	nChans int
	nSamps int64
}

// Open memory-maps the raw file at binPath using the geometry declared by its
// parsed sidecar.
//
// The file size must be an exact multiple of channels * 2 bytes, and must match
// the sidecar's fileSizeBytes when that key is present; any mismatch means the
// file is truncated or corrupt and fails with errs.ErrCorruptRecording. A file
// that does not exist fails with errs.ErrMissingStream.
func Open(binPath string, m meta.Meta) (*Recording, error) {
	nChans, err := m.ChannelCount()
	if err != nil {
		return nil, err
	}

	f, err := os.Open(binPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", errs.ErrMissingStream, binPath)
		}

		return nil, fmt.Errorf("open %s: %w", binPath, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat %s: %w", binPath, err)
	}

	size := fi.Size()
	frameBytes := int64(nChans) * meta.BytesPerSample
	if size == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s: empty file", errs.ErrCorruptRecording, binPath)
	}
	if size%frameBytes != 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s: size %d is not a multiple of %d channels * %d bytes",
			errs.ErrCorruptRecording, binPath, size, nChans, meta.BytesPerSample)
	}
	if declared, ok := m.FileSizeBytes(); ok && declared != size {
		f.Close()
		return nil, fmt.Errorf("%w: %s: size %d differs from declared fileSizeBytes %d",
			errs.ErrCorruptRecording, binPath, size, declared)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s: %w", binPath, err)
	}

	r := &Recording{
		f:      f,
		data:   data,
		nChans: nChans,
		nSamps: size / frameBytes,
	}
	if endian.IsNativeLittleEndian() {
		// The mapping is page-aligned, so the int16 view is properly aligned.
		r.words = unsafe.Slice((*int16)(unsafe.Pointer(&data[0])), size/meta.BytesPerSample)
	}

	return r, nil
}

// Channels returns the channel count of the recording.
func (r *Recording) Channels() int {
	return r.nChans
}

// Samples returns the total sample count per channel.
func (r *Recording) Samples() int64 {
	return r.nSamps
}

// ReadInt16 returns the sample word for one channel at one sample index.
func (r *Recording) ReadInt16(ch int, samp int64) (int16, error) {
	if err := r.checkOpen(); err != nil {
		return 0, err
	}
	if ch < 0 || ch >= r.nChans {
		return 0, fmt.Errorf("%w: channel %d outside [0,%d)", errs.ErrRange, ch, r.nChans)
	}
	if samp < 0 || samp >= r.nSamps {
		return 0, fmt.Errorf("%w: sample %d outside [0,%d)", errs.ErrRange, samp, r.nSamps)
	}

	return r.word(ch, samp), nil
}

// ReadRange returns the matrix of samples for channels [chFirst, chLast] over
// sample indices [sampFirst, sampLast], both ranges inclusive. The result has
// one row per channel. The returned matrix is a copy; the mapping itself is
// never exposed for mutation.
func (r *Recording) ReadRange(chFirst, chLast int, sampFirst, sampLast int64) ([][]int16, error) {
	if err := r.checkOpen(); err != nil {
		return nil, err
	}
	if chFirst < 0 || chLast < chFirst || chLast >= r.nChans {
		return nil, fmt.Errorf("%w: channels [%d,%d] outside [0,%d)", errs.ErrRange, chFirst, chLast, r.nChans)
	}
	if sampFirst < 0 || sampLast < sampFirst || sampLast >= r.nSamps {
		return nil, fmt.Errorf("%w: samples [%d,%d] outside [0,%d)", errs.ErrRange, sampFirst, sampLast, r.nSamps)
	}

	nSamp := sampLast - sampFirst + 1
	out := make([][]int16, chLast-chFirst+1)
	for i := range out {
		ch := chFirst + i
		row := make([]int16, nSamp)
		if r.words != nil {
			for t := int64(0); t < nSamp; t++ {
				row[t] = r.words[(sampFirst+t)*int64(r.nChans)+int64(ch)]
			}
		} else {
			for t := int64(0); t < nSamp; t++ {
				off := ((sampFirst+t)*int64(r.nChans) + int64(ch)) * meta.BytesPerSample
				row[t] = int16(binary.LittleEndian.Uint16(r.data[off : off+2]))
			}
		}
		out[i] = row
	}

	return out, nil
}

// Close releases the mapping and the underlying file. Idempotent.
func (r *Recording) Close() error {
	if r.data == nil {
		return nil
	}

	err := r.data.Unmap()
	r.data = nil
	r.words = nil

	if cerr := r.f.Close(); err == nil {
		err = cerr
	}

	return err
}

func (r *Recording) checkOpen() error {
	if r.data == nil {
		return fmt.Errorf("read %s: %w", r.f.Name(), os.ErrClosed)
	}

	return nil
}

func (r *Recording) word(ch int, samp int64) int16 {
	idx := samp*int64(r.nChans) + int64(ch)
	if r.words != nil {
		return r.words[idx]
	}

	off := idx * meta.BytesPerSample

	return int16(binary.LittleEndian.Uint16(r.data[off : off+2]))
}
