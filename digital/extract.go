package digital

import (
	"fmt"

	"github.com/arloliu/sglx/errs"
	"github.com/arloliu/sglx/raw"
)

// WordBits is the bit width of a packed digital word channel.
// Valid line indices are [0, WordBits).
const WordBits = 16

// Trace is the demultiplexed logic level of one line, one value (0 or 1) per
// sample over the extracted range.
type Trace []uint8

// ExtractLines demultiplexes the requested logic lines from the digital word
// channel wordChan of rec, over sample indices [sampFirst, sampLast] inclusive.
// It returns one Trace per requested line, in request order, reading the word
// channel only once regardless of how many lines are requested.
//
// Fails with errs.ErrInvalidLine if any line index is outside [0, WordBits),
// and errs.ErrRange if wordChan or the sample range exceeds the recording's
// bounds.
func ExtractLines(rec *raw.Recording, wordChan int, sampFirst, sampLast int64, lines []int) ([]Trace, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no lines requested", errs.ErrInvalidLine)
	}
	for _, line := range lines {
		if line < 0 || line >= WordBits {
			return nil, fmt.Errorf("%w: line %d outside [0,%d)", errs.ErrInvalidLine, line, WordBits)
		}
	}

	matrix, err := rec.ReadRange(wordChan, wordChan, sampFirst, sampLast)
	if err != nil {
		return nil, err
	}
	words := matrix[0]

	traces := make([]Trace, len(lines))
	for i := range traces {
		traces[i] = make(Trace, len(words))
	}

	for t, w := range words {
		for i, line := range lines {
			traces[i][t] = uint8((uint16(w) >> line) & 1)
		}
	}

	return traces, nil
}
