package session

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/arloliu/sglx/errs"
)

// Stream file patterns within a session directory. The primary stream sits at
// the top level; each probe records into its own imec<N> subdirectory.
const (
	primaryPattern = "*nidq.bin*"
	probePattern   = "*imec%d/*.ap.bin"
)

// LocatePrimary finds the primary timing stream's .bin file in the session
// directory.
//
// Exactly one file may match: none fails with errs.ErrMissingStream, more than
// one with errs.ErrAmbiguousStream listing the matches in lexicographic order.
// A duplicated recording is surfaced rather than resolved by tie-break.
func LocatePrimary(dir string) (string, error) {
	return locateUnique(filepath.Join(dir, primaryPattern))
}

// LocateProbe finds the .ap.bin file of the probe with the given insertion
// number. Match rules are the same as LocatePrimary.
func LocateProbe(dir string, insertion int) (string, error) {
	return locateUnique(filepath.Join(dir, fmt.Sprintf(probePattern, insertion)))
}

var probeDirPattern = regexp.MustCompile(`imec(\d+)$`)

// DiscoverProbes lists the insertion numbers of all probe subdirectories in
// the session directory, sorted ascending. A directory with no probe
// subdirectories yields an empty slice, not an error.
func DiscoverProbes(dir string) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read session dir %s: %w", dir, err)
	}

	var probes []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		m := probeDirPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}

		insertion, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		probes = append(probes, insertion)
	}

	sort.Ints(probes)

	return probes, nil
}

func locateUnique(pattern string) (string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", fmt.Errorf("glob %s: %w", pattern, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no match for %s", errs.ErrMissingStream, pattern)
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("%w: %s matches [%s]", errs.ErrAmbiguousStream,
			pattern, strings.Join(matches, ", "))
	}
}
