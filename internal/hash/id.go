package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
// Used to key session and stream identifiers in logs.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// Sum computes the xxHash64 of the given bytes.
// Used to fingerprint encoded synchronization artifacts.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}
