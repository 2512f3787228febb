package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// SeriesID identifies one resource/element/metric series across blocks and archives.
// The fields are joined with '/' before hashing.
func SeriesID(resource, element, metric string) uint64 {
	return ID(resource + "/" + element + "/" + metric)
}
