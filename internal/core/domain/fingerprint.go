package domain

import (
	"encoding/binary"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// InputFingerprint is a metadata-only proxy for the identity of an input file.
type InputFingerprint struct {
	LastModifiedMillis int64 `json:"lastModifiedMillis"`
	SizeBytes          int64 `json:"sizeBytes"`
}

// Valid reports whether both fields are non-negative.
func (f InputFingerprint) Valid() bool {
	return f.LastModifiedMillis >= 0 && f.SizeBytes >= 0
}

// CacheVersion describes the inputs a cached graph was built from.
type CacheVersion struct {
	OSM  InputFingerprint `json:"osm"`
	GTFS InputFingerprint `json:"gtfs"`
}

// Equal reports whether both fingerprints match field by field.
func (v CacheVersion) Equal(other CacheVersion) bool {
	return v.OSM == other.OSM && v.GTFS == other.GTFS
}

// Valid reports whether every field of both fingerprints is non-negative.
func (v CacheVersion) Valid() bool {
	return v.OSM.Valid() && v.GTFS.Valid()
}

// ID returns a short stable digest of the version, suitable for logs and span attributes.
func (v CacheVersion) ID() string {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[0:], uint64(v.OSM.LastModifiedMillis))   //nolint:gosec // bit pattern only
	binary.LittleEndian.PutUint64(buf[8:], uint64(v.OSM.SizeBytes))            //nolint:gosec // bit pattern only
	binary.LittleEndian.PutUint64(buf[16:], uint64(v.GTFS.LastModifiedMillis)) //nolint:gosec // bit pattern only
	binary.LittleEndian.PutUint64(buf[24:], uint64(v.GTFS.SizeBytes))          //nolint:gosec // bit pattern only
	return strconv.FormatUint(xxhash.Sum64(buf[:]), 16)
}
