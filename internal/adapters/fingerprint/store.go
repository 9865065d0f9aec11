// Package fingerprint implements the metadata-only cache version store.
package fingerprint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/zerr"
)

// record is the on-disk form of a cache version.
// Pointer fields distinguish a missing key from a zero value.
type record struct {
	OSMTimestamp  *int64 `json:"osmTimestamp"`
	OSMSize       *int64 `json:"osmSize"`
	GTFSTimestamp *int64 `json:"gtfsTimestamp"`
	GTFSSize      *int64 `json:"gtfsSize"`
}

// Store implements ports.VersionStore using a small JSON file.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Compute stats both inputs and combines their fingerprints.
func (s *Store) Compute(osmPath, gtfsPath string) (domain.CacheVersion, error) {
	osm, err := fingerprintOf(osmPath)
	if err != nil {
		return domain.CacheVersion{}, err
	}

	gtfs, err := fingerprintOf(gtfsPath)
	if err != nil {
		return domain.CacheVersion{}, err
	}

	return domain.CacheVersion{OSM: osm, GTFS: gtfs}, nil
}

func fingerprintOf(path string) (domain.InputFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.InputFingerprint{}, zerr.With(fmt.Errorf("%w: %w", domain.ErrMissingInputFiles, err), "path", path)
	}
	return domain.InputFingerprint{
		LastModifiedMillis: info.ModTime().UnixMilli(),
		SizeBytes:          info.Size(),
	}, nil
}

// Read returns the persisted version, or nil if it is missing, unparsable or has
// a missing or negative field.
func (s *Store) Read(versionPath string) *domain.CacheVersion {
	//nolint:gosec // Path is derived from the configured cache root
	data, err := os.ReadFile(versionPath)
	if err != nil {
		return nil
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil
	}

	if rec.OSMTimestamp == nil || rec.OSMSize == nil || rec.GTFSTimestamp == nil || rec.GTFSSize == nil {
		return nil
	}

	version := domain.CacheVersion{
		OSM:  domain.InputFingerprint{LastModifiedMillis: *rec.OSMTimestamp, SizeBytes: *rec.OSMSize},
		GTFS: domain.InputFingerprint{LastModifiedMillis: *rec.GTFSTimestamp, SizeBytes: *rec.GTFSSize},
	}
	if !version.Valid() {
		return nil
	}

	return &version
}

// Write persists the version by writing a temporary file and renaming it into place.
func (s *Store) Write(versionPath string, version domain.CacheVersion) error {
	rec := record{
		OSMTimestamp:  &version.OSM.LastModifiedMillis,
		OSMSize:       &version.OSM.SizeBytes,
		GTFSTimestamp: &version.GTFS.LastModifiedMillis,
		GTFSSize:      &version.GTFS.SizeBytes,
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreMarshalFailed.Error())
	}

	dir := filepath.Dir(versionPath)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return metadataWriteFailure(err, versionPath)
	}

	tmp, err := os.CreateTemp(dir, ".version-*")
	if err != nil {
		return metadataWriteFailure(err, versionPath)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return metadataWriteFailure(err, versionPath)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return metadataWriteFailure(err, versionPath)
	}

	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		_ = os.Remove(tmpName)
		return metadataWriteFailure(err, versionPath)
	}

	if err := os.Rename(tmpName, versionPath); err != nil {
		_ = os.Remove(tmpName)
		return metadataWriteFailure(err, versionPath)
	}

	return nil
}

func metadataWriteFailure(cause error, path string) error {
	return zerr.With(fmt.Errorf("%w: %w", domain.ErrMetadataWriteFailure, cause), "path", path)
}
