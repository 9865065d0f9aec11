package ports

import "go.trai.ch/graphcache/internal/core/domain"

//go:generate mockgen -source=version_store.go -destination=mocks/mock_version_store.go -package=mocks

// VersionStore computes and persists the fingerprint of the graph inputs.
type VersionStore interface {
	// Compute stats both input files and returns their combined version.
	// File contents are never read.
	Compute(osmPath, gtfsPath string) (domain.CacheVersion, error)
	// Read returns the persisted version, or nil when it is missing or invalid.
	Read(versionPath string) *domain.CacheVersion
	// Write persists the version, replacing any previous record.
	Write(versionPath string, version domain.CacheVersion) error
}
