package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingInputFiles is returned when one or both input files are absent or not regular files.
	ErrMissingInputFiles = zerr.New("missing input files")

	// ErrUnreadableInputFiles is returned when the input files exist but cannot be opened for reading.
	ErrUnreadableInputFiles = zerr.New("files unreadable")

	// ErrInsufficientDiskSpace is returned when the cache volume is below the free space threshold.
	ErrInsufficientDiskSpace = zerr.New("insufficient disk space")

	// ErrDiskSpaceUnavailable is returned when the free space of the cache volume cannot be determined.
	ErrDiskSpaceUnavailable = zerr.New("failed to determine available disk space")

	// ErrMetadataWriteFailure is returned when the cache version record cannot be persisted.
	ErrMetadataWriteFailure = zerr.New("failed to write cache version")

	// ErrStoreMarshalFailed is returned when the cache version cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal cache version")

	// ErrBuildFailure is returned when the routing engine fails to build the graph.
	ErrBuildFailure = zerr.New("graph build failed")

	// ErrArtifactInitFailure is returned when an existing graph cannot be loaded.
	ErrArtifactInitFailure = zerr.New("failed to load graph")

	// ErrTimeout is returned when the graph did not become ready in time.
	ErrTimeout = zerr.New("timeout")

	// ErrCancelled is returned when an import was cancelled before it finished.
	ErrCancelled = zerr.New("cancelled")

	// ErrOutOfMemory is returned when the routing engine ran out of memory during a build.
	ErrOutOfMemory = zerr.New("graph build ran out of memory")

	// ErrMissingJobParameter is returned when an import job is created without its input paths.
	ErrMissingJobParameter = zerr.New("missing import job parameter")

	// ErrImportFailed is returned when waiting on an import that settled unsuccessfully.
	ErrImportFailed = zerr.New("import failed")

	// ErrSessionFailed is returned when a cache session ends without a ready graph.
	// The terminal state has already been rendered when it is returned.
	ErrSessionFailed = zerr.New("graph cache session failed")

	// ErrArtifactNotReady is returned when a route is requested before a graph is loaded.
	ErrArtifactNotReady = zerr.New("graph not ready")

	// ErrArtifactClosed is returned when a graph is installed after the handle was closed.
	ErrArtifactClosed = zerr.New("graph handle closed")

	// ErrNoRoute is returned when the routing engine finds no route for a query.
	ErrNoRoute = zerr.New("no route found")

	// ErrEngineNotConfigured is returned when a required engine command is not configured.
	ErrEngineNotConfigured = zerr.New("routing engine command not configured")

	// ErrEngineProtocol is returned when the routing engine produces output that cannot be decoded.
	ErrEngineProtocol = zerr.New("invalid routing engine response")

	// ErrCacheCleanFailed is returned when the cache directory cannot be removed.
	ErrCacheCleanFailed = zerr.New("failed to clean graph cache")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range or malformed.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrInvalidCoordinate is returned when a coordinate cannot be parsed.
	ErrInvalidCoordinate = zerr.New("invalid coordinate, expected lat,lon")

	// ErrInvalidTravelMode is returned when a travel mode is unknown.
	ErrInvalidTravelMode = zerr.New("invalid travel mode, expected 'walk' or 'transit'")
)
