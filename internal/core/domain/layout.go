package domain

import (
	"path/filepath"
	"time"
)

const (
	// StateDirName is the name of the internal workspace directory.
	StateDirName = ".graphcache"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "graphcache.yaml"

	// DefaultOSMFileName is the default name of the road-network extract.
	DefaultOSMFileName = "data.osm.pbf"

	// DefaultGTFSFileName is the default name of the transit-schedule feed.
	DefaultGTFSFileName = "data.gtfs.zip"

	// CacheDirName is the default name of the cache root directory.
	CacheDirName = "graph-cache"

	// GraphDirName is the name of the engine-owned graph directory inside the cache root.
	GraphDirName = "graph"

	// VersionFileName is the name of the persisted cache version record.
	VersionFileName = "version.json"

	// DebugLogFile is the name of the debug log file.
	DebugLogFile = "debug.log"

	// ImportJobName is the singleton key under which graph imports are registered.
	ImportJobName = "graph_import"

	// DefaultProfile is the routing profile used for walking queries.
	DefaultProfile = "foot"

	// TransitProfile is the routing profile used for public transit queries.
	TransitProfile = "pt"

	// DefaultMinFreeSpace is the free space the cache volume needs before a build (3 GiB).
	DefaultMinFreeSpace uint64 = 3 << 30

	// DefaultReadyTimeout bounds how long a session waits for the graph to become ready.
	DefaultReadyTimeout = 60 * time.Second

	// DefaultRefreshInterval is the periodic revalidation interval used by watch mode.
	DefaultRefreshInterval = 15 * time.Minute

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// CacheLayout resolves the on-disk locations owned by a cache root.
type CacheLayout struct {
	Root string
}

// GraphDir returns the directory the routing engine writes the graph into.
func (l CacheLayout) GraphDir() string {
	return filepath.Join(l.Root, GraphDirName)
}

// VersionFile returns the path of the persisted cache version record.
func (l CacheLayout) VersionFile() string {
	return filepath.Join(l.Root, VersionFileName)
}

// DefaultDebugLogPath returns the default path for the debug log.
// It joins .graphcache and debug.log.
func DefaultDebugLogPath() string {
	return filepath.Join(StateDirName, DebugLogFile)
}
