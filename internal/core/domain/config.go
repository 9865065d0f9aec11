package domain

import (
	"path/filepath"
	"time"
)

// EngineOptions configures the external routing engine.
type EngineOptions struct {
	BuildCommand []string
	LoadCommand  []string
	QueryCommand []string
	Environment  map[string]string
	Profile      string
	MMap         bool
}

// DataAccess returns the storage mode name passed to the engine.
func (o EngineOptions) DataAccess() string {
	if o.MMap {
		return "MMAP"
	}
	return "RAM_STORE"
}

// LogOptions configures the optional rotating debug log.
type LogOptions struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	JSON       bool
}

// Config is the resolved configuration of a graph cache workspace.
// All paths are absolute.
type Config struct {
	Root            string
	OSMFile         string
	GTFSFile        string
	CacheRoot       string
	MinFreeSpace    uint64
	ReadyTimeout    time.Duration
	RefreshInterval time.Duration
	Engine          EngineOptions
	Log             LogOptions
}

// DefaultConfig returns the configuration used when no config file is present.
func DefaultConfig(root string) *Config {
	return &Config{
		Root:            root,
		OSMFile:         DefaultOSMFileName,
		GTFSFile:        DefaultGTFSFileName,
		CacheRoot:       filepath.Join(root, CacheDirName),
		MinFreeSpace:    DefaultMinFreeSpace,
		ReadyTimeout:    DefaultReadyTimeout,
		RefreshInterval: DefaultRefreshInterval,
		Engine: EngineOptions{
			Profile: DefaultProfile,
			MMap:    true,
		},
	}
}

// OSMPath returns the absolute path of the road-network extract.
func (c *Config) OSMPath() string {
	return filepath.Join(c.Root, c.OSMFile)
}

// GTFSPath returns the absolute path of the transit-schedule feed.
func (c *Config) GTFSPath() string {
	return filepath.Join(c.Root, c.GTFSFile)
}

// Layout returns the cache layout for the configured cache root.
func (c *Config) Layout() CacheLayout {
	return CacheLayout{Root: c.CacheRoot}
}
