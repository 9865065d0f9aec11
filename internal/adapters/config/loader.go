// Package config provides the configuration loader for graphcache.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the real filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return NewLoaderWithFS(logger, NewOSFS())
}

// NewLoaderWithFS creates a new Loader reading through fsys.
func NewLoaderWithFS(logger ports.Logger, fsys FileSystem) *Loader {
	return &Loader{Logger: logger, FS: fsys}
}

// Load discovers graphcache.yaml by walking up from cwd and resolves it into a domain.Config.
// Without a config file the defaults rooted at cwd are returned.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	cwd = filepath.Clean(cwd)

	configPath, found := l.findConfiguration(cwd)
	if !found {
		return domain.DefaultConfig(cwd), nil
	}

	var file Configfile
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}

	cfg, err := buildConfig(configPath, &file)
	if err != nil {
		return nil, zerr.With(err, "config", configPath)
	}

	if cfg.Engine.QueryCommand == nil && cfg.Engine.BuildCommand != nil {
		l.Logger.Warn(fmt.Sprintf("no 'engine.query' command in %s, routing is disabled", domain.ConfigFileName))
	}

	return cfg, nil
}

func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := cwd

	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

// readAndUnmarshalYAML reads a YAML file and strictly unmarshals it into target.
// An empty document leaves target untouched.
func (l *Loader) readAndUnmarshalYAML(configPath string, target *Configfile) error {
	data, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigReadFailed, err), "path", configPath)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.With(fmt.Errorf("%w: %w", domain.ErrConfigParseFailed, err), "path", configPath)
	}

	return nil
}

func buildConfig(configPath string, file *Configfile) (*domain.Config, error) {
	root := resolveRoot(configPath, file.Root)
	cfg := domain.DefaultConfig(root)

	if file.Inputs.OSM != "" {
		cfg.OSMFile = file.Inputs.OSM
	}
	if file.Inputs.GTFS != "" {
		cfg.GTFSFile = file.Inputs.GTFS
	}
	if cfg.OSMFile == cfg.GTFSFile {
		return nil, invalidConfig("inputs", "osm and gtfs must name different files")
	}

	if file.Cache.Dir != "" {
		cfg.CacheRoot = resolvePath(root, file.Cache.Dir)
	}
	if cfg.CacheRoot == root {
		return nil, invalidConfig("cache.dir", "cache directory must not be the root directory")
	}

	if file.Cache.MinFreeSpace != "" {
		size, err := humanize.ParseBytes(file.Cache.MinFreeSpace)
		if err != nil {
			return nil, invalidConfig("cache.minFreeSpace", "not a byte size: "+file.Cache.MinFreeSpace)
		}
		cfg.MinFreeSpace = size
	}

	var err error
	if cfg.ReadyTimeout, err = parseDuration("cache.readyTimeout", file.Cache.ReadyTimeout, cfg.ReadyTimeout); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = parseDuration(
		"cache.refreshInterval", file.Cache.RefreshInterval, cfg.RefreshInterval,
	); err != nil {
		return nil, err
	}

	if err := applyEngine(&cfg.Engine, &file.Engine); err != nil {
		return nil, err
	}

	if err := applyLog(root, &cfg.Log, &file.Log); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEngine(opts *domain.EngineOptions, dto *EngineDTO) error {
	for field, argv := range map[string][]string{
		"engine.build": dto.Build,
		"engine.load":  dto.Load,
		"engine.query": dto.Query,
	} {
		if len(argv) > 0 && strings.TrimSpace(argv[0]) == "" {
			return invalidConfig(field, "command must not start with an empty program")
		}
	}

	opts.BuildCommand = nonEmpty(dto.Build)
	opts.LoadCommand = nonEmpty(dto.Load)
	opts.QueryCommand = nonEmpty(dto.Query)

	if dto.Profile != "" {
		opts.Profile = dto.Profile
	}
	if dto.MMap != nil {
		opts.MMap = *dto.MMap
	}
	if len(dto.Environment) > 0 {
		opts.Environment = maps.Clone(dto.Environment)
	}

	return nil
}

func applyLog(root string, opts *domain.LogOptions, dto *LogDTO) error {
	if dto.MaxSizeMB < 0 {
		return invalidConfig("log.maxSizeMB", "must not be negative")
	}
	if dto.MaxBackups < 0 {
		return invalidConfig("log.maxBackups", "must not be negative")
	}

	if dto.File != "" {
		opts.File = resolvePath(root, dto.File)
	}
	opts.MaxSizeMB = dto.MaxSizeMB
	opts.MaxBackups = dto.MaxBackups
	opts.JSON = dto.JSON

	return nil
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, invalidConfig(field, "not a duration: "+value)
	}
	if d <= 0 {
		return 0, invalidConfig(field, "must be positive")
	}
	return d, nil
}

// resolveRoot resolves the root directory relative to the config file.
func resolveRoot(configPath, configuredRoot string) string {
	return resolvePath(filepath.Dir(configPath), configuredRoot)
}

func resolvePath(base, p string) string {
	if p == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Clean(filepath.Join(base, p))
}

func nonEmpty(argv []string) []string {
	if len(argv) == 0 {
		return nil
	}
	return argv
}

func invalidConfig(field, msg string) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidConfig, msg), "field", field)
}
