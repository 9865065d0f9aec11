package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/graphcache/internal/adapters/config"
	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

const fullConfig = `
root: .
inputs:
  osm: berlin.osm.pbf
  gtfs: vbb.gtfs.zip
cache:
  dir: cache
  minFreeSpace: 512MiB
  readyTimeout: 2m
  refreshInterval: 1h
engine:
  build: [graph-engine, import]
  query: [graph-engine, route]
  profile: bike
  mmap: false
  environment:
    JAVA_OPTS: -Xmx3g
log:
  file: .graphcache/debug.log
  maxSizeMB: 10
  maxBackups: 3
`

func newLoader(t *testing.T, root string, files fstest.MapFS) (*config.Loader, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	return config.NewLoaderWithFS(mockLogger, config.NewMapFSAdapter(root, files)), mockLogger
}

func TestLoader_Load_Defaults(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "data")
	loader, _ := newLoader(t, root, fstest.MapFS{})

	cfg, err := loader.Load(root)
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultConfig(root), cfg)
}

func TestLoader_Load_Full(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "data")
	loader, _ := newLoader(t, root, fstest.MapFS{
		domain.ConfigFileName: {Data: []byte(fullConfig)},
	})

	cfg, err := loader.Load(root)
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(root, "berlin.osm.pbf"), cfg.OSMPath())
	assert.Equal(t, filepath.Join(root, "vbb.gtfs.zip"), cfg.GTFSPath())
	assert.Equal(t, filepath.Join(root, "cache"), cfg.CacheRoot)
	assert.Equal(t, uint64(512<<20), cfg.MinFreeSpace)
	assert.Equal(t, 2*time.Minute, cfg.ReadyTimeout)
	assert.Equal(t, time.Hour, cfg.RefreshInterval)

	assert.Equal(t, []string{"graph-engine", "import"}, cfg.Engine.BuildCommand)
	assert.Nil(t, cfg.Engine.LoadCommand)
	assert.Equal(t, []string{"graph-engine", "route"}, cfg.Engine.QueryCommand)
	assert.Equal(t, "bike", cfg.Engine.Profile)
	assert.Equal(t, "RAM_STORE", cfg.Engine.DataAccess())
	assert.Equal(t, map[string]string{"JAVA_OPTS": "-Xmx3g"}, cfg.Engine.Environment)

	assert.Equal(t, filepath.Join(root, ".graphcache", "debug.log"), cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
	assert.Equal(t, 3, cfg.Log.MaxBackups)
}

func TestLoader_Load_Discovery(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "data")
	loader, _ := newLoader(t, root, fstest.MapFS{
		domain.ConfigFileName: {Data: []byte("inputs:\n  osm: region.osm.pbf\n")},
		"sub/deeper/.keep":    {Data: nil},
	})

	cfg, err := loader.Load(filepath.Join(root, "sub", "deeper"))
	require.NoError(t, err)

	assert.Equal(t, root, cfg.Root, "root resolves relative to the discovered file")
	assert.Equal(t, filepath.Join(root, "region.osm.pbf"), cfg.OSMPath())
	assert.Equal(t, filepath.Join(root, domain.DefaultGTFSFileName), cfg.GTFSPath())
}

func TestLoader_Load_RootOverride(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "data")
	loader, _ := newLoader(t, root, fstest.MapFS{
		domain.ConfigFileName: {Data: []byte("root: ./inputs\n")},
	})

	cfg, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "inputs"), cfg.Root)
	assert.Equal(t, filepath.Join(root, "inputs", domain.CacheDirName), cfg.CacheRoot)
}

func TestLoader_Load_EmptyFile(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "data")
	loader, _ := newLoader(t, root, fstest.MapFS{
		domain.ConfigFileName: {Data: nil},
	})

	cfg, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(root), cfg)
}

func TestLoader_Load_WarnsWithoutQueryCommand(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "data")
	loader, mockLogger := newLoader(t, root, fstest.MapFS{
		domain.ConfigFileName: {Data: []byte("engine:\n  build: [graph-engine, import]\n")},
	})
	mockLogger.EXPECT().Warn(gomock.Any()).Times(1)

	_, err := loader.Load(root)
	require.NoError(t, err)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		field   string
	}{
		{name: "malformed yaml", content: "cache: [", wantErr: domain.ErrConfigParseFailed},
		{name: "unknown field", content: "cahce:\n  dir: x\n", wantErr: domain.ErrConfigParseFailed},
		{
			name:    "bad size",
			content: "cache:\n  minFreeSpace: lots\n",
			wantErr: domain.ErrInvalidConfig,
			field:   "cache.minFreeSpace",
		},
		{
			name:    "bad duration",
			content: "cache:\n  readyTimeout: soon\n",
			wantErr: domain.ErrInvalidConfig,
			field:   "cache.readyTimeout",
		},
		{
			name:    "non-positive duration",
			content: "cache:\n  refreshInterval: 0s\n",
			wantErr: domain.ErrInvalidConfig,
			field:   "cache.refreshInterval",
		},
		{
			name:    "same input files",
			content: "inputs:\n  osm: a.bin\n  gtfs: a.bin\n",
			wantErr: domain.ErrInvalidConfig,
			field:   "inputs",
		},
		{
			name:    "cache at root",
			content: "cache:\n  dir: .\n",
			wantErr: domain.ErrInvalidConfig,
			field:   "cache.dir",
		},
		{
			name:    "empty program",
			content: "engine:\n  query: [\"\", route]\n",
			wantErr: domain.ErrInvalidConfig,
			field:   "engine.query",
		},
		{
			name:    "negative log size",
			content: "log:\n  maxSizeMB: -1\n",
			wantErr: domain.ErrInvalidConfig,
			field:   "log.maxSizeMB",
		},
	}

	root := filepath.Join(string(filepath.Separator), "srv", "data")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, _ := newLoader(t, root, fstest.MapFS{
				domain.ConfigFileName: {Data: []byte(tt.content)},
			})

			_, err := loader.Load(root)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.field != "" {
				var zErr *zerr.Error
				require.ErrorAs(t, err, &zErr)
				assert.Equal(t, tt.field, zErr.Metadata()["field"])
			}
		})
	}
}

func TestLoader_Load_OSFS(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, domain.ConfigFileName),
		[]byte("cache:\n  dir: /var/cache/graph\n"),
		domain.FilePerm,
	))

	loader := config.NewLoader(mocks.NewMockLogger(gomock.NewController(t)))
	cfg, err := loader.Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean("/var/cache/graph"), cfg.CacheRoot)
}

func TestMapFSAdapter_OutsideRoot(t *testing.T) {
	adapter := config.NewMapFSAdapter("/srv/data", fstest.MapFS{"a.txt": {Data: []byte("x")}})

	_, err := adapter.ReadFile("/etc/a.txt")
	require.ErrorIs(t, err, os.ErrNotExist)

	data, err := adapter.ReadFile("/srv/data/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}
