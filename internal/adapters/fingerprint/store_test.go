package fingerprint_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/graphcache/internal/adapters/fingerprint"
	"go.trai.ch/graphcache/internal/core/domain"
)

func writeInput(t *testing.T, path string, size int, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, make([]byte, size), domain.FilePerm))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestStore_Compute(t *testing.T) {
	dir := t.TempDir()
	osm := filepath.Join(dir, "data.osm.pbf")
	gtfs := filepath.Join(dir, "data.gtfs.zip")

	mtime := time.UnixMilli(1_700_000_000_123)
	writeInput(t, osm, 42, mtime)
	writeInput(t, gtfs, 7, mtime.Add(time.Second))

	store := fingerprint.NewStore()
	version, err := store.Compute(osm, gtfs)
	require.NoError(t, err)

	assert.Equal(t, int64(42), version.OSM.SizeBytes)
	assert.Equal(t, mtime.UnixMilli(), version.OSM.LastModifiedMillis)
	assert.Equal(t, int64(7), version.GTFS.SizeBytes)
	assert.Equal(t, mtime.Add(time.Second).UnixMilli(), version.GTFS.LastModifiedMillis)

	t.Run("content change with same size and mtime is invisible", func(t *testing.T) {
		require.NoError(t, os.WriteFile(osm, append(make([]byte, 41), 'x'), domain.FilePerm))
		require.NoError(t, os.Chtimes(osm, mtime, mtime))

		again, err := store.Compute(osm, gtfs)
		require.NoError(t, err)
		assert.True(t, version.Equal(again))
	})

	t.Run("size change is detected", func(t *testing.T) {
		writeInput(t, gtfs, 8, mtime.Add(time.Second))

		again, err := store.Compute(osm, gtfs)
		require.NoError(t, err)
		assert.False(t, version.Equal(again))
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := store.Compute(osm, filepath.Join(dir, "absent"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrMissingInputFiles)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestStore_WriteRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graph-cache", "version.json")

	store := fingerprint.NewStore()
	version := domain.CacheVersion{
		OSM:  domain.InputFingerprint{LastModifiedMillis: 1000, SizeBytes: 2000},
		GTFS: domain.InputFingerprint{LastModifiedMillis: 3000, SizeBytes: 4000},
	}

	require.NoError(t, store.Write(path, version))

	got := store.Read(path)
	require.NotNil(t, got)
	assert.True(t, version.Equal(*got))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"osmTimestamp":1000,"osmSize":2000,"gtfsTimestamp":3000,"gtfsSize":4000}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")

	t.Run("overwrite", func(t *testing.T) {
		next := version
		next.GTFS.SizeBytes = 1
		require.NoError(t, store.Write(path, next))

		got := store.Read(path)
		require.NotNil(t, got)
		assert.True(t, next.Equal(*got))
	})
}

func TestStore_ReadFailsSoft(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "truncated", content: `{"osmTimestamp":1000,"osmSi`},
		{name: "not json", content: "garbage"},
		{name: "empty", content: ""},
		{name: "missing field", content: `{"osmTimestamp":1,"osmSize":2,"gtfsTimestamp":3}`},
		{name: "negative field", content: `{"osmTimestamp":1,"osmSize":-2,"gtfsTimestamp":3,"gtfsSize":4}`},
		{name: "wrong type", content: `{"osmTimestamp":"1","osmSize":2,"gtfsTimestamp":3,"gtfsSize":4}`},
	}

	store := fingerprint.NewStore()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "version.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), domain.FilePerm))
			assert.Nil(t, store.Read(path))
		})
	}

	t.Run("missing file", func(t *testing.T) {
		assert.Nil(t, store.Read(filepath.Join(t.TempDir(), "version.json")))
	})
}

func TestStore_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, domain.FilePerm))

	store := fingerprint.NewStore()
	err := store.Write(filepath.Join(blocker, "version.json"), domain.CacheVersion{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMetadataWriteFailure)
}
