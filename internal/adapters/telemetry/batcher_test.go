package telemetry_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/graphcache/internal/adapters/telemetry"
)

type collector struct {
	mu     sync.Mutex
	chunks []string
}

func (c *collector) add(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, string(data))
}

func (c *collector) get() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.chunks...)
}

func TestLogBatcher_FlushOnSizeKeepsPartialLine(t *testing.T) {
	c := &collector{}
	b := telemetry.NewLogBatcher(10, time.Hour, c.add)
	defer func() { _ = b.Close() }()

	_, err := b.Write([]byte("abc\n"))
	require.NoError(t, err)
	assert.Empty(t, c.get())

	_, err = b.Write([]byte("def\nxy"))
	require.NoError(t, err)
	assert.Equal(t, []string{"abc\ndef\n"}, c.get())

	require.NoError(t, b.Close())
	assert.Equal(t, []string{"abc\ndef\n", "xy"}, c.get())
}

func TestLogBatcher_LongLineFlushedWhole(t *testing.T) {
	c := &collector{}
	b := telemetry.NewLogBatcher(4, time.Hour, c.add)
	defer func() { _ = b.Close() }()

	_, err := b.Write([]byte("0123456789"))
	require.NoError(t, err)
	assert.Equal(t, []string{"0123456789"}, c.get())
}

func TestLogBatcher_FlushOnTime(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := &collector{}
		b := telemetry.NewLogBatcher(1024, 50*time.Millisecond, c.add)
		defer func() { _ = b.Close() }()

		_, err := b.Write([]byte("importing\npartial"))
		require.NoError(t, err)
		assert.Empty(t, c.get())

		time.Sleep(60 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, []string{"importing\n"}, c.get())
	})
}

func TestLogBatcher_WriteAfterClose(t *testing.T) {
	b := telemetry.NewLogBatcher(0, 0, nil)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, err := b.Write([]byte("late"))
	assert.Error(t, err)
}
