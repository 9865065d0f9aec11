// Package telemetry provides OpenTelemetry-backed tracing and the span output pipeline.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultSizeLimit is the buffered byte count that forces a flush.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is the flush interval for buffered output.
	DefaultTimeLimit = 50 * time.Millisecond
)

// errBatcherClosed is returned by Write after Close.
var errBatcherClosed = errors.New("log batcher is closed")

// LogBatcher buffers child process output for one span and hands it on in whole lines.
// A trailing partial line is held back until more output arrives or the batcher closes.
// It is safe for concurrent use.
type LogBatcher struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func([]byte)

	mu     sync.Mutex
	buffer bytes.Buffer
	ticker *time.Ticker
	stopCh chan struct{}
	closed bool
}

// NewLogBatcher returns a LogBatcher that calls onFlush with complete lines.
// Non-positive limits select the defaults. Call Close to stop the background flusher.
func NewLogBatcher(sizeLimit int, timeLimit time.Duration, onFlush func([]byte)) *LogBatcher {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	b := &LogBatcher{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
		ticker:    time.NewTicker(timeLimit),
		stopCh:    make(chan struct{}),
	}
	go b.run()

	return b
}

// Write buffers p. Reaching the size limit flushes every complete line.
// A single line longer than the size limit is flushed as is.
func (b *LogBatcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errBatcherClosed
	}

	n, _ := b.buffer.Write(p)

	if b.buffer.Len() >= b.sizeLimit {
		if !b.flushLinesLocked() {
			b.flushAllLocked()
		}
		b.ticker.Reset(b.timeLimit)
	}

	return n, nil
}

// Flush hands on every complete buffered line.
func (b *LogBatcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.flushLinesLocked()
}

// Close stops the background flusher and hands on everything still buffered.
func (b *LogBatcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true
	close(b.stopCh)
	b.flushAllLocked()
	return nil
}

func (b *LogBatcher) run() {
	for {
		select {
		case <-b.ticker.C:
			b.Flush()
		case <-b.stopCh:
			b.ticker.Stop()
			return
		}
	}
}

// flushLinesLocked flushes up to the last newline and reports whether anything was sent.
func (b *LogBatcher) flushLinesLocked() bool {
	idx := bytes.LastIndexByte(b.buffer.Bytes(), '\n')
	if idx < 0 {
		return false
	}

	data := bytes.Clone(b.buffer.Next(idx + 1))
	b.emit(data)
	return true
}

func (b *LogBatcher) flushAllLocked() {
	if b.buffer.Len() == 0 {
		return
	}

	data := bytes.Clone(b.buffer.Bytes())
	b.buffer.Reset()
	b.emit(data)
}

// emit runs under mu so that flushes reach the callback in write order.
func (b *LogBatcher) emit(data []byte) {
	if b.onFlush != nil {
		b.onFlush(data)
	}
}
