package ports

import (
	"time"

	"go.trai.ch/graphcache/internal/core/domain"
)

//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks

// Renderer presents cache lifecycle progress to the user.
type Renderer interface {
	// OnState is called for every state emitted by a session.
	OnState(state domain.CacheState)
	// OnProgress is called when an import job reports progress or settles.
	OnProgress(job domain.ImportJob)
	// OnTaskStart is called when a traced operation starts.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)
	// OnTaskLog is called with output produced by a traced operation.
	OnTaskLog(spanID string, data []byte)
	// OnTaskComplete is called when a traced operation ends.
	OnTaskComplete(spanID string, endTime time.Time, err error)
	// Stop flushes any buffered output.
	Stop() error
}
