package fingerprint

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/graphcache/internal/core/ports"
)

// NodeID is the unique identifier for the version store Graft node.
const NodeID graft.ID = "adapter.version_store"

func init() {
	graft.Register(graft.Node[ports.VersionStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.VersionStore, error) {
			return NewStore(), nil
		},
	})
}
