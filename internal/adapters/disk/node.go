package disk

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/graphcache/internal/core/ports"
)

// NodeID is the unique identifier for the disk space Graft node.
const NodeID graft.ID = "adapter.disk_space"

func init() {
	graft.Register(graft.Node[ports.DiskSpace]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.DiskSpace, error) {
			return NewSpace(), nil
		},
	})
}
