package engine

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/graphcache/internal/adapters/logger" //nolint:depguard // Wired in adapter layer
	"go.trai.ch/graphcache/internal/core/ports"
)

// NodeID is the unique identifier for the routing engine Graft node.
const NodeID graft.ID = "adapter.routing_engine"

func init() {
	graft.Register(graft.Node[ports.RoutingEngine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.RoutingEngine, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
