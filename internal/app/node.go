package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/graphcache/internal/adapters/config"      //nolint:depguard // Wired in app layer
	"go.trai.ch/graphcache/internal/adapters/disk"        //nolint:depguard // Wired in app layer
	"go.trai.ch/graphcache/internal/adapters/engine"      //nolint:depguard // Wired in app layer
	"go.trai.ch/graphcache/internal/adapters/fingerprint" //nolint:depguard // Wired in app layer
	"go.trai.ch/graphcache/internal/adapters/logger"      //nolint:depguard // Wired in app layer
	"go.trai.ch/graphcache/internal/adapters/watcher"     //nolint:depguard // Wired in app layer
	"go.trai.ch/graphcache/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			engine.NodeID,
			fingerprint.NodeID,
			disk.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	eng, err := graft.Dep[ports.RoutingEngine](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.VersionStore](ctx)
	if err != nil {
		return nil, err
	}

	space, err := graft.Dep[ports.DiskSpace](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, eng, store, space, w), nil
}
