package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/packer/internal/core/ports"
)

const (
	// WalkerNodeID is the unique identifier for the directory walker.
	WalkerNodeID graft.ID = "adapter.fs.walker"
	// ResolverNodeID is the unique identifier for the asset path resolver.
	ResolverNodeID graft.ID = "adapter.fs.resolver"
	// StaterNodeID is the unique identifier for the asset stater.
	StaterNodeID graft.ID = "adapter.fs.stater"
)

func init() {
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	graft.Register(graft.Node[ports.PathResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.PathResolver, error) {
			return NewResolver(), nil
		},
	})

	graft.Register(graft.Node[ports.Stater]{
		ID:        StaterNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Stater, error) {
			return NewResolver(), nil
		},
	})
}
