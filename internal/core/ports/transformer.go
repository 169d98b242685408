// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/packer/internal/core/domain"
)

// Transformer defines the interface for turning registered assets into artifact bytes.
//
//go:generate go run go.uber.org/mock/mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type Transformer interface {
	// Transform reads the assets of req in order and returns the packed output.
	//
	// In debug mode the raw contents are concatenated. Otherwise the kind
	// decides which compile and minify steps run.
	Transform(ctx context.Context, req domain.TransformRequest) ([]byte, error)
}

// Compiler defines the interface for stylesheet preprocessors.
type Compiler interface {
	// Compile turns a LESS or SCSS source into plain CSS.
	Compile(ctx context.Context, req domain.CompileRequest) ([]byte, error)
}
