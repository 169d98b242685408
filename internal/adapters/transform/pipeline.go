// Package transform turns registered assets into packed artifact bytes.
package transform

import (
	"bytes"
	"context"
	"errors"
	"os"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/js"
	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	mediaCSS = "text/css"
	mediaJS  = "application/javascript"
)

// jsSeparator keeps two minified scripts from merging into one statement.
var jsSeparator = []byte{';'}

var _ ports.Transformer = (*Pipeline)(nil)

// Pipeline implements ports.Transformer with per-kind strategies.
//
// Stylesheets written in LESS or SCSS are handed to the compiler first.
// Every asset is then minified on its own and the results are concatenated
// in asset order. In debug mode the raw bytes are concatenated unchanged.
type Pipeline struct {
	minifier *minify.M
	compiler ports.Compiler
}

// New creates a Pipeline. compiler may be nil when no preprocessor is available;
// packing a LESS or SCSS asset then fails.
func New(compiler ports.Compiler) *Pipeline {
	m := minify.New()
	m.AddFunc(mediaCSS, css.Minify)
	m.AddFunc(mediaJS, js.Minify)

	return &Pipeline{minifier: m, compiler: compiler}
}

// Transform implements ports.Transformer.
func (p *Pipeline) Transform(ctx context.Context, req domain.TransformRequest) ([]byte, error) {
	var strategy func(context.Context, domain.Asset, []byte, domain.TransformRequest) ([]byte, error)
	var sep []byte

	switch {
	case req.Debug:
		strategy = passThrough
	case req.Kind == domain.KindCSS:
		strategy = p.stylesheet
	case req.Kind == domain.KindJS:
		strategy = p.script
		sep = jsSeparator
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownKind, "select transform"), "kind", req.Kind.String())
	}

	var out bytes.Buffer
	for i, asset := range req.Assets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		//nolint:gosec // Path was resolved against the configured input roots
		raw, err := os.ReadFile(asset.Path)
		if err != nil {
			return nil, zerr.With(errors.Join(domain.ErrAssetRead, err), "path", asset.Path)
		}

		chunk, err := strategy(ctx, asset, raw, req)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "transform asset"), "path", asset.Path)
		}

		if i > 0 && len(sep) > 0 && len(chunk) > 0 {
			out.Write(sep)
		}
		out.Write(chunk)
	}

	return out.Bytes(), nil
}

func passThrough(_ context.Context, _ domain.Asset, raw []byte, _ domain.TransformRequest) ([]byte, error) {
	return raw, nil
}

func (p *Pipeline) stylesheet(ctx context.Context, asset domain.Asset, raw []byte, req domain.TransformRequest) ([]byte, error) {
	src := raw
	if source := domain.SourceOf(asset.Path); source != domain.SourcePlain {
		if p.compiler == nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrCompilerNotConfigured, "compile stylesheet"), "source", source.String())
		}
		compiled, err := p.compiler.Compile(ctx, domain.CompileRequest{
			Source:  source,
			Path:    asset.Path,
			Content: raw,
			Presets: req.Presets,
		})
		if err != nil {
			return nil, err
		}
		src = compiled
	}

	return p.minify(mediaCSS, src)
}

func (p *Pipeline) script(_ context.Context, _ domain.Asset, raw []byte, _ domain.TransformRequest) ([]byte, error) {
	return p.minify(mediaJS, raw)
}

func (p *Pipeline) minify(mediatype string, src []byte) ([]byte, error) {
	out, err := p.minifier.Bytes(mediatype, src)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrTransformFailed, err), "media_type", mediatype)
	}
	return out, nil
}
