package transform_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/packer/internal/adapters/transform"
	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func assets(t *testing.T, names ...string) []domain.Asset {
	t.Helper()
	out := make([]domain.Asset, len(names))
	for i, n := range names {
		abs, err := filepath.Abs(filepath.Join("testdata", "assets", n))
		require.NoError(t, err)
		out[i] = domain.Asset{Path: abs}
	}
	return out
}

func TestPipeline_CSSMinify(t *testing.T) {
	p := transform.New(nil)

	out, err := p.Transform(context.Background(), domain.TransformRequest{
		Kind:   domain.KindCSS,
		Assets: assets(t, "site.css"),
	})
	require.NoError(t, err)
	assert.Equal(t, "body{color:#ccc}", string(out))
}

func TestPipeline_CSSConcatenatesInOrder(t *testing.T) {
	p := transform.New(nil)

	out, err := p.Transform(context.Background(), domain.TransformRequest{
		Kind:   domain.KindCSS,
		Assets: assets(t, "site.css", "reset.css"),
	})
	require.NoError(t, err)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "body{color:#ccc}"), s)
	assert.Contains(t, s, "margin:0")
	assert.NotContains(t, s, "\n")
}

func TestPipeline_JSMinify(t *testing.T) {
	p := transform.New(nil)

	out, err := p.Transform(context.Background(), domain.TransformRequest{
		Kind:   domain.KindJS,
		Assets: assets(t, "util.js", "app.js"),
	})
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "greeting helper", "comments must be stripped")
	assert.Less(t, len(s), 100)
	assert.Contains(t, s, "console.log(")

	greet := strings.Index(s, "function greet")
	log := strings.Index(s, "console.log")
	require.GreaterOrEqual(t, greet, 0)
	assert.Less(t, greet, log, "assets must keep their order")
}

func TestPipeline_DebugPassThrough(t *testing.T) {
	p := transform.New(nil)

	tests := []struct {
		name   string
		kind   domain.Kind
		assets []string
	}{
		{"debug_css", domain.KindCSS, []string{"reset.css", "site.css"}},
		{"debug_js", domain.KindJS, []string{"util.js", "app.js"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := p.Transform(context.Background(), domain.TransformRequest{
				Kind:   tt.kind,
				Assets: assets(t, tt.assets...),
				Debug:  true,
			})
			require.NoError(t, err)

			g := goldie.New(t)
			g.Assert(t, tt.name, out)
		})
	}
}

func TestPipeline_DebugSkipsCompiler(t *testing.T) {
	ctrl := gomock.NewController(t)
	compiler := mocks.NewMockCompiler(ctrl)
	compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).Times(0)

	out, err := transform.New(compiler).Transform(context.Background(), domain.TransformRequest{
		Kind:   domain.KindCSS,
		Assets: assets(t, "theme.less"),
		Debug:  true,
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), "@primary")
}

func TestPipeline_CompilesLESS(t *testing.T) {
	ctrl := gomock.NewController(t)
	compiler := mocks.NewMockCompiler(ctrl)
	presets := map[string]string{"primary": "#444"}

	compiler.EXPECT().
		Compile(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req domain.CompileRequest) ([]byte, error) {
			assert.Equal(t, domain.SourceLESS, req.Source)
			assert.Equal(t, presets, req.Presets)
			assert.Contains(t, string(req.Content), "@primary: #333;")
			return []byte("body {\n  color: #444444;\n}\n"), nil
		}).
		Times(1)

	out, err := transform.New(compiler).Transform(context.Background(), domain.TransformRequest{
		Kind:    domain.KindCSS,
		Assets:  assets(t, "site.css", "theme.less"),
		Flags:   domain.KindFlags{LESS: true},
		Presets: presets,
	})
	require.NoError(t, err)
	assert.Equal(t, "body{color:#ccc}body{color:#444}", string(out))
}

func TestPipeline_CompilerErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	compiler := mocks.NewMockCompiler(ctrl)
	compiler.EXPECT().Compile(gomock.Any(), gomock.Any()).Return(nil, domain.ErrCompileFailed)

	_, err := transform.New(compiler).Transform(context.Background(), domain.TransformRequest{
		Kind:   domain.KindCSS,
		Assets: assets(t, "theme.less"),
	})
	require.ErrorIs(t, err, domain.ErrCompileFailed)
}

func TestPipeline_MissingCompiler(t *testing.T) {
	_, err := transform.New(nil).Transform(context.Background(), domain.TransformRequest{
		Kind:   domain.KindCSS,
		Assets: assets(t, "theme.less"),
	})
	require.ErrorIs(t, err, domain.ErrCompilerNotConfigured)
}

func TestPipeline_ReadError(t *testing.T) {
	_, err := transform.New(nil).Transform(context.Background(), domain.TransformRequest{
		Kind:   domain.KindCSS,
		Assets: []domain.Asset{{Path: filepath.Join(t.TempDir(), "vanished.css")}},
	})
	require.ErrorIs(t, err, domain.ErrAssetRead)
}

func TestPipeline_UnknownKind(t *testing.T) {
	_, err := transform.New(nil).Transform(context.Background(), domain.TransformRequest{
		Kind:   "html",
		Assets: assets(t, "site.css"),
	})
	require.ErrorIs(t, err, domain.ErrUnknownKind)
}

func TestPipeline_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := transform.New(nil).Transform(ctx, domain.TransformRequest{
		Kind:   domain.KindCSS,
		Assets: assets(t, "site.css"),
	})
	require.True(t, errors.Is(err, context.Canceled))
}

func TestPipeline_EmptyAssets(t *testing.T) {
	out, err := transform.New(nil).Transform(context.Background(), domain.TransformRequest{Kind: domain.KindJS})
	require.NoError(t, err)
	assert.Empty(t, out)
}
