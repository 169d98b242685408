package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/packer/internal/core/domain"
)

func TestConfig_InputPathOperations(t *testing.T) {
	cfg := domain.NewConfig(domain.KindCSS.DefaultTemplate()).WithInputPaths("a", "b", "c")

	cfg = cfg.AddInputPath("d")
	assert.Equal(t, []string{"a", "b", "c", "d"}, cfg.InputPaths())

	cfg = cfg.PopInputPath()
	assert.Equal(t, []string{"a", "b", "c"}, cfg.InputPaths())

	cfg = cfg.PrependInputPath("z")
	assert.Equal(t, []string{"z", "a", "b", "c"}, cfg.InputPaths())

	cfg = cfg.ShiftInputPath()
	assert.Equal(t, []string{"a", "b", "c"}, cfg.InputPaths())

	cfg = cfg.PopInputPath().PopInputPath().PopInputPath()
	assert.Empty(t, cfg.InputPaths())

	// Removing from an empty list is a no-op.
	assert.Empty(t, cfg.PopInputPath().InputPaths())
	assert.Empty(t, cfg.ShiftInputPath().InputPaths())
}

func TestConfig_SettersDoNotMutateReceiver(t *testing.T) {
	base := domain.NewConfig(domain.FixedName("out.css")).
		WithInputPaths("one").
		WithOutputPath("public").
		WithPresets(map[string]string{"color": "red"})

	_ = base.AddInputPath("two")
	_ = base.PrependInputPath("zero")
	_ = base.PopInputPath()
	_ = base.WithOutputPath("elsewhere")
	_ = base.WithDebug(true)
	_ = base.WithAtomicBatch(true)

	assert.Equal(t, []string{"one"}, base.InputPaths())
	assert.Equal(t, "public", base.OutputPath())
	assert.False(t, base.Debug())
	assert.False(t, base.AtomicBatch())

	presets := base.Presets()
	presets["color"] = "blue"
	assert.Equal(t, "red", base.Presets()["color"])

	paths := base.InputPaths()
	paths[0] = "changed"
	assert.Equal(t, []string{"one"}, base.InputPaths())
}

func TestConfig_CleansPaths(t *testing.T) {
	cfg := domain.NewConfig(domain.FixedName("x")).
		WithInputPaths("assets/css/", "./lib//vendor").
		WithOutputPath("public/assets/")

	assert.Equal(t, []string{"assets/css", "lib/vendor"}, cfg.InputPaths())
	assert.Equal(t, "public/assets", cfg.OutputPath())
}
