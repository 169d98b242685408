package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/packer/internal/core/domain"
)

func TestRegistry_AddKeepsOrderAndDuplicates(t *testing.T) {
	var reg domain.Registry
	t0 := time.Unix(100, 0)

	assert.True(t, reg.Add(domain.Asset{Path: "/a.css", ModTime: t0}, domain.PolicyAdd))
	assert.True(t, reg.Add(domain.Asset{Path: "/b.css", ModTime: t0}, domain.PolicyAdd))
	assert.True(t, reg.Add(domain.Asset{Path: "/a.css", ModTime: t0}, domain.PolicyAdd))

	assert.Equal(t, []string{"/a.css", "/b.css", "/a.css"}, reg.Paths())
	assert.Equal(t, 3, reg.Len())
}

func TestRegistry_AddOnceSkipsKnownPaths(t *testing.T) {
	var reg domain.Registry
	older := time.Unix(100, 0)
	newer := time.Unix(200, 0)

	assert.True(t, reg.Add(domain.Asset{Path: "/a.css", ModTime: older}, domain.PolicyAddOnce))
	assert.False(t, reg.Add(domain.Asset{Path: "/a.css", ModTime: newer}, domain.PolicyAddOnce))

	assert.Equal(t, []string{"/a.css"}, reg.Paths())
	assert.True(t, reg.LastModified().Equal(older), "skipped asset must not bump LastModified")
}

func TestRegistry_LastModifiedIsMax(t *testing.T) {
	var reg domain.Registry
	assert.True(t, reg.LastModified().IsZero())

	reg.Add(domain.Asset{Path: "/a", ModTime: time.Unix(300, 0)}, domain.PolicyAdd)
	reg.Add(domain.Asset{Path: "/b", ModTime: time.Unix(100, 0)}, domain.PolicyAdd)
	reg.Add(domain.Asset{Path: "/c", ModTime: time.Unix(200, 0)}, domain.PolicyAdd)

	assert.True(t, reg.LastModified().Equal(time.Unix(300, 0)))
}

func TestRegistry_FlagsFollowExtensions(t *testing.T) {
	var reg domain.Registry
	reg.Add(domain.Asset{Path: "/a.css"}, domain.PolicyAdd)
	assert.Equal(t, domain.KindFlags{}, reg.Flags())

	reg.Add(domain.Asset{Path: "/theme.less"}, domain.PolicyAdd)
	assert.Equal(t, domain.KindFlags{LESS: true}, reg.Flags())

	reg.Add(domain.Asset{Path: "/grid.scss"}, domain.PolicyAdd)
	assert.Equal(t, domain.KindFlags{LESS: true, SCSS: true}, reg.Flags())
}

func TestRegistry_SnapshotRestore(t *testing.T) {
	var reg domain.Registry
	reg.Add(domain.Asset{Path: "/a.css", ModTime: time.Unix(100, 0)}, domain.PolicyAdd)
	snap := reg.Snapshot()

	reg.Add(domain.Asset{Path: "/b.less", ModTime: time.Unix(500, 0)}, domain.PolicyAdd)
	reg.Restore(snap)

	assert.Equal(t, []string{"/a.css"}, reg.Paths())
	assert.True(t, reg.LastModified().Equal(time.Unix(100, 0)))
	assert.Equal(t, domain.KindFlags{}, reg.Flags())

	// The restored path set must allow re-adding under add-once.
	assert.True(t, reg.Add(domain.Asset{Path: "/b.less"}, domain.PolicyAddOnce))
}

func TestRegistry_AssetsReturnsCopy(t *testing.T) {
	var reg domain.Registry
	reg.Add(domain.Asset{Path: "/a"}, domain.PolicyAdd)

	assets := reg.Assets()
	assets[0].Path = "/mutated"

	assert.Equal(t, []string{"/a"}, reg.Paths())
}

func TestNewManifest(t *testing.T) {
	var reg domain.Registry
	mtime := time.Unix(42, 7)
	reg.Add(domain.Asset{Path: "/in/a.less", ModTime: mtime}, domain.PolicyAdd)

	cfg := domain.NewConfig(domain.KindCSS.DefaultTemplate()).
		WithInputPaths("/in").
		WithOutputPath("/out").
		WithPresets(map[string]string{"k": "v"})

	m := domain.NewManifest(domain.KindCSS, cfg, &reg)

	assert.Equal(t, []string{"/in"}, m.InputPaths)
	assert.Equal(t, "_*.css", m.Template)
	assert.Equal(t, domain.KindFlags{LESS: true}, m.Flags)
	assert.Equal(t, []string{"/in/a.less"}, m.Assets)
	assert.Equal(t, mtime.UnixNano(), m.LastModified)
	assert.Equal(t, map[string]string{"k": "v"}, m.Presets)

	var empty domain.Registry
	assert.Zero(t, domain.NewManifest(domain.KindCSS, cfg, &empty).LastModified)
}
