package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/packer/internal/adapters/fs"
	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/zerr"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestResolver_Resolve_FirstRootWins(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeFile(t, filepath.Join(rootA, "x.css"), "a")
	writeFile(t, filepath.Join(rootB, "x.css"), "b")

	r := fs.NewResolver()

	path, err := r.Resolve("x.css", []string{rootA, rootB})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(rootA, "x.css"), path)

	path, err = r.Resolve("x.css", []string{rootB, rootA})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(rootB, "x.css"), path)
}

func TestResolver_Resolve_FallsThroughMissingRoots(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeFile(t, filepath.Join(rootB, "lib", "y.js"), "b")

	path, err := fs.NewResolver().Resolve("lib/y.js", []string{rootA, rootB})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(rootB, "lib", "y.js"), path)
}

func TestResolver_Resolve_AbsoluteSkipsLookup(t *testing.T) {
	r := fs.NewResolver()

	for _, name := range []string{"/does/not/exist.css", `C:\assets\site.css`, "d:/assets/site.css"} {
		t.Run(name, func(t *testing.T) {
			path, err := r.Resolve(name, nil)
			require.NoError(t, err)
			assert.Equal(t, name, path)
		})
	}
}

func TestResolver_Resolve_NotFound(t *testing.T) {
	root := t.TempDir()
	r := fs.NewResolver()

	_, err := r.Resolve("missing.css", []string{root})
	require.ErrorIs(t, err, domain.ErrAssetNotFound)

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, []string{root}, zErr.Metadata()["roots"])
	assert.Equal(t, "missing.css", zErr.Metadata()["asset"])

	_, err = r.Resolve("missing.css", nil)
	require.ErrorIs(t, err, domain.ErrAssetNotFound)
}

func TestResolver_ModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.css")
	writeFile(t, path, "body{}")

	want := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, want, want))

	got, err := fs.NewResolver().ModTime(path)
	require.NoError(t, err)
	assert.True(t, got.Equal(want))
}

func TestResolver_ModTime_Errors(t *testing.T) {
	dir := t.TempDir()
	r := fs.NewResolver()

	_, err := r.ModTime(filepath.Join(dir, "gone.css"))
	require.ErrorIs(t, err, domain.ErrAssetStat)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = r.ModTime(dir)
	require.ErrorIs(t, err, domain.ErrAssetStat)
}

func TestIsAbs(t *testing.T) {
	tests := []struct {
		name string
		abs  bool
	}{
		{"/srv/a.css", true},
		{`C:\a.css`, true},
		{"c:/a.css", true},
		{"a.css", false},
		{"lib/a.css", false},
		{"C:a.css", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.abs, fs.IsAbs(tt.name))
		})
	}
}
