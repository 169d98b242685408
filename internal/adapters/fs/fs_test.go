package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/packer/internal/adapters/fs"
)

// layout creates:
//
//	root/
//	  .git/config
//	  ignored/file.css
//	  css/site.css
//	  css/vendor/reset.css
//	  README.md
func layout(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "config"), "git config")
	writeFile(t, filepath.Join(root, "ignored", "file.css"), "x")
	writeFile(t, filepath.Join(root, "css", "site.css"), "body{}")
	writeFile(t, filepath.Join(root, "css", "vendor", "reset.css"), "*{}")
	writeFile(t, filepath.Join(root, "README.md"), "# Readme")
	return root
}

func TestWalker_WalkFiles(t *testing.T) {
	root := layout(t)

	files := slices.Collect(fs.NewWalker().WalkFiles(root, []string{"ignored"}))

	assert.ElementsMatch(t, []string{
		filepath.Join(root, "css", "site.css"),
		filepath.Join(root, "css", "vendor", "reset.css"),
		filepath.Join(root, "README.md"),
	}, files)
}

func TestWalker_WalkDirs(t *testing.T) {
	root := layout(t)

	dirs := slices.Collect(fs.NewWalker().WalkDirs(root, []string{"ignored"}))

	assert.ElementsMatch(t, []string{
		root,
		filepath.Join(root, "css"),
		filepath.Join(root, "css", "vendor"),
	}, dirs)
}

func TestWalker_IgnoresFilePatterns(t *testing.T) {
	root := layout(t)

	files := slices.Collect(fs.NewWalker().WalkFiles(root, []string{"*.md", "ignored"}))

	assert.NotContains(t, files, filepath.Join(root, "README.md"))
	assert.Len(t, files, 2)
}

func TestWalker_EarlyStop(t *testing.T) {
	root := layout(t)

	count := 0
	for range fs.NewWalker().WalkFiles(root, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestWalker_MissingRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	_, err := os.Stat(missing)
	require.True(t, os.IsNotExist(err))

	assert.Empty(t, slices.Collect(fs.NewWalker().WalkDirs(missing, nil)))
}
