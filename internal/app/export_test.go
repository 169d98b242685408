package app

import "go.trai.ch/packer/internal/core/domain"

func AffectedBundles(bundles []domain.Bundle, paths []string) []domain.Bundle {
	return affectedBundles(bundles, paths)
}

func IsOutput(bundles []domain.Bundle, path string) bool {
	return isOutput(bundles, path)
}

func WatchRoots(bundles []domain.Bundle) []string {
	return watchRoots(bundles)
}
