package domain

import "go.trai.ch/zerr"

var (
	// ErrAssetNotFound is returned when an asset name cannot be resolved against any input path.
	ErrAssetNotFound = zerr.New("asset not found")

	// ErrAssetStat is returned when a resolved asset path cannot be stat'ed.
	ErrAssetStat = zerr.New("could not stat asset")

	// ErrAssetRead is returned when an asset's content cannot be read during a transform.
	ErrAssetRead = zerr.New("could not read asset")

	// ErrArtifactWrite is returned when a packed artifact cannot be written to the output path.
	ErrArtifactWrite = zerr.New("could not write artifact")

	// ErrArtifactRead is returned when an existing artifact cannot be read back.
	ErrArtifactRead = zerr.New("could not read artifact")

	// ErrTransformFailed is returned when the minify or compile step fails.
	ErrTransformFailed = zerr.New("transform failed")

	// ErrCompileFailed is returned when an external preprocessor exits with an error.
	ErrCompileFailed = zerr.New("preprocessor failed")

	// ErrCompilerNotFound is returned when the preprocessor executable cannot be located.
	ErrCompilerNotFound = zerr.New("preprocessor not found")

	// ErrCompilerNotConfigured is returned when a source needs a preprocessor that has no command.
	ErrCompilerNotConfigured = zerr.New("preprocessor not configured")

	// ErrInvalidNameTemplate is returned when a content addressed template has no single placeholder.
	ErrInvalidNameTemplate = zerr.New("file name template must contain exactly one '*'")

	// ErrUnknownKind is returned when a bundle kind is neither css nor js.
	ErrUnknownKind = zerr.New("unknown asset kind, expected 'css' or 'js'")

	// ErrUnknownHashAlgorithm is returned when the configured fingerprint algorithm is not supported.
	ErrUnknownHashAlgorithm = zerr.New("unknown hash algorithm, expected 'xxhash' or 'blake3'")

	// ErrInvalidHashLength is returned when the fingerprint length is out of range.
	ErrInvalidHashLength = zerr.New("invalid fingerprint length")

	// ErrUnknownCompression is returned when a precompression format is not supported.
	ErrUnknownCompression = zerr.New("unknown precompression, expected 'gzip' or 'zstd'")

	// ErrConfigRead is returned when the project file cannot be read.
	ErrConfigRead = zerr.New("failed to read config file")

	// ErrConfigParse is returned when the project file cannot be parsed.
	ErrConfigParse = zerr.New("failed to parse config file")

	// ErrInvalidBundle is returned when a bundle definition is incomplete or inconsistent.
	ErrInvalidBundle = zerr.New("invalid bundle")

	// ErrBundleNotFound is returned when a requested bundle is not defined in the project.
	ErrBundleNotFound = zerr.New("bundle not found")

	// ErrNoBundles is returned when the project defines no bundles at all.
	ErrNoBundles = zerr.New("no bundles defined")

	// ErrPackFailed is returned when one or more bundles fail to pack.
	ErrPackFailed = zerr.New("pack failed")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to watch input paths")
)
