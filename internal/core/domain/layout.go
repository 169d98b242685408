package domain

const (
	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "packer.yaml"

	// NamePlaceholder is replaced by the fingerprint in content addressed file names.
	NamePlaceholder = "*"

	// DefaultNameTemplate is used when neither the caller nor the kind supplies a template.
	DefaultNameTemplate = NamePlaceholder

	// DefaultFingerprintLength is the number of hex characters kept from the digest.
	DefaultFingerprintLength = 11

	// DefaultMemoSize is the number of artifacts kept in the in-process memo.
	DefaultMemoSize = 64

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for artifacts (rw-r--r--).
	FilePerm = 0o644
)
