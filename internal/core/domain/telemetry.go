package domain

import "strings"

// BundleStatus represents the lifecycle state of a bundle during a pack run.
type BundleStatus string

const (
	// BundleStatusPending indicates the bundle is waiting for a free worker.
	BundleStatusPending BundleStatus = "pending"
	// BundleStatusRunning indicates the bundle is being resolved or transformed.
	BundleStatusRunning BundleStatus = "running"
	// BundleStatusPacked indicates a new artifact was written.
	BundleStatusPacked BundleStatus = "packed"
	// BundleStatusCached indicates the artifact already existed and nothing was transformed.
	BundleStatusCached BundleStatus = "cached"
	// BundleStatusFailed indicates the bundle could not be packed.
	BundleStatusFailed BundleStatus = "failed"
)

// IsTerminal checks if a status is a terminal state (Packed, Cached, Failed).
func (s BundleStatus) IsTerminal() bool {
	switch s {
	case BundleStatusPacked, BundleStatusCached, BundleStatusFailed:
		return true
	default:
		return false
	}
}

// NormalizeBundleStatus converts a string to a BundleStatus, defaulting to pending if unknown.
func NormalizeBundleStatus(s string) BundleStatus {
	switch strings.ToLower(s) {
	case string(BundleStatusRunning):
		return BundleStatusRunning
	case string(BundleStatusPacked):
		return BundleStatusPacked
	case string(BundleStatusCached):
		return BundleStatusCached
	case string(BundleStatusFailed):
		return BundleStatusFailed
	default:
		return BundleStatusPending
	}
}

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}
