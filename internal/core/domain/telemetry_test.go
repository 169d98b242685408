package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/packer/internal/core/domain"
)

func TestBundleStatus(t *testing.T) {
	tests := []struct {
		name       string
		status     domain.BundleStatus
		isTerminal bool
	}{
		{"Pending", domain.BundleStatusPending, false},
		{"Running", domain.BundleStatusRunning, false},
		{"Packed", domain.BundleStatusPacked, true},
		{"Cached", domain.BundleStatusCached, true},
		{"Failed", domain.BundleStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}
}

func TestNormalizeBundleStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected domain.BundleStatus
	}{
		{"pending", domain.BundleStatusPending},
		{"RUNNING", domain.BundleStatusRunning},
		{"packed", domain.BundleStatusPacked},
		{"cached", domain.BundleStatusCached},
		{"failed", domain.BundleStatusFailed},
		{"unknown", domain.BundleStatusPending},
		{"", domain.BundleStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, domain.NormalizeBundleStatus(tt.input))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    domain.LogLevel
		expected string
	}{
		{domain.LogLevelDebug, "DEBUG"},
		{domain.LogLevelInfo, "INFO"},
		{domain.LogLevelWarn, "WARN"},
		{domain.LogLevelError, "ERROR"},
		{domain.LogLevel(99), "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.level.String())
		})
	}
}
