package shell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/packer/internal/adapters/shell"
)

func TestResolveEnvironment(t *testing.T) {
	sys := []string{"PATH=/usr/bin", "HOME=/home/dev", "SECRET=hunter2", "NODE_PATH=/lib/node"}

	env := shell.ResolveEnvironment(sys, []string{"PATH=/opt/less/bin", "LESS_OPTS=--strict"})

	assert.Equal(t, []string{
		"HOME=/home/dev",
		"LESS_OPTS=--strict",
		"NODE_PATH=/lib/node",
		"PATH=/opt/less/bin:/usr/bin",
	}, env)
}
