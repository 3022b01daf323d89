//go:build mage

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsCompose(t *testing.T) {
	var inv invocation
	for _, o := range []cmdOption{withArgs("a.vert", "-o"), withArgs("a.vert.spv"), withDir("shaders"), withStream()} {
		o(&inv)
	}
	assert.Equal(t, []string{"a.vert", "-o", "a.vert.spv"}, inv.args)
	assert.Equal(t, "shaders", inv.dir)
	assert.True(t, inv.stream)
}

func TestExecuteCmd(t *testing.T) {
	out, err := executeCmd("go", withArgs("version"))
	require.NoError(t, err)
	assert.Contains(t, out, "go version")

	_, err = executeCmd("go", withArgs("no-such-subcommand"))
	assert.ErrorContains(t, err, "go no-such-subcommand")
}
