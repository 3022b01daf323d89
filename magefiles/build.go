//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

var shaderStages = []string{"sprite.vert", "sprite.frag"}

// Compiles the GLSL sources under shaders/ to SPIR-V.
func (Build) Shaders() error {
	for _, s := range shaderStages {
		if _, err := executeCmd("glslc", withArgs(s, "-o", s+".spv"), withDir("shaders"), withStream()); err != nil {
			return err
		}
	}
	return nil
}

// Tidies the module and runs the generators.
func (Build) Tidy() error {
	if _, err := executeCmd("go", withArgs("mod", "tidy")); err != nil {
		return fmt.Errorf("failed to run go mod tidy: %w", err)
	}
	if _, err := executeCmd("go", withArgs("generate", "./...")); err != nil {
		return fmt.Errorf("failed to run go generate: %w", err)
	}
	return nil
}

// Runs the unit tests.
func (Build) Test() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}
