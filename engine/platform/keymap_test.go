package platform

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/tinta/engine/core"
)

func TestKeyFromGLFW(t *testing.T) {
	cases := map[glfw.Key]core.Key{
		glfw.KeyA:           core.KeyA,
		glfw.KeyZ:           core.KeyZ,
		glfw.Key0:           core.Key0,
		glfw.KeyEscape:      core.KeyEscape,
		glfw.KeyF24:         core.KeyF24,
		glfw.KeyKPEnter:     core.KeyNumpadEnter,
		glfw.KeyRightSuper:  core.KeyRSuper,
		glfw.KeyGraveAccent: core.KeyGrave,
	}
	for in, want := range cases {
		got, ok := KeyFromGLFW(in)
		assert.True(t, ok, "key %d", in)
		assert.Equal(t, want, got)
	}
}

func TestKeyFromGLFWUnmapped(t *testing.T) {
	for _, k := range []glfw.Key{glfw.KeyUnknown, glfw.KeyWorld1, glfw.KeyWorld2, glfw.KeyF25} {
		_, ok := KeyFromGLFW(k)
		assert.False(t, ok, "key %d", k)
	}
}

func TestKeyTableIsInjective(t *testing.T) {
	seen := map[core.Key]glfw.Key{}
	for raw, k := range keys {
		prev, dup := seen[k]
		assert.False(t, dup, "%s mapped from both %d and %d", k, prev, raw)
		seen[k] = raw
	}
	assert.Len(t, seen, int(core.KeyGrave)+1)
}

func TestMouseButtonFromGLFW(t *testing.T) {
	assert.Equal(t, core.MouseButtonLeft, MouseButtonFromGLFW(glfw.MouseButtonLeft))
	assert.Equal(t, core.MouseButtonRight, MouseButtonFromGLFW(glfw.MouseButtonRight))
	assert.Equal(t, core.MouseButtonMiddle, MouseButtonFromGLFW(glfw.MouseButtonMiddle))
	assert.Equal(t, core.MouseButton8, MouseButtonFromGLFW(glfw.MouseButton8))
	assert.Equal(t, core.MouseButtonUnknown, MouseButtonFromGLFW(glfw.MouseButton(42)))
}
