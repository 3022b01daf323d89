package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, float32(0), Clamp(float32(-0.5), 0, 1))
	assert.Equal(t, float32(1), Clamp(float32(2), 0, 1))
	assert.Equal(t, float32(0.25), Clamp(float32(0.25), 0, 1))
	assert.Equal(t, uint32(64), Clamp(uint32(10), 64, 4096))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, 9, Wrap(-1, 10))
	assert.Equal(t, 0, Wrap(10, 10))
	assert.Equal(t, 3, Wrap(3, 10))
	assert.Equal(t, 7, Wrap(-13, 10))
}
