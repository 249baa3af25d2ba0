package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEaseOutCubic(t *testing.T) {
	assert.InDelta(t, 0.0, EaseOutCubic(0), 1e-9)
	assert.InDelta(t, 0.875, EaseOutCubic(0.5), 1e-9)
	assert.InDelta(t, 1.0, EaseOutCubic(1), 1e-9)

	// 开始快于线性
	for p := 0.1; p < 0.5; p += 0.1 {
		assert.Greater(t, EaseOutCubic(p), p)
	}
}

func TestEasingClampsInput(t *testing.T) {
	assert.Equal(t, 0.0, EaseOutCubic(-2))
	assert.Equal(t, 1.0, EaseOutCubic(3))
	assert.Equal(t, 0.0, Clamp01(-0.1))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, 10.0, Lerp(10, 20, 0))
	assert.Equal(t, 15.0, Lerp(10, 20, 0.5))
	assert.Equal(t, 20.0, Lerp(10, 20, 1))
}
