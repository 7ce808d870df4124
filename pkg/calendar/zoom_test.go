package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoomDefaultsToMonth(t *testing.T) {
	var z Zoom
	assert.Equal(t, LevelMonth, z.Level())
	assert.True(t, z.CanZoomIn())
	assert.False(t, z.CanZoomOut())
}

func TestZoomInClamps(t *testing.T) {
	var z Zoom
	assert.Equal(t, LevelWeek, z.ZoomIn())
	assert.Equal(t, LevelDay, z.ZoomIn())
	for i := 0; i < 3; i++ {
		assert.Equal(t, LevelDay, z.ZoomIn())
	}
	assert.False(t, z.CanZoomIn())
}

func TestZoomOutClamps(t *testing.T) {
	z := NewZoom(LevelDay)
	assert.Equal(t, LevelWeek, z.ZoomOut())
	assert.Equal(t, LevelMonth, z.ZoomOut())
	for i := 0; i < 3; i++ {
		assert.Equal(t, LevelMonth, z.ZoomOut())
	}
}

