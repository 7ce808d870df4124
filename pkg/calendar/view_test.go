package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildViewMonth(t *testing.T) {
	var s Selector
	s.Select(day(20))
	s.Select(day(18))

	v := BuildView(Zoom{}, day(17).Add(9*time.Hour), s.Range())

	assert.Equal(t, LevelMonth, v.Level)
	assert.Equal(t, "October 2026", v.Title)
	assert.Equal(t, WeekdayHeaders, v.Headers)
	assert.False(t, v.CanZoomOut)
	assert.True(t, v.CanZoomIn)

	// October 2026 starts on a Thursday.
	require.Len(t, v.Cells, 4+31)
	for i := 0; i < 4; i++ {
		assert.True(t, v.Cells[i].Blank)
		assert.Nil(t, v.Cells[i].Date)
	}

	first := v.Cells[4]
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, "Thu", first.Weekday)

	byDay := map[int]Cell{}
	for _, c := range v.Cells[4:] {
		byDay[c.Day] = c
	}
	assert.True(t, byDay[18].IsStart)
	assert.True(t, byDay[18].InRange)
	assert.True(t, byDay[19].InRange)
	assert.False(t, byDay[19].Selected())
	assert.True(t, byDay[20].IsEnd)
	assert.False(t, byDay[21].InRange)
	assert.False(t, byDay[17].InRange)
}

func TestBuildViewWeek(t *testing.T) {
	var s Selector
	s.Select(day(12))

	v := BuildView(NewZoom(LevelWeek), day(17), s.Range())

	assert.Equal(t, "Oct 11 - Oct 17, 2026", v.Title)
	require.Len(t, v.Cells, DaysPerWeek)
	assert.Equal(t, 11, v.Cells[0].Day)
	assert.Equal(t, "Sun", v.Cells[0].Weekday)
	assert.True(t, v.Cells[1].IsStart)
	for _, c := range v.Cells {
		assert.False(t, c.InRange, "open range highlights nothing")
	}
}

func TestBuildViewDay(t *testing.T) {
	var s Selector
	s.Select(day(17))
	s.Select(day(19))

	v := BuildView(NewZoom(LevelDay), day(17), s.Range())

	assert.Equal(t, "Saturday, October 17, 2026", v.Title)
	assert.Empty(t, v.Headers)
	assert.False(t, v.CanZoomIn)
	require.Len(t, v.Cells, 1)
	assert.True(t, v.Cells[0].IsStart)
	assert.False(t, v.Cells[0].InRange)

	v = BuildView(NewZoom(LevelDay), day(19), s.Range())
	assert.False(t, v.Cells[0].Selected(), "only the start is highlighted at day level")
}
