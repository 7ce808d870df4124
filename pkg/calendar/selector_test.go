package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return Day(2026, time.October, d, time.UTC)
}

func TestSelectorSelect(t *testing.T) {
	tests := []struct {
		name      string
		clicks    []time.Time
		wantStart *time.Time
		wantEnd   *time.Time
	}{
		{
			name:      "first click arms start",
			clicks:    []time.Time{day(5)},
			wantStart: timePtr(day(5)),
		},
		{
			name:      "second click closes forward",
			clicks:    []time.Time{day(5), day(12)},
			wantStart: timePtr(day(5)),
			wantEnd:   timePtr(day(12)),
		},
		{
			name:      "second click earlier swaps endpoints",
			clicks:    []time.Time{day(12), day(5)},
			wantStart: timePtr(day(5)),
			wantEnd:   timePtr(day(12)),
		},
		{
			name:      "same day twice is a one-day range",
			clicks:    []time.Time{day(7), day(7)},
			wantStart: timePtr(day(7)),
			wantEnd:   timePtr(day(7)),
		},
		{
			name:   "third click resets",
			clicks: []time.Time{day(5), day(12), day(20)},
		},
		{
			name:      "fourth click starts a new cycle",
			clicks:    []time.Time{day(5), day(12), day(20), day(21)},
			wantStart: timePtr(day(21)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Selector
			var got DateRange
			for _, c := range tt.clicks {
				got = s.Select(c)
			}

			assert.Equal(t, tt.wantStart, got.Start)
			assert.Equal(t, tt.wantEnd, got.End)

			selected, ok := s.Selected()
			require.True(t, ok)
			assert.True(t, selected.Equal(tt.clicks[len(tt.clicks)-1]), "selected date follows the last click")
		})
	}
}

func TestSelectorOrderIndependent(t *testing.T) {
	a, b := day(3), day(27)

	var forward, backward Selector
	forward.Select(a)
	fr := forward.Select(b)
	backward.Select(b)
	br := backward.Select(a)

	assert.Equal(t, fr, br)
	require.NotNil(t, fr.Start)
	require.NotNil(t, fr.End)
	assert.True(t, fr.Start.Equal(a))
	assert.True(t, fr.End.Equal(b))
}

func TestSelectorThreeClicksAlwaysReset(t *testing.T) {
	dates := []time.Time{day(1), day(15), day(31), day(2)}
	for _, x := range dates {
		for _, y := range dates {
			for _, z := range dates {
				var s Selector
				s.Select(x)
				s.Select(y)
				r := s.Select(z)
				assert.Nil(t, r.Start)
				assert.Nil(t, r.End)
			}
		}
	}
}

func TestSelectorQueries(t *testing.T) {
	var s Selector

	s.Select(day(10))
	assert.False(t, s.InRange(day(10)), "open range contains nothing")
	assert.True(t, s.IsRangeStart(day(10)))
	assert.False(t, s.IsRangeEnd(day(10)))

	s.Select(day(14))
	for d := 10; d <= 14; d++ {
		assert.True(t, s.InRange(day(d)), "day %d", d)
	}
	assert.False(t, s.InRange(day(9)))
	assert.False(t, s.InRange(day(15)))
	assert.True(t, s.IsRangeStart(day(10)))
	assert.True(t, s.IsRangeEnd(day(14)))

	// Same calendar day at a different instant is not an endpoint.
	assert.False(t, s.IsRangeStart(day(10).Add(time.Hour)))
}

func TestSelectorRangeIsACopy(t *testing.T) {
	var s Selector
	s.Select(day(1))
	r := s.Select(day(2))

	*r.Start = day(30)
	again := s.Range()
	assert.True(t, again.Start.Equal(day(1)))
}

func TestSelectorClear(t *testing.T) {
	var s Selector
	s.Select(day(1))
	s.Select(day(2))
	s.Clear()

	assert.Equal(t, DateRange{}, s.Range())
	_, ok := s.Selected()
	assert.False(t, ok)
}
