package calendar

import (
	"time"
)

// DateRange is an inclusive span of dates. End is only ever set together
// with Start, and Start is never after End.
type DateRange struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// Complete reports whether both endpoints are set.
func (r DateRange) Complete() bool {
	return r.Start != nil && r.End != nil
}

// Contains reports whether d lies within a complete range, endpoints included.
func (r DateRange) Contains(d time.Time) bool {
	if !r.Complete() {
		return false
	}
	return !d.Before(*r.Start) && !d.After(*r.End)
}

// IsStart reports whether d is exactly the start instant.
func (r DateRange) IsStart(d time.Time) bool {
	return r.Start != nil && d.Equal(*r.Start)
}

// IsEnd reports whether d is exactly the end instant.
func (r DateRange) IsEnd(d time.Time) bool {
	return r.End != nil && d.Equal(*r.End)
}

// Selector implements click-driven range selection.
//
// The first click sets the start, the second closes the range (swapping the
// endpoints if the second date is earlier), and the third clears it. The
// clearing click is consumed: it does not start a new range.
type Selector struct {
	rng      DateRange
	selected *time.Time
}

// Select feeds a clicked date into the selection cycle and returns the
// resulting range. The clicked date always becomes the selected date.
func (s *Selector) Select(clicked time.Time) DateRange {
	s.selected = timePtr(clicked)

	switch {
	case s.rng.Start == nil:
		s.rng = DateRange{Start: timePtr(clicked)}
	case s.rng.End == nil:
		if !clicked.Before(*s.rng.Start) {
			s.rng.End = timePtr(clicked)
		} else {
			s.rng = DateRange{Start: timePtr(clicked), End: s.rng.Start}
		}
	default:
		s.rng = DateRange{}
	}

	return s.Range()
}

// Clear drops both the range and the selected date.
func (s *Selector) Clear() {
	s.rng = DateRange{}
	s.selected = nil
}

// Range returns a copy of the current range.
func (s *Selector) Range() DateRange {
	var r DateRange
	if s.rng.Start != nil {
		r.Start = timePtr(*s.rng.Start)
	}
	if s.rng.End != nil {
		r.End = timePtr(*s.rng.End)
	}
	return r
}

// Selected returns the most recently clicked date, if any.
func (s *Selector) Selected() (time.Time, bool) {
	if s.selected == nil {
		return time.Time{}, false
	}
	return *s.selected, true
}

func (s *Selector) InRange(d time.Time) bool {
	return s.rng.Contains(d)
}

func (s *Selector) IsRangeStart(d time.Time) bool {
	return s.rng.IsStart(d)
}

func (s *Selector) IsRangeEnd(d time.Time) bool {
	return s.rng.IsEnd(d)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
