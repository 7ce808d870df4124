package calendar

// Level is the display granularity of the calendar.
type Level string

const (
	LevelMonth Level = "month"
	LevelWeek  Level = "week"
	LevelDay   Level = "day"
)

// levels is ordered from the coarsest to the finest granularity.
var levels = []Level{LevelMonth, LevelWeek, LevelDay}

func (l Level) index() int {
	for i, v := range levels {
		if v == l {
			return i
		}
	}
	return 0
}

// Zoom tracks the current level. The zero value is at LevelMonth.
type Zoom struct {
	idx int
}

// NewZoom returns a Zoom positioned at l.
func NewZoom(l Level) Zoom {
	return Zoom{idx: l.index()}
}

// Level returns the current level.
func (z *Zoom) Level() Level {
	return levels[z.idx]
}

// ZoomIn moves one level finer. It is a no-op at LevelDay.
func (z *Zoom) ZoomIn() Level {
	if z.CanZoomIn() {
		z.idx++
	}
	return z.Level()
}

// ZoomOut moves one level coarser. It is a no-op at LevelMonth.
func (z *Zoom) ZoomOut() Level {
	if z.CanZoomOut() {
		z.idx--
	}
	return z.Level()
}

func (z *Zoom) CanZoomIn() bool {
	return z.idx < len(levels)-1
}

func (z *Zoom) CanZoomOut() bool {
	return z.idx > 0
}
