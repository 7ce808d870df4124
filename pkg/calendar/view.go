package calendar

import (
	"time"
)

// Cell is one box of the rendered grid. Blank cells pad the first week of a
// month and carry no date.
type Cell struct {
	Date    *time.Time `json:"date,omitempty"`
	Day     int        `json:"day,omitempty"`
	Weekday string     `json:"weekday,omitempty"`
	Blank   bool       `json:"blank,omitempty"`
	InRange bool       `json:"inRange,omitempty"`
	IsStart bool       `json:"isStart,omitempty"`
	IsEnd   bool       `json:"isEnd,omitempty"`
}

// Selected reports whether the cell is drawn as a range endpoint.
func (c Cell) Selected() bool {
	return c.IsStart || c.IsEnd
}

// View is everything a renderer needs to draw the calendar at one level.
type View struct {
	Level      Level     `json:"level"`
	Title      string    `json:"title"`
	Reference  time.Time `json:"reference"`
	Headers    []string  `json:"headers,omitempty"`
	Cells      []Cell    `json:"cells"`
	CanZoomIn  bool      `json:"canZoomIn"`
	CanZoomOut bool      `json:"canZoomOut"`
}

// BuildView lays out the grid for z's level around ref and marks each cell
// against r. ref is truncated to midnight first so cells compare equal to
// dates produced by Day.
func BuildView(z Zoom, ref time.Time, r DateRange) View {
	ref = Truncate(ref)
	level := z.Level()

	v := View{
		Level:      level,
		Title:      ViewTitle(level, ref),
		Reference:  ref,
		CanZoomIn:  z.CanZoomIn(),
		CanZoomOut: z.CanZoomOut(),
	}

	switch level {
	case LevelMonth:
		v.Headers = WeekdayHeaders
		v.Cells = monthCells(ref, r)
	case LevelWeek:
		v.Headers = WeekdayHeaders
		for _, d := range WeekOf(ref) {
			v.Cells = append(v.Cells, dayCell(d, r))
		}
	case LevelDay:
		// Only the start endpoint is highlighted at day resolution.
		c := dayCell(ref, r)
		c.InRange = false
		c.IsEnd = false
		v.Cells = []Cell{c}
	}

	return v
}

func monthCells(ref time.Time, r DateRange) []Cell {
	year, month := ref.Year(), ref.Month()
	lead := int(FirstWeekdayOfMonth(year, month))
	n := DaysInMonth(year, month)

	cells := make([]Cell, 0, lead+n)
	for i := 0; i < lead; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= n; d++ {
		cells = append(cells, dayCell(Day(year, month, d, ref.Location()), r))
	}
	return cells
}

func dayCell(d time.Time, r DateRange) Cell {
	return Cell{
		Date:    timePtr(d),
		Day:     d.Day(),
		Weekday: d.Format(shortWeekdayLayout),
		InRange: r.Contains(d),
		IsStart: r.IsStart(d),
		IsEnd:   r.IsEnd(d),
	}
}
