package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/seasonx/seasonx/pkg/calendar"
	"github.com/seasonx/seasonx/pkg/export"
	"github.com/seasonx/seasonx/pkg/market"
)

// Filters are the dropdown selections of a session.
type Filters struct {
	Market        string `json:"market"`
	Season        string `json:"season"`
	Sector        string `json:"sector"`
	CompareSector string `json:"compareSector"`
}

// Validate checks every filter against its option list.
func (f Filters) Validate() error {
	if err := market.ValidateMarket(f.Market); err != nil {
		return err
	}
	if err := market.ValidateSeason(f.Season); err != nil {
		return err
	}
	if err := market.ValidateSector(f.Sector); err != nil {
		return err
	}
	if f.CompareSector != "" {
		if err := market.ValidateSector(f.CompareSector); err != nil {
			return fmt.Errorf("compare sector: %w", err)
		}
	}
	return nil
}

// Snapshot is the serializable state of a session.
type Snapshot struct {
	ID           string             `json:"id"`
	Range        calendar.DateRange `json:"range"`
	SelectedDate *time.Time         `json:"selectedDate"`
	Level        calendar.Level     `json:"level"`
	Filters      Filters            `json:"filters"`
	Rows         []market.Row       `json:"rows"`
	CompareRows  []market.Row       `json:"compareRows"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// Session is one dashboard: a calendar selection, a zoom level, filters and
// the rows loaded for them. It is safe for concurrent use.
type Session struct {
	id       string
	provider market.Provider
	loc      *time.Location

	mu          sync.Mutex
	selector    calendar.Selector
	zoom        calendar.Zoom
	filters     Filters
	rows        []market.Row
	compareRows []market.Row
	updatedAt   time.Time
}

// NewSession creates a session showing sector. Rows are not loaded until
// Refresh or SetFilters is called.
func NewSession(id string, provider market.Provider, sector string, loc *time.Location) *Session {
	if loc == nil {
		loc = time.Local
	}
	if sector == "" {
		sector = market.DefaultSector
	}
	return &Session{
		id:        id,
		provider:  provider,
		loc:       loc,
		filters:   Filters{Sector: sector},
		updatedAt: time.Now(),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Location is the time zone days are built in.
func (s *Session) Location() *time.Location {
	return s.loc
}

// SelectDate feeds a click into the range selector. The date is truncated to
// midnight in the session location first.
func (s *Session) SelectDate(d time.Time) calendar.DateRange {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.selector.Select(calendar.Truncate(d.In(s.loc)))
	s.touch()
	return r
}

// ClearRange drops the range and the selected date.
func (s *Session) ClearRange() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selector.Clear()
	s.touch()
}

func (s *Session) ZoomIn() calendar.Level {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.zoom.ZoomIn()
	s.touch()
	return l
}

func (s *Session) ZoomOut() calendar.Level {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := s.zoom.ZoomOut()
	s.touch()
	return l
}

// View lays out the calendar around ref at the current zoom level.
func (s *Session) View(ref time.Time) calendar.View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return calendar.BuildView(s.zoom, ref.In(s.loc), s.selector.Range())
}

// SetFilters validates f, reloads the rows whose sector changed and then
// applies f. On error the session is left untouched.
func (s *Session) SetFilters(ctx context.Context, f Filters) error {
	if err := f.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	prev := s.filters
	rows, compareRows := s.rows, s.compareRows
	s.mu.Unlock()

	var err error
	if f.Sector != prev.Sector || rows == nil {
		rows, err = s.fetch(ctx, f.Sector)
		if err != nil {
			return err
		}
	}
	switch {
	case f.CompareSector == "":
		compareRows = nil
	case f.CompareSector != prev.CompareSector || compareRows == nil:
		compareRows, err = s.fetch(ctx, f.CompareSector)
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	s.filters = f
	s.rows = rows
	s.compareRows = compareRows
	s.touch()
	s.mu.Unlock()

	return nil
}

// SetSector switches the primary sector, keeping the other filters.
func (s *Session) SetSector(ctx context.Context, sector string) error {
	f := s.Filters()
	f.Sector = sector
	return s.SetFilters(ctx, f)
}

// SetCompareSector sets the sector to compare against; empty disables the
// comparison.
func (s *Session) SetCompareSector(ctx context.Context, sector string) error {
	f := s.Filters()
	f.CompareSector = sector
	return s.SetFilters(ctx, f)
}

func (s *Session) Filters() Filters {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filters
}

// Refresh reloads the rows of the current sectors.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	f := s.filters
	s.mu.Unlock()

	rows, err := s.fetch(ctx, f.Sector)
	if err != nil {
		return err
	}
	var compareRows []market.Row
	if f.CompareSector != "" {
		compareRows, err = s.fetch(ctx, f.CompareSector)
		if err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// Filters may have changed while fetching; keep the newer data.
	if s.filters != f {
		return nil
	}
	s.rows = rows
	s.compareRows = compareRows
	s.touch()
	return nil
}

// Indicators returns the technical readout for the selected date, or false
// when no date has been clicked yet.
func (s *Session) Indicators() (market.Indicators, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.selector.Selected()
	if !ok {
		return market.Indicators{}, false
	}
	return market.IndicatorsFor(d, s.rows, s.filters.Sector), true
}

// Chart returns the seasonality series of the loaded rows.
func (s *Session) Chart() market.Series {
	s.mu.Lock()
	defer s.mu.Unlock()

	return market.CombineSeries(s.filters.Sector, s.rows, s.filters.CompareSector, s.compareRows)
}

// ExportCSV renders the loaded rows. It returns export.ErrNoData when no rows
// are loaded.
func (s *Session) ExportCSV() ([]byte, error) {
	s.mu.Lock()
	rows, compareRows := s.rows, s.compareRows
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rows, compareRows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders the loaded rows as a workbook.
func (s *Session) ExportXLSX() ([]byte, error) {
	s.mu.Lock()
	rows, compareRows := s.rows, s.compareRows
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, rows, compareRows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:          s.id,
		Range:       s.selector.Range(),
		Level:       s.zoom.Level(),
		Filters:     s.filters,
		Rows:        append([]market.Row(nil), s.rows...),
		CompareRows: append([]market.Row(nil), s.compareRows...),
		UpdatedAt:   s.updatedAt,
	}
	if d, ok := s.selector.Selected(); ok {
		snap.SelectedDate = &d
	}
	return snap
}

func (s *Session) fetch(ctx context.Context, sector string) ([]market.Row, error) {
	start := time.Now()
	rows, err := s.provider.Fetch(ctx, sector)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s rows: %w", sector, err)
	}
	logrus.WithFields(logrus.Fields{
		"session": s.id,
		"sector":  sector,
		"rows":    len(rows),
		"latency": time.Since(start).String(),
	}).Debug("rows fetched")
	return rows, nil
}

// touch must be called with mu held.
func (s *Session) touch() {
	s.updatedAt = time.Now()
}
