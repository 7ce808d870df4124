package main

import (
	"time"

	"github.com/seasonx/seasonx/pkg/calendar"
	"github.com/seasonx/seasonx/pkg/config"
	"github.com/seasonx/seasonx/pkg/dashboard"
)

type statusJSON struct {
	Session       statusSessionJSON `json:"session"`
	Refresh       statusRefreshJSON `json:"refresh"`
	Configuration statusConfigJSON  `json:"configuration"`
	Sessions      []string          `json:"sessions"`
}

type statusSessionJSON struct {
	ID         string            `json:"id"`
	Level      calendar.Level    `json:"level"`
	RangeStart *string           `json:"rangeStart"`
	RangeEnd   *string           `json:"rangeEnd"`
	Filters    dashboard.Filters `json:"filters"`
	Rows       int               `json:"rows"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

type statusRefreshJSON struct {
	Schedule  string     `json:"schedule"`
	NextRun   *time.Time `json:"nextRun"`
	LastRun   *time.Time `json:"lastRun"`
	LastError string     `json:"lastError,omitempty"`
}

type statusConfigJSON struct {
	ColorMode          config.ColorMode `json:"colorMode"`
	Provider           string           `json:"provider"`
	Timezone           string           `json:"timezone"`
	AllowNonRootAccess bool             `json:"allowNonRootAccess"`
}

func newStatusJSON(data *statusData) statusJSON {
	conf := config.NewFileFromConfig(data.config, "")
	snap := data.session

	return statusJSON{
		Session: statusSessionJSON{
			ID:         snap.ID,
			Level:      snap.Level,
			RangeStart: formatDay(snap.Range.Start),
			RangeEnd:   formatDay(snap.Range.End),
			Filters:    snap.Filters,
			Rows:       len(snap.Rows),
			UpdatedAt:  snap.UpdatedAt,
		},
		Refresh: statusRefreshJSON{
			Schedule:  data.refresh.Schedule,
			NextRun:   data.refresh.NextRun,
			LastRun:   data.refresh.LastRun,
			LastError: data.refresh.LastError,
		},
		Configuration: statusConfigJSON{
			ColorMode:          conf.ColorMode(),
			Provider:           conf.Provider(),
			Timezone:           conf.Location().String(),
			AllowNonRootAccess: conf.AllowNonRootAccess(),
		},
		Sessions: data.sessions,
	}
}

func formatDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(calendar.DateLayout)
	return &s
}
