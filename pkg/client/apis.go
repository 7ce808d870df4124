package client

import (
	"encoding/json"
	"net/url"

	pkgerrors "github.com/pkg/errors"

	"github.com/seasonx/seasonx/pkg/calendar"
	"github.com/seasonx/seasonx/pkg/config"
	"github.com/seasonx/seasonx/pkg/dashboard"
	"github.com/seasonx/seasonx/pkg/export"
	"github.com/seasonx/seasonx/pkg/market"
	"github.com/seasonx/seasonx/pkg/types"
)

func sessionPath(id string) string {
	if id == "" {
		id = dashboard.DefaultSessionID
	}
	return "/sessions/" + url.PathEscape(id)
}

func unmarshal[T any](ret string, what string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return v, pkgerrors.Wrapf(err, "failed to unmarshal %s", what)
	}
	return v, nil
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}
	return unmarshal[string](ret, "version")
}

func (c *Client) GetConfig() (*config.RawFileConfig, error) {
	ret, err := c.Get("/config")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get config")
	}

	conf, err := unmarshal[config.RawFileConfig](ret, "config")
	if err != nil {
		return nil, err
	}
	return &conf, nil
}

func (c *Client) GetOptions() (*types.Options, error) {
	ret, err := c.Get("/options")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get options")
	}

	opts, err := unmarshal[types.Options](ret, "options")
	if err != nil {
		return nil, err
	}
	return &opts, nil
}

func (c *Client) SetColorMode(m config.ColorMode) (config.ColorMode, error) {
	ret, err := c.Put("/color-mode", quote(string(m)))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to set color mode")
	}
	return unmarshal[config.ColorMode](ret, "color mode")
}

func (c *Client) SetDefaultSector(sector string) (string, error) {
	ret, err := c.Put("/default-sector", quote(sector))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to set default sector")
	}
	return unmarshal[string](ret, "default sector")
}

// SetRefreshSchedule sets the cron expression of the data refresh. An empty
// expression disables it.
func (c *Client) SetRefreshSchedule(expr string) (*types.RefreshStatus, error) {
	ret, err := c.Put("/refresh-schedule", quote(expr))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to set refresh schedule")
	}

	st, err := unmarshal[types.RefreshStatus](ret, "refresh status")
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) GetRefreshStatus() (*types.RefreshStatus, error) {
	ret, err := c.Get("/refresh")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get refresh status")
	}

	st, err := unmarshal[types.RefreshStatus](ret, "refresh status")
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) Refresh() (*types.RefreshStatus, error) {
	ret, err := c.Post("/refresh", "")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to refresh market data")
	}

	st, err := unmarshal[types.RefreshStatus](ret, "refresh status")
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ===== Session APIs =====
// An empty session ID means the default session.

func (c *Client) ListSessions() ([]string, error) {
	ret, err := c.Get("/sessions")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list sessions")
	}
	return unmarshal[[]string](ret, "sessions")
}

func (c *Client) CreateSession() (*dashboard.Snapshot, error) {
	ret, err := c.Post("/sessions", "")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to create session")
	}
	return snapshot(ret)
}

func (c *Client) DeleteSession(id string) error {
	_, err := c.Delete(sessionPath(id))
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to remove session %s", id)
	}
	return nil
}

func (c *Client) GetSession(id string) (*dashboard.Snapshot, error) {
	ret, err := c.Get(sessionPath(id))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get session")
	}
	return snapshot(ret)
}

// GetView returns the calendar around date, YYYY-MM-DD. An empty date means
// today on the daemon.
func (c *Client) GetView(id string, date string) (*calendar.View, error) {
	path := sessionPath(id) + "/view"
	if date != "" {
		path += "?date=" + url.QueryEscape(date)
	}
	ret, err := c.Get(path)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get calendar view")
	}

	v, err := unmarshal[calendar.View](ret, "calendar view")
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SelectDate clicks date, YYYY-MM-DD, on the calendar.
func (c *Client) SelectDate(id string, date string) (*dashboard.Snapshot, error) {
	ret, err := c.Put(sessionPath(id)+"/select", quote(date))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to select %s", date)
	}
	return snapshot(ret)
}

// Zoom moves the calendar "in" or "out" and returns the new level.
func (c *Client) Zoom(id string, direction string) (calendar.Level, error) {
	ret, err := c.Put(sessionPath(id)+"/zoom", quote(direction))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to zoom %s", direction)
	}
	return unmarshal[calendar.Level](ret, "zoom level")
}

func (c *Client) ClearRange(id string) (*dashboard.Snapshot, error) {
	ret, err := c.Delete(sessionPath(id) + "/range")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to clear range")
	}
	return snapshot(ret)
}

func (c *Client) SetFilters(id string, f dashboard.Filters) (*dashboard.Snapshot, error) {
	payload, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	ret, err := c.Put(sessionPath(id)+"/filters", string(payload))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to set filters")
	}
	return snapshot(ret)
}

func (c *Client) SetSector(id string, sector string) (*dashboard.Snapshot, error) {
	ret, err := c.Put(sessionPath(id)+"/sector", quote(sector))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to set sector")
	}
	return snapshot(ret)
}

// SetCompareSector stops the comparison when sector is empty.
func (c *Client) SetCompareSector(id string, sector string) (*dashboard.Snapshot, error) {
	ret, err := c.Put(sessionPath(id)+"/compare", quote(sector))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to set compare sector")
	}
	return snapshot(ret)
}

// GetIndicators returns nil without error while no date is selected.
func (c *Client) GetIndicators(id string) (*types.IndicatorReadout, error) {
	ret, err := c.Get(sessionPath(id) + "/indicators")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get indicators")
	}
	if ret == "" {
		return nil, nil
	}

	ind, err := unmarshal[types.IndicatorReadout](ret, "indicators")
	if err != nil {
		return nil, err
	}
	return &ind, nil
}

func (c *Client) GetChart(id string) (*market.Series, error) {
	ret, err := c.Get(sessionPath(id) + "/chart")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get chart")
	}

	s, err := unmarshal[market.Series](ret, "chart")
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Export downloads the session rows as "csv" or "xlsx". It returns
// export.ErrNoData when the session has no rows.
func (c *Client) Export(id string, format string) ([]byte, error) {
	ret, err := c.Get(sessionPath(id) + "/export?format=" + url.QueryEscape(format))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to export %s", format)
	}
	if ret == "" {
		return nil, export.ErrNoData
	}
	return []byte(ret), nil
}

func snapshot(ret string) (*dashboard.Snapshot, error) {
	s, err := unmarshal[dashboard.Snapshot](ret, "session")
	if err != nil {
		return nil, err
	}
	return &s, nil
}
