package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seasonx/seasonx/pkg/calendar"
	"github.com/seasonx/seasonx/pkg/config"
	"github.com/seasonx/seasonx/pkg/dashboard"
	"github.com/seasonx/seasonx/pkg/market"
	"github.com/seasonx/seasonx/pkg/types"
	"github.com/seasonx/seasonx/pkg/utils/ptr"
)

func init() {
	color.NoColor = true
}

func TestRenderMonthView(t *testing.T) {
	start := calendar.Day(2026, time.October, 5, time.UTC)
	end := calendar.Day(2026, time.October, 9, time.UTC)
	v := calendar.BuildView(calendar.NewZoom(calendar.LevelMonth), calendar.Day(2026, time.October, 17, time.UTC),
		calendar.DateRange{Start: &start, End: &end})

	var buf bytes.Buffer
	renderView(&buf, v, newPalette(config.ColorModeDark))
	lines := strings.Split(buf.String(), "\n")

	assert.Equal(t, "October 2026", lines[0])
	assert.Equal(t, "Sun Mon Tue Wed Thu Fri Sat", lines[1])
	// October 1st, 2026 is a Thursday.
	assert.Equal(t, strings.Repeat(" ", 4*cellWidth)+"  1   2   3 ", lines[2])
	assert.Equal(t, "  4   5   6   7   8   9  10 ", lines[3])
	assert.Equal(t, "(zoom in)", lines[len(lines)-2])
}

func TestRenderWeekAndDayView(t *testing.T) {
	ref := calendar.Day(2026, time.October, 17, time.UTC)
	z := calendar.NewZoom(calendar.LevelWeek)

	var buf bytes.Buffer
	renderView(&buf, calendar.BuildView(z, ref, calendar.DateRange{}), newPalette(config.ColorModeLight))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 9)
	assert.Equal(t, "Oct 11 - Oct 17, 2026", lines[0])
	assert.Equal(t, "  Sun 11", lines[1])
	assert.Equal(t, "  Sat 17", lines[7])
	assert.Equal(t, "(zoom in, zoom out)", lines[8])

	z.ZoomIn()
	buf.Reset()
	renderView(&buf, calendar.BuildView(z, ref, calendar.DateRange{}), newPalette(config.ColorModeLight))
	assert.Equal(t, "Saturday, October 17, 2026\n  Sat 17\n(zoom out)\n", buf.String())
}

func TestRenderRange(t *testing.T) {
	var buf bytes.Buffer
	renderRange(&buf, calendar.DateRange{})
	assert.Empty(t, buf.String())

	start := calendar.Day(2026, time.October, 5, time.UTC)
	renderRange(&buf, calendar.DateRange{Start: &start})
	assert.Equal(t, "Start: 2026-10-05\n", buf.String())

	end := calendar.Day(2026, time.October, 9, time.UTC)
	buf.Reset()
	renderRange(&buf, calendar.DateRange{Start: &start, End: &end})
	assert.Equal(t, "Start: 2026-10-05 | End: 2026-10-09\n", buf.String())
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$1,850", formatPrice(decimal.NewFromInt(1850)))
	assert.Equal(t, "$210.5", formatPrice(decimal.RequireFromString("210.5")))
	assert.Equal(t, "$12,345.68", formatPrice(decimal.RequireFromString("12345.678")))
	assert.Equal(t, "42", formatNumber(42))
}

func TestRenderIndicators(t *testing.T) {
	ind := market.IndicatorsFor(calendar.Day(2026, time.March, 3, time.UTC), nil, "Technology")

	var buf bytes.Buffer
	renderIndicators(&buf, types.NewIndicatorReadout(ind), newPalette(config.ColorModeDark))
	out := buf.String()

	assert.Contains(t, out, "Date: 2026-03-03")
	assert.Contains(t, out, "Price: $200")
	assert.Contains(t, out, "RSI: 42 (Neutral)")
	assert.Contains(t, out, "50-day MA: $1,850 (Below MA)")
	assert.Contains(t, out, "placeholder")
}

func TestRenderChart(t *testing.T) {
	rows := []market.Row{
		{Month: "Jan", Value: decimal.NewFromInt(100), Sector: "Technology"},
		{Month: "Feb", Value: decimal.NewFromInt(50), Sector: "Technology"},
	}
	compare := []market.Row{{Month: "Jan", Value: decimal.NewFromInt(25), Sector: "Finance"}}

	var buf bytes.Buffer
	renderChart(&buf, market.CombineSeries("Technology", rows, "Finance", compare), newPalette(config.ColorModeDark))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "Seasonality: Technology vs Finance", lines[0])
	assert.Contains(t, lines[1], "$100")
	assert.Contains(t, lines[1], "$25")
	assert.NotContains(t, lines[2], "$25")

	assert.Equal(t, barWidth, len(bar(decimal.NewFromInt(100), decimal.NewFromInt(100))))
	assert.Equal(t, barWidth/2, len(bar(decimal.NewFromInt(50), decimal.NewFromInt(100))))
	assert.Empty(t, bar(decimal.NewFromInt(1), decimal.Zero))
}

func TestNewStatusJSON(t *testing.T) {
	start := calendar.Day(2026, time.October, 5, time.UTC)
	data := &statusData{
		session: &dashboard.Snapshot{
			ID:      "default",
			Range:   calendar.DateRange{Start: &start},
			Level:   calendar.LevelWeek,
			Filters: dashboard.Filters{Sector: "Finance"},
			Rows:    make([]market.Row, 12),
		},
		config:   &config.RawFileConfig{ColorMode: ptr.To(config.ColorModeLight), Timezone: ptr.To("UTC")},
		refresh:  &types.RefreshStatus{Schedule: "@every 15m"},
		sessions: []string{"default"},
	}

	s := newStatusJSON(data)
	require.NotNil(t, s.Session.RangeStart)
	assert.Equal(t, "2026-10-05", *s.Session.RangeStart)
	assert.Nil(t, s.Session.RangeEnd)
	assert.Equal(t, 12, s.Session.Rows)
	assert.Equal(t, config.ColorModeLight, s.Configuration.ColorMode)
	assert.Equal(t, "UTC", s.Configuration.Timezone)
	assert.Equal(t, config.ProviderMock, s.Configuration.Provider)
	assert.Equal(t, "@every 15m", s.Refresh.Schedule)
}
