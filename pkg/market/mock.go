package market

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type seed struct {
	month  string
	value  int64
	sector string
	rsi    float64
	ma50   int64
}

var seeds = []seed{
	{"Jan", 120, "Technology", 45, 118},
	{"Feb", 200, "Technology", 65, 165},
	{"Mar", 150, "Technology", 52, 142},
	{"Apr", 180, "Technology", 58, 168},
	{"May", 220, "Technology", 72, 195},
	{"Jun", 250, "Technology", 78, 225},
	{"Jul", 280, "Technology", 82, 255},
	{"Aug", 300, "Technology", 85, 275},
	{"Sep", 270, "Technology", 75, 250},
	{"Oct", 240, "Technology", 68, 230},
	{"Nov", 190, "Technology", 55, 185},
	{"Dec", 160, "Technology", 48, 155},
	{"Jan", 100, "Healthcare", 35, 95},
	{"Feb", 180, "Healthcare", 62, 155},
	{"Mar", 130, "Healthcare", 48, 125},
	{"Apr", 160, "Healthcare", 55, 150},
	{"May", 200, "Healthcare", 68, 185},
	{"Jun", 230, "Healthcare", 72, 210},
	{"Jul", 260, "Healthcare", 75, 235},
	{"Aug", 280, "Healthcare", 78, 255},
	{"Sep", 250, "Healthcare", 70, 235},
	{"Oct", 220, "Healthcare", 65, 210},
	{"Nov", 170, "Healthcare", 52, 165},
	{"Dec", 140, "Healthcare", 45, 135},
	{"Jan", 140, "Finance", 42, 135},
	{"Feb", 220, "Finance", 68, 195},
	{"Mar", 170, "Finance", 55, 165},
	{"Apr", 200, "Finance", 62, 185},
	{"May", 240, "Finance", 72, 220},
	{"Jun", 270, "Finance", 78, 245},
	{"Jul", 300, "Finance", 82, 270},
	{"Aug", 320, "Finance", 85, 290},
	{"Sep", 290, "Finance", 78, 265},
	{"Oct", 260, "Finance", 72, 240},
	{"Nov", 210, "Finance", 58, 195},
	{"Dec", 180, "Finance", 48, 170},
}

// SampleRows returns the built-in seasonality dataset for every sector.
func SampleRows() []Row {
	rows := make([]Row, 0, len(seeds))
	for _, s := range seeds {
		rows = append(rows, Row{
			Month:  s.month,
			Value:  decimal.NewFromInt(s.value),
			Sector: s.sector,
			RSI:    s.rsi,
			MA50:   decimal.NewFromInt(s.ma50),
		})
	}
	return rows
}

// MockProvider serves SampleRows, optionally after a fixed delay to mimic a
// remote source.
type MockProvider struct {
	Delay time.Duration
	rows  []Row
}

var _ Provider = &MockProvider{}

func NewMockProvider(delay time.Duration) *MockProvider {
	return &MockProvider{
		Delay: delay,
		rows:  SampleRows(),
	}
}

func (p *MockProvider) Fetch(ctx context.Context, sector string) ([]Row, error) {
	if err := ValidateSector(sector); err != nil {
		return nil, err
	}

	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	var out []Row
	for _, r := range p.rows {
		if r.Sector == sector {
			out = append(out, r)
		}
	}

	logrus.WithFields(logrus.Fields{
		"sector": sector,
		"rows":   len(out),
	}).Debug("served mock rows")

	return out, nil
}
