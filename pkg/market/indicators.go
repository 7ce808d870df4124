package market

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	overboughtRSI = 70
	oversoldRSI   = 30
)

// fallbackIndicators are shown when no row matches the selected month.
var fallbackIndicators = Indicators{
	RSI:   42,
	MA50:  decimal.NewFromInt(1850),
	Value: decimal.NewFromInt(200),
}

// Indicators is the technical readout for one selected date.
type Indicators struct {
	Date     time.Time       `json:"date"`
	Value    decimal.Decimal `json:"value"`
	RSI      float64         `json:"rsi"`
	MA50     decimal.Decimal `json:"ma50"`
	Fallback bool            `json:"fallback,omitempty"`
}

// IndicatorsFor looks up the row of date's month in sector. When nothing
// matches, a fixed placeholder readout is returned with Fallback set.
func IndicatorsFor(date time.Time, rows []Row, sector string) Indicators {
	month := MonthName(date)
	for _, r := range rows {
		if r.Month == month && r.Sector == sector {
			return Indicators{
				Date:  date,
				Value: r.Value,
				RSI:   r.RSI,
				MA50:  r.MA50,
			}
		}
	}

	ind := fallbackIndicators
	ind.Date = date
	ind.Fallback = true
	return ind
}

// RSILabel classifies the RSI reading.
func (i Indicators) RSILabel() string {
	switch {
	case i.RSI > overboughtRSI:
		return "Overbought"
	case i.RSI < oversoldRSI:
		return "Oversold"
	default:
		return "Neutral"
	}
}

// AboveMA reports whether the value is strictly above its 50-day average.
func (i Indicators) AboveMA() bool {
	return i.Value.GreaterThan(i.MA50)
}

// MALabel describes the value relative to the 50-day average.
func (i Indicators) MALabel() string {
	if i.AboveMA() {
		return "Above MA"
	}
	return "Below MA"
}
