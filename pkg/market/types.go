package market

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownSector is returned for a sector outside Sectors.
	ErrUnknownSector = errors.New("unknown sector")
	// ErrUnknownMarket is returned for a market outside Markets.
	ErrUnknownMarket = errors.New("unknown market")
	// ErrUnknownSeason is returned for a season outside Seasons.
	ErrUnknownSeason = errors.New("unknown season")
)

var (
	Markets = []string{"Gold", "Oil", "Stocks", "Crypto", "Forex"}
	Seasons = []string{"Spring", "Summer", "Autumn", "Winter"}
	Sectors = []string{"Technology", "Healthcare", "Finance"}

	// MonthNames are the month labels used by the seasonality series.
	MonthNames = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// DefaultSector is selected when a session starts.
const DefaultSector = "Technology"

// Row is one monthly seasonality observation for a sector.
type Row struct {
	Month  string          `json:"month"`
	Value  decimal.Decimal `json:"value"`
	Sector string          `json:"sector"`
	RSI    float64         `json:"rsi"`
	MA50   decimal.Decimal `json:"ma50"`
}

// Fields returns the row in export column order.
func (r Row) Fields() []string {
	return []string{
		r.Month,
		r.Value.String(),
		r.Sector,
		strconv.FormatFloat(r.RSI, 'f', -1, 64),
		r.MA50.String(),
	}
}

// Provider loads the seasonality rows of one sector.
type Provider interface {
	Fetch(ctx context.Context, sector string) ([]Row, error)
}

// MonthName returns the series label of t's month.
func MonthName(t time.Time) string {
	return MonthNames[t.Month()-1]
}

// ValidateSector checks s against Sectors. The empty string is rejected.
func ValidateSector(s string) error {
	if !contains(Sectors, s) {
		return fmt.Errorf("%w: %q", ErrUnknownSector, s)
	}
	return nil
}

// ValidateMarket checks s against Markets. The empty string means "none".
func ValidateMarket(s string) error {
	if s != "" && !contains(Markets, s) {
		return fmt.Errorf("%w: %q", ErrUnknownMarket, s)
	}
	return nil
}

// ValidateSeason checks s against Seasons. The empty string means "none".
func ValidateSeason(s string) error {
	if s != "" && !contains(Seasons, s) {
		return fmt.Errorf("%w: %q", ErrUnknownSeason, s)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
