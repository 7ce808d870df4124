package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProviderFetch(t *testing.T) {
	p := NewMockProvider(0)

	for _, sector := range Sectors {
		rows, err := p.Fetch(context.Background(), sector)
		require.NoError(t, err)
		require.Len(t, rows, 12, sector)
		for i, r := range rows {
			assert.Equal(t, sector, r.Sector)
			assert.Equal(t, MonthNames[i], r.Month)
		}
	}

	_, err := p.Fetch(context.Background(), "Energy")
	assert.True(t, errors.Is(err, ErrUnknownSector))
}

func TestMockProviderDelayHonorsContext(t *testing.T) {
	p := NewMockProvider(time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Fetch(ctx, "Finance")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRowFields(t *testing.T) {
	r := Row{Month: "Jan", Value: decimal.NewFromInt(120), Sector: "Technology", RSI: 45, MA50: decimal.NewFromInt(118)}
	assert.Equal(t, []string{"Jan", "120", "Technology", "45", "118"}, r.Fields())

	r.RSI = 45.5
	r.Value = decimal.RequireFromString("120.25")
	assert.Equal(t, []string{"Jan", "120.25", "Technology", "45.5", "118"}, r.Fields())
}

func TestIndicatorsFor(t *testing.T) {
	rows, err := NewMockProvider(0).Fetch(context.Background(), "Technology")
	require.NoError(t, err)

	aug := time.Date(2026, time.August, 3, 0, 0, 0, 0, time.UTC)
	ind := IndicatorsFor(aug, rows, "Technology")
	assert.False(t, ind.Fallback)
	assert.Equal(t, float64(85), ind.RSI)
	assert.True(t, ind.Value.Equal(decimal.NewFromInt(300)))
	assert.True(t, ind.MA50.Equal(decimal.NewFromInt(275)))
	assert.Equal(t, "Overbought", ind.RSILabel())
	assert.Equal(t, "Above MA", ind.MALabel())

	// Rows of another sector do not match.
	ind = IndicatorsFor(aug, rows, "Finance")
	assert.True(t, ind.Fallback)
	assert.Equal(t, float64(42), ind.RSI)
	assert.True(t, ind.MA50.Equal(decimal.NewFromInt(1850)))
	assert.True(t, ind.Value.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, "Neutral", ind.RSILabel())
	assert.Equal(t, "Below MA", ind.MALabel())
	assert.Equal(t, aug, ind.Date)
}

func TestIndicatorLabels(t *testing.T) {
	tests := []struct {
		rsi  float64
		want string
	}{
		{70, "Neutral"},
		{70.1, "Overbought"},
		{30, "Neutral"},
		{29.9, "Oversold"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Indicators{RSI: tt.rsi}.RSILabel(), "rsi %v", tt.rsi)
	}

	eq := Indicators{Value: decimal.NewFromInt(100), MA50: decimal.NewFromInt(100)}
	assert.Equal(t, "Below MA", eq.MALabel())
}

func TestCombineSeries(t *testing.T) {
	rows := []Row{
		{Month: "Jan", Value: decimal.NewFromInt(120), Sector: "Technology"},
		{Month: "Feb", Value: decimal.NewFromInt(200), Sector: "Technology"},
	}
	compare := []Row{
		{Month: "Jan", Value: decimal.NewFromInt(100), Sector: "Healthcare"},
		{Month: "Mar", Value: decimal.NewFromInt(130), Sector: "Healthcare"},
	}

	s := CombineSeries("Technology", rows, "Healthcare", compare)
	assert.Equal(t, "Healthcare", s.CompareSector)
	require.Len(t, s.Points, 2)
	require.NotNil(t, s.Points[0].Compare)
	assert.True(t, s.Points[0].Compare.Equal(decimal.NewFromInt(100)))
	assert.Nil(t, s.Points[1].Compare)

	s = CombineSeries("Technology", rows, "Healthcare", nil)
	assert.Empty(t, s.CompareSector)
	for _, p := range s.Points {
		assert.Nil(t, p.Compare)
	}
}

func TestValidateFilters(t *testing.T) {
	assert.NoError(t, ValidateMarket(""))
	assert.NoError(t, ValidateMarket("Gold"))
	assert.ErrorIs(t, ValidateMarket("Silver"), ErrUnknownMarket)
	assert.NoError(t, ValidateSeason("Winter"))
	assert.ErrorIs(t, ValidateSeason("Monsoon"), ErrUnknownSeason)
	assert.ErrorIs(t, ValidateSector(""), ErrUnknownSector)
}

func TestSelectQuery(t *testing.T) {
	q, err := selectQuery("markets", "")
	require.NoError(t, err)
	assert.Equal(t, "SELECT month, value, sector, rsi, ma50 FROM markets.seasonality WHERE sector = ? ORDER BY month_index", q)

	_, err = selectQuery("", "seasonality; DROP TABLE x")
	assert.Error(t, err)
	_, err = selectQuery("bad-db", "seasonality")
	assert.Error(t, err)
}
