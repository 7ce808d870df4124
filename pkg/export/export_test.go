package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/seasonx/seasonx/pkg/market"
)

func row(month string, value int64, sector string, rsi float64, ma50 int64) market.Row {
	return market.Row{
		Month:  month,
		Value:  decimal.NewFromInt(value),
		Sector: sector,
		RSI:    rsi,
		MA50:   decimal.NewFromInt(ma50),
	}
}

var (
	techRows = []market.Row{
		row("Jan", 120, "Technology", 45, 118),
		row("Feb", 200, "Technology", 65, 165),
		row("Mar", 150, "Technology", 52, 142),
	}
	healthRows = []market.Row{
		row("Jan", 100, "Healthcare", 35, 95),
		row("Feb", 180, "Healthcare", 62, 155),
		row("Mar", 130, "Healthcare", 48, 125),
	}
)

func TestCSVSingleRow(t *testing.T) {
	got := CSV([]market.Row{row("Jan", 120, "Technology", 45, 118)}, nil)
	assert.Equal(t, "Month,Value,Sector,RSI,50-day MA\nJan,120,Technology,45,118", got)
}

func TestCSVWithComparison(t *testing.T) {
	got := CSV(techRows, healthRows)

	want := strings.Join([]string{
		"Month,Value,Sector,RSI,50-day MA",
		"Jan,120,Technology,45,118",
		"Feb,200,Technology,65,165",
		"Mar,150,Technology,52,142",
		"",
		"Jan,100,Healthcare,35,95",
		"Feb,180,Healthcare,62,155",
		"Mar,130,Healthcare,48,125",
	}, "\n")
	assert.Equal(t, want, got)

	lines := strings.Split(got, "\n")
	require.Len(t, lines, 8)
	empty := 0
	for i, l := range lines {
		if l == "" {
			empty++
			assert.Equal(t, "Jan,100,Healthcare,35,95", lines[i+1])
		}
	}
	assert.Equal(t, 1, empty)
}

func TestCSVWithoutComparisonHasNoSeparator(t *testing.T) {
	lines := strings.Split(CSV(techRows, []market.Row{}), "\n")
	assert.Len(t, lines, 4)
	assert.NotContains(t, lines, "")
}

func TestCSVDoesNotQuote(t *testing.T) {
	got := CSV([]market.Row{
		row("Jan", 120, "Tech & Finance", 45, 118),
		row("Feb", 200, "Healthcare, Inc.", 65, 165),
	}, nil)

	assert.Equal(t, "Month,Value,Sector,RSI,50-day MA\nJan,120,Tech & Finance,45,118\nFeb,200,Healthcare, Inc.,65,165", got)
}

func TestCSVEmpty(t *testing.T) {
	assert.Equal(t, "", CSV(nil, healthRows))

	var buf bytes.Buffer
	err := WriteCSV(&buf, nil, nil)
	assert.ErrorIs(t, err, ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, techRows, healthRows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(XLSXSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, Header, rows[0])
	assert.Equal(t, []string{"Jan", "120", "Technology", "45", "118"}, rows[1])
	assert.Empty(t, rows[4])
	assert.Equal(t, "Jan", rows[5][0])
	assert.Equal(t, "Healthcare", rows[5][2])
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, WriteXLSX(&buf, nil, nil), ErrNoData)
}
