package market

import (
	"github.com/shopspring/decimal"
)

// Point is one x-axis position of the seasonality chart.
type Point struct {
	Month   string           `json:"month"`
	Value   decimal.Decimal  `json:"value"`
	Compare *decimal.Decimal `json:"compare"`
}

// Series is the chart input: the primary sector line and, when a comparison
// sector is chosen, its values aligned by month.
type Series struct {
	Sector        string  `json:"sector"`
	CompareSector string  `json:"compareSector,omitempty"`
	Points        []Point `json:"points"`
}

// CombineSeries aligns compare onto rows by month. Months of rows that are
// missing from compare get a nil Compare value; months only present in
// compare are dropped.
func CombineSeries(sector string, rows []Row, compareSector string, compare []Row) Series {
	s := Series{Sector: sector, Points: make([]Point, 0, len(rows))}
	if len(compare) > 0 {
		s.CompareSector = compareSector
	}

	byMonth := make(map[string]decimal.Decimal, len(compare))
	for _, c := range compare {
		if _, ok := byMonth[c.Month]; !ok {
			byMonth[c.Month] = c.Value
		}
	}

	for _, r := range rows {
		p := Point{Month: r.Month, Value: r.Value}
		if v, ok := byMonth[r.Month]; ok {
			v := v
			p.Compare = &v
		}
		s.Points = append(s.Points, p)
	}
	return s
}
