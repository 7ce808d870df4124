package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/seasonx/seasonx/pkg/calendar"
	"github.com/seasonx/seasonx/pkg/config"
	"github.com/seasonx/seasonx/pkg/market"
	"github.com/seasonx/seasonx/pkg/types"
)

// cellWidth is the printed width of one month grid column.
const cellWidth = 4

// palette holds the colors of one ColorMode.
type palette struct {
	title    *color.Color
	header   *color.Color
	inRange  *color.Color
	endpoint *color.Color
	muted    *color.Color
	good     *color.Color
	bad      *color.Color
}

func newPalette(m config.ColorMode) palette {
	if m == config.ColorModeLight {
		return palette{
			title:    color.New(color.Bold, color.FgBlue),
			header:   color.New(color.FgHiBlack),
			inRange:  color.New(color.FgBlack, color.BgHiCyan),
			endpoint: color.New(color.Bold, color.FgHiWhite, color.BgBlue),
			muted:    color.New(color.FgHiBlack),
			good:     color.New(color.FgGreen),
			bad:      color.New(color.FgRed),
		}
	}
	return palette{
		title:    color.New(color.Bold, color.FgHiCyan),
		header:   color.New(color.FgHiBlack),
		inRange:  color.New(color.FgHiWhite, color.BgBlue),
		endpoint: color.New(color.Bold, color.FgBlack, color.BgHiCyan),
		muted:    color.New(color.FgHiBlack),
		good:     color.New(color.FgHiGreen),
		bad:      color.New(color.FgHiRed),
	}
}

func (p palette) cell(c calendar.Cell, s string) string {
	switch {
	case c.Selected():
		return p.endpoint.Sprint(s)
	case c.InRange:
		return p.inRange.Sprint(s)
	default:
		return s
	}
}

// renderView draws v as text: a title line, then a grid for month and week
// levels or a single line for the day level.
func renderView(w io.Writer, v calendar.View, p palette) {
	fmt.Fprintln(w, p.title.Sprint(v.Title))

	switch v.Level {
	case calendar.LevelMonth:
		renderHeaders(w, v.Headers, p)
		for i, c := range v.Cells {
			if c.Blank {
				fmt.Fprint(w, strings.Repeat(" ", cellWidth))
			} else {
				fmt.Fprint(w, p.cell(c, fmt.Sprintf("%3d", c.Day))+" ")
			}
			if (i+1)%calendar.DaysPerWeek == 0 {
				fmt.Fprintln(w)
			}
		}
		if len(v.Cells)%calendar.DaysPerWeek != 0 {
			fmt.Fprintln(w)
		}
	case calendar.LevelWeek:
		for _, c := range v.Cells {
			label := fmt.Sprintf("%s %2d", c.Weekday, c.Day)
			fmt.Fprintln(w, "  "+p.cell(c, label))
		}
	case calendar.LevelDay:
		for _, c := range v.Cells {
			label := fmt.Sprintf("%s %d", c.Weekday, c.Day)
			fmt.Fprintln(w, "  "+p.cell(c, label))
		}
	}

	var hints []string
	if v.CanZoomIn {
		hints = append(hints, "zoom in")
	}
	if v.CanZoomOut {
		hints = append(hints, "zoom out")
	}
	if len(hints) > 0 {
		fmt.Fprintln(w, p.muted.Sprint("("+strings.Join(hints, ", ")+")"))
	}
}

func renderHeaders(w io.Writer, headers []string, p palette) {
	var b strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&b, "%3s ", h)
	}
	fmt.Fprintln(w, p.header.Sprint(strings.TrimRight(b.String(), " ")))
}

// renderRange prints the selected endpoints below the calendar.
func renderRange(w io.Writer, r calendar.DateRange) {
	if r.Start == nil {
		return
	}
	line := "Start: " + r.Start.Format(calendar.DateLayout)
	if r.End != nil {
		line += " | End: " + r.End.Format(calendar.DateLayout)
	}
	fmt.Fprintln(w, line)
}

func renderIndicators(w io.Writer, ind types.IndicatorReadout, p palette) {
	fmt.Fprintln(w, p.title.Sprint("Technical Indicators"))
	fmt.Fprintf(w, "  Date: %s\n", ind.Date.Format(calendar.DateLayout))
	fmt.Fprintf(w, "  Price: %s\n", formatPrice(ind.Value))

	rsiColor := p.muted
	switch {
	case ind.RSISignal == "Overbought":
		rsiColor = p.bad
	case ind.RSISignal == "Oversold":
		rsiColor = p.good
	}
	fmt.Fprintf(w, "  RSI: %s %s\n", formatNumber(ind.RSI), rsiColor.Sprintf("(%s)", ind.RSISignal))

	maColor := p.bad
	if ind.AboveMA() {
		maColor = p.good
	}
	fmt.Fprintf(w, "  50-day MA: %s %s\n", formatPrice(ind.MA50), maColor.Sprintf("(%s)", ind.MASignal))

	if ind.Fallback {
		fmt.Fprintln(w, p.muted.Sprint("  (no data for this month, showing placeholder values)"))
	}
}

// renderChart prints the series as a table with a proportional bar per month.
func renderChart(w io.Writer, s market.Series, p palette) {
	title := s.Sector
	if s.CompareSector != "" {
		title += " vs " + s.CompareSector
	}
	fmt.Fprintln(w, p.title.Sprint("Seasonality: "+title))
	if len(s.Points) == 0 {
		fmt.Fprintln(w, p.muted.Sprint("  no data"))
		return
	}

	maxValue := decimal.Zero
	for _, pt := range s.Points {
		maxValue = decimal.Max(maxValue, pt.Value.Abs())
		if pt.Compare != nil {
			maxValue = decimal.Max(maxValue, pt.Compare.Abs())
		}
	}

	for _, pt := range s.Points {
		line := fmt.Sprintf("  %-3s %10s %s", pt.Month, formatPrice(pt.Value), p.endpoint.Sprint(bar(pt.Value, maxValue)))
		if pt.Compare != nil {
			line += fmt.Sprintf("  %10s %s", formatPrice(*pt.Compare), p.inRange.Sprint(bar(*pt.Compare, maxValue)))
		}
		fmt.Fprintln(w, line)
	}
}

const barWidth = 30

func bar(v, maxValue decimal.Decimal) string {
	if maxValue.IsZero() {
		return ""
	}
	n := int(v.Abs().Div(maxValue).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	return strings.Repeat(" ", n)
}

var printer = message.NewPrinter(language.AmericanEnglish)

// formatPrice renders a dollar amount with grouping, e.g. $1,850.
func formatPrice(d decimal.Decimal) string {
	return "$" + formatNumber(d.InexactFloat64())
}

func formatNumber(f float64) string {
	return printer.Sprint(number.Decimal(f, number.MaxFractionDigits(2)))
}

func formatTime(t time.Time) string {
	return t.Local().Format(time.DateTime)
}
