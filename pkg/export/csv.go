package export

import (
	"errors"
	"io"
	"strings"

	"github.com/seasonx/seasonx/pkg/market"
)

const (
	CSVFileName    = "market-data.csv"
	CSVContentType = "text/csv;charset=utf-8;"
)

// ErrNoData is returned when there are no primary rows to export. Callers
// treat it as "nothing to do" rather than a failure.
var ErrNoData = errors.New("no data to export")

// Header is the first line of every export.
var Header = []string{"Month", "Value", "Sector", "RSI", "50-day MA"}

// CSV renders rows and, when present, compareRows separated by a single empty
// line. Fields are joined verbatim: values containing commas are not quoted.
// Lines are separated by "\n" with no trailing newline. It returns "" when
// rows is empty.
func CSV(rows, compareRows []market.Row) string {
	if len(rows) == 0 {
		return ""
	}

	lines := make([]string, 0, len(rows)+len(compareRows)+2)
	lines = append(lines, strings.Join(Header, ","))
	for _, r := range rows {
		lines = append(lines, strings.Join(r.Fields(), ","))
	}

	if len(compareRows) > 0 {
		lines = append(lines, "")
		for _, r := range compareRows {
			lines = append(lines, strings.Join(r.Fields(), ","))
		}
	}

	return strings.Join(lines, "\n")
}

// WriteCSV writes the CSV rendering to w, or returns ErrNoData without
// writing anything when rows is empty.
func WriteCSV(w io.Writer, rows, compareRows []market.Row) error {
	content := CSV(rows, compareRows)
	if content == "" {
		return ErrNoData
	}
	_, err := io.WriteString(w, content)
	return err
}
