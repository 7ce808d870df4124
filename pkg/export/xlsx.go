package export

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/seasonx/seasonx/pkg/market"
)

const (
	XLSXFileName    = "market-data.xlsx"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	XLSXSheetName   = "Seasonality"
)

// WriteXLSX writes a workbook with the same layout as CSV: header, primary
// rows, and an empty row before comparison rows. Numeric columns are stored as
// numbers.
func WriteXLSX(w io.Writer, rows, compareRows []market.Row) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logrus.Warnf("failed to close workbook: %v", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", XLSXSheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}

	line := 1
	if err := setRow(f, line, header); err != nil {
		return err
	}
	for _, r := range rows {
		line++
		if err := setRow(f, line, xlsxValues(r)); err != nil {
			return err
		}
	}

	if len(compareRows) > 0 {
		// Leave one row empty as the separator.
		line++
		for _, r := range compareRows {
			line++
			if err := setRow(f, line, xlsxValues(r)); err != nil {
				return err
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, line int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(XLSXSheetName, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", line, err)
	}
	return nil
}

func xlsxValues(r market.Row) []interface{} {
	return []interface{}{
		r.Month,
		r.Value.InexactFloat64(),
		r.Sector,
		r.RSI,
		r.MA50.InexactFloat64(),
	}
}
