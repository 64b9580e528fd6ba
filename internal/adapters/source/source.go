// Package source loads raw measurement tables from CSV, XLSX and JSON input.
package source

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/okian/wastewater/internal/domain/model"
)

// Format identifies an input encoding.
type Format string

// Supported formats.
const (
	CSV  Format = "csv"
	XLSX Format = "xlsx"
	JSON Format = "json"
)

// ParseFormat validates a format name such as "csv" or ".XLSX".
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")))
	switch f {
	case CSV, XLSX, JSON:
		return f, nil
	case "":
		return CSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// Option configures Load.
type Option func(*options)

type options struct {
	sheet string
}

// WithSheet selects the XLSX sheet to read. The first sheet is used by
// default.
func WithSheet(name string) Option {
	return func(o *options) {
		o.sheet = name
	}
}

// columnTypes pins the date column to strings so compact dates such as
// 20210103 are not read as integers. Value columns keep type detection.
var columnTypes = map[string]series.Type{
	model.ColumnSampleCollectDate: series.String,
}

// Load reads a raw table from r.
func Load(ctx context.Context, r io.Reader, format Format, opts ...Option) (dataframe.DataFrame, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	var df dataframe.DataFrame
	switch format {
	case CSV:
		records, err := csv.NewReader(r).ReadAll()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%w: read csv: %w", ErrMalformed, err)
		}
		if len(records) == 0 {
			return dataframe.DataFrame{}, ErrNoHeader
		}
		df = table(records)
	case XLSX:
		records, err := readSheet(r, o.sheet)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		df = table(records)
	case JSON:
		var err error
		if df, err = readJSON(r); err != nil {
			return dataframe.DataFrame{}, err
		}
	default:
		return dataframe.DataFrame{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: load %s: %w", ErrMalformed, format, df.Err)
	}
	return df, nil
}

// table loads string records, header first. A header without rows yields
// an empty table with the header's columns.
func table(records [][]string) dataframe.DataFrame {
	if len(records) == 1 {
		return emptyTable(records[0])
	}
	return dataframe.LoadRecords(records, dataframe.WithTypes(columnTypes))
}

func emptyTable(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		switch name {
		case model.ColumnMethod:
			cols[i] = series.New([]int{}, series.Int, name)
		case model.ColumnSARSCoV2:
			cols[i] = series.New([]float64{}, series.Float, name)
		default:
			cols[i] = series.New([]string{}, series.String, name)
		}
	}
	return dataframe.New(cols...)
}

// readSheet returns the sheet as string records, header first, with short
// rows padded to the header width. Cells keep their raw values; date cells
// are written back as dates.
func readSheet(r io.Reader, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %w", ErrMalformed, err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, ErrNoHeader
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}

	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %w", ErrMalformed, sheet, err)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %w", ErrMalformed, sheet, err)
	}
	skip := 0
	for skip < len(rows) && len(rows[skip]) == 0 {
		skip++
	}
	if skip == len(rows) {
		return nil, ErrNoHeader
	}
	rows = rows[skip:]

	width := len(rows[0])
	dateCol := -1
	for i, name := range rows[0] {
		if name == model.ColumnSampleCollectDate {
			dateCol = i
		}
	}
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	records := make([][]string, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if len(row) < width {
			row = append(row, make([]string, width-len(row))...)
		}
		row = row[:width]
		if j := skip + i; i > 0 && dateCol >= 0 && j < len(shown) && dateCol < len(shown[j]) {
			row[dateCol] = cellDate(row[dateCol], shown[j][dateCol], date1904)
		}
		records = append(records, row)
	}
	return records, nil
}

// cellDate turns a date-formatted serial number into an ISO date, or an ISO
// date-time when it has a time of day. Other cells are returned unchanged.
func cellDate(raw, shown string, date1904 bool) string {
	if raw == shown {
		return raw
	}
	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return raw
	}
	t = t.Round(time.Second)
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02T15:04:05")
}

func readJSON(r io.Reader) (dataframe.DataFrame, error) {
	var ms []model.Measurement
	if err := json.NewDecoder(r).Decode(&ms); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%w: decode json: %w", ErrMalformed, err)
	}
	if len(ms) == 0 {
		return emptyTable(model.RequiredColumns), nil
	}
	return dataframe.LoadStructs(ms), nil
}
