// Package cleaning filters and orders raw wastewater measurement tables.
package cleaning

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/okian/wastewater/internal/domain/model"
)

// Fixed cleaning rules.
const (
	// RetiredMethod marks measurements taken with the old method.
	RetiredMethod = 0
	// OutlierThreshold is the exclusive upper bound on gc/L values kept.
	OutlierThreshold = 3_000_000
)

const (
	columnMethod = model.ColumnMethod
	columnValue  = model.ColumnSARSCoV2
	columnDate   = model.ColumnSampleCollectDate

	// helper columns; dropped by the final projection
	columnRow   = "__row"
	columnUnix  = "__collected_unix"
	columnNanos = "__collected_nanos"
)

// Report counts what a cleaning run kept and why rows were dropped.
type Report struct {
	Input     int
	OldMethod int
	Outliers  int
	Output    int
}

// Process returns a new table holding only sample_collect_date and
// sars_cov_2, for rows measured with a current method and below the outlier
// threshold, ordered by collection time. Rows with equal times keep their
// input order. raw is not modified.
func Process(raw dataframe.DataFrame) (dataframe.DataFrame, error) {
	df, _, err := ProcessWithReport(raw)
	return df, err
}

// ProcessWithReport is Process plus per-rule drop counts.
func ProcessWithReport(raw dataframe.DataFrame) (dataframe.DataFrame, Report, error) {
	var rep Report
	if raw.Err != nil {
		return dataframe.DataFrame{}, rep, fmt.Errorf("clean: raw table: %w", raw.Err)
	}
	if err := checkSchema(raw); err != nil {
		return dataframe.DataFrame{}, rep, err
	}
	rep.Input = raw.Nrow()
	if rep.Input == 0 {
		return empty(), rep, nil
	}

	rows := make([]int, raw.Nrow())
	for i := range rows {
		rows[i] = i
	}
	df := raw.Mutate(series.New(rows, series.Int, columnRow))

	df = df.Filter(dataframe.F{
		Colname:    columnMethod,
		Comparator: series.CompFunc,
		Comparando: currentMethod,
	})
	if df.Err != nil {
		return dataframe.DataFrame{}, rep, fmt.Errorf("clean: filter %s: %w", columnMethod, df.Err)
	}
	rep.OldMethod = rep.Input - df.Nrow()

	df = df.Filter(dataframe.F{
		Colname:    columnValue,
		Comparator: series.CompFunc,
		Comparando: belowThreshold,
	})
	if df.Err != nil {
		return dataframe.DataFrame{}, rep, fmt.Errorf("clean: filter %s: %w", columnValue, df.Err)
	}
	rep.Outliers = rep.Input - rep.OldMethod - df.Nrow()

	if df.Nrow() == 0 {
		return empty(), rep, nil
	}

	dates := df.Col(columnDate)
	origin := df.Col(columnRow)
	n := df.Nrow()
	formatted := make([]string, n)
	unix := make([]int, n)
	nanos := make([]int, n)
	for i := 0; i < n; i++ {
		el := dates.Elem(i)
		row, _ := origin.Elem(i).Int()
		if el.IsNA() {
			return dataframe.DataFrame{}, rep, &ParseError{Row: row, Value: "NaN"}
		}
		t, err := ParseDate(el.String())
		if err != nil {
			return dataframe.DataFrame{}, rep, &ParseError{Row: row, Value: el.String(), Err: err}
		}
		formatted[i] = t.Format(model.DateLayout)
		unix[i] = int(t.Unix())
		nanos[i] = t.Nanosecond()
	}

	df = df.
		Mutate(series.New(formatted, series.String, columnDate)).
		Mutate(series.New(df.Col(columnValue).Float(), series.Float, columnValue)).
		Mutate(series.New(unix, series.Int, columnUnix)).
		Mutate(series.New(nanos, series.Int, columnNanos)).
		Arrange(dataframe.Sort(columnUnix), dataframe.Sort(columnNanos)).
		Select(model.CleanedColumns)
	if df.Err != nil {
		return dataframe.DataFrame{}, rep, fmt.Errorf("clean: order: %w", df.Err)
	}

	rep.Output = df.Nrow()
	return df, rep, nil
}

func checkSchema(raw dataframe.DataFrame) error {
	present := make(map[string]bool, raw.Ncol())
	for _, name := range raw.Names() {
		present[name] = true
	}
	for _, name := range model.RequiredColumns {
		if !present[name] {
			return &SchemaError{Column: name, Reason: "is missing"}
		}
	}
	switch raw.Col(columnValue).Type() {
	case series.Float, series.Int:
	default:
		return &SchemaError{Column: columnValue, Reason: "is not numeric"}
	}
	return nil
}

// currentMethod keeps everything that is not the retired method code. A
// missing method is not equal to the retired code and is kept.
func currentMethod(el series.Element) bool {
	if el.IsNA() {
		return true
	}
	v := el.Float()
	return math.IsNaN(v) || v != RetiredMethod
}

// belowThreshold keeps numeric values under the outlier threshold. Missing
// values never compare below it and are dropped.
func belowThreshold(el series.Element) bool {
	if el.IsNA() {
		return false
	}
	v := el.Float()
	return !math.IsNaN(v) && v < OutlierThreshold
}

func empty() dataframe.DataFrame {
	return dataframe.New(
		series.New([]string{}, series.String, columnDate),
		series.New([]float64{}, series.Float, columnValue),
	)
}
