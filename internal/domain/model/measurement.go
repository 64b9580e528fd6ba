// Package model contains domain models passed between layers.
package model

import "time"

// Column names of the measurement table.
const (
	ColumnMethod            = "method"
	ColumnSARSCoV2          = "sars_cov_2"
	ColumnSampleCollectDate = "sample_collect_date"
)

// RequiredColumns lists the raw columns the cleaner consumes.
var RequiredColumns = []string{ColumnMethod, ColumnSARSCoV2, ColumnSampleCollectDate}

// CleanedColumns is the exact column order of a cleaned table.
var CleanedColumns = []string{ColumnSampleCollectDate, ColumnSARSCoV2}

// DateLayout encodes collection dates in cleaned tables.
const DateLayout = time.RFC3339Nano

// Measurement is one raw wastewater sample as submitted by a lab.
// Method 0 denotes the retired measurement method.
type Measurement struct {
	Method            int     `json:"method" dataframe:"method"`
	SARSCoV2          float64 `json:"sars_cov_2" dataframe:"sars_cov_2"`
	SampleCollectDate string  `json:"sample_collect_date" dataframe:"sample_collect_date"`
}

// Sample is one cleaned observation: concentration in gene copies per liter
// at a collection time.
type Sample struct {
	CollectedAt   time.Time
	Concentration float64
}

// Row is the wire shape of a cleaned sample.
type Row struct {
	SampleCollectDate string  `json:"sample_collect_date"`
	SARSCoV2          float64 `json:"sars_cov_2"`
}

// Row converts s to its wire shape.
func (s Sample) Row() Row {
	return Row{SampleCollectDate: s.CollectedAt.Format(DateLayout), SARSCoV2: s.Concentration}
}
