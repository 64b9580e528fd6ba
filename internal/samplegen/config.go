// Package samplegen produces synthetic wastewater measurement tables and
// smoke-tests a running server with them.
package samplegen

import (
	"time"

	"github.com/okian/wastewater/internal/adapters/source"
)

// Config holds configuration for a generator run.
type Config struct {
	Start        time.Time     // first collection date
	Days         int           // length of the collection period
	Every        int           // days between samples
	Seed         uint64        // random seed; equal seeds give equal tables
	RetiredShare float64       // share of rows measured with method 0
	OutlierShare float64       // share of rows at or above the outlier threshold
	Format       source.Format // output encoding
	OutputFile   string        // where the table is written; empty means stdout
	BaseURL      string        // server to smoke-test; empty skips it
	Image        string        // chart encoding requested from the server
	ChartFile    string        // where the server's chart is written
	Timeout      time.Duration // HTTP request timeout
}

// Expectation is what cleaning the generated table must yield.
type Expectation struct {
	Rows      int
	OldMethod int
	Outliers  int
	Kept      int
}

// Stats holds run statistics.
type Stats struct {
	Expectation
	CleanedRows int
	ChartBytes  int
	StartTime   time.Time
	Duration    time.Duration
}
