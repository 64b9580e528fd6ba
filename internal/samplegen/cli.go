package samplegen

import (
	"os"
)

// ShowHelp prints usage information for the sample generator.
func ShowHelp() {
	os.Stdout.WriteString(`Wastewater Sample Generator
===========================

Generates a synthetic SARS-CoV-2 wastewater table with seasonal waves,
retired-method rows and outliers. Optionally posts it to a running server
and checks that cleaning drops exactly the rows it planted.

Usage:
  go run ./cmd/samplegen [options]

Options:
  -start string
        First collection date (default "2021-01-01")
  -days int
        Length of the collection period in days (default 365)
  -every int
        Days between samples (default 2)
  -seed uint
        Random seed (default 1)
  -retired float
        Share of rows measured with method 0 (default 0.05)
  -outliers float
        Share of rows at or above 3,000,000 gc/L (default 0.02)
  -format string
        Output format: csv, xlsx or json (default "csv")
  -output string
        Output file (default: stdout)
  -url string
        Base URL of a running server; empty skips the smoke test
  -image string
        Chart format requested from the server: png or svg (default "png")
  -chart string
        File for the chart returned by the server
  -timeout duration
        HTTP request timeout (default 30s)
  -help
        Show this help

Examples:
  go run ./cmd/samplegen -days 730 -output data/samples.csv
  go run ./cmd/samplegen -format xlsx -output data/samples.xlsx -url http://localhost:9080 -chart out/chart.png
`)
}
