package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/wastewater/internal/adapters/source"
	"github.com/okian/wastewater/internal/samplegen"
	"github.com/okian/wastewater/pkg/logger"
)

// Default configuration constants.
const (
	defaultDays         = 365
	defaultEvery        = 2
	defaultSeed         = 1
	defaultRetiredShare = 0.05
	defaultOutlierShare = 0.02
	defaultTimeout      = 30 * time.Second
	defaultRunTimeout   = 5 * time.Minute
)

func main() {
	var (
		start     = flag.String("start", "2021-01-01", "First collection date")
		days      = flag.Int("days", defaultDays, "Length of the collection period in days")
		every     = flag.Int("every", defaultEvery, "Days between samples")
		seed      = flag.Uint64("seed", defaultSeed, "Random seed")
		retired   = flag.Float64("retired", defaultRetiredShare, "Share of rows measured with method 0")
		outliers  = flag.Float64("outliers", defaultOutlierShare, "Share of rows at or above the outlier threshold")
		format    = flag.String("format", "csv", "Output format: csv, xlsx or json")
		output    = flag.String("output", "", "Output file (default: stdout)")
		baseURL   = flag.String("url", "", "Base URL of a running server; empty skips the smoke test")
		image     = flag.String("image", "png", "Chart format requested from the server")
		chartFile = flag.String("chart", "", "File for the chart returned by the server")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		samplegen.ShowHelp()
		return
	}

	// Logs go to stderr so a table written to stdout stays clean.
	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	startDate, err := time.Parse("2006-01-02", *start)
	if err != nil {
		os.Stderr.WriteString("Invalid -start: " + err.Error() + "\n")
		os.Exit(2)
	}
	f, err := source.ParseFormat(*format)
	if err != nil {
		os.Stderr.WriteString("Invalid -format: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &samplegen.Config{
		Start:        startDate,
		Days:         *days,
		Every:        *every,
		Seed:         *seed,
		RetiredShare: *retired,
		OutlierShare: *outliers,
		Format:       f,
		OutputFile:   *output,
		BaseURL:      *baseURL,
		Image:        *image,
		ChartFile:    *chartFile,
		Timeout:      *timeout,
	}

	if _, err := samplegen.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
