package samplegen

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/wastewater/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run generates a table, writes it out and, when a base URL is set, sends it
// through the server's clean and chart endpoints.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting sample generation",
		logger.String("start", config.Start.Format(dateLayout)),
		logger.Int("days", config.Days),
		logger.Int("every", config.Every),
		logger.Any("seed", config.Seed),
		logger.String("format", string(config.Format)),
		logger.String("baseURL", config.BaseURL))

	// Step 1: Generate samples
	rows, exp := Generate(config)
	stats.Expectation = exp

	var buf bytes.Buffer
	if err := Write(&buf, config.Format, rows); err != nil {
		return stats, fmt.Errorf("encode samples: %w", err)
	}

	// Step 2: Write the table
	if err := writeOutput(config.OutputFile, buf.Bytes()); err != nil {
		return stats, fmt.Errorf("write samples: %w", err)
	}
	if config.OutputFile != "" {
		log.Info(ctx, "samples saved to file", logger.String("filename", config.OutputFile))
	}

	// Step 3: Exercise the server
	if config.BaseURL != "" {
		if err := smokeTest(ctx, config, buf.Bytes(), stats); err != nil {
			return stats, err
		}
	}

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func smokeTest(ctx context.Context, config *Config, body []byte, stats *Stats) error {
	client := NewHTTPClient(config.BaseURL, config.Timeout)

	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	cleaned, err := client.Clean(ctx, config.Format, body)
	if err != nil {
		return fmt.Errorf("clean failed: %w", err)
	}
	stats.CleanedRows = cleaned.Count
	if cleaned.Count != stats.Kept {
		return fmt.Errorf("%w: server kept %d, expected %d", ErrMismatch, cleaned.Count, stats.Kept)
	}

	if stats.Kept == 0 {
		logger.Get().Warn(ctx, "nothing left after cleaning, skipping chart")
		return nil
	}

	out := io.Discard
	if config.ChartFile != "" {
		if err := os.MkdirAll(filepath.Dir(config.ChartFile), directoryPermission); err != nil {
			return fmt.Errorf("failed to create chart directory: %w", err)
		}
		f, err := os.OpenFile(config.ChartFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
		if err != nil {
			return fmt.Errorf("failed to create chart file: %w", err)
		}
		defer f.Close()
		out = f
	}

	n, err := client.Chart(ctx, config.Format, config.Image, body, out)
	if err != nil {
		return fmt.Errorf("chart failed: %w", err)
	}
	stats.ChartBytes = int(n)
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), directoryPermission); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return os.WriteFile(path, data, filePermission)
}

// displayFinalStats logs the run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("rows", stats.Rows),
		logger.Int("oldMethod", stats.OldMethod),
		logger.Int("outliers", stats.Outliers),
		logger.Int("expectedKept", stats.Kept),
		logger.Int("cleanedRows", stats.CleanedRows),
		logger.Int("chartBytes", stats.ChartBytes),
		logger.String("duration", stats.Duration.String()))
}
