// Command render cleans a wastewater table and writes its trend chart.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/okian/wastewater/internal/adapters/figure"
	"github.com/okian/wastewater/internal/adapters/source"
	service "github.com/okian/wastewater/internal/app"
	"github.com/okian/wastewater/pkg/logger"
)

const filePermission = 0600

var errUsage = errors.New("usage: render -input data.csv|.xlsx|.json -output chart.png|.svg [-clean-out cleaned.csv]")

type options struct {
	input    string
	output   string
	cleanOut string
	sheet    string
	width    int
	height   int
	logLevel string
}

func main() {
	var o options
	flag.StringVar(&o.input, "input", "", "Raw table (.csv, .xlsx or .json)")
	flag.StringVar(&o.output, "output", "", "Chart file (.png or .svg)")
	flag.StringVar(&o.cleanOut, "clean-out", "", "Optional CSV file for the cleaned table")
	flag.StringVar(&o.sheet, "sheet", "", "Workbook sheet to read (default: first)")
	flag.IntVar(&o.width, "width", 0, "Chart width in pixels")
	flag.IntVar(&o.height, "height", 0, "Chart height in pixels")
	flag.StringVar(&o.logLevel, "log-level", "info", "Log level")
	flag.Parse()

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.SetLevelString(o.logLevel); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, o); err != nil {
		logger.Get().Error(ctx, "render failed", logger.Error(err))
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	if o.input == "" || o.output == "" {
		return errUsage
	}
	format, err := source.FormatFromPath(o.input)
	if err != nil {
		return err
	}
	image := strings.TrimPrefix(strings.ToLower(filepath.Ext(o.output)), ".")
	if _, err := service.ParseImageFormat(image); err != nil {
		return err
	}

	svc := service.New(
		service.WithLogger(logger.Named("render")),
		service.WithRenderer(figure.NewRenderer(figure.WithSize(o.width, o.height))),
		service.WithSheet(o.sheet),
	)

	in, err := os.Open(o.input)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	cleaned, err := svc.Clean(ctx, in, format)
	if err != nil {
		return err
	}

	if o.cleanOut != "" {
		if err := writeFile(o.cleanOut, func(f *os.File) error { return cleaned.WriteCSV(f) }); err != nil {
			return fmt.Errorf("write cleaned table: %w", err)
		}
	}

	fig, err := svc.Render(ctx, cleaned)
	if err != nil {
		return err
	}
	if err := writeFile(o.output, func(f *os.File) error { return svc.WriteChart(ctx, fig, image, f) }); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}

	logger.Get().Info(ctx, "chart written",
		logger.String("output", o.output),
		logger.Int("samples", len(fig.Samples)),
		logger.String("figure_id", fig.ID.String()))
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
