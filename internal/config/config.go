// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file, a dotenv file and the environment on top.
// - External errors are wrapped with this package's sentinels.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// ChartWidth and ChartHeight set the rendered figure size in pixels.
	ChartWidth  int `koanf:"chart_width" validate:"gte=200,lte=8000"`
	ChartHeight int `koanf:"chart_height" validate:"gte=100,lte=8000"`

	// ChartFormat is the default image encoding: png or svg.
	ChartFormat string `koanf:"chart_format" validate:"oneof=png svg"`

	// MaxUploadBytes caps request bodies on the upload endpoints.
	MaxUploadBytes int64 `koanf:"max_upload_bytes" validate:"gt=0"`

	// XLSXSheet selects the workbook sheet to read; empty means the first.
	XLSXSheet string `koanf:"xlsx_sheet"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		ChartWidth:     1200,
		ChartHeight:    500,
		ChartFormat:    "png",
		MaxUploadBytes: 32 << 20,
	}
}
