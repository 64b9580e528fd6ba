package config

import (
	"errors"
)

var (
	// ErrInvalidConfig wraps validation failures; the message names the field.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures reading the YAML file or the environment.
	ErrLoadConfig = errors.New("load config failed")
	// ErrLoadDotenv wraps failures reading the file named by WASTEWATER_DOTENV.
	ErrLoadDotenv = errors.New("load dotenv failed")
)
