package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variables read by Load
const (
	// EnvDirectory is the directory the image is written to
	EnvDirectory = "QR_CODE_DIR"

	// EnvFilename is the name of the image file inside EnvDirectory
	EnvFilename = "QR_CODE_FILENAME"

	// EnvFillColor is the color of the dark modules (name or hex)
	EnvFillColor = "FILL_COLOR"

	// EnvBackColor is the color of the light modules and quiet zone (name or hex)
	EnvBackColor = "BACK_COLOR"

	// EnvURL is the text encoded into the code, usually a URL
	EnvURL = "QR_DATA_URL"

	// EnvBoxSize is the number of pixels per module
	EnvBoxSize = "QR_BOX_SIZE"

	// EnvErrorCorrection is the recovery level (L, M, Q or H)
	EnvErrorCorrection = "QR_ERROR_CORRECTION"

	// EnvBorder toggles the quiet zone around the code
	EnvBorder = "QR_BORDER"

	// EnvLogLevel sets the minimum log level (debug, info, warn, error)
	EnvLogLevel = "LOG_LEVEL"
)

// ErrInvalidValue is returned when an environment variable cannot be parsed
var ErrInvalidValue = errors.New("invalid configuration value")

// Config is the resolved generation request for a single invocation
type Config struct {
	// URL is the text encoded into the QR code
	URL string `json:"url"`

	// Directory is where the image is written, created if missing
	Directory string `json:"directory"`

	// Filename is the name of the image file inside Directory
	Filename string `json:"filename"`

	// FillColor is the color of the dark modules
	FillColor string `json:"fillColor"`

	// BackColor is the color of the light modules
	BackColor string `json:"backColor"`

	// BoxSize is the width and height of a single module in pixels
	BoxSize int `json:"boxSize" validate:"min=1"`

	// ErrorCorrection is one of L, M, Q, H
	ErrorCorrection string `json:"errorCorrection" validate:"oneof=L M Q H"`

	// Border draws the quiet zone around the code
	Border bool `json:"border"`

	// LogLevel is the minimum level written by the logger
	LogLevel string `json:"logLevel"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		URL:             "https://github.com",
		Directory:       "qr_codes",
		Filename:        "qr_code.png",
		FillColor:       "red",
		BackColor:       "white",
		BoxSize:         10,
		ErrorCorrection: "L",
		Border:          true,
		LogLevel:        "info",
	}
}

// Load returns the default configuration overlaid with values from getenv.
// Empty values are treated as unset.
func Load(getenv func(key string) string) (*Config, error) {
	cfg := DefaultConfig()

	setString(getenv, EnvURL, &cfg.URL)
	setString(getenv, EnvDirectory, &cfg.Directory)
	setString(getenv, EnvFilename, &cfg.Filename)
	setString(getenv, EnvFillColor, &cfg.FillColor)
	setString(getenv, EnvBackColor, &cfg.BackColor)

	if v := strings.TrimSpace(getenv(EnvBoxSize)); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size < 1 {
			return nil, fmt.Errorf("%w: %s=%q must be a positive integer", ErrInvalidValue, EnvBoxSize, v)
		}
		cfg.BoxSize = size
	}

	if v := strings.TrimSpace(getenv(EnvErrorCorrection)); v != "" {
		level := strings.ToUpper(v)
		switch level {
		case "L", "M", "Q", "H":
			cfg.ErrorCorrection = level
		default:
			return nil, fmt.Errorf("%w: %s=%q must be one of L, M, Q, H", ErrInvalidValue, EnvErrorCorrection, v)
		}
	}

	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		level := strings.ToLower(v)
		switch level {
		case "debug", "info", "warn", "warning", "error":
			cfg.LogLevel = level
		default:
			return nil, fmt.Errorf("%w: %s=%q must be one of debug, info, warn, error", ErrInvalidValue, EnvLogLevel, v)
		}
	}

	if v := strings.TrimSpace(getenv(EnvBorder)); v != "" {
		border, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q must be a boolean", ErrInvalidValue, EnvBorder, v)
		}
		cfg.Border = border
	}

	return cfg, nil
}

func setString(getenv func(key string) string, key string, dst *string) {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		*dst = v
	}
}

// OutputPath returns the path of the image file
func (c *Config) OutputPath() string {
	return filepath.Join(c.Directory, c.Filename)
}

// IsValidURL reports whether s is an absolute http or https URL with a host.
// It is advisory only, anything else is still encoded as plain text.
func IsValidURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
