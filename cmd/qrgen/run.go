package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/kula-app/qrgen/internal/config"
	"github.com/kula-app/qrgen/internal/generator"
	"github.com/kula-app/qrgen/internal/logging"
)

// The run function is like the main function, except that it takes in operating system fundamentals as arguments, and returns an error.
//
// If the run function finishes without an error, the image was written.
// If the run function returns an error before or during generation, the target path is left untouched.
// Only a failure to copy the preview to stdout can happen after the image is in place.
//
// The logic of the run function must stay isolated so it can be tested in parallel.
func run(ctx context.Context, args []string, getenv func(key string) string, stdout, stderr io.Writer) error {
	// Parse command-line flags
	flags := flag.NewFlagSet(args[0], flag.ContinueOnError)
	flags.SetOutput(stderr)
	targetURL := flags.String("url", "", "URL to encode, overrides "+config.EnvURL)
	envFile := flags.String("env-file", ".env", "Read environment variables from this dotenv file when it exists")
	printCode := flags.Bool("print", false, "Also print the QR code to stdout")
	if err := flags.Parse(args[1:]); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	getenv, err := config.WithEnvFile(getenv, *envFile)
	if err != nil {
		return err
	}

	// Load configuration, flags take precedence over the environment
	cfg, err := config.Load(getenv)
	if err != nil {
		logger := slog.New(logging.NewTerminalHandler(stderr, slog.LevelInfo))
		logger.Error("invalid configuration", "error", err)
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if *targetURL != "" {
		cfg.URL = *targetURL
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	logger := slog.New(logging.NewTerminalHandler(stderr, level))

	logger.Debug("configuration loaded",
		"url", cfg.URL,
		"directory", cfg.Directory,
		"filename", cfg.Filename,
		"fill_color", cfg.FillColor,
		"back_color", cfg.BackColor,
		"box_size", cfg.BoxSize,
		"error_correction", cfg.ErrorCorrection,
		"border", cfg.Border)

	if !config.IsValidURL(cfg.URL) {
		logger.Warn("target is not a valid http(s) URL, encoding it as plain text", "url", cfg.URL)
	}

	// Render the preview up front so that a preview failure leaves no file behind
	var preview bytes.Buffer
	if *printCode {
		if err := generator.Preview(&preview, cfg.URL, cfg.ErrorCorrection); err != nil {
			logger.Error("failed to render QR code preview", "error", err)
			return fmt.Errorf("failed to render QR code preview: %w", err)
		}
	}

	result, err := generator.New(logger).Generate(ctx, cfg)
	if err != nil {
		if errors.Is(err, generator.ErrInvalidColor) {
			logger.Error("invalid color configuration", "error", err)
		} else {
			logger.Error("failed to generate QR code", "error", err)
		}
		return err
	}

	if preview.Len() > 0 {
		if _, err := preview.WriteTo(stdout); err != nil {
			return fmt.Errorf("failed to print QR code: %w", err)
		}
	}

	logger.Debug("done", "path", result.Path, "url", cfg.URL)
	return nil
}
