package generator

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/kula-app/qrgen/internal/config"
)

// Result describes a written image
type Result struct {
	Path  string
	Bytes int
}

// Generator renders QR codes to PNG files
type Generator struct {
	logger *slog.Logger
}

// New creates a new generator
func New(logger *slog.Logger) *Generator {
	return &Generator{logger: logger}
}

// Generate encodes cfg.URL and writes the PNG to cfg.OutputPath().
//
// Colors are validated before the filesystem is touched. The image is written
// to a temporary file next to the target and renamed into place, so a failed
// run never leaves a partially written file behind.
func (g *Generator) Generate(ctx context.Context, cfg *config.Config) (*Result, error) {
	startTime := time.Now()

	fill, err := ParseColor(cfg.FillColor)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fill color: %w", err)
	}
	back, err := ParseColor(cfg.BackColor)
	if err != nil {
		return nil, fmt.Errorf("failed to parse background color: %w", err)
	}

	png, err := Encode(cfg.URL, cfg.ErrorCorrection, cfg.BoxSize, cfg.Border, fill, back)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Filename may carry subdirectories of its own
	path := cfg.OutputPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	g.logger.Debug("output directory ready", "directory", dir)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := writeFileAtomic(path, png); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}

	g.logger.Info("qr code generated",
		"path", path,
		"bytes", len(png),
		"error_correction", cfg.ErrorCorrection,
		"box_size", cfg.BoxSize,
		"duration", time.Since(startTime))

	return &Result{Path: path, Bytes: len(png)}, nil
}

// Encode renders text as a PNG image. A boxSize of n gives n pixels per module.
func Encode(text, level string, boxSize int, border bool, fill, back color.Color) ([]byte, error) {
	recovery, err := recoveryLevel(level)
	if err != nil {
		return nil, err
	}

	q, err := qrcode.New(text, recovery)
	if err != nil {
		return nil, err
	}
	q.ForegroundColor = fill
	q.BackgroundColor = back
	q.DisableBorder = !border

	// Negative sizes are interpreted as pixels per module
	return q.PNG(-boxSize)
}

func recoveryLevel(level string) (qrcode.RecoveryLevel, error) {
	switch level {
	case "L":
		return qrcode.Low, nil
	case "M":
		return qrcode.Medium, nil
	case "Q":
		return qrcode.High, nil
	case "H":
		return qrcode.Highest, nil
	default:
		return 0, fmt.Errorf("unknown error correction level %q", level)
	}
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}
