package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// WithEnvFile returns a lookup function that falls back to the values of the
// dotenv file at path when getenv has no value for a key. The process
// environment is never modified. A missing file leaves getenv unchanged.
func WithEnvFile(getenv func(key string) string, path string) (func(key string) string, error) {
	if path == "" {
		return getenv, nil
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return getenv, nil
	}

	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return values[key]
	}, nil
}
