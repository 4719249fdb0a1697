package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads .env.<environment> and then .env from dir into the
// process environment. Variables that are already set are kept, so the
// environment-specific file wins over .env. Missing files are skipped.
// It returns the files that were loaded.
func LoadDotEnv(dir, environment string) ([]string, error) {
	var candidates []string
	if environment != "" {
		candidates = append(candidates, filepath.Join(dir, ".env."+environment))
	}
	candidates = append(candidates, filepath.Join(dir, ".env"))

	var loaded []string
	for _, path := range candidates {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return loaded, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		loaded = append(loaded, path)
	}
	return loaded, nil
}
