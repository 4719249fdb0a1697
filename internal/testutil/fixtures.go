package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
)

// WriteScript writes content to name inside a fresh temp dir and returns the path.
func WriteScript(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write script fixture: %v", err)
	}
	return path
}

// PostgresConnString returns PG_CONNECTION_STRING, loading the nearest
// .env above the working directory first. The test is skipped when the
// variable is unset.
func PostgresConnString(t testing.TB) string {
	t.Helper()
	if env := findUp(".env"); env != "" {
		// Existing variables win over the file.
		_ = godotenv.Load(env)
	}
	conn := os.Getenv("PG_CONNECTION_STRING")
	if conn == "" {
		t.Skip("PG_CONNECTION_STRING not set")
	}
	return conn
}

func findUp(name string) string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
