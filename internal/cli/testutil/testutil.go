// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/cobra"

	_ "modernc.org/sqlite"
)

// Project is a temporary sqlscript project on disk.
type Project struct {
	Dir      string
	Database string
}

// Script returns the path of a script under the project's scripts dir.
func (p *Project) Script(name string) string {
	return filepath.Join(p.Dir, "scripts", name)
}

// SetupTestProject creates a temporary project with a seeded SQLite
// database, a sqlscript.yaml pointing at it and a few scripts.
func SetupTestProject(t *testing.T) *Project {
	t.Helper()

	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "scripts"), 0755); err != nil {
		t.Fatalf("failed to create scripts dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "music.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("failed to open %s: %v", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	seed := []string{
		`CREATE TABLE songs (id INTEGER PRIMARY KEY, song_name TEXT NOT NULL, album_title TEXT)`,
		`INSERT INTO songs VALUES (1, 'Jimmy Cooks', 'Honestly, Nevermind'), (2, 'Sticky', NULL)`,
	}
	for _, stmt := range seed {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed database: %v", err)
		}
	}

	config := `target:
  type: sqlite
  path: ` + dbPath + `
output: json
environments:
  memory:
    target:
      type: duckdb
      path: ":memory:"
`
	files := map[string]string{
		"sqlscript.yaml":     config,
		"scripts/songs.sql":  "SELECT id, song_name, album_title FROM songs ORDER BY id",
		"scripts/count.sql":  "SELECT count(*) AS song_count FROM songs",
		"scripts/broken.sql": "SELECT * FROM albums",
		"scripts/empty.sql":  "  \n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to create %s: %v", name, err)
		}
	}

	return &Project{Dir: tmpDir, Database: dbPath}
}

// Result captures the outcome of one command execution.
type Result struct {
	Out    string
	ErrOut string
	Err    error
}

// Execute runs cmd with args, capturing stdout and stderr separately.
func Execute(t *testing.T, cmd *cobra.Command, args ...string) Result {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return Result{Out: out.String(), ErrOut: errOut.String(), Err: err}
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
