package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEnvFileMissingIsNoop(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing env file should be ignored: %v", err)
	}
}

func TestLoadEnvFileLoadsAndPreservesExisting(t *testing.T) {
	t.Setenv("EXISTING_KEY", "from-env")
	file := filepath.Join(t.TempDir(), "app.env")
	content := "# local overrides\nEXISTING_KEY=from-file\nDATABASE_URL=postgres://localhost/esports\nQUOTED=\"secret\"\nBROKEN LINE\n"
	if err := os.WriteFile(file, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	if err := LoadEnvFile(file); err != nil {
		t.Fatalf("load env file: %v", err)
	}
	if got := os.Getenv("EXISTING_KEY"); got != "from-env" {
		t.Fatalf("expected existing var to win, got %q", got)
	}
	if got := os.Getenv("DATABASE_URL"); got != "postgres://localhost/esports" {
		t.Fatalf("unexpected DATABASE_URL=%q", got)
	}
	if got := os.Getenv("QUOTED"); got != "secret" {
		t.Fatalf("expected quotes stripped, got %q", got)
	}
}

func TestLoadEnvFileOpenErrorOnDirectory(t *testing.T) {
	if err := LoadEnvFile(t.TempDir()); err == nil {
		t.Fatal("expected error when path is a directory")
	}
}

func FuzzLoadEnvFileRobustness(f *testing.F) {
	f.Add([]byte("KEY=value\nANOTHER=ok\n"))
	f.Add([]byte("NO_EQUALS\n# comment\n SPACED = \"x\" \n"))
	f.Add([]byte("EMPTY=\n=novalue\n"))

	f.Fuzz(func(t *testing.T, content []byte) {
		if len(content) > 200000 {
			content = content[:200000]
		}
		file := filepath.Join(t.TempDir(), "fuzz.env")
		if err := os.WriteFile(file, content, 0o600); err != nil {
			t.Fatalf("write env file: %v", err)
		}

		classify := func(err error) string {
			if err == nil {
				return "none"
			}
			msg := err.Error()
			switch {
			case strings.Contains(msg, "open env file:"):
				return "open"
			case strings.Contains(msg, "read env file:"):
				return "read"
			default:
				return "other"
			}
		}

		first := classify(LoadEnvFile(file))
		second := classify(LoadEnvFile(file))
		if first != second {
			t.Fatalf("error classification must be deterministic: first=%q second=%q", first, second)
		}
		if first == "other" {
			t.Fatalf("unexpected error class %q", first)
		}
	})
}
