package cli

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

func TestEnvLoader_LoadsFlagPath(t *testing.T) {
	t.Setenv(EnvFileOverrideVar, "")
	t.Setenv("QUILL_TEST_PROVIDER", "")

	dir := t.TempDir()
	path := filepath.Join(dir, "quill.env")
	if err := os.WriteFile(path, []byte("QUILL_TEST_PROVIDER=anthropic\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	loader := AddEnvFlag(fs, filepath.Join(dir, "missing.env"), "")
	if err := fs.Parse([]string{"--env", path}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if loaded != path {
		t.Fatalf("unexpected loaded path: got %q want %q", loaded, path)
	}
	if got := os.Getenv("QUILL_TEST_PROVIDER"); got != "anthropic" {
		t.Fatalf("unexpected env value: got %q", got)
	}
}

func TestEnvLoader_MissingFiles(t *testing.T) {
	t.Setenv(EnvFileOverrideVar, "")

	dir := t.TempDir()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	loader := AddEnvFlag(fs, filepath.Join(dir, "nope.env"), "")
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	if _, err := loader.Load(); err == nil {
		t.Fatalf("expected missing env file to fail")
	}
}
