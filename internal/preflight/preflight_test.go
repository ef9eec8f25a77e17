package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fulfill/internal/services"
	"fulfill/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCreatable(t *testing.T) {
	base := t.TempDir()
	if r := CheckCreatable("test", filepath.Join(base, "later")); !r.Passed {
		t.Fatalf("expected pass for creatable dir, got: %s", r.Detail)
	}
	if r := CheckCreatable("test", filepath.Join(base, "missing", "later")); r.Passed {
		t.Fatal("expected failure when parent is missing")
	}
}

func TestCheckFileWritable(t *testing.T) {
	base := t.TempDir()
	if r := CheckFileWritable("ledger", filepath.Join(base, "daily_status.tsv")); !r.Passed {
		t.Fatalf("expected pass for missing ledger, got: %s", r.Detail)
	}
	if err := os.Mkdir(filepath.Join(base, "dir.tsv"), 0o755); err != nil {
		t.Fatal(err)
	}
	if r := CheckFileWritable("ledger", filepath.Join(base, "dir.tsv")); r.Passed {
		t.Fatal("expected failure for directory in place of ledger")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if err := Err(results); err != nil {
		t.Fatalf("Err: %v", err)
	}
}

func TestErrReportsFailures(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Paths.MainDir = filepath.Join(testsupport.BaseDir(cfg), "absent")

	err := Err(RunAll(cfg))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
