package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"slideloop/internal/config"
	"slideloop/internal/testsupport"
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
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
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

func TestCheckCatalog_Demo(t *testing.T) {
	result := CheckCatalog("")
	if !result.Passed {
		t.Fatalf("expected demo catalog to pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "5 sections") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckCatalog_Manifest(t *testing.T) {
	path := testsupport.WriteManifest(t, t.TempDir(), "Inbox", "Gallery", "Settings")
	result := CheckCatalog(path)
	if !result.Passed {
		t.Fatalf("expected manifest to pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "3 sections") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckCatalog_CorruptImage(t *testing.T) {
	dir := t.TempDir()
	path := testsupport.WriteManifest(t, dir, "Inbox")
	if err := os.WriteFile(filepath.Join(dir, "images", "inbox_clear.png"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckCatalog(path)
	if result.Passed {
		t.Fatal("expected failure for undecodable image")
	}
	if !strings.Contains(result.Detail, "Inbox") {
		t.Fatalf("expected section name in detail, got %q", result.Detail)
	}
}

func TestCheckCatalog_MissingManifest(t *testing.T) {
	result := CheckCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	if result.Passed {
		t.Fatal("expected failure for missing manifest")
	}
}

func TestCheckStorage_SQLite(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStorage(config.BackendSQLite, ""))
	result := CheckStorage(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected sqlite check to pass, got: %s", result.Detail)
	}
}

func TestCheckStorage_RedisUnreachable(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStorage(config.BackendRedis, "redis://127.0.0.1:1/0"))
	result := CheckStorage(context.Background(), cfg)
	if result.Passed {
		t.Fatal("expected unreachable redis to fail")
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithTrace())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results for memory storage with tracing, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	if RunAll(context.Background(), nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
