package platform

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetCacheDir(t *testing.T) {
	dir, err := GetCacheDir()
	if err != nil {
		t.Fatalf("GetCacheDir failed: %v", err)
	}
	if dir == "" {
		t.Fatal("Cache directory should not be empty")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("Expected absolute path, got %s", dir)
	}
	if !IsAndroid() && !strings.Contains(dir, AppDirName) {
		t.Errorf("Expected app-scoped directory, got %s", dir)
	}
}

func TestCreateDirectoryIfNotExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")

	if err := CreateDirectoryIfNotExists(dir); err != nil {
		t.Fatalf("CreateDirectoryIfNotExists failed: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("Expected directory created, stat err %v", err)
	}

	// Second call on an existing directory is a no-op
	if err := CreateDirectoryIfNotExists(dir); err != nil {
		t.Errorf("Expected no error for existing directory, got %v", err)
	}
}
