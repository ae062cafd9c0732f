package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
	OSAndroid = "android"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// AppDirName is the folder created under the platform cache root.
const AppDirName = "davplay"

// IsAndroid detects the Android runtime environment. Fyne Android apps do
// not report GOOS android when built via gomobile, so the environment is
// probed as well.
func IsAndroid() bool {
	return runtime.GOOS == OSAndroid ||
		os.Getenv("ANDROID_DATA") != "" ||
		os.Getenv("ANDROID_ROOT") != "" ||
		os.Getenv("ANDROID_STORAGE") != "" ||
		filepath.Base(os.Args[0]) == "libdist.so" // Fyne Android apps run as libdist.so
}

// GetCacheDir returns the per-platform directory for cached tracks.
func GetCacheDir() (string, error) {
	if IsAndroid() {
		// App-internal files dir; survives restarts but is cleared on uninstall
		if base := os.Getenv("FILESDIR"); base != "" {
			return filepath.Join(base, "cache"), nil
		}
		return filepath.Join("/data/local/tmp", AppDirName, "cache"), nil
	}

	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user cache directory: %w", err)
	}
	return filepath.Join(base, AppDirName), nil
}

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}
