package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDirPermissions is used for every directory we create
const DefaultDirPermissions = 0o755

// DownloadsDirName is the per-user downloads folder name
const DownloadsDirName = "Downloads"

// GetHomeDownloadsDir returns the standard Downloads directory for the user
func GetHomeDownloadsDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, DownloadsDirName), nil
}

// DefaultOutputDir returns <Downloads>/<appDir>, falling back to a folder
// in the working directory when the home directory is unknown
func DefaultOutputDir(appDir string) string {
	downloads, err := GetHomeDownloadsDir()
	if err != nil {
		return appDir
	}
	return filepath.Join(downloads, appDir)
}

// CreateDirectoryIfNotExists creates the directory and its parents
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}
