package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
	OSLinux   = "linux"
)

// Command constants
const (
	OpenCommand        = "open"
	ExplorerCommand    = "explorer"
	XDGOpenCommand     = "xdg-open"
	MacOSSelectFlag    = "-R"
	WindowsSelectParam = "/select,"
)

// LinuxFileManagers are tried in order when xdg-open is unavailable
var LinuxFileManagers = []string{"nautilus", "dolphin", "thunar", "nemo", "pcmanfm"}

// runCommand is replaced in tests
var runCommand = func(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

var lookPath = exec.LookPath

// OpenFolder shows a directory in the system file manager, creating it first
// so a fresh output folder can be opened before anything was downloaded
func OpenFolder(dir string) error {
	if dir == "" {
		return fmt.Errorf("folder path is empty")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	if err := CreateDirectoryIfNotExists(absDir); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return runCommand(OpenCommand, absDir)
	case OSWindows:
		return runCommand(ExplorerCommand, absDir)
	case OSLinux:
		return openLinux(absDir)
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// RevealFile opens the file manager with the file selected. Renamed outputs
// are located with FindFileWithFallback. Linux has no standard selection
// protocol, so the parent directory is opened instead.
func RevealFile(filePath string) error {
	found, err := FindFileWithFallback(filePath)
	if err != nil {
		return fmt.Errorf("file does not exist: %w", err)
	}
	absPath, err := filepath.Abs(found)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	switch runtime.GOOS {
	case OSDarwin:
		return runCommand(OpenCommand, MacOSSelectFlag, absPath)
	case OSWindows:
		return runCommand(ExplorerCommand, WindowsSelectParam+absPath)
	case OSLinux:
		return openLinux(filepath.Dir(absPath))
	default:
		return fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

// OpenLocation reveals path when it is a file and opens it when it is a
// directory
func OpenLocation(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return OpenFolder(path)
	}
	if filepath.Ext(path) == "" {
		return OpenFolder(path)
	}
	return RevealFile(path)
}

func openLinux(dir string) error {
	if err := runCommand(XDGOpenCommand, dir); err == nil {
		return nil
	}
	for _, fm := range LinuxFileManagers {
		if _, err := lookPath(fm); err == nil {
			return runCommand(fm, dir)
		}
	}
	return fmt.Errorf("no suitable file manager found")
}
