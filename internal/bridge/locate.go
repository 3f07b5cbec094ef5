package bridge

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// YtdlpBinary is the executable name searched for
const YtdlpBinary = "yt-dlp"

// LocateYtdlp finds yt-dlp in PATH, then next to the running executable
func LocateYtdlp() (string, error) {
	path, err := exec.LookPath(YtdlpBinary)
	if err == nil {
		return path, nil
	}
	execPath, err := os.Executable()
	if err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), YtdlpBinary)
		if runtime.GOOS == "windows" {
			candidate += ".exe"
		}
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s not found in PATH, please install it", YtdlpBinary)
}
