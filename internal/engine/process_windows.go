//go:build windows

package engine

import "os/exec"

// stopOnCancel keeps the default Kill; os.Interrupt cannot be sent to a
// process on Windows
func stopOnCancel(cmd *exec.Cmd) {
	cmd.WaitDelay = stopGracePeriod
}
