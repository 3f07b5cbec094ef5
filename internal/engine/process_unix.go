//go:build !windows

package engine

import (
	"os"
	"os/exec"
)

// stopOnCancel interrupts the engine so it can stop its own children
// before exiting; WaitDelay bounds how long it gets
func stopOnCancel(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = stopGracePeriod
}
