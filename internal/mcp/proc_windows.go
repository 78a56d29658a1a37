//go:build windows

package mcp

import "os/exec"

// configureProcAttrs arranges for the server process to be killed on
// context cancellation. Windows has no process groups in the POSIX
// sense; killing the direct child is the best available teardown.
func configureProcAttrs(cmd *exec.Cmd) {
	cmd.Cancel = func() error {
		return cmd.Process.Kill()
	}
}
