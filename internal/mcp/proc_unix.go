//go:build unix

package mcp

import (
	"os/exec"
	"syscall"
)

// configureProcAttrs places the server in its own process group and
// kills the whole group on context cancellation. Killing only the
// direct child is not enough: a wrapper-script server leaves its
// descendants holding the stdout pipe open, which would block reads
// past the deadline.
func configureProcAttrs(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
