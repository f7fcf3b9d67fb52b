//go:build !windows

package launcher

import (
	"os/exec"
	"syscall"
)

// applyDetach puts the child in a new session so it outlives chanmgr and
// never receives its terminal's signals.
func applyDetach(cmd *exec.Cmd, _ Spec) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
