//go:build windows

package launcher

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// applyDetach starts the child in its own process group, with a new console
// window when the spec asks for one.
func applyDetach(cmd *exec.Cmd, spec Spec) {
	flags := uint32(windows.CREATE_NEW_PROCESS_GROUP)
	if spec.NewConsole {
		flags |= windows.CREATE_NEW_CONSOLE
	} else {
		flags |= windows.CREATE_NO_WINDOW
	}

	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: flags,
		CmdLine:       spec.CmdLine,
	}
}
