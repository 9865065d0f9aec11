//go:build windows

package engine

import "os/exec"

func configureCommandProcess(_ *exec.Cmd) {}

func terminateCommandProcess(cmd *exec.Cmd) {
	if cmd == nil || cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}

func killedByKernel(_ *exec.ExitError) bool {
	return false
}
