// Package runner is the default run-target capability: it hands a path,
// URI or command line to the operating system.
package runner

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Launcher implements the engine's Runner interface.
type Launcher struct{}

// RunTarget opens target with the platform opener when it is a URI or an
// existing filesystem path, and otherwise runs it through the shell. The
// command is started, not waited for; a launcher must not block behind the
// programs it starts.
func (Launcher) RunTarget(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return fmt.Errorf("empty target")
	}

	var cmd *exec.Cmd
	if isOpenable(target) {
		cmd = openCommand(target)
	} else {
		cmd = shellCommand(target)
	}

	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child in the background so it never turns into a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

func isOpenable(target string) bool {
	if strings.Contains(target, "://") {
		return true
	}
	_, err := os.Stat(target)
	return err == nil
}

func openCommand(target string) *exec.Cmd {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", target)
	case "windows":
		return exec.Command("cmd", "/c", "start", "", target)
	default:
		return exec.Command("xdg-open", target)
	}
}

func shellCommand(target string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.Command("cmd", "/c", target)
	}
	return exec.Command("sh", "-c", target)
}
