package verbs

import (
	"context"
	"fmt"
	"os/exec"
	"time"
)

// KeySender injects a keystroke description into the OS input queue. The
// real implementation lives in the host; tests substitute a recorder.
type KeySender interface {
	SendKeys(keys string) error
}

// PowerController is the OS power-management capability.
type PowerController interface {
	Sleep() error
	Hibernate() error
	Restart() error
	Shutdown() error
}

// SendHandler forwards its argument string to the key-injection capability.
type SendHandler struct {
	Sender KeySender
}

func (SendHandler) Verb() string        { return "send" }
func (SendHandler) RequiresTrust() bool { return false }

func (h SendHandler) Execute(_ context.Context, args string) error {
	return h.Sender.SendKeys(args)
}

// SystemHandler maps power subcommands onto the power-control capability.
type SystemHandler struct {
	Power PowerController
}

func (SystemHandler) Verb() string        { return "system" }
func (SystemHandler) RequiresTrust() bool { return false }

func (h SystemHandler) Execute(_ context.Context, args string) error {
	switch args {
	case "sleep":
		return h.Power.Sleep()
	case "hibernate":
		return h.Power.Hibernate()
	case "restart":
		return h.Power.Restart()
	case "shutdown":
		return h.Power.Shutdown()
	default:
		return fmt.Errorf("unknown system subcommand %q", args)
	}
}

// powershellTimeout bounds how long a script may run before the interpreter
// process is killed.
const powershellTimeout = 5 * time.Second

// PowerShellHandler runs its argument string as a script in an external
// interpreter. It requires trust: the argument is arbitrary code.
type PowerShellHandler struct {
	// Interpreter overrides the executable name, for tests. Defaults to
	// "powershell".
	Interpreter string
}

func (PowerShellHandler) Verb() string        { return "powershell" }
func (PowerShellHandler) RequiresTrust() bool { return true }

func (h PowerShellHandler) Execute(ctx context.Context, args string) error {
	ctx, cancel := context.WithTimeout(ctx, powershellTimeout)
	defer cancel()

	interp := h.Interpreter
	if interp == "" {
		interp = "powershell"
	}
	// CommandContext kills the process when the deadline fires.
	cmd := exec.CommandContext(ctx, interp, "-NoProfile", "-NonInteractive", "-Command", args)
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("powershell timed out after %s", powershellTimeout)
		}
		return err
	}
	return nil
}

// MuteHandler toggles audio mute by sending the media key through the same
// capability the send verb uses.
type MuteHandler struct {
	Sender KeySender
}

func (MuteHandler) Verb() string        { return "audio.toggle_mute" }
func (MuteHandler) RequiresTrust() bool { return false }

func (h MuteHandler) Execute(_ context.Context, _ string) error {
	return h.Sender.SendKeys("{Volume_Mute}")
}
