package wine

import (
	"errors"
	"os/exec"
)

// InstallCommand is what the user is asked to run when wine is missing.
const InstallCommand = "sudo apt update && sudo apt install -y wine"

// ErrNoTerminal means no known terminal emulator is on PATH.
var ErrNoTerminal = errors.New("no terminal emulator found")

// Terminal emulators in order of preference, with the flag that precedes the
// command to execute.
var terminals = []struct {
	name     string
	execFlag string
}{
	{"gnome-terminal", "--"},
	{"x-terminal-emulator", "-e"},
}

var lookPath = exec.LookPath

// terminalCommand builds the command that opens a terminal showing the
// install instructions and leaves a shell open.
func terminalCommand() (*exec.Cmd, error) {
	script := `echo "To install Wine, run:"; echo "` + InstallCommand + `"; bash`
	for _, t := range terminals {
		bin, err := lookPath(t.name)
		if err != nil {
			continue
		}
		return exec.Command(bin, t.execFlag, "bash", "-c", script), nil
	}
	return nil, ErrNoTerminal
}

// OpenInstallTerminal starts a terminal with the install instructions and
// does not wait for it.
func OpenInstallTerminal() error {
	cmd, err := terminalCommand()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
