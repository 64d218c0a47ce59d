// Package wine runs Windows programs through an external compatibility layer
// (wine by default) and checks that it is installed.
package wine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"

	"github.com/SiirRandall/tuxport/internal/logging"
)

const versionFlag = "--version"

var (
	// ErrLauncherNotFound means the launcher binary is not on PATH.
	ErrLauncherNotFound = errors.New("launcher not found on PATH")
	// ErrLaunchFailed is matched by every *LaunchError.
	ErrLaunchFailed = errors.New("installer exited with an error")
	// ErrInstallerMissing means the file to run does not exist.
	ErrInstallerMissing = errors.New("installer file does not exist")
)

// LaunchError carries the launcher's non-zero exit status.
type LaunchError struct {
	Launcher string
	Path     string
	ExitCode int
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("%s %s exited with status %d", e.Launcher, e.Path, e.ExitCode)
}

func (e *LaunchError) Is(target error) bool { return target == ErrLaunchFailed }

// Runtime is one configured launcher.
type Runtime struct {
	Launcher string
	log      *logging.Logger
}

// New creates a Runtime for launcher (a name on PATH or a path).
func New(launcher string, log *logging.Logger) *Runtime {
	if log == nil {
		log = logging.Nop()
	}
	return &Runtime{Launcher: launcher, log: log}
}

// Available runs `<launcher> --version` and reports whether it exited 0.
// Nothing is cached.
func (r *Runtime) Available(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, r.Launcher, versionFlag)
	if err := cmd.Run(); err != nil {
		r.log.Debugf("Launcher probe %s %s failed: %v", r.Launcher, versionFlag, err)
		return false
	}
	return true
}

// Launch runs `<launcher> <path>` and waits for it to exit.
func (r *Runtime) Launch(ctx context.Context, path string) error {
	bin, err := exec.LookPath(r.Launcher)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrLauncherNotFound, r.Launcher)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrInstallerMissing, path)
		}
		return err
	}

	r.log.Info().Str("launcher", bin).Str("installer", path).Msg("Launching installer")
	cmd := exec.CommandContext(ctx, bin, path)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &LaunchError{Launcher: r.Launcher, Path: path, ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("start %s: %w", r.Launcher, err)
	}
	return nil
}
