package ui

import (
	"errors"
	"fmt"

	"github.com/SiirRandall/tuxport/internal/runner"
	"github.com/SiirRandall/tuxport/internal/scrape"
	"github.com/SiirRandall/tuxport/internal/wine"
)

// userMessage maps errors the user can act on to a dialog title and text.
// known is false for anything that should go through dialog.ShowError.
func userMessage(err error) (title, msg string, known bool) {
	var launchErr *wine.LaunchError
	switch {
	case errors.Is(err, runner.ErrEmptyURL):
		return "Invalid URL", "Please enter a URL.", true
	case errors.Is(err, runner.ErrBusy):
		return "Busy", "Wait for the current download or installer to finish.", true
	case errors.Is(err, runner.ErrNotInstaller):
		return "Not an Installer", "Please choose a Windows installer (.exe).", true
	case errors.Is(err, wine.ErrInstallerMissing):
		return "Error", "File does not exist.", true
	case errors.Is(err, wine.ErrLauncherNotFound):
		return "Wine Not Found", "Wine is not installed or not in PATH.", true
	case errors.Is(err, scrape.ErrNoLinksFound):
		return "No .exe Found", "No .exe download links found on the page.", true
	case errors.As(err, &launchErr):
		return "Error", fmt.Sprintf("Failed to run installer.\n%v", launchErr), true
	}
	return "", "", false
}
