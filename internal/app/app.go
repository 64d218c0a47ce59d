package app

import (
	"runtime"

	"fyne.io/fyne/v2"
	fynex "fyne.io/fyne/v2/app"

	"github.com/SiirRandall/tuxport/internal/assets"
	"github.com/SiirRandall/tuxport/internal/config"
	"github.com/SiirRandall/tuxport/internal/logging"
	"github.com/SiirRandall/tuxport/internal/runner"
	"github.com/SiirRandall/tuxport/internal/ui"
)

// AppID identifies the application to Fyne preferences and the desktop.
const AppID = "com.sirrandall.tuxport"

// Run opens the main window and blocks until it is closed.
func Run(store *config.Store, service *runner.Service, log *logging.Logger) {
	if log == nil {
		log = logging.Nop()
	}
	if runtime.GOOS != "linux" {
		log.Warn().Str("os", runtime.GOOS).Msg("TuxPort targets Linux; installers may not run through Wine here")
	}

	// Create the Fyne app and set icon (embedded).
	a := fynex.NewWithID(AppID)
	var icon fyne.Resource
	if len(assets.AppIconBytes) > 0 {
		icon = fyne.NewStaticResource(assets.AppIconName, assets.AppIconBytes)
		a.SetIcon(icon)
	}
	a.Settings().SetTheme(ui.NewTheme(service.Settings().Theme))

	w := a.NewWindow("TuxPort – Windows App Installer for Linux")
	if icon != nil {
		w.SetIcon(icon)
	}
	w.Resize(fyne.NewSize(640, 720))

	// Build and mount the UI.
	ui.Build(w, ui.Deps{Service: service, Store: store, Log: log})

	log.Info().Str("launcher", service.Settings().LauncherPath).Msg("Starting GUI")
	w.ShowAndRun()
}
