package ui

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/SiirRandall/tuxport/internal/config"
	"github.com/SiirRandall/tuxport/internal/runner"
)

// settingsDialog edits theme, default folder and launcher.
type settingsDialog struct {
	window  fyne.Window
	store   *config.Store
	service *runner.Service
	logf    func(format string, args ...any)
	dialog  *dialog.ConfirmDialog

	themeSelect   *widget.RadioGroup
	folderEntry   *widget.Entry
	launcherEntry *widget.Entry
}

func newSettingsDialog(w fyne.Window, store *config.Store, service *runner.Service, logf func(string, ...any)) *settingsDialog {
	sd := &settingsDialog{window: w, store: store, service: service, logf: logf}
	sd.createUI()
	return sd
}

func (sd *settingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

func (sd *settingsDialog) createUI() {
	sd.themeSelect = widget.NewRadioGroup([]string{string(config.ThemeDark), string(config.ThemeLight)}, nil)
	sd.themeSelect.Horizontal = true
	sd.themeSelect.Required = true

	sd.folderEntry = widget.NewEntry()
	sd.folderEntry.SetPlaceHolder("Folder the file browser opens in")
	browseDirBtn := widget.NewButton("Browse", sd.onBrowseDirectory)
	folderRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.folderEntry)

	sd.launcherEntry = widget.NewEntry()
	sd.launcherEntry.SetPlaceHolder(config.DefaultLauncherPath)

	form := container.NewVBox(
		widget.NewLabel("Theme:"),
		sd.themeSelect,
		widget.NewLabel("Default Folder:"),
		folderRow,
		widget.NewLabel("Launcher (wine or a path to it):"),
		sd.launcherEntry,
	)

	sd.dialog = dialog.NewCustomConfirm("Settings", "Save", "Cancel", form, sd.onSave, sd.window)
	sd.dialog.Resize(fyne.NewSize(500, 320))
}

func (sd *settingsDialog) loadCurrentSettings() {
	s := sd.service.Settings()
	sd.themeSelect.SetSelected(string(s.Theme))
	sd.folderEntry.SetText(s.DefaultFolder)
	sd.launcherEntry.SetText(s.LauncherPath)
}

func (sd *settingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.folderEntry.SetText(uri.Path())
	}, sd.window)
}

// collect reads the form into a complete Settings value.
func (sd *settingsDialog) collect() config.Settings {
	s := sd.service.Settings()
	if t := config.Theme(sd.themeSelect.Selected); t.Valid() {
		s.Theme = t
	}
	if folder := strings.TrimSpace(sd.folderEntry.Text); folder != "" {
		s.DefaultFolder = folder
	}
	launcher := strings.TrimSpace(sd.launcherEntry.Text)
	if launcher == "" {
		launcher = config.DefaultLauncherPath
	}
	s.LauncherPath = launcher
	return s
}

func (sd *settingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	s := sd.collect()
	sd.service.SetSettings(s)
	fyne.CurrentApp().Settings().SetTheme(NewTheme(s.Theme))

	if sd.store == nil {
		return
	}
	if err := sd.store.Save(s); err != nil {
		// Logged only; the settings still apply for this session.
		sd.logf("Could not save settings: %v", err)
		return
	}
	sd.logf("Settings saved to %s", sd.store.Path)
}
