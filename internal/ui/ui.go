package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/SiirRandall/tuxport/internal/config"
	"github.com/SiirRandall/tuxport/internal/logging"
	"github.com/SiirRandall/tuxport/internal/runner"
)

// Deps are the services the window drives.
type Deps struct {
	Service *runner.Service
	Store   *config.Store
	Log     *logging.Logger
}

// read-only entry helpers (theme-friendly, no SetReadOnly in Fyne v2.7)
var (
	roMu   sync.Mutex
	roLast = map[*widget.Entry]string{}
)

func makeReadOnlyEntry(e *widget.Entry) {
	e.Wrapping = fyne.TextWrapWord
	e.TextStyle = fyne.TextStyle{Monospace: true}
	e.OnChanged = func(s string) {
		roMu.Lock()
		last := roLast[e]
		roMu.Unlock()
		if s != last {
			fyne.Do(func() {
				onchg := e.OnChanged
				e.OnChanged = nil
				e.SetText(last)
				e.CursorColumn = 0
				e.CursorRow = strings.Count(e.Text, "\n")
				e.OnChanged = onchg
			})
		}
	}
}

func setEntryText(e *widget.Entry, s string) {
	fyne.Do(func() {
		onchg := e.OnChanged
		e.OnChanged = nil
		e.SetText(s)
		e.CursorColumn = 0
		e.CursorRow = strings.Count(e.Text, "\n")
		e.OnChanged = onchg
		roMu.Lock()
		roLast[e] = s
		roMu.Unlock()
	})
}

func formatLogLine(now time.Time, format string, args ...any) string {
	return fmt.Sprintf("[%s] %s\n", now.Format("15:04:05"), fmt.Sprintf(format, args...))
}

func runOnUI(fn func()) { fyne.Do(fn) }

// view holds the main window's widgets.
type view struct {
	w    fyne.Window
	deps Deps

	status   *widget.Label
	progress *widget.ProgressBar
	activity *widget.ProgressBarInfinite
	logView  *widget.Entry
	urlEntry *widget.Entry
	actions  []*widget.Button

	// pickLink asks the user for one of several links and calls done with
	// its index, or -1 when dismissed.
	pickLink func(w fyne.Window, links []string, done func(int))
	workers  sync.WaitGroup
}

func (v *view) logLine(format string, args ...any) {
	v.deps.Log.Infof(format, args...)
	line := formatLogLine(time.Now(), format, args...)
	fyne.Do(func() {
		setEntryText(v.logView, v.logView.Text+line)
	})
}

// hooks forward runner events to the widgets. They run on the worker
// goroutine; fyne.Do keeps them in order.
func (v *view) hooks() runner.Hooks {
	return runner.Hooks{
		OnStart: func() { v.setBusy(true) },
		OnStatus: func(s string) {
			v.logLine("%s", s)
			runOnUI(func() {
				v.status.SetText(s)
				if s == runner.StatusDownloading {
					// size unknown until the first progress report
					v.progress.Hide()
					v.activity.Show()
				} else {
					v.activity.Hide()
				}
			})
		},
		OnProgress: func(p int) {
			runOnUI(func() {
				v.activity.Hide()
				v.progress.Show()
				v.progress.SetValue(float64(p) / 100)
			})
		},
	}
}

func (v *view) setBusy(busy bool) {
	runOnUI(func() {
		for _, b := range v.actions {
			if busy {
				b.Disable()
			} else {
				b.Enable()
			}
		}
	})
}

// start runs action on a worker goroutine.
func (v *view) start(action func(runner.Hooks) error) {
	v.workers.Go(func() { v.run(action) })
}

// run calls action and settles the window afterwards. An action refused
// with ErrBusy leaves the window to the one already running.
func (v *view) run(action func(runner.Hooks) error) {
	err := action(v.hooks())
	if errors.Is(err, runner.ErrBusy) {
		v.showBusy()
		return
	}
	v.finish(err)
	v.setBusy(v.deps.Service.Busy())
}

// rejectBusy shows the busy notice when an action is already in flight.
func (v *view) rejectBusy() bool {
	if !v.deps.Service.Busy() {
		return false
	}
	v.showBusy()
	return true
}

func (v *view) showBusy() {
	v.deps.Log.Debug().Msg("Ignoring action while another is running")
	title, msg, _ := userMessage(runner.ErrBusy)
	runOnUI(func() { dialog.ShowInformation(title, msg, v.w) })
}

// finish resets the status line and reports err, if any.
func (v *view) finish(err error) {
	runOnUI(func() {
		if v.deps.Service.Busy() {
			return
		}
		v.progress.Hide()
		v.activity.Hide()
		v.status.SetText(runner.StatusIdle)
	})
	v.report(err)
}

func (v *view) report(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, runner.ErrCancelled) {
		v.logLine("Cancelled")
		return
	}
	v.logLine("Failed: %v", err)
	title, msg, known := userMessage(err)
	runOnUI(func() {
		if known {
			dialog.ShowInformation(title, msg, v.w)
			return
		}
		dialog.ShowError(err, v.w)
	})
}

// runInstaller launches path on a worker goroutine.
func (v *view) runInstaller(path string) {
	if v.rejectBusy() {
		return
	}
	v.logLine("Selected %s", path)
	v.start(func(h runner.Hooks) error {
		return v.deps.Service.RunInstaller(context.Background(), path, h)
	})
}

func (v *view) downloadAndRun() {
	if v.rejectBusy() {
		return
	}
	url := strings.TrimSpace(v.urlEntry.Text)
	if url == "" {
		v.report(runner.ErrEmptyURL)
		return
	}
	v.start(func(h runner.Hooks) error {
		return v.deps.Service.DownloadAndRun(context.Background(), url, v.chooseLink, h)
	})
}

// chooseLink shows the link picker and blocks the worker until the user
// answers.
func (v *view) chooseLink(links []string) (int, bool) {
	picked := make(chan int, 1)
	runOnUI(func() {
		v.pickLink(v.w, links, func(i int) { picked <- i })
	})
	i := <-picked
	return i, i >= 0
}

// checkRuntime prompts for installation when the launcher does not answer.
func (v *view) checkRuntime() {
	launcher := v.deps.Service.Settings().LauncherPath
	if v.deps.Service.Probe(context.Background()) {
		v.logLine("%s is available", launcher)
		return
	}
	v.logLine("%s is not installed or not on PATH", launcher)
	runOnUI(func() { showInstallPrompt(v.w) })
}

// droppedInstaller returns the path of the first local .exe in uris.
func droppedInstaller(uris []fyne.URI) (string, bool) {
	for _, u := range uris {
		if u == nil || u.Scheme() != "file" {
			continue
		}
		if strings.EqualFold(u.Extension(), ".exe") {
			return u.Path(), true
		}
	}
	return "", false
}

func (v *view) onDropped(_ fyne.Position, uris []fyne.URI) {
	path, ok := droppedInstaller(uris)
	if !ok {
		dialog.ShowInformation("Drop", "Drop a Windows installer (.exe) to run it.", v.w)
		return
	}
	v.runInstaller(path)
}

func (v *view) showSystemPicker() {
	d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			return
		}
		path := r.URI().Path()
		_ = r.Close()
		v.runInstaller(path)
	}, v.w)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".exe", ".EXE"}))
	if folder := v.deps.Service.Settings().DefaultFolder; folder != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(folder)); err == nil {
			d.SetLocation(lister)
		}
	}
	d.Show()
}

// Build builds and mounts the UI on the given window.
func Build(w fyne.Window, deps Deps) {
	v := newView(w, deps)

	// First check
	go v.checkRuntime()
}

func newView(w fyne.Window, deps Deps) *view {
	if deps.Log == nil {
		deps.Log = logging.Nop()
	}
	v := &view{w: w, deps: deps, pickLink: showLinkPicker}

	title := widget.NewLabelWithStyle("TuxPort", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	title.SizeName = theme.SizeNameHeadingText
	subtitle := widget.NewLabelWithStyle("Open Source Windows App Installer for Linux", fyne.TextAlignCenter, fyne.TextStyle{})
	desc := widget.NewLabelWithStyle(
		"TuxPort is open source software.\nIt uses Wine (also open source) to run Windows applications on Linux.",
		fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	v.status = widget.NewLabelWithStyle(runner.StatusIdle, fyne.TextAlignCenter, fyne.TextStyle{})
	v.status.Wrapping = fyne.TextWrapWord

	browseBtn := widget.NewButton("Browse and Run .exe", func() {
		showBrowser(w, deps.Service.Settings().DefaultFolder, v.runInstaller)
	})
	browseBtn.Importance = widget.HighImportance
	systemBtn := widget.NewButton("System Dialog…", v.showSystemPicker)

	v.urlEntry = widget.NewEntry()
	v.urlEntry.SetPlaceHolder("https://example.com/downloads or https://example.com/setup.exe")
	v.urlEntry.OnSubmitted = func(string) { v.downloadAndRun() }
	downloadBtn := widget.NewButton("Download and Run .exe", v.downloadAndRun)
	downloadBtn.Importance = widget.HighImportance

	v.progress = widget.NewProgressBar()
	v.progress.Min = 0
	v.progress.Max = 1
	v.progress.Hide()
	v.activity = widget.NewProgressBarInfinite()
	v.activity.Hide()

	v.logView = widget.NewMultiLineEntry()
	makeReadOnlyEntry(v.logView)
	v.logView.SetPlaceHolder("Logs will appear here…")

	settingsBtn := widget.NewButton("Settings", func() {
		newSettingsDialog(w, deps.Store, deps.Service, v.logLine).Show()
	})
	aboutBtn := widget.NewButton("About", func() { showAbout(w) })
	exitBtn := widget.NewButton("Exit", func() { fyne.CurrentApp().Quit() })

	v.actions = []*widget.Button{browseBtn, systemBtn, downloadBtn}

	header := container.NewVBox(title, subtitle, desc, widget.NewSeparator())
	actions := container.NewVBox(
		v.status,
		container.NewBorder(nil, nil, nil, systemBtn, browseBtn),
		widget.NewLabel("Or enter a page or direct .exe download link:"),
		v.urlEntry,
		downloadBtn,
		v.progress,
		v.activity,
		widget.NewLabel("Status / Logs"),
	)
	bottom := container.NewGridWithColumns(3, settingsBtn, aboutBtn, exitBtn)
	w.SetContent(container.NewBorder(
		container.NewVBox(header, actions),
		bottom,
		nil, nil,
		v.logView,
	))
	w.SetOnDropped(v.onDropped)
	return v
}
