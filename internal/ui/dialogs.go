package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/SiirRandall/tuxport/internal/wine"
)

const aboutText = "TuxPort is open source software.\n" +
	"It uses Wine (also open source) to run Windows applications on Linux.\n\n" +
	"Licensed under the MIT License."

func showAbout(w fyne.Window) {
	dialog.ShowInformation("About TuxPort", aboutText, w)
}

// showInstallPrompt offers to open a terminal with the wine install command.
func showInstallPrompt(w fyne.Window) {
	msg := widget.NewLabel("Wine is not installed.\nTuxPort requires Wine to run Windows applications.\n\n" +
		"Would you like to open a terminal with the install command?")
	msg.Alignment = fyne.TextAlignCenter
	msg.Wrapping = fyne.TextWrapWord

	d := dialog.NewCustomConfirm("Wine Required", "Open Terminal", "Cancel", msg, func(ok bool) {
		if !ok {
			return
		}
		if err := wine.OpenInstallTerminal(); err != nil {
			dialog.ShowInformation("No Terminal Found",
				"Could not find a terminal emulator. Please open a terminal and run:\n\n"+wine.InstallCommand, w)
		}
	}, w)
	d.Resize(fyne.NewSize(420, 220))
	d.Show()
}

// showLinkPicker lists candidate installers. done receives the selected
// index, or -1 when the dialog is dismissed without a selection. It is
// called exactly once.
func showLinkPicker(w fyne.Window, links []string, done func(int)) {
	selected := -1
	list := widget.NewList(
		func() int { return len(links) },
		func() fyne.CanvasObject { return widget.NewLabel("link") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(links[i]) },
	)
	list.OnSelected = func(id widget.ListItemID) { selected = id }
	list.OnUnselected = func(id widget.ListItemID) {
		if selected == id {
			selected = -1
		}
	}

	content := container.NewBorder(
		widget.NewLabelWithStyle("Select a .exe to download and run:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		list,
	)
	d := dialog.NewCustomConfirm("Select .exe to Download", "Download Selected", "Cancel", content, func(ok bool) {
		if !ok {
			done(-1)
			return
		}
		done(selected)
	}, w)
	d.Resize(fyne.NewSize(800, 500))
	d.Show()
}
