package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/SiirRandall/tuxport/internal/browse"
)

// fileBrowser is the in-app .exe picker.
type fileBrowser struct {
	w        fyne.Window
	dir      string
	entries  []browse.Entry
	selected int

	pathLabel  *widget.Label
	list       *widget.List
	showHidden *widget.Check
}

// showBrowser opens the picker at start and calls run with the chosen file.
func showBrowser(w fyne.Window, start string, run func(path string)) {
	fb := &fileBrowser{w: w, selected: -1}

	fb.pathLabel = widget.NewLabel("")
	fb.pathLabel.Truncation = fyne.TextTruncateEllipsis
	fb.list = widget.NewList(
		func() int { return len(fb.entries) },
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.FileIcon()), widget.NewLabel("name"))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			row := o.(*fyne.Container)
			e := fb.entries[i]
			icon := theme.FileApplicationIcon()
			label := e.Name
			if e.IsDir {
				icon = theme.FolderIcon()
				label += "/"
			} else {
				label = fmt.Sprintf("%s  (%s)", e.Name, humanSize(e.Size))
			}
			row.Objects[0].(*widget.Icon).SetResource(icon)
			row.Objects[1].(*widget.Label).SetText(label)
		},
	)
	fb.list.OnSelected = func(id widget.ListItemID) {
		if id < 0 || id >= len(fb.entries) {
			return
		}
		if e := fb.entries[id]; e.IsDir {
			fb.list.UnselectAll()
			fb.open(e.Path)
			return
		}
		fb.selected = id
	}
	fb.list.OnUnselected = func(id widget.ListItemID) {
		if fb.selected == id {
			fb.selected = -1
		}
	}

	upBtn := widget.NewButtonWithIcon("Up", theme.NavigateBackIcon(), func() { fb.open(browse.Parent(fb.dir)) })
	fb.showHidden = widget.NewCheck("Show hidden", func(bool) { fb.open(fb.dir) })

	top := container.NewBorder(nil, nil, upBtn, fb.showHidden, fb.pathLabel)
	content := container.NewBorder(top, nil, nil, nil, fb.list)

	d := dialog.NewCustomConfirm("Select a Windows Installer (.exe)", "Run", "Cancel", content, func(ok bool) {
		if !ok || fb.selected < 0 || fb.selected >= len(fb.entries) {
			return
		}
		run(fb.entries[fb.selected].Path)
	}, w)
	d.Resize(fyne.NewSize(720, 480))

	fb.open(start)
	d.Show()
}

// open lists dir, keeping the current folder on failure.
func (fb *fileBrowser) open(dir string) {
	entries, err := browse.ListDirectory(dir, browse.Options{
		IncludeHidden: fb.showHidden != nil && fb.showHidden.Checked,
		ExeOnly:       true,
	})
	if err != nil {
		dialog.ShowError(err, fb.w)
		return
	}
	fb.dir = dir
	fb.entries = entries
	fb.selected = -1
	fb.pathLabel.SetText(dir)
	fb.list.UnselectAll()
	fb.list.Refresh()
	fb.list.ScrollToTop()
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
