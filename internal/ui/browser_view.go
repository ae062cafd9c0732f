package ui

import (
	"context"
	"log"
	"path"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/davplay/davplay/internal/config"
	"github.com/davplay/davplay/internal/model"
	"github.com/davplay/davplay/internal/remote"
)

// BrowserView renders one remote directory at a time and starts playback
// when a file row is tapped.
type BrowserView struct {
	window       fyne.Window
	browser      *remote.Browser
	mgr          *remote.Manager
	settings     *config.Settings
	localization *Localization
	onPlay       func(model.FileEntry)

	currentPath string
	entries     []model.FileEntry
	loading     bool

	pathLabel *widget.Label
	upBtn     *widget.Button
	list      *widget.List
	status    *widget.Label
	content   fyne.CanvasObject
}

// NewBrowserView creates the view. onPlay receives the tapped file entry;
// the caller owns resolution and playback.
func NewBrowserView(window fyne.Window, browser *remote.Browser, mgr *remote.Manager, settings *config.Settings, localization *Localization, input InputStrategy, onPlay func(model.FileEntry)) *BrowserView {
	v := &BrowserView{
		window:       window,
		browser:      browser,
		mgr:          mgr,
		settings:     settings,
		localization: localization,
		onPlay:       onPlay,
		currentPath:  "/",
	}

	v.pathLabel = widget.NewLabel("/")
	v.pathLabel.Truncation = fyne.TextTruncateEllipsis
	v.upBtn = widget.NewButtonWithIcon(localization.GetText(KeyUp), theme.NavigateBackIcon(), v.NavigateUp)
	refreshBtn := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), v.Refresh)
	v.status = widget.NewLabel(localization.GetText(KeyNotConnected))

	v.list = widget.NewList(
		func() int { return len(v.entries) },
		v.createRow,
		v.updateRow,
	)
	v.list.OnSelected = func(id widget.ListItemID) {
		v.list.UnselectAll()
		v.open(id)
	}

	header := container.NewBorder(nil, nil, v.upBtn, refreshBtn, v.pathLabel)
	body := container.NewBorder(header, v.status, nil, nil, v.list)
	v.content = input.WrapBrowser(body, v)
	return v
}

// Content returns the renderable root of the view.
func (v *BrowserView) Content() fyne.CanvasObject {
	return v.content
}

// Refresh reloads the current directory. Safe to call from the UI thread.
func (v *BrowserView) Refresh() {
	v.load(v.currentPath)
}

// NavigateUp moves one directory towards the root.
func (v *BrowserView) NavigateUp() {
	if v.currentPath == "/" || v.currentPath == "" {
		return
	}
	v.load(path.Dir(v.currentPath))
}

// ResetToRoot jumps back to / and reloads; used after connection changes.
func (v *BrowserView) ResetToRoot() {
	v.currentPath = "/"
	if v.mgr.State().IsConnected() {
		v.load("/")
	} else {
		v.entries = nil
		v.pathLabel.SetText("/")
		v.status.SetText(v.localization.GetText(KeyNotConnected))
		v.status.Show()
		v.list.Refresh()
	}
}

func (v *BrowserView) load(dir string) {
	if v.loading {
		return
	}
	if !v.mgr.State().IsConnected() {
		v.status.SetText(v.localization.GetText(KeyNotConnected))
		v.status.Show()
		return
	}
	v.loading = true
	v.status.Hide()

	opts := remote.ListOptions{OnlyPlayableMedia: v.settings.GetShowOnlyAudio()}
	go func() {
		entries, err := v.browser.List(context.Background(), dir, opts)
		fyne.Do(func() {
			v.loading = false
			if err != nil {
				log.Printf("ui: list %s: %v", dir, err)
				dialog.ShowError(err, v.window)
				return
			}
			model.SortEntries(entries)
			v.currentPath = dir
			v.entries = entries
			v.pathLabel.SetText(dir)
			if len(entries) == 0 {
				v.status.SetText(v.localization.GetText(KeyEmptyFolder))
				v.status.Show()
			}
			v.list.Refresh()
		})
	}()
}

func (v *BrowserView) open(id int) {
	if id < 0 || id >= len(v.entries) {
		return
	}
	entry := v.entries[id]
	if entry.IsDir() {
		v.load(entry.Path)
		return
	}
	if v.onPlay != nil {
		v.onPlay(entry)
	}
}

func (v *BrowserView) createRow() fyne.CanvasObject {
	icon := widget.NewIcon(theme.FileIcon())
	name := widget.NewLabel("")
	name.Truncation = fyne.TextTruncateEllipsis
	return container.NewBorder(nil, nil, icon, nil, name)
}

func (v *BrowserView) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(v.entries) {
		return
	}
	entry := v.entries[id]

	border := obj.(*fyne.Container)
	name := border.Objects[0].(*widget.Label)
	icon := border.Objects[1].(*widget.Icon)

	name.SetText(entry.Basename)
	if entry.IsDir() {
		icon.SetResource(theme.FolderIcon())
	} else {
		icon.SetResource(theme.MediaMusicIcon())
	}
}
