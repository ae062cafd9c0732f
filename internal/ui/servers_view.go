package ui

import (
	"context"
	"errors"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/davplay/davplay/internal/model"
	"github.com/davplay/davplay/internal/registry"
	"github.com/davplay/davplay/internal/remote"
)

// ServersView renders the configured servers and drives connect, edit,
// delete and set-default actions.
type ServersView struct {
	window       fyne.Window
	reg          *registry.Registry
	mgr          *remote.Manager
	form         *ServerForm
	localization *Localization

	servers []model.ServerConfig
	list    *widget.List
	empty   *widget.Label
	content fyne.CanvasObject
}

// NewServersView creates the view.
func NewServersView(window fyne.Window, reg *registry.Registry, mgr *remote.Manager, localization *Localization) *ServersView {
	v := &ServersView{
		window:       window,
		reg:          reg,
		mgr:          mgr,
		form:         NewServerForm(window, reg, mgr, localization),
		localization: localization,
	}

	v.empty = widget.NewLabel(localization.GetText(KeyNoServers))
	v.list = widget.NewList(
		func() int { return len(v.servers) },
		v.createRow,
		v.updateRow,
	)

	addBtn := widget.NewButtonWithIcon(localization.GetText(KeyAddServer), theme.ContentAddIcon(), func() {
		v.form.ShowAdd()
	})

	v.content = container.NewBorder(nil, addBtn, nil, nil, container.NewStack(v.list, v.empty))
	v.Reload()
	return v
}

// Content returns the renderable root of the view.
func (v *ServersView) Content() fyne.CanvasObject {
	return v.content
}

// Reload re-reads the registry and refreshes the list. Call on the UI
// thread.
func (v *ServersView) Reload() {
	v.servers = v.reg.List()
	if len(v.servers) == 0 {
		v.empty.Show()
	} else {
		v.empty.Hide()
	}
	v.list.Refresh()
}

func (v *ServersView) createRow() fyne.CanvasObject {
	name := widget.NewLabel("")
	name.TextStyle.Bold = true
	url := widget.NewLabel("")
	connect := widget.NewButtonWithIcon("", theme.MediaPlayIcon(), nil)
	edit := widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), nil)
	del := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
	def := widget.NewButtonWithIcon("", theme.ConfirmIcon(), nil)
	return container.NewBorder(nil, nil, nil,
		container.NewHBox(connect, def, edit, del),
		container.NewVBox(name, url))
}

func (v *ServersView) updateRow(id widget.ListItemID, obj fyne.CanvasObject) {
	if id < 0 || id >= len(v.servers) {
		return
	}
	cfg := v.servers[id]

	border := obj.(*fyne.Container)
	labels := border.Objects[0].(*fyne.Container)
	buttons := border.Objects[1].(*fyne.Container)

	name := labels.Objects[0].(*widget.Label)
	url := labels.Objects[1].(*widget.Label)
	connect := buttons.Objects[0].(*widget.Button)
	def := buttons.Objects[1].(*widget.Button)
	edit := buttons.Objects[2].(*widget.Button)
	del := buttons.Objects[3].(*widget.Button)

	title := cfg.Name
	if cfg.IsDefault {
		title += " " + v.localization.GetText(KeyDefaultMark)
	}
	name.SetText(title)
	url.SetText(cfg.URL)

	if active, ok := v.mgr.CurrentServer(); ok && active.ID == cfg.ID {
		connect.SetIcon(theme.MediaStopIcon())
		connect.OnTapped = func() { v.mgr.Disconnect() }
	} else {
		connect.SetIcon(theme.MediaPlayIcon())
		connect.OnTapped = func() { v.connect(cfg) }
	}

	def.OnTapped = func() {
		if !v.reg.SetDefault(cfg.ID) {
			log.Printf("ui: set default failed for %s", cfg.ID)
		}
	}
	edit.OnTapped = func() { v.form.ShowEdit(cfg) }
	del.OnTapped = func() { v.confirmDelete(cfg) }
}

func (v *ServersView) connect(cfg model.ServerConfig) {
	go func() {
		err := v.mgr.Connect(context.Background(), cfg)
		if err != nil && !errors.Is(err, remote.ErrSuperseded) {
			fyne.Do(func() {
				dialog.ShowError(err, v.window)
			})
		}
	}()
}

func (v *ServersView) confirmDelete(cfg model.ServerConfig) {
	dialog.ShowConfirm(v.localization.GetText(KeyDelete),
		v.localization.GetText(KeyDeleteConfirm),
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := v.reg.Delete(cfg.ID); err != nil {
				dialog.ShowError(err, v.window)
			}
		}, v.window)
}
