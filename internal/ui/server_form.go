package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/davplay/davplay/internal/model"
	"github.com/davplay/davplay/internal/registry"
	"github.com/davplay/davplay/internal/remote"
)

// ServerForm is the add/edit dialog for one server configuration.
type ServerForm struct {
	window       fyne.Window
	reg          *registry.Registry
	mgr          *remote.Manager
	localization *Localization
}

// NewServerForm creates the form helper bound to the registry and manager.
func NewServerForm(window fyne.Window, reg *registry.Registry, mgr *remote.Manager, localization *Localization) *ServerForm {
	return &ServerForm{
		window:       window,
		reg:          reg,
		mgr:          mgr,
		localization: localization,
	}
}

// ShowAdd opens the dialog with empty fields.
func (f *ServerForm) ShowAdd() {
	f.show(model.ServerConfig{}, false)
}

// ShowEdit opens the dialog prefilled with an existing configuration.
func (f *ServerForm) ShowEdit(cfg model.ServerConfig) {
	f.show(cfg, true)
}

func (f *ServerForm) show(cfg model.ServerConfig, editing bool) {
	nameEntry := widget.NewEntry()
	nameEntry.SetText(cfg.Name)
	urlEntry := widget.NewEntry()
	urlEntry.SetText(cfg.URL)
	urlEntry.SetPlaceHolder("https://example.com/dav")
	userEntry := widget.NewEntry()
	userEntry.SetText(cfg.Username)
	passEntry := widget.NewPasswordEntry()
	passEntry.SetText(cfg.Password)

	status := widget.NewLabel("")
	testBtn := widget.NewButton(f.localization.GetText(KeyTestConnection), nil)
	testBtn.OnTapped = func() {
		probe := model.ServerConfig{
			URL:      urlEntry.Text,
			Username: userEntry.Text,
			Password: passEntry.Text,
		}
		testBtn.Disable()
		status.SetText(f.localization.GetText(KeyConnecting))
		go func() {
			ok := f.mgr.Verify(context.Background(), probe)
			fyne.Do(func() {
				testBtn.Enable()
				if ok {
					status.SetText(f.localization.GetText(KeyConnectionOK))
				} else {
					status.SetText(f.localization.GetText(KeyConnectionFailed))
				}
			})
		}()
	}

	items := []*widget.FormItem{
		widget.NewFormItem(f.localization.GetText(KeyServerName), nameEntry),
		widget.NewFormItem(f.localization.GetText(KeyServerURL), urlEntry),
		widget.NewFormItem(f.localization.GetText(KeyUsername), userEntry),
		widget.NewFormItem(f.localization.GetText(KeyPassword), passEntry),
		widget.NewFormItem("", testBtn),
		widget.NewFormItem("", status),
	}

	title := f.localization.GetText(KeyAddServer)
	if editing {
		title = f.localization.GetText(KeyEditServer)
	}

	d := dialog.NewForm(title, f.localization.GetText(KeySave), f.localization.GetText(KeyCancel), items,
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if editing {
				patch := registry.Patch{
					Name:     &nameEntry.Text,
					URL:      &urlEntry.Text,
					Username: &userEntry.Text,
					Password: &passEntry.Text,
				}
				if err := f.reg.Update(cfg.ID, patch); err != nil {
					dialog.ShowError(err, f.window)
				}
				return
			}
			next := model.ServerConfig{
				Name:     nameEntry.Text,
				URL:      urlEntry.Text,
				Username: userEntry.Text,
				Password: passEntry.Text,
			}
			if _, err := f.reg.Add(next); err != nil {
				dialog.ShowError(err, f.window)
			}
		}, f.window)
	d.Resize(fyne.NewSize(360, 320))
	d.Show()
}
