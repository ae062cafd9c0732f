package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/davplay/davplay/internal/cache"
	"github.com/davplay/davplay/internal/config"
)

// SettingsDialog edits application preferences and cache state.
type SettingsDialog struct {
	window       fyne.Window
	settings     *config.Settings
	cacheStore   *cache.Store
	localization *Localization
	onSaved      func()
}

// NewSettingsDialog creates the dialog helper. onSaved runs after a
// confirmed save, on the UI thread.
func NewSettingsDialog(window fyne.Window, settings *config.Settings, cacheStore *cache.Store, localization *Localization, onSaved func()) *SettingsDialog {
	return &SettingsDialog{
		window:       window,
		settings:     settings,
		cacheStore:   cacheStore,
		localization: localization,
		onSaved:      onSaved,
	}
}

// Show opens the settings dialog.
func (d *SettingsDialog) Show() {
	options := d.settings.GetLanguageOptions()
	codes := make([]string, 0, len(options))
	labels := make([]string, 0, len(options))
	// Stable order: system first, then the rest
	if name, ok := options["system"]; ok {
		codes = append(codes, "system")
		labels = append(labels, name)
	}
	for code, name := range options {
		if code == "system" {
			continue
		}
		codes = append(codes, code)
		labels = append(labels, name)
	}

	langSelect := widget.NewSelect(labels, nil)
	current := d.settings.GetLanguage()
	for i, code := range codes {
		if code == current {
			langSelect.SetSelectedIndex(i)
		}
	}

	onlyAudio := widget.NewCheck("", nil)
	onlyAudio.SetChecked(d.settings.GetShowOnlyAudio())

	streamFallback := widget.NewCheck("", nil)
	streamFallback.SetChecked(d.settings.GetStreamFallback())

	sizeLabel := widget.NewLabel(formatBytes(d.cacheStore.TotalSize()))
	clearBtn := widget.NewButton(d.localization.GetText(KeyClearCache), nil)
	clearBtn.OnTapped = func() {
		if err := d.cacheStore.Clear(); err != nil {
			dialog.ShowError(err, d.window)
			return
		}
		sizeLabel.SetText(formatBytes(d.cacheStore.TotalSize()))
	}

	items := []*widget.FormItem{
		widget.NewFormItem(d.localization.GetText(KeyLanguage), langSelect),
		widget.NewFormItem(d.localization.GetText(KeyShowOnlyAudio), onlyAudio),
		widget.NewFormItem(d.localization.GetText(KeyStreamFallback), streamFallback),
		widget.NewFormItem(d.localization.GetText(KeyCacheSize), sizeLabel),
		widget.NewFormItem("", clearBtn),
	}

	form := dialog.NewForm(d.localization.GetText(KeySettings),
		d.localization.GetText(KeySave), d.localization.GetText(KeyCancel), items,
		func(confirmed bool) {
			if !confirmed {
				return
			}
			if idx := langSelect.SelectedIndex(); idx >= 0 && idx < len(codes) {
				d.settings.SetLanguage(codes[idx])
				d.localization.SetLanguage(codes[idx])
			}
			d.settings.SetShowOnlyAudio(onlyAudio.Checked)
			d.settings.SetStreamFallback(streamFallback.Checked)
			if d.onSaved != nil {
				d.onSaved()
			}
		}, d.window)
	form.Resize(fyne.NewSize(360, 300))
	form.Show()
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
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
