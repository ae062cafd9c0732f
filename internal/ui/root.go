package ui

import (
	"context"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/davplay/davplay/internal/cache"
	"github.com/davplay/davplay/internal/config"
	"github.com/davplay/davplay/internal/event"
	"github.com/davplay/davplay/internal/model"
	"github.com/davplay/davplay/internal/player"
	"github.com/davplay/davplay/internal/registry"
	"github.com/davplay/davplay/internal/remote"
	"github.com/davplay/davplay/internal/resolver"
)

// UI update debouncing
const RootUIUpdateDebounce = 100 * time.Millisecond

// Deps carries everything the root UI is wired to.
type Deps struct {
	App      fyne.App
	Window   fyne.Window
	Settings *config.Settings
	Registry *registry.Registry
	Manager  *remote.Manager
	Browser  *remote.Browser
	Cache    *cache.Store
	Resolver *resolver.Resolver
	Player   *player.Player
	Bus      *event.Bus
}

// RootUI represents the main UI structure
type RootUI struct {
	deps         Deps
	localization *Localization

	serversView *ServersView
	browserView *BrowserView
	nowPlaying  *NowPlayingView
	statusLabel *widget.Label
	tabs        *container.AppTabs

	lastState model.ConnState

	// UI update debouncing
	lastUIUpdate  time.Time
	refreshQueued bool
	uiUpdateMutex sync.Mutex

	unsubscribe func()
}

// NewRootUI creates and initializes the main UI
func NewRootUI(deps Deps) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(deps.Settings.GetLanguage())

	ui := &RootUI{
		deps:         deps,
		localization: localization,
		lastState:    deps.Manager.State(),
	}

	deps.Window.SetTitle(localization.GetText(KeyAppTitle))

	input := SelectInputStrategy(fyne.CurrentDevice())
	log.Printf("RootUI using %s input strategy", input.Name())

	ui.serversView = NewServersView(deps.Window, deps.Registry, deps.Manager, localization)
	ui.browserView = NewBrowserView(deps.Window, deps.Browser, deps.Manager, deps.Settings, localization, input, ui.playEntry)
	ui.nowPlaying = NewNowPlayingView(deps.Player, deps.Settings, localization)

	ui.statusLabel = widget.NewLabel("")
	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), ui.showSettings)
	statusBar := container.NewBorder(nil, nil, nil, settingsBtn, ui.statusLabel)

	ui.tabs = container.NewAppTabs(
		container.NewTabItemWithIcon(localization.GetText(KeyServers), theme.StorageIcon(), ui.serversView.Content()),
		container.NewTabItemWithIcon(localization.GetText(KeyBrowse), theme.FolderIcon(), ui.browserView.Content()),
		container.NewTabItemWithIcon(localization.GetText(KeyNowPlaying), theme.MediaMusicIcon(), ui.nowPlaying.Content()),
	)
	ui.tabs.SetTabLocation(container.TabLocationBottom)

	deps.Window.SetContent(container.NewBorder(nil, statusBar, nil, nil, ui.tabs))

	ui.renderStatus()
	ui.unsubscribe = deps.Bus.Subscribe(ui.onStateChanged)
	deps.Window.SetOnClosed(ui.close)

	return ui
}

// playEntry resolves a browsed file into a track and starts playback.
func (ui *RootUI) playEntry(entry model.FileEntry) {
	ui.statusLabel.SetText(ui.localization.GetText(KeyResolving))
	go func() {
		track, err := ui.deps.Resolver.Resolve(context.Background(), entry)
		if err != nil {
			log.Printf("ui: resolve %s: %v", entry.Path, err)
			fyne.Do(func() {
				ui.renderStatus()
				dialog.ShowError(err, ui.deps.Window)
			})
			return
		}
		if err := ui.deps.Player.Play(track); err != nil {
			log.Printf("ui: play %s: %v", track.Title, err)
			fyne.Do(func() {
				ui.renderStatus()
				dialog.ShowError(err, ui.deps.Window)
			})
			return
		}
		ui.deps.Player.SetVolume(ui.deps.Settings.GetVolume())
		fyne.Do(func() {
			ui.renderStatus()
			ui.nowPlaying.TrackStarted(track)
			ui.tabs.SelectIndex(2)
		})
	}()
}

// onStateChanged runs on every bus event; it may fire from any goroutine.
// Bursts are coalesced, with a trailing refresh so the last event in a
// burst is never lost.
func (ui *RootUI) onStateChanged() {
	ui.uiUpdateMutex.Lock()
	now := time.Now()
	if now.Sub(ui.lastUIUpdate) < RootUIUpdateDebounce {
		if !ui.refreshQueued {
			ui.refreshQueued = true
			time.AfterFunc(RootUIUpdateDebounce, func() {
				ui.uiUpdateMutex.Lock()
				ui.refreshQueued = false
				ui.lastUIUpdate = time.Now()
				ui.uiUpdateMutex.Unlock()
				ui.refresh()
			})
		}
		ui.uiUpdateMutex.Unlock()
		return
	}
	ui.lastUIUpdate = now
	ui.uiUpdateMutex.Unlock()

	ui.refresh()
}

func (ui *RootUI) refresh() {
	fyne.Do(func() {
		ui.serversView.Reload()
		ui.nowPlaying.RefreshState()
		ui.renderStatus()

		state := ui.deps.Manager.State()
		if state != ui.lastState {
			ui.lastState = state
			ui.browserView.ResetToRoot()
		}
	})
}

func (ui *RootUI) renderStatus() {
	switch ui.deps.Manager.State() {
	case model.StateConnecting:
		ui.statusLabel.SetText(ui.localization.GetText(KeyConnecting))
	case model.StateConnected:
		text := ui.localization.GetText(KeyConnected)
		if cfg, ok := ui.deps.Manager.CurrentServer(); ok {
			text += ": " + cfg.Name
		}
		ui.statusLabel.SetText(text)
	default:
		ui.statusLabel.SetText(ui.localization.GetText(KeyDisconnected))
	}
}

func (ui *RootUI) showSettings() {
	NewSettingsDialog(ui.deps.Window, ui.deps.Settings, ui.deps.Cache, ui.localization, func() {
		ui.deps.Window.SetTitle(ui.localization.GetText(KeyAppTitle))
		ui.browserView.Refresh()
	}).Show()
}

func (ui *RootUI) close() {
	if ui.unsubscribe != nil {
		ui.unsubscribe()
	}
	ui.nowPlaying.Close()
	ui.deps.Player.Stop()
	if err := ui.deps.Cache.Close(); err != nil {
		log.Printf("ui: close cache watcher: %v", err)
	}
}
