package main

import (
	"context"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/davplay/davplay/internal/cache"
	"github.com/davplay/davplay/internal/config"
	"github.com/davplay/davplay/internal/event"
	"github.com/davplay/davplay/internal/platform"
	"github.com/davplay/davplay/internal/player"
	"github.com/davplay/davplay/internal/registry"
	"github.com/davplay/davplay/internal/remote"
	"github.com/davplay/davplay/internal/resolver"
	"github.com/davplay/davplay/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.davplay.davplay"
	AppName = "DavPlay"

	WindowWidth  = 420
	WindowHeight = 720
)

func main() {
	// Log version information
	fmt.Printf("DavPlay v%s starting...\n", version)

	// Create new Fyne app
	myApp := app.NewWithID(AppID)

	// Apply compact theme
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	settings := config.NewSettings(myApp)
	cacheDir := settings.GetCacheDirectory()
	if err := platform.CreateDirectoryIfNotExists(cacheDir); err != nil {
		log.Printf("failed to ensure cache dir: %v", err)
	}

	bus := event.NewBus()
	reg := registry.New(myApp.Preferences(), bus)
	mgr := remote.NewManager(myApp.Preferences(), reg, bus)
	reg.SetSessionHook(mgr)
	browser := remote.NewBrowser(mgr)

	cacheStore, err := cache.New(cacheDir, bus)
	if err != nil {
		log.Fatalf("cache store: %v", err)
	}

	res := resolver.New(mgr, cacheDir)
	res.SetStreamPolicy(settings.GetStreamFallback)
	pl := player.New(bus)

	// Create and setup UI
	ui.NewRootUI(ui.Deps{
		App:      myApp,
		Window:   myWindow,
		Settings: settings,
		Registry: reg,
		Manager:  mgr,
		Browser:  browser,
		Cache:    cacheStore,
		Resolver: res,
		Player:   pl,
		Bus:      bus,
	})

	// Reconnect to the last used or default server without blocking startup
	go mgr.Restore(context.Background())

	// Show and run
	myWindow.ShowAndRun()
}
