package ui

// Package ui contains the Fyne-based user interface for the application.
// It wires user interactions to the server registry, connection manager,
// browser, resolver and player, and renders servers, remote directories and
// playback state. All UI strings are localized via Localization.
