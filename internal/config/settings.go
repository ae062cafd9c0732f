package config

import (
	"fyne.io/fyne/v2"

	"github.com/davplay/davplay/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyCacheDir       = "cache_directory"
	KeyLanguage       = "app_language"
	KeyShowOnlyAudio  = "browse_show_only_audio"
	KeyVolume         = "playback_volume"
	KeyStreamFallback = "allow_stream_fallback"
)

// Default values
const (
	DefaultLanguage       = "system"
	DefaultShowOnlyAudio  = true
	DefaultVolume         = 1.0
	DefaultStreamFallback = true
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetCacheDirectory returns the configured track cache directory
func (s *Settings) GetCacheDirectory() string {
	dir := s.app.Preferences().String(KeyCacheDir)
	if dir == "" {
		defaultDir, err := platform.GetCacheDir()
		if err != nil {
			defaultDir = "/tmp/davplay-cache"
		}
		s.SetCacheDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetCacheDirectory sets the track cache directory
func (s *Settings) SetCacheDirectory(dir string) {
	s.app.Preferences().SetString(KeyCacheDir, dir)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetShowOnlyAudio returns whether browsing hides non-audio files
func (s *Settings) GetShowOnlyAudio() bool {
	return s.app.Preferences().BoolWithFallback(KeyShowOnlyAudio, DefaultShowOnlyAudio)
}

// SetShowOnlyAudio sets whether browsing hides non-audio files
func (s *Settings) SetShowOnlyAudio(onlyAudio bool) {
	s.app.Preferences().SetBool(KeyShowOnlyAudio, onlyAudio)
}

// GetVolume returns the playback volume as a 0..1 fraction
func (s *Settings) GetVolume() float64 {
	return s.app.Preferences().FloatWithFallback(KeyVolume, DefaultVolume)
}

// SetVolume sets the playback volume, clamped to 0..1
func (s *Settings) SetVolume(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	s.app.Preferences().SetFloat(KeyVolume, fraction)
}

// GetStreamFallback returns whether playback may stream directly from the
// server when a track cannot be cached locally
func (s *Settings) GetStreamFallback() bool {
	return s.app.Preferences().BoolWithFallback(KeyStreamFallback, DefaultStreamFallback)
}

// SetStreamFallback sets whether direct streaming fallback is allowed
func (s *Settings) SetStreamFallback(allow bool) {
	s.app.Preferences().SetBool(KeyStreamFallback, allow)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"zh":     "中文",
	}
}
