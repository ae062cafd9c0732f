package ui

import (
	"fmt"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/davplay/davplay/internal/config"
	"github.com/davplay/davplay/internal/lyrics"
	"github.com/davplay/davplay/internal/model"
	"github.com/davplay/davplay/internal/player"
)

// positionTick is how often the position and lyric line are refreshed
// while a track is playing.
const positionTick = 500 * time.Millisecond

// NowPlayingView renders the current track, transport controls and the
// active lyric line.
type NowPlayingView struct {
	pl           *player.Player
	settings     *config.Settings
	localization *Localization

	lyricLines []lyrics.Line

	title     *widget.Label
	artist    *widget.Label
	position  *widget.Label
	lyric     *widget.Label
	playPause *widget.Button
	stopBtn   *widget.Button
	volume    *widget.Slider
	content   fyne.CanvasObject

	done chan struct{}
}

// NewNowPlayingView creates the view and starts its position ticker.
func NewNowPlayingView(pl *player.Player, settings *config.Settings, localization *Localization) *NowPlayingView {
	v := &NowPlayingView{
		pl:           pl,
		settings:     settings,
		localization: localization,
		done:         make(chan struct{}),
	}

	v.title = widget.NewLabel(localization.GetText(KeyNothingPlaying))
	v.title.TextStyle.Bold = true
	v.title.Alignment = fyne.TextAlignCenter
	v.artist = widget.NewLabel("")
	v.artist.Alignment = fyne.TextAlignCenter
	v.position = widget.NewLabel("")
	v.position.Alignment = fyne.TextAlignCenter
	v.lyric = widget.NewLabel("")
	v.lyric.Alignment = fyne.TextAlignCenter
	v.lyric.Wrapping = fyne.TextWrapWord

	v.playPause = widget.NewButtonWithIcon("", theme.MediaPauseIcon(), func() {
		v.pl.TogglePause()
	})
	v.stopBtn = widget.NewButtonWithIcon("", theme.MediaStopIcon(), func() {
		v.pl.Stop()
	})

	v.volume = widget.NewSlider(0, 1)
	v.volume.Step = 0.05
	v.volume.Value = settings.GetVolume()
	v.volume.OnChanged = func(val float64) {
		v.pl.SetVolume(val)
		settings.SetVolume(val)
	}

	controls := container.NewHBox(v.playPause, v.stopBtn)
	v.content = container.NewVBox(
		v.title,
		v.artist,
		v.position,
		widget.NewSeparator(),
		v.lyric,
		widget.NewSeparator(),
		container.NewCenter(controls),
		v.volume,
	)

	v.RefreshState()
	go v.tick()
	return v
}

// Content returns the renderable root of the view.
func (v *NowPlayingView) Content() fyne.CanvasObject {
	return v.content
}

// Close stops the position ticker.
func (v *NowPlayingView) Close() {
	close(v.done)
}

// TrackStarted loads lyrics for the new track. Call on the UI thread when
// playback of a resolved track begins.
func (v *NowPlayingView) TrackStarted(track model.Track) {
	v.lyricLines = nil
	v.lyric.SetText("")
	if !track.IsLocalCache {
		return
	}
	lines, err := lyrics.Load(track.SourceURL)
	if err != nil {
		log.Printf("ui: load lyrics: %v", err)
		return
	}
	v.lyricLines = lines
}

// RefreshState re-renders labels and buttons from the player state. Call
// on the UI thread.
func (v *NowPlayingView) RefreshState() {
	track := v.pl.Current()
	switch v.pl.State() {
	case player.Stopped:
		v.title.SetText(v.localization.GetText(KeyNothingPlaying))
		v.artist.SetText("")
		v.position.SetText("")
		v.lyric.SetText("")
		v.playPause.Disable()
		v.stopBtn.Disable()
	case player.Paused:
		v.title.SetText(track.Title)
		v.artist.SetText(track.Artist)
		v.playPause.SetIcon(theme.MediaPlayIcon())
		v.playPause.Enable()
		v.stopBtn.Enable()
	case player.Playing:
		v.title.SetText(track.Title)
		v.artist.SetText(track.Artist)
		v.playPause.SetIcon(theme.MediaPauseIcon())
		v.playPause.Enable()
		v.stopBtn.Enable()
	}
}

func (v *NowPlayingView) tick() {
	ticker := time.NewTicker(positionTick)
	defer ticker.Stop()
	for {
		select {
		case <-v.done:
			return
		case <-ticker.C:
			if v.pl.State() != player.Playing {
				continue
			}
			pos := v.pl.Position()
			length := v.pl.Length()
			fyne.Do(func() {
				v.position.SetText(formatPosition(pos, length))
				if idx := lyrics.LineAt(v.lyricLines, pos); idx >= 0 {
					v.lyric.SetText(v.lyricLines[idx].Text)
				}
			})
		}
	}
}

func formatPosition(pos, length time.Duration) string {
	if length > 0 {
		return fmt.Sprintf("%s / %s", formatClock(pos), formatClock(length))
	}
	return formatClock(pos)
}

func formatClock(d time.Duration) string {
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", m, s)
}
