// Package player is the playback glue over the beep audio engine. It turns
// resolved tracks into speaker output and exposes transport controls.
package player

import (
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"

	"github.com/davplay/davplay/internal/event"
	"github.com/davplay/davplay/internal/model"
)

// ErrUnsupportedFormat reports an audio container beep has no decoder for.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// State is the transport state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// mixRate is the fixed speaker sample rate; every decoded stream is
// resampled to it so the device is initialized exactly once.
const mixRate = beep.SampleRate(44100)

// Player drives one track at a time through the speaker.
type Player struct {
	mu sync.Mutex

	bus    *event.Bus
	httpc  *http.Client
	onDone func(model.Track)

	initOnce sync.Once
	initErr  error

	state  State
	track  model.Track
	stream beep.StreamSeekCloser
	format beep.Format
	ctrl   *beep.Ctrl
	volume *effects.Volume
}

// New returns a stopped player. The speaker device is opened lazily on the
// first Play so construction stays safe in headless tests.
func New(bus *event.Bus) *Player {
	return &Player{
		bus:   bus,
		httpc: &http.Client{},
	}
}

// SetOnTrackDone registers a callback fired from the speaker goroutine when
// a track plays to its end. Stop and Play do not fire it.
func (p *Player) SetOnTrackDone(fn func(model.Track)) {
	p.mu.Lock()
	p.onDone = fn
	p.mu.Unlock()
}

// Play stops any current track and starts the given one.
func (p *Player) Play(track model.Track) error {
	p.initOnce.Do(func() {
		p.initErr = speaker.Init(mixRate, mixRate.N(100*time.Millisecond))
	})
	if p.initErr != nil {
		return fmt.Errorf("audio device: %w", p.initErr)
	}

	src, err := p.open(track)
	if err != nil {
		return err
	}
	stream, format, err := decodeFor(track.SourceURL, src)
	if err != nil {
		src.Close()
		return err
	}

	p.Stop()

	var samples beep.Streamer = stream
	if format.SampleRate != mixRate {
		samples = beep.Resample(4, format.SampleRate, mixRate, stream)
	}

	p.mu.Lock()
	p.state = Playing
	p.track = track
	p.stream = stream
	p.format = format
	p.ctrl = &beep.Ctrl{Streamer: samples}
	p.volume = &effects.Volume{Streamer: p.ctrl, Base: 2}
	done := p.doneCallback(track)
	seq := beep.Seq(p.volume, beep.Callback(done))
	p.mu.Unlock()

	speaker.Play(seq)
	p.publish()
	return nil
}

// doneCallback runs off the speaker goroutine; Stop takes the speaker lock
// and must not be called from inside the mixer.
func (p *Player) doneCallback(track model.Track) func() {
	return func() {
		go func() {
			p.mu.Lock()
			finished := p.track.ID == track.ID && p.state != Stopped
			fn := p.onDone
			p.mu.Unlock()
			if !finished {
				return
			}
			p.Stop()
			if fn != nil {
				fn(track)
			}
		}()
	}
}

func (p *Player) open(track model.Track) (io.ReadCloser, error) {
	if track.IsLocalCache {
		return os.Open(track.SourceURL)
	}

	req, err := http.NewRequest(http.MethodGet, track.SourceURL, nil)
	if err != nil {
		return nil, err
	}
	if track.AuthHeader != "" {
		req.Header.Set("Authorization", track.AuthHeader)
	}
	resp, err := p.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("stream request: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// Pause suspends output; Resume continues it.
func (p *Player) Pause() {
	p.setPaused(true)
}

func (p *Player) Resume() {
	p.setPaused(false)
}

// TogglePause flips between Playing and Paused. It is a no-op when stopped.
func (p *Player) TogglePause() {
	p.mu.Lock()
	target := p.state == Playing
	p.mu.Unlock()
	p.setPaused(target)
}

func (p *Player) setPaused(paused bool) {
	p.mu.Lock()
	if p.ctrl == nil {
		p.mu.Unlock()
		return
	}
	speaker.Lock()
	p.ctrl.Paused = paused
	speaker.Unlock()
	if paused {
		p.state = Paused
	} else {
		p.state = Playing
	}
	p.mu.Unlock()
	p.publish()
}

// Stop tears down the current stream and returns to Stopped.
func (p *Player) Stop() {
	p.mu.Lock()
	if p.state == Stopped {
		p.mu.Unlock()
		return
	}
	speaker.Clear()
	if p.stream != nil {
		if err := p.stream.Close(); err != nil {
			log.Printf("player: close stream: %v", err)
		}
	}
	p.state = Stopped
	p.track = model.Track{}
	p.stream = nil
	p.ctrl = nil
	p.volume = nil
	p.mu.Unlock()
	p.publish()
}

// SetVolume takes a 0..1 fraction; 0 mutes.
func (p *Player) SetVolume(fraction float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.volume == nil {
		return
	}
	speaker.Lock()
	p.volume.Silent = fraction <= 0
	p.volume.Volume = volumeLevel(fraction)
	speaker.Unlock()
}

// volumeLevel maps a linear 0..1 fraction onto the exponential scale the
// effects.Volume streamer expects, with 1.0 mapping to unity gain.
func volumeLevel(fraction float64) float64 {
	if fraction <= 0 {
		return 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return math.Log2(fraction)
}

// State returns the transport state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Current returns the track being played, zero when stopped.
func (p *Player) Current() model.Track {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.track
}

// Position returns the playback position within the current track.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil {
		return 0
	}
	speaker.Lock()
	pos := p.stream.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

// Length returns the total duration of the current track, 0 when unknown.
func (p *Player) Length() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stream == nil {
		return 0
	}
	return p.format.SampleRate.D(p.stream.Len())
}

func (p *Player) publish() {
	if p.bus != nil {
		p.bus.Publish()
	}
}

// decodeFor picks the beep decoder from the source extension. The m4a and
// aac containers are browseable but beep cannot decode them.
func decodeFor(source string, rc io.ReadCloser) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".mp3":
		return mp3.Decode(rc)
	case ".wav":
		return wav.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	case ".ogg":
		return vorbis.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(source))
	}
}

// CanDecode reports whether Play could decode a file with this name.
func CanDecode(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".mp3", ".wav", ".flac", ".ogg":
		return true
	default:
		return false
	}
}
