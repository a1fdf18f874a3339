// Package audio plays short cues for fill and choreography events.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// Manager owns the speaker and a mixer for overlapping cues.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate

	// Volume (0.0 to 1.0)
	volume float64
	muted  bool

	mixer *beep.Mixer
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		volume:     1.0,
		sampleRate: DefaultSampleRate,
		mixer:      &beep.Mixer{},
	}
}

// Init initializes the speaker.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	return nil
}

// Close shuts down the audio system.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// IsInitialized returns whether the audio system is initialized.
func (m *Manager) IsInitialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// SampleRate returns the output sample rate.
func (m *Manager) SampleRate() beep.SampleRate {
	return m.sampleRate
}

// SetVolume sets the cue volume (0.0 to 1.0).
func (m *Manager) SetVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clamp(vol, 0, 1)
}

// Volume returns the cue volume.
func (m *Manager) Volume() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.volume
}

// SetMuted silences every cue without touching the volume.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.muted = muted
}

// Muted reports whether cues are silenced.
func (m *Manager) Muted() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.muted
}

// volumeToDb converts a 0-1 volume to decibels: 1 -> 0dB, 0.5 -> -6dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// PlayStreamer mixes s into the output at the current volume.
func (m *Manager) PlayStreamer(s beep.Streamer) error {
	m.mu.RLock()
	initialized := m.initialized
	vol := m.volume
	if m.muted {
		vol = 0
	}
	m.mu.RUnlock()

	if !initialized {
		return fmt.Errorf("audio not initialized")
	}

	speaker.Lock()
	m.mixer.Add(&effects.Volume{
		Streamer: s,
		Base:     10,
		Volume:   volumeToDb(vol) / 20,
		Silent:   vol <= 0,
	})
	speaker.Unlock()
	return nil
}

// PlaySFX plays a sound effect from WAV data.
func (m *Manager) PlaySFX(data []byte) error {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}

	var resampled beep.Streamer = streamer
	if format.SampleRate != m.sampleRate {
		resampled = beep.Resample(4, format.SampleRate, m.sampleRate, streamer)
	}
	return m.PlayStreamer(resampled)
}

// Start opens the speaker per cfg and attaches cues to src. It returns nil
// when audio is muted or no device can be opened; callers carry on silently.
func Start(cfg config.AudioConfig, src Source) *Manager {
	log := logger.Named("audio")
	if cfg.Muted {
		log.Info("audio muted")
		return nil
	}

	m := New()
	m.SetVolume(float64(cfg.Volume))
	if err := m.Init(); err != nil {
		log.Warn("audio disabled", zap.Error(err))
		return nil
	}

	cues := NewCues(m)
	if err := cues.LoadDir(cfg.CueDir); err != nil {
		log.Warn("cue overrides skipped", zap.Error(err))
	}
	cues.Attach(src)
	return m
}
