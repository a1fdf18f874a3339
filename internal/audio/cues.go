package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/choreo"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/internal/recipe"
)

// Player is the playback surface cues need. *Manager implements it.
type Player interface {
	SampleRate() beep.SampleRate
	PlayStreamer(s beep.Streamer) error
	PlaySFX(data []byte) error
}

// Tone is one synthesized note with an exponential decay.
type Tone struct {
	Freq     float64
	Duration time.Duration
	Gain     float64
	Delay    time.Duration
}

// Cue names, also the file names of WAV overrides.
const (
	CueFill     = "fill"
	CueFall     = "fall"
	CueLand     = "land"
	CueComplete = "complete"
	CueSlide    = "slide"
	CueArrive   = "arrive"
)

// DefaultTones maps cues to their synthesized sound.
var DefaultTones = map[string][]Tone{
	CueFill:     {{Freq: 660, Duration: 120 * time.Millisecond, Gain: 0.4}, {Freq: 880, Duration: 180 * time.Millisecond, Gain: 0.4, Delay: 90 * time.Millisecond}},
	CueFall:     {{Freq: 1760, Duration: 60 * time.Millisecond, Gain: 0.15}},
	CueLand:     {{Freq: 2637, Duration: 140 * time.Millisecond, Gain: 0.35}, {Freq: 3951, Duration: 90 * time.Millisecond, Gain: 0.2}},
	CueComplete: {{Freq: 523, Duration: 250 * time.Millisecond, Gain: 0.3}, {Freq: 659, Duration: 250 * time.Millisecond, Gain: 0.3, Delay: 120 * time.Millisecond}, {Freq: 784, Duration: 400 * time.Millisecond, Gain: 0.3, Delay: 240 * time.Millisecond}},
	CueSlide:    {{Freq: 180, Duration: 300 * time.Millisecond, Gain: 0.25}},
	CueArrive:   {{Freq: 110, Duration: 200 * time.Millisecond, Gain: 0.5}},
}

// cueFor maps an event to its cue. Unmapped events are silent.
func cueFor(e choreo.Event) string {
	switch e.Kind {
	case choreo.EventFallStarted:
		return CueFall
	case choreo.EventLanded:
		return CueLand
	case choreo.EventComplete:
		return CueComplete
	case choreo.EventSlideOut:
		return CueSlide
	case choreo.EventArrived:
		return CueArrive
	}
	return ""
}

// Cues turns simulation events into sounds. Playback errors are logged once
// and further cues are dropped.
type Cues struct {
	mu        sync.Mutex
	player    Player
	tones     map[string][]Tone
	overrides map[string][]byte
	failed    bool
	played    map[string]int
	log       *zap.Logger
}

// NewCues creates a cue player using DefaultTones.
func NewCues(p Player) *Cues {
	return &Cues{
		player:    p,
		tones:     DefaultTones,
		overrides: make(map[string][]byte),
		played:    make(map[string]int),
		log:       logger.Named("audio"),
	}
}

// LoadDir reads <cue>.wav overrides from dir. Missing files keep the
// synthesized tone.
func (c *Cues) LoadDir(dir string) error {
	if dir == "" {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for cue := range c.tones {
		data, err := os.ReadFile(filepath.Join(dir, cue+".wav"))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("reading cue %s: %w", cue, err)
		}
		c.overrides[cue] = data
		c.log.Debug("cue override loaded", zap.String("cue", cue))
	}
	return nil
}

// Handle plays the cue for a choreography event.
func (c *Cues) Handle(e choreo.Event) {
	if cue := cueFor(e); cue != "" {
		c.Play(cue)
	}
}

// Play plays a named cue.
func (c *Cues) Play(cue string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed {
		return
	}

	var err error
	if data, ok := c.overrides[cue]; ok {
		err = c.player.PlaySFX(data)
	} else if tones, ok := c.tones[cue]; ok {
		for _, t := range tones {
			if err = c.player.PlayStreamer(Pluck(c.player.SampleRate(), t)); err != nil {
				break
			}
		}
	} else {
		return
	}
	if err != nil {
		c.failed = true
		c.log.Warn("cue playback failed, disabling cues", zap.String("cue", cue), zap.Error(err))
		return
	}
	c.played[cue]++
}

// Played returns how many times cue was played.
func (c *Cues) Played(cue string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.played[cue]
}

// Pluck synthesizes one tone: a sine with an exponential decay, preceded
// by t.Delay of silence.
func Pluck(sr beep.SampleRate, t Tone) beep.Streamer {
	n := sr.N(t.Duration)
	sine, err := generators.SineTone(sr, t.Freq)
	if err != nil {
		return beep.Silence(n)
	}
	env := &decay{
		Streamer: beep.Take(n, sine),
		gain:     t.Gain,
		rate:     math.Pow(0.001, 1/float64(max(n, 1))),
	}
	if t.Delay <= 0 {
		return env
	}
	return beep.Seq(beep.Silence(sr.N(t.Delay)), env)
}

// decay scales samples by a gain falling to -60dB over the stream.
type decay struct {
	beep.Streamer
	gain float64
	rate float64
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		samples[i][0] *= d.gain
		samples[i][1] *= d.gain
		d.gain *= d.rate
	}
	return n, ok
}

// Source emits choreography events and fill completion.
// *pour.Simulation implements it.
type Source interface {
	Subscribe(fn func(choreo.Event))
	OnFillComplete(fn func(recipe.Selection))
}

// Attach plays cues for everything src emits.
func (c *Cues) Attach(src Source) {
	src.Subscribe(c.Handle)
	src.OnFillComplete(func(recipe.Selection) { c.Play(CueFill) })
}
