package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"

	"github.com/Faultbox/pourglass/internal/choreo"
	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/recipe"
)

func TestVolumeConversion(t *testing.T) {
	tests := []struct {
		vol float64
		min float64
		max float64
	}{
		{1.0, -0.01, 0.01},
		{0.5, -6.1, -5.9},
		{0.25, -12.1, -11.9},
		{0.0, -200, -90},
	}

	for _, tt := range tests {
		db := volumeToDb(tt.vol)
		if db < tt.min || db > tt.max {
			t.Errorf("volumeToDb(%f) = %f, want between %f and %f", tt.vol, db, tt.min, tt.max)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
	}

	for _, tt := range tests {
		if got := clamp(tt.v, tt.min, tt.max); got != tt.want {
			t.Errorf("clamp(%f, %f, %f) = %f, want %f", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestManagerVolume(t *testing.T) {
	m := New()
	if m.Volume() != 1.0 {
		t.Errorf("default volume = %f, want 1.0", m.Volume())
	}
	m.SetVolume(2)
	if m.Volume() != 1.0 {
		t.Errorf("volume = %f, want 1.0 (clamped)", m.Volume())
	}
	m.SetMuted(true)
	if !m.Muted() {
		t.Error("expected muted")
	}
	if err := m.PlayStreamer(beep.Silence(10)); err == nil {
		t.Error("expected error before Init")
	}
}

func drain(s beep.Streamer) (n int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		k, ok := s.Stream(buf)
		for i := 0; i < k; i++ {
			peak = math.Max(peak, math.Abs(buf[i][0]))
		}
		n += k
		if !ok || k == 0 {
			return n, peak
		}
	}
}

func TestPluckLengthAndGain(t *testing.T) {
	sr := beep.SampleRate(8000)
	n, peak := drain(Pluck(sr, Tone{Freq: 440, Duration: 100 * time.Millisecond, Gain: 0.5}))
	if n != 800 {
		t.Errorf("samples = %d, want 800", n)
	}
	if peak > 0.5 || peak < 0.3 {
		t.Errorf("peak = %f, want within (0.3, 0.5]", peak)
	}

	n, _ = drain(Pluck(sr, Tone{Freq: 440, Duration: 100 * time.Millisecond, Gain: 0.5, Delay: 50 * time.Millisecond}))
	if n != 1200 {
		t.Errorf("delayed samples = %d, want 1200", n)
	}
}

func TestDecayFades(t *testing.T) {
	sr := beep.SampleRate(8000)
	s := Pluck(sr, Tone{Freq: 1000, Duration: 200 * time.Millisecond, Gain: 1})
	head := make([][2]float64, 80)
	s.Stream(head)
	rest := make([][2]float64, 1600)
	k, _ := s.Stream(rest)

	var headPeak, tailPeak float64
	for _, v := range head {
		headPeak = math.Max(headPeak, math.Abs(v[0]))
	}
	for _, v := range rest[k-80 : k] {
		tailPeak = math.Max(tailPeak, math.Abs(v[0]))
	}
	if tailPeak >= headPeak/10 {
		t.Errorf("tail peak %f should be far below head peak %f", tailPeak, headPeak)
	}
}

type fakePlayer struct {
	streams int
	wavs    int
	err     error
}

func (f *fakePlayer) SampleRate() beep.SampleRate { return 8000 }

func (f *fakePlayer) PlayStreamer(beep.Streamer) error {
	if f.err != nil {
		return f.err
	}
	f.streams++
	return nil
}

func (f *fakePlayer) PlaySFX([]byte) error {
	if f.err != nil {
		return f.err
	}
	f.wavs++
	return nil
}

func TestCuesFollowEvents(t *testing.T) {
	p := &fakePlayer{}
	c := NewCues(p)

	c.Handle(choreo.Event{Kind: choreo.EventLanded})
	c.Handle(choreo.Event{Kind: choreo.EventLanded})
	c.Handle(choreo.Event{Kind: choreo.EventComplete})
	c.Handle(choreo.Event{Kind: choreo.EventDisposed})

	if got := c.Played(CueLand); got != 2 {
		t.Errorf("land played %d times, want 2", got)
	}
	if got := c.Played(CueComplete); got != 1 {
		t.Errorf("complete played %d times, want 1", got)
	}
	want := 2*len(DefaultTones[CueLand]) + len(DefaultTones[CueComplete])
	if p.streams != want {
		t.Errorf("streams = %d, want %d", p.streams, want)
	}
}

func TestCuesDisableAfterFailure(t *testing.T) {
	p := &fakePlayer{err: errors.New("no device")}
	c := NewCues(p)

	c.Play(CueFill)
	p.err = nil
	c.Play(CueFill)

	if p.streams != 0 {
		t.Errorf("streams = %d, want 0 after failure", p.streams)
	}
}

func TestCueOverridesFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "land.wav"), []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}

	p := &fakePlayer{}
	c := NewCues(p)
	if err := c.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	c.Play(CueLand)
	c.Play(CueArrive)

	if p.wavs != 1 {
		t.Errorf("wav cues = %d, want 1", p.wavs)
	}
	if p.streams != len(DefaultTones[CueArrive]) {
		t.Errorf("streams = %d, want %d", p.streams, len(DefaultTones[CueArrive]))
	}
	if err := c.LoadDir(""); err != nil {
		t.Errorf("LoadDir(\"\") error = %v", err)
	}
}

type fakeSource struct {
	events []func(choreo.Event)
	fills  []func(recipe.Selection)
}

func (s *fakeSource) Subscribe(fn func(choreo.Event)) { s.events = append(s.events, fn) }
func (s *fakeSource) OnFillComplete(fn func(recipe.Selection)) { s.fills = append(s.fills, fn) }

func TestAttachWiresFillAndEvents(t *testing.T) {
	p := &fakePlayer{}
	c := NewCues(p)
	src := &fakeSource{}
	c.Attach(src)

	if len(src.events) != 1 || len(src.fills) != 1 {
		t.Fatalf("subscriptions = %d events, %d fills", len(src.events), len(src.fills))
	}
	src.fills[0](recipe.Selection{})
	src.events[0](choreo.Event{Kind: choreo.EventArrived})

	if c.Played(CueFill) != 1 || c.Played(CueArrive) != 1 {
		t.Errorf("played fill=%d arrive=%d", c.Played(CueFill), c.Played(CueArrive))
	}
}

func TestStartMutedAttachesNothing(t *testing.T) {
	src := &fakeSource{}
	if m := Start(config.AudioConfig{Muted: true}, src); m != nil {
		t.Error("muted start returned a manager")
	}
	if len(src.events) != 0 {
		t.Error("muted start subscribed")
	}
}
