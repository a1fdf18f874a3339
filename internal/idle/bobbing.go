// Package idle keeps settled floating objects bobbing on the liquid surface.
package idle

import (
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/pkg/math"
)

// Defaults for a unit-scale vessel.
const (
	DefaultAmplitude = 0.015
	DefaultPeriod    = 3.0 // seconds
)

// Sink receives bob heights. SetBobHeight reports false once the named
// object no longer exists.
type Sink interface {
	SetBobHeight(name string, y float32) bool
}

// bob is one registered object.
type bob struct {
	center float32
	phase  float32
}

// Layer displaces registered objects with phase-shifted sine waves on an
// accumulated clock, so output depends only on the sequence of dt values.
type Layer struct {
	sink      Sink
	amplitude float32
	period    float32
	clock     float64
	bobs      map[string]bob
	log       *zap.Logger
}

// New creates a layer writing to sink.
func New(sink Sink, amplitude, period float32) *Layer {
	if period <= 0 {
		period = DefaultPeriod
	}
	return &Layer{
		sink:      sink,
		amplitude: amplitude,
		period:    period,
		bobs:      make(map[string]bob),
		log:       logger.Named("idle"),
	}
}

// SetAmplitude changes the bob amplitude, e.g. after a vessel of another
// scale is loaded.
func (l *Layer) SetAmplitude(a float32) { l.amplitude = a }

// Amplitude returns the bob amplitude.
func (l *Layer) Amplitude() float32 { return l.amplitude }

// Clock returns the accumulated time in seconds.
func (l *Layer) Clock() float64 { return l.clock }

// StartBobbing registers name around centerY. Registering an existing name
// replaces its centre and phase.
func (l *Layer) StartBobbing(name string, centerY, phase float32) {
	l.bobs[name] = bob{center: centerY, phase: phase}
}

// StopBobbing deregisters name. Unknown names are ignored.
func (l *Layer) StopBobbing(name string) {
	delete(l.bobs, name)
}

// Bobbing reports whether name is registered.
func (l *Layer) Bobbing(name string) bool {
	_, ok := l.bobs[name]
	return ok
}

// Len returns the number of registered objects.
func (l *Layer) Len() int { return len(l.bobs) }

// HeightAt returns the bob height of name at clock t seconds.
func (l *Layer) HeightAt(name string, t float64) (float32, bool) {
	b, ok := l.bobs[name]
	if !ok {
		return 0, false
	}
	return l.height(b, t), true
}

func (l *Layer) height(b bob, t float64) float32 {
	// Wrap the clock to one period so float32 keeps precision over long runs.
	cycles := t / float64(l.period)
	frac := float32(cycles - float64(int64(cycles)))
	return b.center + l.amplitude*math.Sin(2*math.Pi*frac+b.phase)
}

// Tick advances the clock by dt seconds and writes every height. Objects the
// sink no longer knows are deregistered.
func (l *Layer) Tick(dt float64) {
	if dt > 0 {
		l.clock += dt
	}
	if len(l.bobs) == 0 {
		return
	}

	// Sorted for a stable write order.
	names := make([]string, 0, len(l.bobs))
	for name := range l.bobs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !l.sink.SetBobHeight(name, l.height(l.bobs[name], l.clock)) {
			delete(l.bobs, name)
			l.log.Debug("bob target gone", zap.String("name", name))
		}
	}
}

// Clear deregisters everything.
func (l *Layer) Clear() {
	clear(l.bobs)
}

// PhaseFor spreads index i across steps evenly spaced phases.
func PhaseFor(i, steps int) float32 {
	if steps < 1 {
		steps = 1
	}
	return 2 * math.Pi * float32(i%steps) / float32(steps)
}
