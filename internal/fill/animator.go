// Package fill relaxes a liquid body's displayed fill level toward a target
// and keeps its surface rippling.
package fill

import (
	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/liquid"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/pkg/math"
)

// Mode selects how the relaxation factor is derived from the lerp rate.
type Mode int

const (
	// DecayTimeCorrect scales the rate by elapsed time so fill-in takes the
	// same wall time at any frame rate.
	DecayTimeCorrect Mode = iota
	// DecayPerTick applies the rate once per tick regardless of dt.
	DecayPerTick
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case DecayTimeCorrect:
		return "time"
	case DecayPerTick:
		return "tick"
	default:
		return "unknown"
	}
}

// State of the animator.
type State int

const (
	StateIdle State = iota
	StateRelaxing
)

// Options tunes the animator.
type Options struct {
	LerpRate     float32
	Epsilon      float32
	Mode         Mode
	ReferenceFPS float32
	// RippleAmplitude is a fraction of vessel height.
	RippleAmplitude float32
}

// DefaultOptions returns the standard tuning.
func DefaultOptions() Options {
	return Options{
		LerpRate:        0.04,
		Epsilon:         0.001,
		Mode:            DecayTimeCorrect,
		ReferenceFPS:    60,
		RippleAmplitude: 0.01,
	}
}

// Animator owns the fill level of one liquid body.
type Animator struct {
	body *liquid.Body
	opts Options
	log  *zap.Logger

	target  float32
	current float32
	state   State
	paused  bool
	clock   float64

	completed  bool
	onComplete []func()

	rebuilds int
}

// New creates an idle animator at fill 0.
func New(body *liquid.Body, opts Options) *Animator {
	if opts.Epsilon <= 0 {
		opts.Epsilon = DefaultOptions().Epsilon
	}
	if opts.ReferenceFPS <= 0 {
		opts.ReferenceFPS = DefaultOptions().ReferenceFPS
	}
	opts.LerpRate = math.Clamp01(opts.LerpRate)
	return &Animator{
		body:    body,
		opts:    opts,
		log:     logger.Named("fill"),
		current: body.Fill(),
	}
}

// Body returns the animated liquid body.
func (a *Animator) Body() *liquid.Body { return a.body }

// SetTarget sets the level to relax toward, clamped to [0,1].
func (a *Animator) SetTarget(level float32) {
	a.target = math.Clamp01(level)
	a.state = StateRelaxing
}

// Target returns the target level.
func (a *Animator) Target() float32 { return a.target }

// Current returns the displayed level.
func (a *Animator) Current() float32 { return a.current }

// State returns the animator state. It stays relaxing after convergence
// until Reset.
func (a *Animator) State() State { return a.state }

// Pause stops relaxation. The surface keeps rippling.
func (a *Animator) Pause() { a.paused = true }

// Resume restarts relaxation.
func (a *Animator) Resume() { a.paused = false }

// Paused reports whether relaxation is paused.
func (a *Animator) Paused() bool { return a.paused }

// Converged reports whether the current level is within epsilon of target.
func (a *Animator) Converged() bool {
	return math.Abs(a.target-a.current) < a.opts.Epsilon
}

// Rebuilds returns how many ticks moved the fill line.
func (a *Animator) Rebuilds() int { return a.rebuilds }

// OnComplete registers fn to run the first time the level reaches full
// after a reset.
func (a *Animator) OnComplete(fn func()) {
	a.onComplete = append(a.onComplete, fn)
}

// Reset empties the body and re-arms the completion callback.
func (a *Animator) Reset() {
	a.target = 0
	a.current = 0
	a.state = StateIdle
	a.completed = false
	a.body.SetFill(0)
}

// Tick advances relaxation and the ripple by dt seconds.
func (a *Animator) Tick(dt float64) {
	if dt < 0 {
		dt = 0
	}
	a.clock += dt

	if !a.paused && a.state == StateRelaxing {
		delta := a.target - a.current
		if math.Abs(delta) >= a.opts.Epsilon {
			if alpha := a.alpha(dt); alpha > 0 {
				a.current += delta * alpha
				a.body.SetFill(a.current)
				a.rebuilds++
			}
		}
	}

	a.ripple()

	if !a.completed && 1-a.current < a.opts.Epsilon {
		a.completed = true
		a.log.Debug("fill complete", zap.String("vessel", a.body.Vessel().Name), zap.Float64("clock", a.clock))
		for _, fn := range a.onComplete {
			fn()
		}
	}
}

func (a *Animator) alpha(dt float64) float32 {
	if a.opts.Mode == DecayPerTick {
		return a.opts.LerpRate
	}
	frames := float32(dt) * a.opts.ReferenceFPS
	return 1 - math.Pow(1-a.opts.LerpRate, frames)
}

// ripple displaces the surface disc with two crossing sines and a radial
// wave, fading to zero at the rim so the disc edge stays on the wall.
func (a *Animator) ripple() {
	s := a.body.Surface
	if s == nil || a.opts.RippleAmplitude <= 0 {
		return
	}
	amp := a.opts.RippleAmplitude * a.body.Vessel().Height()
	r := s.Radius
	if r <= 0 {
		r = 1
	}
	t := float32(a.clock)
	s.Displace(func(x, z, radial float32) float32 {
		nx, nz := x/r, z/r
		w := 0.5*math.Sin(2.1*math.Pi*nx+1.3*t) +
			0.3*math.Sin(1.7*math.Pi*nz+0.9*t) +
			0.2*math.Sin(4*math.Pi*radial-2.4*t)
		return amp * (1 - radial*radial) * w
	})
}
