// Package anim runs scripted motion: eased Vec3 tasks grouped into stages,
// stages queued into sequences, and a scheduler that advances everything
// once per tick and cancels by owner.
package anim

import (
	"time"

	"github.com/Faultbox/pourglass/pkg/math"
)

// Owner tags tasks with the lifetime they belong to so a whole lifetime can
// be cancelled at once.
type Owner uint64

// Task interpolates between two points over a fixed duration.
type Task struct {
	Name     string
	From, To math.Vec3
	Delay    time.Duration
	Duration time.Duration
	Ease     Ease

	// Apply receives each interpolated value. Returning false means the
	// target is gone; the task ends without OnComplete.
	Apply      func(v math.Vec3) bool
	OnStart    func()
	OnComplete func()

	started bool
	done    bool
}

// Started reports whether the task's delay has elapsed.
func (t *Task) Started() bool { return t.started }

// Done reports whether the task finished or was abandoned.
func (t *Task) Done() bool { return t.done }

// ValueAt returns the eased value at progress p in [0,1].
func (t *Task) ValueAt(p float32) math.Vec3 {
	ease := t.Ease
	if ease == nil {
		ease = Linear
	}
	return t.From.Lerp(t.To, ease(math.Clamp01(p)))
}

// advance moves the task to local time since its stage started.
func (t *Task) advance(local time.Duration) {
	if t.done {
		return
	}
	local -= t.Delay
	if local < 0 {
		return
	}
	if !t.started {
		t.started = true
		if t.OnStart != nil {
			t.OnStart()
		}
	}

	p := float32(1)
	if t.Duration > 0 {
		p = float32(local.Seconds() / t.Duration.Seconds())
	}
	if p > 1 {
		p = 1
	}
	v := t.ValueAt(p)
	if p >= 1 {
		v = t.To
	}
	if t.Apply != nil && !t.Apply(v) {
		t.done = true
		return
	}
	if p >= 1 {
		t.done = true
		if t.OnComplete != nil {
			t.OnComplete()
		}
	}
}
