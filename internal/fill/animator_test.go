package fill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pourglass/internal/liquid"
	"github.com/Faultbox/pourglass/internal/vessel"
)

const frame = 1.0 / 60

// newBody builds a 4-unit highball with a [0.06, 0.90] fill window.
func newBody(t *testing.T) *liquid.Body {
	t.Helper()
	v, err := vessel.Lathe(vessel.Descriptor{
		Name:      "highball",
		Outline:   []vessel.OutlinePoint{{Y: 0, Radius: 0.8}, {Y: 4, Radius: 1.1}},
		FillStart: 0.06,
		FillEnd:   0.90,
	})
	require.NoError(t, err)
	return liquid.Build(v, vessel.NewProfiler(v), liquid.DefaultOptions(), liquid.NewClipRegistry())
}

func perTick() Options {
	o := DefaultOptions()
	o.Mode = DecayPerTick
	return o
}

func TestScenarioHalfFill(t *testing.T) {
	body := newBody(t)
	require.InDelta(t, 3.36, body.Vessel().LiquidHeight(), 1e-4)

	a := New(body, perTick())
	a.SetTarget(0.5)

	// 0.5 * 0.96^n < 0.001 first holds at n = 153.
	for i := 0; i < 140; i++ {
		a.Tick(frame)
	}
	assert.False(t, a.Converged())

	for i := 0; i < 20; i++ {
		a.Tick(frame)
	}
	assert.True(t, a.Converged())
	assert.InDelta(t, 0.5, a.Current(), 0.001)
	assert.InDelta(t, body.Vessel().FillY(a.Current()), body.Clip.Height(), 1e-5)
}

func TestMonotonicWithoutOvershoot(t *testing.T) {
	for _, mode := range []Mode{DecayPerTick, DecayTimeCorrect} {
		t.Run(mode.String(), func(t *testing.T) {
			o := DefaultOptions()
			o.Mode = mode
			a := New(newBody(t), o)

			a.SetTarget(0.8)
			prev := a.Current()
			for i := 0; i < 300; i++ {
				a.Tick(frame)
				require.GreaterOrEqual(t, a.Current(), prev)
				require.LessOrEqual(t, a.Current(), float32(0.8))
				prev = a.Current()
			}

			a.SetTarget(0.2)
			for i := 0; i < 300; i++ {
				a.Tick(frame)
				require.LessOrEqual(t, a.Current(), prev)
				require.GreaterOrEqual(t, a.Current(), float32(0.2))
				prev = a.Current()
			}
			assert.InDelta(t, 0.2, a.Current(), 0.001)
		})
	}
}

func TestTimeCorrectIsFrameRateIndependent(t *testing.T) {
	fast := New(newBody(t), DefaultOptions())
	slow := New(newBody(t), DefaultOptions())
	fast.SetTarget(1)
	slow.SetTarget(1)

	for i := 0; i < 60; i++ {
		fast.Tick(1.0 / 60)
	}
	for i := 0; i < 20; i++ {
		slow.Tick(1.0 / 20)
	}
	assert.InDelta(t, fast.Current(), slow.Current(), 1e-3)

	// Per-tick decay depends on how many frames ran.
	a := New(newBody(t), perTick())
	b := New(newBody(t), perTick())
	a.SetTarget(1)
	b.SetTarget(1)
	for i := 0; i < 60; i++ {
		a.Tick(1.0 / 60)
	}
	for i := 0; i < 20; i++ {
		b.Tick(1.0 / 20)
	}
	assert.Greater(t, a.Current()-b.Current(), float32(0.1))
}

func TestSetTargetIdempotent(t *testing.T) {
	once := New(newBody(t), DefaultOptions())
	repeat := New(newBody(t), DefaultOptions())
	once.SetTarget(0.5)

	for i := 0; i < 50; i++ {
		repeat.SetTarget(0.5)
		once.Tick(frame)
		repeat.Tick(frame)
		require.Equal(t, once.Current(), repeat.Current())
	}
}

func TestSetTargetClamps(t *testing.T) {
	a := New(newBody(t), DefaultOptions())

	a.SetTarget(1.7)
	assert.Equal(t, float32(1), a.Target())
	a.SetTarget(-0.3)
	assert.Equal(t, float32(0), a.Target())
	assert.Equal(t, StateRelaxing, a.State())
}

func TestConvergedSkipsGeometryWork(t *testing.T) {
	a := New(newBody(t), perTick())
	a.SetTarget(0.3)
	for !a.Converged() {
		a.Tick(frame)
	}
	n := a.Rebuilds()
	surface := a.Body().Surface

	for i := 0; i < 30; i++ {
		a.Tick(frame)
	}
	assert.Equal(t, n, a.Rebuilds())
	assert.Same(t, surface, a.Body().Surface, "disc is not rebuilt once converged")
	assert.Equal(t, StateRelaxing, a.State())
}

func TestPauseStopsFillButNotRipple(t *testing.T) {
	a := New(newBody(t), DefaultOptions())
	a.SetTarget(0.6)
	for i := 0; i < 30; i++ {
		a.Tick(frame)
	}

	a.Pause()
	level := a.Current()
	surface := a.Body().Surface
	// An interior vertex on the first ring.
	before := surface.Mesh.Vertices[1].Position[1]
	for i := 0; i < 10; i++ {
		a.Tick(frame)
	}
	assert.Equal(t, level, a.Current())
	assert.Same(t, surface, a.Body().Surface)
	assert.NotEqual(t, before, surface.Mesh.Vertices[1].Position[1], "surface keeps moving while paused")

	a.Resume()
	a.Tick(frame)
	assert.Greater(t, a.Current(), level)
}

func TestRippleStaysWithinAmplitudeAndPinnedAtRim(t *testing.T) {
	body := newBody(t)
	a := New(body, DefaultOptions())
	a.SetTarget(0.5)
	amp := DefaultOptions().RippleAmplitude * body.Vessel().Height()

	for i := 0; i < 90; i++ {
		a.Tick(frame)
		s := body.Surface
		last := s.Mesh.Vertices[len(s.Mesh.Vertices)-1].Position[1]
		assert.InDelta(t, s.Y, last, 1e-5, "rim vertex does not move")
		for _, v := range s.Mesh.Vertices {
			require.LessOrEqual(t, v.Position[1]-s.Y, amp+1e-5)
			require.GreaterOrEqual(t, v.Position[1]-s.Y, -amp-1e-5)
		}
	}
}

func TestFillCompleteFiresOnce(t *testing.T) {
	a := New(newBody(t), DefaultOptions())
	fired := 0
	a.OnComplete(func() { fired++ })

	a.SetTarget(1)
	for i := 0; i < 400; i++ {
		a.Tick(frame)
	}
	assert.Equal(t, 1, fired)

	a.SetTarget(0.9)
	for i := 0; i < 100; i++ {
		a.Tick(frame)
	}
	a.SetTarget(1)
	for i := 0; i < 400; i++ {
		a.Tick(frame)
	}
	assert.Equal(t, 1, fired, "no second fire without a reset")

	a.Reset()
	assert.Zero(t, a.Current())
	assert.Zero(t, a.Body().Fill())
	assert.Equal(t, StateIdle, a.State())

	a.SetTarget(1)
	for i := 0; i < 400; i++ {
		a.Tick(frame)
	}
	assert.Equal(t, 2, fired)
}

func TestFillCompleteNeverFiresBelowFull(t *testing.T) {
	a := New(newBody(t), DefaultOptions())
	fired := false
	a.OnComplete(func() { fired = true })

	a.SetTarget(0.95)
	for i := 0; i < 600; i++ {
		a.Tick(frame)
	}
	assert.False(t, fired)
}
