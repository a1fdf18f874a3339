package anim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/pourglass/pkg/math"
)

const frame = 1.0 / 60

func TestEasingEndpoints(t *testing.T) {
	eases := map[string]Ease{
		"linear":     Linear,
		"in-quad":    InQuad,
		"in-cubic":   InCubic,
		"out-cubic":  OutCubic,
		"out-bounce": OutBounce,
		"dip-recoil": DipRecoil(0.2),
	}
	for name, e := range eases {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 0, e(0), 1e-6)
			assert.InDelta(t, 1, e(1), 1e-5)
		})
	}
}

func TestDipRecoilOvershootsThenSettles(t *testing.T) {
	e := DipRecoil(0.25)

	assert.InDelta(t, 1.25, e(dipSplit), 1e-5, "deepest point is at the split")
	assert.Greater(t, e(0.7), float32(1), "still below rest while recoiling")

	// Falling half accelerates.
	assert.Less(t, e(0.1)-e(0), e(0.5)-e(0.4))

	// Without overshoot it is a plain accelerating fall that ends at rest.
	flat := DipRecoil(0)
	for _, p := range []float32{0.7, 0.8, 0.9, 1} {
		assert.InDelta(t, 1, flat(p), 1e-6)
	}
}

func TestRecoilLUTEndsAtOne(t *testing.T) {
	require.Len(t, recoilLUT, recoilSamples)
	assert.Zero(t, recoilLUT[0])
	assert.InDelta(t, 1, recoilLUT[recoilSamples-1], 1e-6)
	assert.Equal(t, recoilLUT[recoilSamples-1], recoil(2))
	assert.Greater(t, recoil(0.5), recoil(0.1))
}

func TestOutBounceStaysInRange(t *testing.T) {
	for i := 0; i <= 100; i++ {
		v := OutBounce(float32(i) / 100)
		assert.GreaterOrEqual(t, v, float32(0))
		assert.LessOrEqual(t, v, float32(1)+1e-6)
	}
}

func TestTaskInterpolates(t *testing.T) {
	var got []math.Vec3
	task := &Task{
		From:     math.Vec3{},
		To:       math.Vec3{X: 10},
		Duration: time.Second,
		Apply: func(v math.Vec3) bool {
			got = append(got, v)
			return true
		},
	}
	s := NewScheduler()
	s.Go(1, task)

	s.Tick(0.5)
	s.Tick(0.5)
	s.Tick(0.5)

	// The stage starts on the first tick.
	require.Len(t, got, 3)
	assert.InDelta(t, 0, got[0].X, 1e-4)
	assert.InDelta(t, 5, got[1].X, 1e-4)
	assert.InDelta(t, 10, got[2].X, 1e-4)
	assert.True(t, task.Done())
	assert.Zero(t, s.Active())
}

func TestTaskDelayAndHooks(t *testing.T) {
	var events []string
	task := &Task{
		Delay:      300 * time.Millisecond,
		Duration:   100 * time.Millisecond,
		OnStart:    func() { events = append(events, "start") },
		OnComplete: func() { events = append(events, "complete") },
	}
	s := NewScheduler()
	s.Go(1, task)

	for i := 0; i < 17; i++ {
		s.Tick(frame)
	}
	assert.False(t, task.Started())

	for i := 0; i < 30; i++ {
		s.Tick(frame)
	}
	assert.Equal(t, []string{"start", "complete"}, events)
}

func TestTaskAbandonedWhenTargetGone(t *testing.T) {
	completed := false
	task := &Task{
		Duration:   time.Second,
		Apply:      func(math.Vec3) bool { return false },
		OnComplete: func() { completed = true },
	}
	s := NewScheduler()
	s.Go(1, task)
	s.Tick(frame)

	assert.True(t, task.Done())
	assert.False(t, completed)
	assert.Zero(t, s.Active())
}

func TestSequenceRunsStagesInOrder(t *testing.T) {
	var order []string
	var secondStart time.Duration
	s := NewScheduler()

	first := &Stage{
		Name: "first",
		Tasks: []*Task{
			{Duration: 100 * time.Millisecond, OnComplete: func() { order = append(order, "a") }},
			{Duration: 200 * time.Millisecond, OnComplete: func() { order = append(order, "b") }},
		},
		OnComplete: func() { order = append(order, "first") },
	}
	second := &Stage{
		Name: "second",
		Enter: func() []*Task {
			order = append(order, "enter")
			return []*Task{{
				Duration: 100 * time.Millisecond,
				OnStart:  func() { secondStart = s.Now() },
			}}
		},
	}
	seqDone := false
	q := NewSequence(7, "pair").Then(first).Then(second)
	q.OnComplete = func() { seqDone = true }
	s.Run(q)

	for i := 0; i < 60 && !seqDone; i++ {
		s.Tick(frame)
	}

	assert.True(t, seqDone)
	assert.Equal(t, []string{"a", "b", "first", "enter"}, order)
	assert.GreaterOrEqual(t, secondStart, 200*time.Millisecond)
	assert.Nil(t, q.Stage())
	assert.True(t, q.Finished())
}

func TestEmptyStageCompletesImmediately(t *testing.T) {
	s := NewScheduler()
	done := false
	q := NewSequence(1, "empty").Then(&Stage{OnComplete: func() { done = true }})
	s.Run(q)
	s.Tick(frame)
	assert.True(t, done)
	assert.True(t, q.Finished())
}

func TestCancelByOwner(t *testing.T) {
	s := NewScheduler()
	var moved int
	mk := func() *Task {
		return &Task{
			Duration: time.Second,
			Apply:    func(math.Vec3) bool { moved++; return true },
		}
	}
	s.Go(1, mk())
	s.Go(1, mk())
	s.Go(2, mk())
	s.Tick(frame)
	require.Equal(t, 3, moved)

	assert.Equal(t, 2, s.Cancel(1))
	assert.Zero(t, s.Cancel(1))
	assert.Zero(t, s.ActiveFor(1))
	assert.Equal(t, 1, s.ActiveFor(2))

	s.Tick(frame)
	assert.Equal(t, 4, moved, "only the surviving owner moves")
}

func TestCancelFromCallbackStopsSiblings(t *testing.T) {
	s := NewScheduler()
	var movedAfter int
	stage := &Stage{Tasks: []*Task{
		{Duration: 0, OnComplete: func() { s.Cancel(3) }},
		{Duration: time.Second, Apply: func(math.Vec3) bool { movedAfter++; return true }},
	}}
	q := s.Run(NewSequence(3, "self-cancel").Then(stage))

	s.Tick(frame)
	s.Tick(frame)

	assert.Zero(t, movedAfter)
	assert.True(t, q.Cancelled())
	assert.Zero(t, s.Active())
}

func TestRunFromCallbackStartsSameTick(t *testing.T) {
	s := NewScheduler()
	var started time.Duration
	s.Go(1, &Task{Duration: 0, OnComplete: func() {
		s.Go(1, &Task{Duration: time.Second, OnStart: func() { started = s.Now() }})
	}})

	s.Tick(frame)
	assert.Equal(t, s.Now(), started)
}

func TestStaggeredStarts(t *testing.T) {
	s := NewScheduler()
	const stagger = 150 * time.Millisecond
	starts := make([]time.Duration, 3)
	var tasks []*Task
	for k := range starts {
		tasks = append(tasks, &Task{
			Delay:    time.Duration(k) * stagger,
			Duration: 500 * time.Millisecond,
			OnStart:  func() { starts[k] = s.Now() },
		})
	}

	s.Tick(frame)
	triggered := s.Now()
	s.Run(NewSequence(1, "ice").Then(&Stage{Tasks: tasks}))
	for i := 0; i < 60; i++ {
		s.Tick(frame)
	}

	for k, at := range starts {
		elapsed := at - triggered
		assert.GreaterOrEqual(t, elapsed, time.Duration(k)*stagger, "item %d", k)
	}
	third := starts[2] - triggered
	assert.GreaterOrEqual(t, third, 300*time.Millisecond)
	assert.Less(t, third, 450*time.Millisecond)
}
