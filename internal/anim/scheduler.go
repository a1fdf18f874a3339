package anim

import "time"

// Scheduler advances sequences on an accumulated clock. It is driven by a
// single caller and is not safe for concurrent use.
type Scheduler struct {
	now       time.Duration
	sequences []*Sequence
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the accumulated simulation time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Run queues a sequence. Its first stage starts on the next Tick, or on the
// current one when called from inside a callback.
func (s *Scheduler) Run(q *Sequence) *Sequence {
	s.sequences = append(s.sequences, q)
	return q
}

// Go runs a single task as a one-stage sequence.
func (s *Scheduler) Go(owner Owner, t *Task) *Sequence {
	return s.Run(NewSequence(owner, t.Name).Then(&Stage{Name: t.Name, Tasks: []*Task{t}}))
}

// Tick advances the clock by dt seconds and steps every live sequence.
func (s *Scheduler) Tick(dt float64) {
	if dt > 0 {
		s.now += time.Duration(dt * float64(time.Second))
	}

	// Callbacks may queue or cancel sequences; newly queued ones are stepped
	// in this same tick.
	for i := 0; i < len(s.sequences); i++ {
		s.sequences[i].step(s.now)
	}

	live := s.sequences[:0]
	for _, q := range s.sequences {
		if !q.cancelled && !q.finished {
			live = append(live, q)
		}
	}
	for i := len(live); i < len(s.sequences); i++ {
		s.sequences[i] = nil
	}
	s.sequences = live
}

// Cancel drops every sequence owned by owner without firing callbacks and
// returns how many were dropped.
func (s *Scheduler) Cancel(owner Owner) int {
	n := 0
	for _, q := range s.sequences {
		if q.Owner == owner && !q.cancelled && !q.finished {
			q.cancelled = true
			n++
		}
	}
	return n
}

// Active returns the number of sequences still running.
func (s *Scheduler) Active() int {
	n := 0
	for _, q := range s.sequences {
		if !q.cancelled && !q.finished {
			n++
		}
	}
	return n
}

// ActiveFor returns the number of running sequences owned by owner.
func (s *Scheduler) ActiveFor(owner Owner) int {
	n := 0
	for _, q := range s.sequences {
		if q.Owner == owner && !q.cancelled && !q.finished {
			n++
		}
	}
	return n
}
