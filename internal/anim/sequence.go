package anim

import "time"

// Stage is a group of tasks that run together. A stage completes when all
// its tasks are done; the next stage starts on the same tick.
type Stage struct {
	Name  string
	Tasks []*Task

	// Enter, if set, builds the stage's tasks when the stage starts, so
	// targets are resolved at that moment rather than when queued.
	Enter      func() []*Task
	OnComplete func()

	start   time.Duration
	entered bool
}

// Done reports whether every task in an entered stage is done.
func (s *Stage) Done() bool {
	if !s.entered {
		return false
	}
	for _, t := range s.Tasks {
		if !t.done {
			return false
		}
	}
	return true
}

// Sequence is an ordered queue of stages sharing one owner.
type Sequence struct {
	Name       string
	Owner      Owner
	OnComplete func()

	stages    []*Stage
	current   int
	cancelled bool
	finished  bool
}

// NewSequence creates an empty sequence.
func NewSequence(owner Owner, name string) *Sequence {
	return &Sequence{Name: name, Owner: owner}
}

// Then appends a stage.
func (q *Sequence) Then(s *Stage) *Sequence {
	q.stages = append(q.stages, s)
	return q
}

// Stage returns the active stage, or nil once the sequence has finished.
func (q *Sequence) Stage() *Stage {
	if q.current >= len(q.stages) {
		return nil
	}
	return q.stages[q.current]
}

// Len returns the number of stages.
func (q *Sequence) Len() int { return len(q.stages) }

// Finished reports whether every stage completed.
func (q *Sequence) Finished() bool { return q.finished }

// Cancelled reports whether the sequence was cancelled.
func (q *Sequence) Cancelled() bool { return q.cancelled }

// step advances the sequence to now, entering and completing as many stages
// as finish within this tick.
func (q *Sequence) step(now time.Duration) {
	for !q.cancelled && !q.finished {
		s := q.Stage()
		if s == nil {
			q.finished = true
			if q.OnComplete != nil {
				q.OnComplete()
			}
			return
		}
		if !s.entered {
			s.entered = true
			s.start = now
			if s.Enter != nil {
				s.Tasks = append(s.Tasks, s.Enter()...)
			}
		}
		for _, t := range s.Tasks {
			if q.cancelled {
				return
			}
			t.advance(now - s.start)
		}
		if q.cancelled || !s.Done() {
			return
		}
		q.current++
		if s.OnComplete != nil {
			s.OnComplete()
		}
	}
}
