package choreo

import (
	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/anim"
	"github.com/Faultbox/pourglass/pkg/math"
)

// Swap replaces the vessel on stage. The outgoing vessel's motion is
// cancelled where it stands, then it slides off along +X with its liquid and
// inclusions and is disposed; the incoming vessel drops in from above with a
// bounce and its Handoff runs on landing.
//
// Swapping again before a swap finishes disposes the vessel that was still
// sliding out and sends the half-arrived one out in its place.
func (c *Choreographer) Swap(next *Setup, items []Item) {
	c.cancelSwap()
	if c.leaving != nil {
		c.dispose(c.leaving)
	}
	old := c.current
	if old != nil {
		c.freeze(old)
	}

	next.Group.Position = math.Vec3{Y: c.opts.DropHeight}
	next.Group.Visible = false
	c.root.Add(next.Group)
	c.stage(next, items)
	c.current = next
	c.leaving = old

	fields := []zap.Field{zap.String("to", next.Vessel.Name)}
	if old != nil {
		fields = append(fields, zap.String("from", old.Vessel.Name))
	}
	c.log.Info("swapping vessel", fields...)

	// The swap runs under its own tag so restaging either vessel's
	// inclusions leaves it alone.
	c.owners++
	c.swap = c.owners
	q := anim.NewSequence(c.swap, "swap")
	if old != nil {
		q.Then(&anim.Stage{
			Name:       "slide-out",
			Enter:      func() []*anim.Task { return c.slideOut(old) },
			OnComplete: func() { c.dispose(old) },
		})
	}
	q.Then(&anim.Stage{
		Name:       "drop-in",
		Enter:      func() []*anim.Task { return c.dropIn(next) },
		OnComplete: func() {
			c.swap = 0
			c.arrive(next)
		},
	})
	c.sched.Run(q)
}

// cancelSwap drops the swap in flight without finishing it.
func (c *Choreographer) cancelSwap() {
	if c.swap != 0 {
		c.sched.Cancel(c.swap)
		c.swap = 0
	}
}

func (c *Choreographer) slideOut(s *Setup) []*anim.Task {
	if s.disposed {
		return nil
	}
	c.emit(Event{Kind: EventSlideOut, Owner: s.Owner, Name: s.Vessel.Name})
	from := s.Group.Position
	return []*anim.Task{{
		Name:     "slide-out",
		From:     from,
		To:       from.Add(math.Vec3{X: c.opts.SwapDistance}),
		Duration: c.opts.SwapOut,
		Ease:     anim.InCubic,
		Apply:    func(v math.Vec3) bool { return c.moveGroup(s, v) },
	}}
}

func (c *Choreographer) dropIn(s *Setup) []*anim.Task {
	if s.disposed {
		return nil
	}
	s.Group.Visible = true
	return []*anim.Task{{
		Name:     "drop-in",
		From:     s.Group.Position,
		To:       math.Vec3{},
		Duration: c.opts.SwapIn,
		Ease:     anim.OutBounce,
		Apply:    func(v math.Vec3) bool { return c.moveGroup(s, v) },
	}}
}

func (c *Choreographer) moveGroup(s *Setup, v math.Vec3) bool {
	if s.disposed {
		return false
	}
	s.Group.Position = v
	return true
}
