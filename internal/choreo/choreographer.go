// Package choreo stages solid inclusions and scripts their entry: staggered
// ice splashdowns after the fill completes, garnish drops once the ice has
// settled, and the slide-out/drop-in of a vessel swap.
package choreo

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/anim"
	"github.com/Faultbox/pourglass/internal/engine/picking"
	"github.com/Faultbox/pourglass/internal/idle"
	"github.com/Faultbox/pourglass/internal/liquid"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/internal/scene"
	"github.com/Faultbox/pourglass/internal/vessel"
	"github.com/Faultbox/pourglass/pkg/math"
)

// Options tunes choreography timing and distances.
type Options struct {
	Stagger      time.Duration
	HiddenHeight float32
	IceFall      time.Duration
	IceDip       float32
	GarnishFall  time.Duration

	SwapOut      time.Duration
	SwapIn       time.Duration
	SwapDistance float32
	DropHeight   float32

	// BobAmplitude is a fraction of vessel height.
	BobAmplitude  float32
	BobPeriod     time.Duration
	BobPhaseSteps int
}

// DefaultOptions returns the standard choreography.
func DefaultOptions() Options {
	return Options{
		Stagger:       150 * time.Millisecond,
		HiddenHeight:  3,
		IceFall:       700 * time.Millisecond,
		IceDip:        0.15,
		GarnishFall:   600 * time.Millisecond,
		SwapOut:       500 * time.Millisecond,
		SwapIn:        800 * time.Millisecond,
		SwapDistance:  8,
		DropHeight:    5,
		BobAmplitude:  idle.DefaultAmplitude,
		BobPeriod:     3 * time.Second,
		BobPhaseSteps: 5,
	}
}

// Setup is one vessel lifetime on stage: the vessel, its liquid and the
// scene group holding both plus the inclusions.
type Setup struct {
	Owner  anim.Owner
	Vessel *vessel.Vessel
	Body   *liquid.Body
	Group  *scene.Node

	// Handoff runs once the vessel is in place.
	Handoff func()

	ice           []ID
	garnish       []ID
	choreographed bool
	disposed      bool
}

// Disposed reports whether the setup has left the stage.
func (s *Setup) Disposed() bool { return s.disposed }

// Ice returns the staged ice IDs in drop order.
func (s *Setup) Ice() []ID { return s.ice }

// Garnish returns the staged garnish IDs in drop order.
func (s *Setup) Garnish() []ID { return s.garnish }

// Choreographer owns inclusions and schedules every scripted motion.
type Choreographer struct {
	sched *anim.Scheduler
	idle  *idle.Layer
	root  *scene.Node
	reg   *Registry
	opts  Options
	log   *zap.Logger

	owners  anim.Owner
	swap    anim.Owner // tag of the swap in flight, 0 when none
	current *Setup
	leaving *Setup
	subs    []func(Event)
}

// New creates a choreographer that attaches vessel groups under root.
func New(sched *anim.Scheduler, root *scene.Node, opts Options) *Choreographer {
	c := &Choreographer{
		sched: sched,
		root:  root,
		reg:   NewRegistry(),
		opts:  opts,
		log:   logger.Named("choreo"),
	}
	c.idle = idle.New(c, 0, float32(opts.BobPeriod.Seconds()))
	return c
}

// Registry returns the inclusion registry.
func (c *Choreographer) Registry() *Registry { return c.reg }

// Idle returns the bobbing layer writing into this choreographer.
func (c *Choreographer) Idle() *idle.Layer { return c.idle }

// Current returns the vessel on stage, or nil.
func (c *Choreographer) Current() *Setup { return c.current }

// Swapping reports whether a swap is still in flight.
func (c *Choreographer) Swapping() bool { return c.swap != 0 }

// Leaving returns the vessel sliding out, or nil.
func (c *Choreographer) Leaving() *Setup { return c.leaving }

// Subscribe registers fn for every event.
func (c *Choreographer) Subscribe(fn func(Event)) {
	c.subs = append(c.subs, fn)
}

func (c *Choreographer) emit(e Event) {
	e.At = c.sched.Now()
	for _, fn := range c.subs {
		fn(e)
	}
}

// NewSetup wraps a vessel lifetime under a fresh owner tag.
func (c *Choreographer) NewSetup(v *vessel.Vessel, body *liquid.Body, group *scene.Node) *Setup {
	c.owners++
	return &Setup{Owner: c.owners, Vessel: v, Body: body, Group: group}
}

// Place puts s on stage immediately, replacing whatever is there, and stages
// its inclusions.
func (c *Choreographer) Place(s *Setup, items []Item) {
	c.cancelSwap()
	if c.leaving != nil {
		c.dispose(c.leaving)
	}
	if c.current != nil {
		c.dispose(c.current)
	}
	s.Group.Position = math.Vec3{}
	s.Group.Visible = true
	c.root.Add(s.Group)
	c.stage(s, items)
	c.current = s
	c.arrive(s)
}

// Restage clears the current vessel's inclusions and stages items afresh,
// hidden above their attachments, ready for the next fill completion. A
// swap in flight keeps running.
func (c *Choreographer) Restage(items []Item) {
	s := c.current
	if s == nil {
		return
	}
	c.freeze(s)
	for _, inc := range c.reg.Owned(s.Owner) {
		c.Remove(inc.ID)
	}
	s.ice, s.garnish = nil, nil
	s.choreographed = false
	c.stage(s, items)
}

// stage pre-positions items hidden above their attachment points. Items
// whose attachment the vessel lacks are skipped.
func (c *Choreographer) stage(s *Setup, items []Item) {
	for _, it := range items {
		rest, ok := s.Vessel.Attachment(it.Attachment)
		if !ok {
			c.log.Warn("attachment missing, skipping inclusion",
				zap.String("vessel", s.Vessel.Name),
				zap.String("inclusion", it.Name),
				zap.String("attachment", it.Attachment),
			)
			continue
		}

		scale := it.Scale
		if scale <= 0 {
			scale = 1
		}
		rot := it.Rotation
		if rot == (math.Quat{}) {
			rot = math.QuatIdentity()
		}

		inc := &Inclusion{
			Name:     it.Name,
			Kind:     it.Kind,
			Owner:    s.Owner,
			Rest:     rest,
			Scale:    scale,
			Rotation: rot,
			State:    StateHiddenAbove,
		}
		node := scene.NewMesh(it.Name, it.Mesh, it.Color, scene.MaterialOpaque)
		node.Visible = false
		node.Rotation = rot
		node.Scale = math.Vec3{X: scale, Y: scale, Z: scale}
		s.Group.Add(node)
		inc.Node = node
		inc.move(rest.Add(math.Vec3{Y: c.opts.HiddenHeight}))

		id := c.reg.Add(inc)
		if it.Kind == KindIce {
			s.ice = append(s.ice, id)
		} else {
			s.garnish = append(s.garnish, id)
		}
	}
}

// OnFillComplete starts the inclusion sequence for s: every ice cube falls
// with a per-index stagger, then the garnish drops once the last cube has
// landed. It runs at most once per staging and ignores setups that are not
// on stage.
func (c *Choreographer) OnFillComplete(s *Setup) {
	if s == nil || s.disposed || s != c.current || s.choreographed {
		return
	}
	s.choreographed = true

	q := anim.NewSequence(s.Owner, "inclusions")
	q.Then(&anim.Stage{
		Name:  "ice",
		Enter: func() []*anim.Task { return c.fallTasks(s, s.ice, c.opts.IceFall) },
	})
	q.Then(&anim.Stage{
		Name:  "garnish",
		Enter: func() []*anim.Task { return c.fallTasks(s, s.garnish, c.opts.GarnishFall) },
	})
	q.OnComplete = func() {
		c.log.Info("choreography complete", zap.String("vessel", s.Vessel.Name))
		c.emit(Event{Kind: EventComplete, Owner: s.Owner, Name: s.Vessel.Name})
	}
	c.sched.Run(q)
}

func (c *Choreographer) fallTasks(s *Setup, ids []ID, dur time.Duration) []*anim.Task {
	var tasks []*anim.Task
	for _, id := range ids {
		inc, ok := c.reg.Get(id)
		if !ok || inc.State != StateHiddenAbove {
			continue
		}

		var ease anim.Ease = anim.OutCubic
		if inc.Kind == KindIce {
			drop := inc.Position.Y - inc.Rest.Y
			if drop <= 0 {
				drop = 1
			}
			ease = anim.DipRecoil(c.opts.IceDip / drop)
		}

		idx := len(tasks)
		tasks = append(tasks, &anim.Task{
			Name:       inc.Name,
			From:       inc.Position,
			To:         inc.Rest,
			Delay:      time.Duration(idx) * c.opts.Stagger,
			Duration:   dur,
			Ease:       ease,
			Apply:      func(v math.Vec3) bool { return c.moveInclusion(s, id, v) },
			OnStart:    func() { c.startFall(s, id) },
			OnComplete: func() { c.land(s, id, idx) },
		})
	}
	return tasks
}

func (c *Choreographer) moveInclusion(s *Setup, id ID, v math.Vec3) bool {
	if s.disposed {
		return false
	}
	inc, ok := c.reg.Get(id)
	if !ok {
		return false
	}
	inc.move(v)
	return true
}

func (c *Choreographer) startFall(s *Setup, id ID) {
	inc, ok := c.reg.Get(id)
	if !ok || s.disposed {
		return
	}
	inc.State = StateFalling
	inc.Node.Visible = true
	c.emit(Event{Kind: EventFallStarted, Owner: s.Owner, ID: id, Name: inc.Name, Item: inc.Kind})
}

func (c *Choreographer) land(s *Setup, id ID, idx int) {
	inc, ok := c.reg.Get(id)
	if !ok || s.disposed {
		return
	}
	if inc.Kind == KindIce {
		inc.State = StateSettledBobbing
		c.idle.StartBobbing(inc.Key(), inc.Rest.Y, idle.PhaseFor(idx, c.opts.BobPhaseSteps))
	} else {
		inc.State = StateSettled
	}
	c.emit(Event{Kind: EventLanded, Owner: s.Owner, ID: id, Name: inc.Name, Item: inc.Kind})
}

// SetBobHeight moves a bobbing inclusion. It reports false once the
// inclusion is gone so the idle layer drops it.
func (c *Choreographer) SetBobHeight(key string, y float32) bool {
	inc, ok := c.reg.Lookup(key)
	if !ok {
		return false
	}
	inc.move(inc.Position.WithY(y))
	return true
}

// Remove clears one inclusion from the stage. Tasks still referring to it
// become no-ops.
func (c *Choreographer) Remove(id ID) bool {
	inc, ok := c.reg.Remove(id)
	if !ok {
		return false
	}
	c.idle.StopBobbing(inc.Key())
	if inc.Node != nil {
		inc.Node.Detach()
	}
	return true
}

// Pick returns the nearest visible inclusion whose world bounds r hits.
func (c *Choreographer) Pick(r picking.Ray) (*Inclusion, bool) {
	var best *Inclusion
	bestT := float32(0)
	for _, inc := range c.reg.All() {
		if inc.Node == nil || !inc.Node.Visible {
			continue
		}
		box, ok := inc.Node.VisibleBounds()
		if !ok {
			continue
		}
		if t, hit := r.IntersectAABB(box); hit && (best == nil || t < bestT) {
			best, bestT = inc, t
		}
	}
	return best, best != nil
}

// freeze cancels all motion of s in place.
func (c *Choreographer) freeze(s *Setup) {
	c.sched.Cancel(s.Owner)
	for _, inc := range c.reg.Owned(s.Owner) {
		c.idle.StopBobbing(inc.Key())
	}
}

// dispose removes s and everything it owns from the stage.
func (c *Choreographer) dispose(s *Setup) {
	if s.disposed {
		return
	}
	c.freeze(s)
	s.disposed = true
	for _, inc := range c.reg.Owned(s.Owner) {
		c.reg.Remove(inc.ID)
	}
	s.Group.Detach()
	if s.Body != nil {
		s.Body.Dispose()
	}
	if c.leaving == s {
		c.leaving = nil
	}
	if c.current == s {
		c.current = nil
	}
	c.log.Debug("vessel disposed", zap.String("vessel", s.Vessel.Name), zap.Uint64("owner", uint64(s.Owner)))
	c.emit(Event{Kind: EventDisposed, Owner: s.Owner, Name: s.Vessel.Name})
}

func (c *Choreographer) arrive(s *Setup) {
	if s.disposed {
		return
	}
	c.idle.SetAmplitude(c.opts.BobAmplitude * s.Vessel.Height())
	c.emit(Event{Kind: EventArrived, Owner: s.Owner, Name: s.Vessel.Name})
	if s.Handoff != nil {
		s.Handoff()
	}
}
