// Package pour wires the fill, choreography and idle layers into one
// tick-driven simulation that hosts render from a scene subtree.
package pour

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/anim"
	"github.com/Faultbox/pourglass/internal/assets"
	"github.com/Faultbox/pourglass/internal/choreo"
	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/fill"
	"github.com/Faultbox/pourglass/internal/liquid"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/internal/recipe"
	"github.com/Faultbox/pourglass/internal/scene"
	"github.com/Faultbox/pourglass/internal/vessel"
	"github.com/Faultbox/pourglass/pkg/math"
)

var (
	glassColor = [4]float32{0.85, 0.92, 1.0, 0.25}
	iceColor   = [4]float32{0.92, 0.97, 1.0, 0.7}
)

// liquidAlpha is the opacity of the liquid volume and surface.
const liquidAlpha = 0.85

// Simulation drives one stage: a vessel with its liquid and inclusions, and
// the swap to the next one.
type Simulation struct {
	cfg     config.SimulationConfig
	catalog *assets.Catalog
	log     *zap.Logger

	sched  *anim.Scheduler
	clips  *liquid.ClipRegistry
	choreo *choreo.Choreographer
	root   *scene.Node

	active *stage

	onFill  []func(recipe.Selection)
	onChore []func(recipe.Selection)
}

// stage is the per-vessel state the simulation keeps beside the setup.
type stage struct {
	sel     recipe.Selection
	setup   *choreo.Setup
	fill    *fill.Animator
	surface *scene.Node
	items   []choreo.Item
}

// New creates an empty simulation.
func New(cfg config.SimulationConfig, catalog *assets.Catalog) *Simulation {
	s := &Simulation{
		cfg:     cfg,
		catalog: catalog,
		log:     logger.Named("pour"),
		sched:   anim.NewScheduler(),
		clips:   liquid.NewClipRegistry(),
		root:    scene.New("stage"),
	}
	s.choreo = choreo.New(s.sched, s.root, choreoOptions(cfg))
	s.choreo.Subscribe(s.onEvent)
	return s
}

func choreoOptions(cfg config.SimulationConfig) choreo.Options {
	return choreo.Options{
		Stagger:       cfg.Stagger,
		HiddenHeight:  cfg.HiddenHeight,
		IceFall:       cfg.IceFall,
		IceDip:        cfg.IceDip,
		GarnishFall:   cfg.GarnishFall,
		SwapOut:       cfg.SwapOut,
		SwapIn:        cfg.SwapIn,
		SwapDistance:  cfg.SwapDistance,
		DropHeight:    cfg.DropHeight,
		BobAmplitude:  cfg.BobAmplitude,
		BobPeriod:     cfg.BobPeriod,
		BobPhaseSteps: cfg.BobPhaseSteps,
	}
}

func fillOptions(cfg config.SimulationConfig) fill.Options {
	mode := fill.DecayTimeCorrect
	if cfg.DecayMode == config.DecayPerTick {
		mode = fill.DecayPerTick
	}
	return fill.Options{
		LerpRate:        cfg.LerpRate,
		Epsilon:         cfg.Epsilon,
		Mode:            mode,
		ReferenceFPS:    cfg.ReferenceFPS,
		RippleAmplitude: cfg.RippleAmplitude,
	}
}

// Root returns the scene subtree to render.
func (s *Simulation) Root() *scene.Node { return s.root }

// Scheduler returns the animation scheduler.
func (s *Simulation) Scheduler() *anim.Scheduler { return s.sched }

// Choreographer returns the inclusion choreographer.
func (s *Simulation) Choreographer() *choreo.Choreographer { return s.choreo }

// Clips returns the registry of active clip planes.
func (s *Simulation) Clips() *liquid.ClipRegistry { return s.clips }

// Catalog returns the vessel catalog.
func (s *Simulation) Catalog() *assets.Catalog { return s.catalog }

// Selection returns the selection on stage, if any.
func (s *Simulation) Selection() (recipe.Selection, bool) {
	if s.active == nil {
		return recipe.Selection{}, false
	}
	return s.active.sel, true
}

// Fill returns the animator of the vessel on stage, or nil.
func (s *Simulation) Fill() *fill.Animator {
	if s.active == nil {
		return nil
	}
	return s.active.fill
}

// Vessel returns the vessel on stage, or nil.
func (s *Simulation) Vessel() *vessel.Vessel {
	if s.active == nil {
		return nil
	}
	return s.active.setup.Vessel
}

// OnFillComplete registers fn to run when a vessel fills up.
func (s *Simulation) OnFillComplete(fn func(recipe.Selection)) {
	s.onFill = append(s.onFill, fn)
}

// OnChoreographyComplete registers fn to run once every inclusion of a
// vessel has landed.
func (s *Simulation) OnChoreographyComplete(fn func(recipe.Selection)) {
	s.onChore = append(s.onChore, fn)
}

// Subscribe registers fn for every choreography event.
func (s *Simulation) Subscribe(fn func(choreo.Event)) {
	s.choreo.Subscribe(fn)
}

// Load puts sel on stage at once, replacing any vessel, and starts filling.
func (s *Simulation) Load(sel recipe.Selection) error {
	st, err := s.build(sel)
	if err != nil {
		return err
	}
	s.active = st
	s.choreo.Place(st.setup, st.items)
	return nil
}

// Pour brings sel on stage. With a vessel already there it is swapped out;
// filling starts once the new vessel has landed.
func (s *Simulation) Pour(sel recipe.Selection) error {
	if s.active == nil {
		return s.Load(sel)
	}
	st, err := s.build(sel)
	if err != nil {
		return err
	}
	s.active = st
	s.choreo.Swap(st.setup, st.items)
	return nil
}

// PourRecipe resolves r against the catalog and pours it.
func (s *Simulation) PourRecipe(r *recipe.Recipe) error {
	sel, err := recipe.Select(r, s.catalog)
	if err != nil {
		return err
	}
	return s.Pour(sel)
}

// SetFillTarget retargets the vessel on stage.
func (s *Simulation) SetFillTarget(level float32) {
	if s.active == nil {
		return
	}
	s.active.fill.SetTarget(level)
}

// Replay empties the vessel on stage, restages its inclusions and fills it
// again. During a swap the fill waits for the drop-in handoff.
func (s *Simulation) Replay() {
	st := s.active
	if st == nil || st.setup.Disposed() {
		return
	}
	st.fill.Reset()
	s.choreo.Restage(st.items)
	if !s.choreo.Swapping() {
		st.fill.SetTarget(st.sel.FillTarget)
	}
	s.log.Debug("replay", zap.String("vessel", st.sel.Vessel))
}

// Pause stops the fill. Ripple, choreography and bobbing keep running.
func (s *Simulation) Pause() {
	if s.active != nil {
		s.active.fill.Pause()
	}
}

// Resume restarts the fill.
func (s *Simulation) Resume() {
	if s.active != nil {
		s.active.fill.Resume()
	}
}

// Paused reports whether the fill is paused.
func (s *Simulation) Paused() bool {
	return s.active != nil && s.active.fill.Paused()
}

// Tick advances the simulation by dt seconds: fill first, so a completion
// schedules its choreography in the same frame, then scripted motion, then
// idle bobbing.
func (s *Simulation) Tick(dt float64) {
	if st := s.active; st != nil && !st.setup.Disposed() {
		st.fill.Tick(dt)
		st.surface.Mesh = st.fill.Body().Surface.Mesh
	}
	s.sched.Tick(dt)
	s.choreo.Idle().Tick(dt)
}

// build creates everything one vessel lifetime needs without putting it on
// stage.
func (s *Simulation) build(sel recipe.Selection) (*stage, error) {
	v, err := s.catalog.Vessel(sel.Vessel)
	if err != nil {
		return nil, fmt.Errorf("pour %q: %w", sel.Name, err)
	}

	profiler := vessel.NewProfiler(v)
	if s.cfg.SafetyFactor > 0 {
		profiler.SafetyFactor = s.cfg.SafetyFactor
	}
	opts := liquid.DefaultOptions()
	if s.cfg.ProfileSamples >= 2 {
		opts.ProfileSamples = s.cfg.ProfileSamples
	}
	if s.cfg.RingSegments > 0 {
		opts.HeightSegments = s.cfg.RingSegments
	}
	if s.cfg.RadialSegments > 0 {
		opts.RadialSegments = s.cfg.RadialSegments
	}
	body := liquid.Build(v, profiler, opts, s.clips)

	color := sel.Color
	color[3] = liquidAlpha

	group := scene.New(v.Name)
	group.Add(scene.NewMesh("vessel", s.catalog.VesselMesh(v), glassColor, scene.MaterialGlass))

	volume := scene.NewMesh("liquid", body.Mesh, color, scene.MaterialLiquid)
	volume.Position = body.Offset()
	volume.Clip = body.Clip
	group.Add(volume)

	surface := scene.NewMesh("surface", body.Surface.Mesh, color, scene.MaterialLiquid)
	surface.Position = body.Offset()
	surface.Dynamic = true
	group.Add(surface)

	st := &stage{
		sel:     sel,
		setup:   s.choreo.NewSetup(v, body, group),
		fill:    fill.New(body, fillOptions(s.cfg)),
		surface: surface,
		items:   s.items(v, sel),
	}
	st.fill.OnComplete(func() { s.fillComplete(st) })
	st.setup.Handoff = func() { st.fill.SetTarget(sel.FillTarget) }

	s.log.Info("vessel built",
		zap.String("recipe", sel.Name),
		zap.String("vessel", v.Name),
		zap.Int("ice", sel.Ice),
		zap.Int("garnish", len(sel.Garnish)),
	)
	return st, nil
}

// items lists the inclusions to stage for sel in v.
func (s *Simulation) items(v *vessel.Vessel, sel recipe.Selection) []choreo.Item {
	var items []choreo.Item

	slots := v.AttachmentsWithPrefix(recipe.IcePrefix)
	if sel.Ice > len(slots) {
		s.log.Warn("not enough ice attachments, dropping cubes",
			zap.String("vessel", v.Name),
			zap.Int("requested", sel.Ice),
			zap.Int("slots", len(slots)),
		)
	}
	if sel.Ice < len(slots) {
		slots = slots[:sel.Ice]
	}
	cube := s.catalog.IceMesh(0.35 * v.RimRadius())
	for i, name := range slots {
		items = append(items, choreo.Item{
			Name:       name,
			Kind:       choreo.KindIce,
			Attachment: name,
			Mesh:       cube,
			Color:      iceColor,
			Rotation:   math.QuatFromAxisAngle(math.Vec3{X: 0.3, Y: 1, Z: 0.2}.Normalize(), 0.6*float32(i+1)),
		})
	}

	for _, g := range sel.Garnish {
		items = append(items, choreo.Item{
			Name:       g.Name,
			Kind:       choreo.KindGarnish,
			Attachment: g.Attachment,
			Mesh:       s.catalog.GarnishMesh(g, v),
			Color:      g.RGBA(),
		})
	}
	return items
}

func (s *Simulation) fillComplete(st *stage) {
	if st != s.active {
		return
	}
	s.choreo.OnFillComplete(st.setup)
	for _, fn := range s.onFill {
		fn(st.sel)
	}
}

func (s *Simulation) onEvent(e choreo.Event) {
	if e.Kind != choreo.EventComplete || s.active == nil || e.Owner != s.active.setup.Owner {
		return
	}
	for _, fn := range s.onChore {
		fn(s.active.sel)
	}
}
