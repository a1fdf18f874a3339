// Package snapshot runs the simulation headless and writes rendered frames
// as WebP files.
package snapshot

import (
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/internal/pour"
	"github.com/Faultbox/pourglass/internal/raster"
	"github.com/Faultbox/pourglass/internal/recipe"
	"github.com/Faultbox/pourglass/pkg/math"
)

// frameMargin pads the vessel when framing the camera.
const frameMargin = 0.35

// Result summarizes a run.
type Result struct {
	Frames    []string // written frame paths in order
	Animation string   // animated WebP path, empty unless requested
	Fills     int      // fill-complete events observed
	Chores    int      // choreography-complete events observed
}

// Runner pours every recipe of a playlist in turn and captures frames.
type Runner struct {
	cfg      config.SnapshotConfig
	sim      *pour.Simulation
	playlist *recipe.Playlist
	render   *raster.Renderer
	capture  *raster.Capture
	log      *zap.Logger
}

// New creates a runner writing into cfg.OutputDir.
func New(cfg config.SnapshotConfig, sim *pour.Simulation, playlist *recipe.Playlist) (*Runner, error) {
	switch {
	case cfg.Width <= 0 || cfg.Height <= 0:
		return nil, fmt.Errorf("snapshot size %dx%d must be positive", cfg.Width, cfg.Height)
	case cfg.FPS <= 0:
		return nil, fmt.Errorf("snapshot fps must be positive, got %v", cfg.FPS)
	case cfg.Frames <= 0:
		return nil, fmt.Errorf("snapshot frames must be positive, got %d", cfg.Frames)
	}
	if cfg.Every <= 0 {
		cfg.Every = 1
	}
	if cfg.Supersample <= 0 {
		cfg.Supersample = 1
	}
	return &Runner{
		cfg:      cfg,
		sim:      sim,
		playlist: playlist,
		render:   raster.NewRenderer(cfg.Width, cfg.Height, cfg.Supersample),
		capture:  raster.NewCapture(cfg.OutputDir, "pour"),
		log:      logger.Named("snapshot"),
	}, nil
}

// Renderer exposes the rasterizer for tuning pitch, light or background.
func (r *Runner) Renderer() *raster.Renderer { return r.render }

// Run pours each recipe once, ticking cfg.Frames times per recipe at 1/FPS
// and writing every cfg.Every-th tick.
func (r *Runner) Run() (Result, error) {
	var res Result
	r.sim.OnFillComplete(func(recipe.Selection) { res.Fills++ })
	r.sim.OnChoreographyComplete(func(recipe.Selection) { res.Chores++ })

	var anim []image.Image
	dt := 1 / float64(r.cfg.FPS)
	tick := 0

	for i := 0; i < r.playlist.Len(); i++ {
		rec := r.playlist.Current()
		if i > 0 {
			rec = r.playlist.Next()
		}
		if err := r.sim.PourRecipe(rec); err != nil {
			return res, fmt.Errorf("pouring %s: %w", rec.Name, err)
		}
		r.frame()
		r.log.Info("recording", zap.String("recipe", rec.Name), zap.Int("ticks", r.cfg.Frames))

		for f := 0; f < r.cfg.Frames; f++ {
			r.sim.Tick(dt)
			tick++
			if tick%r.cfg.Every != 0 {
				continue
			}
			img := r.render.Render(r.sim.Root())
			path, err := r.capture.WriteFrame(img, len(res.Frames))
			if err != nil {
				return res, err
			}
			res.Frames = append(res.Frames, path)
			if r.cfg.Animate {
				anim = append(anim, img)
			}
		}
	}

	if r.cfg.Animate && len(anim) > 0 {
		delay := time.Duration(float64(r.cfg.Every) / float64(r.cfg.FPS) * float64(time.Second))
		path, err := r.capture.WriteAnimation(anim, delay)
		if err != nil {
			return res, err
		}
		res.Animation = path
	}

	r.log.Info("snapshot complete",
		zap.Int("frames", len(res.Frames)),
		zap.Int("fills", res.Fills),
		zap.Int("choreographies", res.Chores),
	)
	return res, nil
}

// frame centres the camera on the current vessel at rest.
func (r *Runner) frame() {
	v := r.sim.Vessel()
	if v == nil {
		return
	}
	size := v.Bounds.Size()
	r.render.Frame(v.Bounds.Center(), math.Max(size.X, size.Y)*(1+frameMargin))
}
