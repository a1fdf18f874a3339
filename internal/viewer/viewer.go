// Package viewer runs the interactive OpenGL window around a pour
// simulation.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/pourglass/internal/config"
	"github.com/Faultbox/pourglass/internal/engine/camera"
	"github.com/Faultbox/pourglass/internal/engine/framebuffer"
	"github.com/Faultbox/pourglass/internal/engine/input"
	"github.com/Faultbox/pourglass/internal/engine/lighting"
	"github.com/Faultbox/pourglass/internal/engine/renderer"
	"github.com/Faultbox/pourglass/internal/engine/window"
	"github.com/Faultbox/pourglass/internal/logger"
	"github.com/Faultbox/pourglass/internal/pour"
	"github.com/Faultbox/pourglass/internal/raster"
	"github.com/Faultbox/pourglass/internal/recipe"
)

// maxStep caps a frame's dt so a stalled window does not skip animations.
const maxStep = 0.1

// Viewer is the interactive host.
type Viewer struct {
	cfg      *config.Config
	sim      *pour.Simulation
	playlist *recipe.Playlist

	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.OrbitCamera
	capture  *raster.Capture
	shoot    bool
	picked   string

	log *zap.Logger
}

// New opens the window and pours the playlist's first recipe.
func New(cfg *config.Config, sim *pour.Simulation, playlist *recipe.Playlist) (*Viewer, error) {
	v := &Viewer{
		cfg:      cfg,
		sim:      sim,
		playlist: playlist,
		input:    input.New(),
		camera:   camera.NewOrbitCamera(),
		capture:  raster.NewCapture(cfg.Snapshot.OutputDir, "pourview"),
		log:      logger.Named("viewer"),
	}
	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Viewer.Width),
		zap.Int("height", cfg.Viewer.Height),
		zap.Int("recipes", playlist.Len()),
	)

	var err error
	v.window, err = window.New(window.Config{
		Title:      "pourglass",
		Width:      cfg.Viewer.Width,
		Height:     cfg.Viewer.Height,
		Fullscreen: cfg.Viewer.Fullscreen,
		VSync:      cfg.Viewer.VSync,
		Samples:    4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer needs the GL context the window just made.
	w, h := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		Background: [4]float32{0.09, 0.1, 0.12, 1},
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer.Light = lighting.Key(cfg.Light)

	if err := v.pour(playlist.Current()); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

// Run drives the loop until the window closes or Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var frameBudget time.Duration
	if v.cfg.Viewer.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(v.cfg.Viewer.FPSLimit)
	}

	v.log.Info("starting viewer loop")

	for v.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now
		if dt > maxStep {
			dt = maxStep
		}

		if v.input.Update() {
			v.running = false
			break
		}
		if err := v.handleInput(); err != nil {
			return err
		}

		v.sim.Tick(dt)

		view := v.camera.ViewMatrix()
		proj := v.camera.ProjectionMatrix(v.renderer.Aspect())
		v.renderer.Render(v.sim.Root(), view, proj)
		if v.shoot {
			v.screenshot()
			v.shoot = false
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
			v.updateTitle(frameCount)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spare := frameBudget - time.Since(now); spare > 0 {
				time.Sleep(spare)
			}
		}
	}

	return nil
}

// Close releases the renderer and the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handleInput() error {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			w, h := v.window.DrawableSize()
			v.renderer.Resize(w, h)
		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_RIGHT {
				v.pick(e.MouseX, e.MouseY)
			}
		case input.EventKeyDown:
			if e.Repeat {
				continue
			}
			if err := v.handleKey(e.Key); err != nil {
				return err
			}
		}
	}

	if dx, dy := v.input.Drag(sdl.BUTTON_LEFT); dx != 0 || dy != 0 {
		v.camera.HandleDrag(dx, dy)
	}
	if w := v.input.Wheel(); w != 0 {
		v.camera.HandleZoom(w)
	}
	return nil
}

func (v *Viewer) handleKey(key sdl.Scancode) error {
	if level, ok := FillPreset(key); ok {
		v.sim.SetFillTarget(level)
		v.log.Debug("fill target", zap.Float32("level", level))
		return nil
	}

	switch key {
	case sdl.SCANCODE_ESCAPE:
		v.running = false
	case sdl.SCANCODE_SPACE:
		if v.sim.Paused() {
			v.sim.Resume()
		} else {
			v.sim.Pause()
		}
	case sdl.SCANCODE_N:
		return v.pour(v.playlist.Next())
	case sdl.SCANCODE_R:
		v.sim.Replay()
	case sdl.SCANCODE_B:
		v.renderer.ShowBounds = !v.renderer.ShowBounds
	case sdl.SCANCODE_F:
		v.frame()
	case sdl.SCANCODE_F12:
		v.shoot = true
	case sdl.SCANCODE_S:
		path, err := v.cfg.Save()
		if err != nil {
			v.log.Warn("saving config failed", zap.Error(err))
			return nil
		}
		v.log.Info("config saved", zap.String("path", path))
	}
	return nil
}

// FillPreset maps digit keys to fill targets: 1 through 9 are tenths and
// 0 is full.
func FillPreset(key sdl.Scancode) (float32, bool) {
	switch {
	case key >= sdl.SCANCODE_1 && key <= sdl.SCANCODE_9:
		return float32(key-sdl.SCANCODE_1+1) / 10, true
	case key == sdl.SCANCODE_0:
		return 1, true
	}
	return 0, false
}

func (v *Viewer) pour(r *recipe.Recipe) error {
	if err := v.sim.PourRecipe(r); err != nil {
		return fmt.Errorf("pouring %s: %w", r.Name, err)
	}
	v.picked = ""
	v.frame()
	v.updateTitle(0)
	return nil
}

// frame points the camera at the current vessel's rest position.
func (v *Viewer) frame() {
	vs := v.sim.Vessel()
	if vs == nil {
		return
	}
	v.camera.FitToBounds(vs.Bounds)
}

func (v *Viewer) updateTitle(fps int) {
	title := "pourglass"
	if sel, ok := v.sim.Selection(); ok {
		title = fmt.Sprintf("pourglass | %s | %s", sel.Name, sel.Vessel)
		if f := v.sim.Fill(); f != nil {
			title += fmt.Sprintf(" | fill %.0f%%", f.Current()*100)
		}
	}
	if v.picked != "" {
		title += " | " + v.picked
	}
	if fps > 0 {
		title += fmt.Sprintf(" | %d fps", fps)
	}
	v.window.SetTitle(title)
}

// pick reports the inclusion under window point (x, y) in the title.
func (v *Viewer) pick(x, y int) {
	w, h := v.window.Size()
	ray := v.camera.Ray(float32(x), float32(y), float32(w), float32(h))
	inc, ok := v.sim.Choreographer().Pick(ray)
	if !ok {
		v.picked = ""
		return
	}
	v.picked = fmt.Sprintf("%s (%s)", inc.Name, inc.State)
	v.log.Info("picked inclusion",
		zap.Uint64("id", uint64(inc.ID)),
		zap.String("name", inc.Name),
		zap.Stringer("kind", inc.Kind),
		zap.Stringer("state", inc.State),
	)
}

// screenshot renders the current frame offscreen at the snapshot size.
func (v *Viewer) screenshot() {
	fb, err := framebuffer.New(int32(v.cfg.Snapshot.Width), int32(v.cfg.Snapshot.Height))
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	defer fb.Destroy()

	restore := fb.Bind()
	v.renderer.Render(v.sim.Root(), v.camera.ViewMatrix(), v.camera.ProjectionMatrix(fb.Aspect()))
	pixels := fb.ReadPixels()
	restore()

	w, h := fb.Size()
	path, err := v.capture.CaptureFromPixels(pixels, int(w), int(h))
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}
