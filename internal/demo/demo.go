// Package demo runs the interactive fog viewer: a small scene rendered
// offscreen, fogged by the post pass and presented to an SDL window.
package demo

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/stylistic-fog/internal/config"
	"github.com/Faultbox/stylistic-fog/internal/engine/camera"
	"github.com/Faultbox/stylistic-fog/internal/engine/debug"
	"github.com/Faultbox/stylistic-fog/internal/engine/fog"
	"github.com/Faultbox/stylistic-fog/internal/engine/framebuffer"
	"github.com/Faultbox/stylistic-fog/internal/engine/input"
	"github.com/Faultbox/stylistic-fog/internal/engine/pipeline"
	"github.com/Faultbox/stylistic-fog/internal/engine/postfx"
	"github.com/Faultbox/stylistic-fog/internal/engine/renderer"
	"github.com/Faultbox/stylistic-fog/internal/engine/texture"
	"github.com/Faultbox/stylistic-fog/internal/engine/window"
	"github.com/Faultbox/stylistic-fog/internal/logger"
)

const title = "Stylistic Fog"

// Demo is the viewer instance.
type Demo struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	scene    *renderer.Renderer
	camera   *camera.OrbitCamera
	color    *framebuffer.Framebuffer
	pipeline *pipeline.Pipeline
	material *postfx.FogMaterial
	feature  *fog.Feature
	input    *input.Input
	shots    *debug.ScreenshotCapture

	width, height int32
}

// New creates the window and every GPU resource the viewer needs.
func New(cfg *config.Config) (*Demo, error) {
	d := &Demo{
		cfg:    cfg,
		log:    logger.Named("demo"),
		camera: camera.NewOrbitCamera(),
		input:  input.New(),
		shots:  debug.NewScreenshotCapture("screenshots", "fog"),
	}

	var err error
	d.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Everything below needs the GL context.
	if err := d.init(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func (d *Demo) init() error {
	d.width, d.height = d.window.DrawableSize()
	d.camera.SetViewport(d.width, d.height)

	var err error
	if d.scene, err = renderer.New(renderer.DefaultConfig(), logger.Named("scene")); err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	if d.color, err = framebuffer.New(d.width, d.height); err != nil {
		return fmt.Errorf("failed to create colour target: %w", err)
	}
	if d.pipeline, err = pipeline.New(logger.Named("pipeline")); err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	if d.material, err = postfx.NewFogMaterial(logger.Named("postfx")); err != nil {
		return fmt.Errorf("failed to create fog material: %w", err)
	}

	// A ramp that fails to load leaves the term untinted; the pass warns.
	if err := texture.ResolveRamps(&d.cfg.Fog, d.cfg.ResolvePath); err != nil {
		d.log.Warn("loading fog ramp", zap.Error(err))
	}

	d.feature = fog.NewFeature(d.cfg.Fog, d.material, logger.Named("fog"))
	d.feature.Create()

	d.log.Info("demo initialized",
		zap.Int32("width", d.width),
		zap.Int32("height", d.height),
		zap.Stringer("event", d.feature.Pass().Event()),
	)
	return nil
}

// Run starts the main loop and returns when the window is closed.
func (d *Demo) Run() error {
	d.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget time.Duration
	if d.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(d.cfg.Graphics.FPSLimit)
	}

	d.log.Info("starting render loop")

	for d.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if d.input.Update() {
			break
		}
		d.handleEvents()
		d.update(dt)

		stats := d.render()
		d.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			d.window.SetTitle(fmt.Sprintf("%s - %d fps - %s", title, frameCount, d.feature.Pass().Variant()))
			d.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("passes", stats.Passes),
				zap.Int("blits", stats.Blits),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(now); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

func (d *Demo) handleEvents() {
	pass := d.feature.Pass()

	for _, event := range d.input.Events() {
		switch event.Type {
		case input.EventWindowResize:
			d.width, d.height = d.window.DrawableSize()
			d.color.Resize(d.width, d.height)
			d.camera.SetViewport(d.width, d.height)

		case input.EventMouseMove:
			if d.input.IsButtonDown(sdl.BUTTON_LEFT) {
				d.camera.HandleDrag(float32(event.DeltaX), float32(event.DeltaY))
			}

		case input.EventMouseWheel:
			d.camera.HandleZoom(event.Wheel)

		case input.EventKeyDown:
			if event.Repeat {
				continue
			}
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				d.running = false
			case sdl.SCANCODE_F12:
				d.screenshot()
			case sdl.SCANCODE_F5:
				d.saveConfig()
			default:
				if msg := applyKey(pass, event.Key); msg != "" {
					d.log.Info(msg, zap.Stringer("variant", fog.Select(pass.DistanceFog(), pass.HeightFog())))
				}
			}
		}
	}
}

// update moves the camera with WASD/QE.
func (d *Demo) update(dt float64) {
	var forward, right, up float32
	if d.input.IsKeyDown(sdl.SCANCODE_W) {
		forward++
	}
	if d.input.IsKeyDown(sdl.SCANCODE_S) {
		forward--
	}
	if d.input.IsKeyDown(sdl.SCANCODE_D) {
		right++
	}
	if d.input.IsKeyDown(sdl.SCANCODE_A) {
		right--
	}
	if d.input.IsKeyDown(sdl.SCANCODE_E) {
		up++
	}
	if d.input.IsKeyDown(sdl.SCANCODE_Q) {
		up--
	}
	if forward != 0 || right != 0 || up != 0 {
		s := float32(dt * 60)
		d.camera.HandleMovement(forward*s, right*s, up*s)
	}
}

func (d *Demo) render() pipeline.Stats {
	d.scene.Draw(d.camera, d.color)
	d.feature.AddRenderPasses(d.pipeline, d.color)
	stats := d.pipeline.Render(d.camera, d.color)
	d.pipeline.Present(d.color, d.width, d.height)
	return stats
}

func (d *Demo) screenshot() {
	w, h := d.color.Size()
	path, err := d.shots.CaptureFromPixels(d.color.ReadPixels(), int(w), int(h))
	if err != nil {
		d.log.Error("screenshot failed", zap.Error(err))
		return
	}
	d.log.Info("screenshot saved", zap.String("path", path))
}

// saveConfig writes the live fog settings back to the config file.
func (d *Demo) saveConfig() {
	pass := d.feature.Pass()
	d.cfg.Fog.DistanceFog = pass.DistanceFog()
	d.cfg.Fog.HeightFog = pass.HeightFog()

	var err error
	if path := d.cfg.Path(); path != "" {
		err = d.cfg.SaveTo(path)
	} else {
		err = d.cfg.Save()
	}
	if err != nil {
		d.log.Error("saving config failed", zap.Error(err))
		return
	}
	d.log.Info("config saved", zap.String("path", d.cfg.Path()))
}

// Close releases all resources in reverse creation order.
func (d *Demo) Close() {
	d.log.Info("closing demo")

	if d.feature != nil {
		d.feature.Close()
	}
	if d.material != nil {
		d.material.Destroy()
	}
	if d.pipeline != nil {
		d.pipeline.Destroy()
	}
	if d.color != nil {
		d.color.Destroy()
	}
	if d.scene != nil {
		d.scene.Close()
	}
	if d.window != nil {
		d.window.Close()
	}
}
