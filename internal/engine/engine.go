// Package engine wires the window, device, renderer, texture registry and
// scene into the frame loop: poll events, tick the scene, redraw only when
// the scene says so, swap.
package engine

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/engine/gfx"
	"github.com/Faultbox/lumen/internal/engine/input"
	"github.com/Faultbox/lumen/internal/engine/renderer"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/engine/texture"
	"github.com/Faultbox/lumen/internal/engine/window"
	"github.com/Faultbox/lumen/internal/logger"
)

// Engine is the top-level runtime. Everything it owns runs on the main
// thread; the engine is the single writer of the render tick.
type Engine struct {
	cfg *config.Config

	window   *window.Window
	renderer *renderer.Renderer
	textures *texture.Manager
	scene    *scene.Scene
	input    *input.State

	clearColor [4]float32
	running    bool

	// OnTick runs every tick before the redraw decision, whether or not
	// the frame draws.
	OnTick func(dt float64)

	framesDrawn   int
	framesSkipped int
}

// New creates the window, GL device and renderer, and an empty scene
// configured from cfg. Context acquisition failure is fatal.
func New(title string, cfg *config.Config) (*Engine, error) {
	e := &Engine{cfg: cfg, clearColor: cfg.Render.ClearColor}

	var err error
	e.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	// Device after window: the GL context must exist first.
	dev, err := gfx.NewGLDevice()
	if err != nil {
		e.window.Close()
		return nil, fmt.Errorf("creating GL device: %w", err)
	}

	e.renderer = renderer.New(dev, int32(cfg.Graphics.Width), int32(cfg.Graphics.Height))
	e.textures = texture.NewManager()
	e.input = input.New()

	e.scene = scene.New(e.textures)
	e.scene.Policy = scene.ParseRedrawPolicy(cfg.Render.RedrawPolicy)
	e.scene.FrustumCulling = cfg.Render.FrustumCulling

	logger.Info("engine initialized",
		zap.String("redrawPolicy", cfg.Render.RedrawPolicy),
		zap.Bool("frustumCulling", cfg.Render.FrustumCulling),
	)
	return e, nil
}

// Scene returns the engine's scene graph.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Renderer returns the renderer, for material type registration and
// diagnostics.
func (e *Engine) Renderer() *renderer.Renderer { return e.renderer }

// Textures returns the shared texture registry.
func (e *Engine) Textures() *texture.Manager { return e.textures }

// Input returns the per-tick input state.
func (e *Engine) Input() *input.State { return e.input }

// Stop ends the run loop after the current tick.
func (e *Engine) Stop() { e.running = false }

// Run drives the frame loop until Stop or a quit event.
func (e *Engine) Run() error {
	e.running = true

	lastTime := time.Now()
	statTimer := time.Now()

	var frameBudget time.Duration
	if e.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(e.cfg.Graphics.FPSLimit)
	}

	logger.Info("starting frame loop")

	for e.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		if e.pollEvents() {
			break
		}

		if e.OnTick != nil {
			e.OnTick(dt)
		}

		w, h := e.window.GetSize()
		aspect := float32(w) / float32(h)

		if e.scene.Update(frameStart, aspect) {
			e.renderer.BeginScene(e.clearColor[0], e.clearColor[1], e.clearColor[2], e.clearColor[3])
			e.scene.Render(e.renderer)
			e.renderer.EndScene()
			e.window.SwapBuffers()
			e.framesDrawn++
		} else {
			// Skipped frames still pace the loop so a static scene does
			// not spin a core.
			e.framesSkipped++
			if frameBudget == 0 {
				time.Sleep(time.Millisecond)
			}
		}

		if frameBudget > 0 {
			if remaining := frameBudget - time.Since(frameStart); remaining > 0 {
				time.Sleep(remaining)
			}
		}

		if time.Since(statTimer) >= time.Second {
			logger.Debug("frame stats",
				zap.Int("drawn", e.framesDrawn),
				zap.Int("skipped", e.framesSkipped),
				zap.Int("drawCalls", e.renderer.DrawCalls()),
				zap.Int("nodes", e.scene.NodesRendered),
			)
			e.framesDrawn = 0
			e.framesSkipped = 0
			statTimer = time.Now()
		}
	}

	return nil
}

// pollEvents runs the input poll and handles the events the engine owns.
// Returns true on quit.
func (e *Engine) pollEvents() bool {
	quit := e.input.Poll()
	for _, ev := range e.input.Events() {
		switch ev.Type {
		case input.EventKeyDown:
			if ev.Key == sdl.SCANCODE_ESCAPE {
				quit = true
			}
		case input.EventWindowResize:
			e.renderer.Resize(ev.Width, ev.Height)
			e.scene.ForceRedraw()
		}
	}
	return quit
}

// Close releases the renderer and window.
func (e *Engine) Close() {
	logger.Info("shutting down engine")
	if e.renderer != nil {
		e.renderer.Close()
	}
	if e.window != nil {
		e.window.Close()
	}
	logger.Sync()
}
