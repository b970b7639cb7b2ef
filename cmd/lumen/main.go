// Package main runs a demo scene: a lit spinning cube, an orbiting light,
// a billboard, a skybox and a screen-space overlay.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/lumen/internal/config"
	"github.com/Faultbox/lumen/internal/engine"
	"github.com/Faultbox/lumen/internal/engine/camera"
	"github.com/Faultbox/lumen/internal/engine/material"
	"github.com/Faultbox/lumen/internal/engine/mesh"
	"github.com/Faultbox/lumen/internal/engine/scene"
	"github.com/Faultbox/lumen/internal/logger"
	"github.com/Faultbox/lumen/pkg/math"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Lumen ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	e, err := engine.New("Lumen", cfg)
	if err != nil {
		logger.Error("failed to create engine", zap.Error(err))
		os.Exit(1)
	}
	defer e.Close()

	buildDemoScene(e)

	if err := e.Run(); err != nil {
		logger.Error("engine error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("engine closed normally")
}

func buildDemoScene(e *engine.Engine) {
	s := e.Scene()

	// Camera on an orbit controller.
	cam := scene.NewCameraNode("main-camera")
	orbit := camera.NewOrbitCamera()
	orbit.Distance = 300
	cam.SetViewOverride(orbit.ViewMatrix())
	s.Add(cam)
	s.SetActiveCamera(cam)

	// Mouse drag and wheel drive the orbit; when idle the camera circles
	// the scene on its own.
	e.OnTick = func(dt float64) {
		in := e.Input()
		if in.Dragging() {
			dx, dy := in.DragDelta()
			orbit.HandleDrag(dx, dy)
		} else {
			orbit.HandleDrag(float32(dt)*40, 0)
		}
		if wheel := in.WheelDelta(); wheel != 0 {
			orbit.HandleZoom(wheel)
		}
		cam.SetViewOverride(orbit.ViewMatrix())
	}

	// White 1x1 texture for untextured surfaces.
	white := e.Textures().Get("white")
	white.Upload(e.Renderer().Device(), 1, 1, []byte{255, 255, 255, 255}, false)
	e.Textures().MarkLoaded(white)

	// Sky.
	sky := scene.NewSkyBoxNode("sky", white)
	sky.Buffer().Mat.Tex1 = white
	s.Add(sky)

	// Lit spinning cube.
	cube := mesh.NewCube(80)
	cube.Mat = material.Material{
		Type:            material.Solid,
		Tex1:            white,
		Lit:             true,
		ZWriteEnabled:   true,
		ZTestEnabled:    true,
		BackfaceCulling: true,
	}
	cubeNode := scene.NewMeshNode("cube", cube)
	cubeNode.AddAnimator(&scene.RotationAnimator{Speed: math.Vec3{Y: 45}})
	s.Add(cubeNode)

	// Orbiting point light plus a faint sun.
	light := scene.NewLightNode("orbit-light", 400)
	light.Color = [4]float32{1, 0.85, 0.6, 1}
	light.AddAnimator(&scene.FlyCircleAnimator{Radius: 150, Speed: 1.2})
	s.Add(light)

	sun := scene.NewDirectionalLightNode("sun", math.Vec3{X: -0.4, Y: -1, Z: -0.3})
	sun.Color = [4]float32{0.25, 0.25, 0.3, 1}
	s.Add(sun)

	// Camera-facing billboard above the cube.
	bb := scene.NewBillboardNode("marker", white, 30, 30)
	bb.SetPosition(math.Vec3{Y: 90})
	s.Add(bb)

	// Screen-space overlay bar.
	s.Add(scene.NewOverlayRect("hud", 10, 10, 200, 24, [4]float32{0, 0, 0, 0.5}))
}
