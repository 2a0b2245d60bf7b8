// Package app wires the window, renderer, asset loader and viewer core together.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/depthview/internal/asset"
	"github.com/Faultbox/depthview/internal/config"
	"github.com/Faultbox/depthview/internal/engine/camera"
	"github.com/Faultbox/depthview/internal/engine/debug"
	"github.com/Faultbox/depthview/internal/engine/input"
	"github.com/Faultbox/depthview/internal/engine/renderer"
	"github.com/Faultbox/depthview/internal/engine/scene"
	"github.com/Faultbox/depthview/internal/engine/window"
	"github.com/Faultbox/depthview/internal/logger"
	"github.com/Faultbox/depthview/internal/viewer"
)

// modelRoot names the node the loaded hierarchy is attached under.
const modelRoot = "scene_root"

// App is the running viewer.
type App struct {
	cfg *config.Config

	window   *window.Window
	renderer *renderer.Renderer
	scene    *scene.Scene
	camera   *camera.Perspective
	router   *input.Router

	phase    Phase
	cancel   context.CancelFunc
	results  <-chan asset.Result
	progress <-chan asset.Progress

	// Set once the model is loaded.
	model       *asset.Handle
	modes       *viewer.ModeController
	depth       *viewer.DepthPass
	resizer     *viewer.Resizer
	controls    *camera.OrbitControls
	loop        *viewer.Loop
	screenshots *debug.Screenshots

	log *zap.Logger
}

// New opens the window and starts loading the configured model.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:    cfg,
		router: input.NewRouter(),
		log:    logger.Named("app"),
	}

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		HighDPI:    cfg.Window.HighDPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer AFTER window, since the OpenGL context must exist
	a.renderer, err = renderer.New(renderer.Config{TextureRoot: cfg.Asset.Root})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.scene, err = newScene(cfg.Render)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.camera = camera.NewPerspective(cfg.Render.FOV, 1, cfg.Render.Near, cfg.Render.Far)
	a.camera.Position = mgl32.Vec3{0, 0, cfg.Render.CameraDistance}

	a.router.Bind(keyQuit, a.window.RequestQuit)
	a.router.Quit = a.window.RequestQuit

	loader := asset.NewLoader(asset.DirSource{}, asset.ManifestDecoder{})
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.results, a.progress = loader.LoadAsync(ctx,
		cfg.AssetPath(cfg.Asset.MaterialLibrary),
		cfg.AssetPath(cfg.Asset.Geometry),
		modelRoot,
	)
	a.setPhase(PhaseLoading)

	return a, nil
}

// newScene creates the scene with the configured background and light rig.
func newScene(rc config.RenderConfig) (*scene.Scene, error) {
	s := scene.New()
	if rc.Background != "" {
		bg, err := scene.ParseColor(rc.Background)
		if err != nil {
			return nil, fmt.Errorf("render background: %w", err)
		}
		s.SetBackground(bg)
	}
	s.Lights = rc.Lights.Lights()
	return s, nil
}

// Run pumps the window until it is closed.
func (a *App) Run() error {
	a.log.Info("starting viewer loop")
	a.window.Run(a.poll, a.router.Handle)
	if a.phase == PhaseFailed {
		return errors.New("model failed to load")
	}
	return nil
}

// poll drains load progress and applies a finished load. It runs on the main thread
// before each iteration, so every scene mutation stays on one goroutine.
func (a *App) poll() {
	if a.phase != PhaseLoading {
		return
	}

	for {
		select {
		case p, ok := <-a.progress:
			if !ok {
				a.progress = nil
				continue
			}
			a.window.SetTitle(loadingTitle(a.cfg.Window.Title, p))
			continue
		case res := <-a.results:
			a.finishLoad(res)
			return
		default:
			return
		}
	}
}

func (a *App) finishLoad(res asset.Result) {
	if res.Err != nil {
		a.setPhase(PhaseFailed)
		a.window.SetTitle(fmt.Sprintf("%s - load failed: %v", a.cfg.Window.Title, res.Err))
		return
	}
	if err := a.attach(res.Handle); err != nil {
		a.log.Error("model setup failed", zap.Error(err))
		a.setPhase(PhaseFailed)
		a.window.SetTitle(fmt.Sprintf("%s - %v", a.cfg.Window.Title, err))
		return
	}
	a.window.SetTitle(a.cfg.Window.Title)
	a.setPhase(PhaseViewing)
}

// attach remaps the loaded model, captures the binding table and starts the frame loop.
func (a *App) attach(h *asset.Handle) error {
	a.model = h
	a.scene.Add(h.Root)

	if plan := a.cfg.AssetPath(a.cfg.Asset.Plan); plan != "" {
		p, err := viewer.LoadPlan(plan)
		if err != nil {
			return err
		}
		if err := viewer.Remap(h.Root, p); err != nil {
			// Misses are already logged; the model stays usable.
			a.log.Warn("material plan applied with errors", zap.Int("errors", len(multierr.Errors(err))))
		}
	}

	table := viewer.NewBindingTable(h.Submeshes())
	logBindings(a.log, table)

	a.modes = viewer.NewModeController(h.Submeshes(), table)
	if err := a.applyInitialMode(); err != nil {
		a.log.Warn("initial render mode ignored", zap.Error(err))
	}

	a.depth = viewer.NewDepthPass(a.renderer, a.window)
	a.resizer = viewer.NewResizer(a.window, a.camera, a.renderer)
	a.resizer.OnResize(a.depth.Invalidate)

	a.controls = camera.NewOrbitControls(a.camera)
	a.router.Orbit = a.controls.HandleDrag
	a.router.Pan = a.controls.HandlePan
	a.router.Zoom = a.controls.HandleZoom

	a.screenshots = debug.NewScreenshots(a.renderer, a.cfg.Render.ScreenshotDir, "depthview")
	bindKeys(a.router, a.modes, a.screenshots)

	a.loop = viewer.NewLoop(viewer.LoopConfig{
		Refresh: a.window,
		Backend: a.renderer,
		Modes:   a.modes,
		Depth:   a.depth,
		Scene:   a.scene,
		Camera:  a.camera,
	})
	a.loop.RegisterUpdatable(a.resizer)
	a.loop.RegisterUpdatable(a.controls)
	a.loop.OnFrame(a.screenshots.AfterFrame)
	a.loop.Start()
	return nil
}

func (a *App) applyInitialMode() error {
	wire, err := scene.ParseColor(a.cfg.Render.WireframeColor)
	if err != nil {
		return err
	}
	a.modes.SetWireframeColor(wire)

	mode, err := viewer.ParseMode(a.cfg.Render.InitialMode)
	if err != nil {
		return err
	}
	return a.modes.SetMode(mode)
}

func (a *App) setPhase(p Phase) {
	if a.phase == p {
		return
	}
	a.log.Info("phase changed", zap.Stringer("from", a.phase), zap.Stringer("to", p))
	a.phase = p
}

// Close stops the loop and releases every resource.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.cancel != nil {
		a.cancel()
	}
	if a.loop != nil {
		a.loop.Stop()
	}
	if a.depth != nil {
		a.depth.Dispose()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// logBindings lists each submesh with its captured slot materials.
func logBindings(log *zap.Logger, table *viewer.BindingTable) {
	for _, name := range table.Names() {
		log.Info("submesh",
			zap.String("name", name),
			zap.String("materials", strings.Join(table.MaterialNames(name), ", ")),
		)
	}
}

func loadingTitle(base string, p asset.Progress) string {
	if p.Total <= 0 {
		return fmt.Sprintf("%s - loading %s (%d bytes)", base, p.Stage, p.Loaded)
	}
	return fmt.Sprintf("%s - loading %s %.0f%%", base, p.Stage, p.Fraction()*100)
}
