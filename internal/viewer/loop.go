package viewer

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/depthview/internal/engine/camera"
	"github.com/Faultbox/depthview/internal/engine/scene"
	"github.com/Faultbox/depthview/internal/logger"
)

// Loop drives one rendering decision per display refresh.
type Loop struct {
	refresh RefreshSource
	backend Backend
	modes   *ModeController
	depth   *DepthPass

	scene  *scene.Scene
	camera camera.Camera

	updatables []Updatable
	afterFrame []func()

	running  bool
	lastTick time.Time
	ticked   bool

	// Statistics
	frames     uint64
	fpsFrames  int
	fpsStarted time.Time

	log *zap.Logger
}

// LoopConfig wires the collaborators of a Loop.
type LoopConfig struct {
	Refresh RefreshSource
	Backend Backend
	Modes   *ModeController
	Depth   *DepthPass
	Scene   *scene.Scene
	Camera  camera.Camera
}

// NewLoop creates a stopped loop.
func NewLoop(cfg LoopConfig) *Loop {
	return &Loop{
		refresh: cfg.Refresh,
		backend: cfg.Backend,
		modes:   cfg.Modes,
		depth:   cfg.Depth,
		scene:   cfg.Scene,
		camera:  cfg.Camera,
		log:     logger.Named("loop"),
	}
}

// RegisterUpdatable appends u. Updatables tick in registration order before drawing.
func (l *Loop) RegisterUpdatable(u Updatable) {
	l.updatables = append(l.updatables, u)
}

// OnFrame registers fn to run after each drawn frame.
func (l *Loop) OnFrame(fn func()) {
	l.afterFrame = append(l.afterFrame, fn)
}

// SetScene replaces the scene drawn by the loop. Nil skips frames.
func (l *Loop) SetScene(s *scene.Scene) {
	l.scene = s
}

// SetCamera replaces the camera. Nil skips frames.
func (l *Loop) SetCamera(c camera.Camera) {
	l.camera = c
}

// Running reports whether the refresh callback is installed.
func (l *Loop) Running() bool {
	return l.running
}

// Frames returns the number of frames drawn.
func (l *Loop) Frames() uint64 {
	return l.frames
}

// Start installs the per-refresh callback. Calling Start while running does nothing.
func (l *Loop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.ticked = false
	l.refresh.SetAnimationLoop(l.frame)
	l.log.Info("frame loop started")
}

// Stop removes the per-refresh callback. Stopping a stopped loop does nothing.
func (l *Loop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	l.refresh.SetAnimationLoop(nil)
	l.log.Info("frame loop stopped", zap.Uint64("frames", l.frames))
}

func (l *Loop) frame(now time.Time) {
	// A refresh source may still deliver a callback queued before Stop.
	if !l.running {
		return
	}

	var delta time.Duration
	if l.ticked {
		delta = now.Sub(l.lastTick)
	}
	l.lastTick = now
	l.ticked = true

	// Expected while the model is still loading.
	if l.scene == nil || l.camera == nil {
		return
	}

	for _, u := range l.updatables {
		u.Tick(delta)
	}

	if err := l.draw(); err != nil {
		l.log.Error("frame failed", zap.Error(err))
	}

	for _, fn := range l.afterFrame {
		fn()
	}

	l.frames++
	l.trackFPS(now)
}

func (l *Loop) draw() error {
	if l.modes != nil && l.modes.DepthActive() && l.depth != nil {
		return l.depth.Render(l.scene, l.camera)
	}
	l.backend.SetRenderTarget(nil)
	return l.backend.Render(l.scene, l.camera)
}

func (l *Loop) trackFPS(now time.Time) {
	if l.fpsStarted.IsZero() {
		l.fpsStarted = now
	}
	l.fpsFrames++
	if elapsed := now.Sub(l.fpsStarted); elapsed >= time.Second {
		l.log.Debug("fps",
			zap.Float64("fps", float64(l.fpsFrames)/elapsed.Seconds()),
			zap.Uint64("frames", l.frames),
		)
		l.fpsFrames = 0
		l.fpsStarted = now
	}
}
