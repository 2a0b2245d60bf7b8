// Package window handles the SDL2 window, its OpenGL context and the refresh loop.
package window

import (
	"fmt"
	"runtime"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/depthview/internal/engine/input"
	"github.com/Faultbox/depthview/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// idleDelay paces the loop while no animation callback is installed.
const idleDelay = 16 * time.Millisecond

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	HighDPI    bool
}

// Window wraps the SDL2 window and OpenGL context. It is the display the viewer
// draws to and the source of its refresh callbacks.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	input     *input.Input

	resizeHooks []func()
	animate     func(now time.Time)
	quit        bool

	log *zap.Logger
}

// New creates a new window with an OpenGL 4.1 core context.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
		input:  input.New(),
		log:    logger.Named("window"),
	}

	w.log.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile is the maximum supported on macOS
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if cfg.HighDPI {
		flags |= sdl.WINDOW_ALLOW_HIGHDPI
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	interval := 0
	if cfg.VSync {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		w.log.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}

	cw, ch := w.ClientSize()
	w.log.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cw),
		zap.Int("height", ch),
		zap.Float64("pixel_ratio", w.PixelRatio()),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	w.log.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// ClientSize returns the logical size of the drawable area.
func (w *Window) ClientSize() (width, height int) {
	cw, ch := w.sdlWindow.GetSize()
	return int(cw), int(ch)
}

// PixelRatio returns drawable pixels per logical unit, above 1 on HiDPI displays.
func (w *Window) PixelRatio() float64 {
	cw, _ := w.sdlWindow.GetSize()
	dw, _ := w.sdlWindow.GLGetDrawableSize()
	if cw <= 0 || dw <= 0 {
		return 1
	}
	return float64(dw) / float64(cw)
}

// OnResize registers fn to run on every resize event.
func (w *Window) OnResize(fn func()) {
	w.resizeHooks = append(w.resizeHooks, fn)
}

// SetAnimationLoop installs the per-refresh callback; nil removes it.
func (w *Window) SetAnimationLoop(fn func(now time.Time)) {
	w.animate = fn
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// RequestQuit makes Run return after the current iteration.
func (w *Window) RequestQuit() {
	w.quit = true
}

// Run pumps events and refresh callbacks until the window is closed or RequestQuit
// is called. Each iteration polls events, fires resize hooks, hands every event to
// handle, runs the animation callback and presents the frame. before runs at the
// top of each iteration; it may be nil.
func (w *Window) Run(before func(), handle func(input.Event)) {
	for !w.quit {
		if before != nil {
			before()
		}

		if w.input.Update() {
			w.quit = true
		}
		for _, e := range w.input.Events() {
			if e.Type == input.EventWindowResize {
				for _, fn := range w.resizeHooks {
					fn()
				}
			}
			if handle != nil {
				handle(e)
			}
		}
		if w.quit {
			break
		}

		if w.animate == nil {
			sdl.Delay(uint32(idleDelay / time.Millisecond))
			continue
		}
		w.animate(time.Now())
		w.sdlWindow.GLSwap()
	}
}
