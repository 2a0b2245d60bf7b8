package viewer

import (
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/depthview/internal/engine/camera"
	"github.com/Faultbox/depthview/internal/logger"
)

// Resizer keeps the camera aspect and the surface size equal to the display's client
// area. Every resize signal is handled synchronously; there is no debouncing.
type Resizer struct {
	display Display
	camera  *camera.Perspective
	surface Surface

	hooks   []func()
	pending bool

	log *zap.Logger
}

// NewResizer applies the current size and subscribes to the display's resize signal.
func NewResizer(display Display, cam *camera.Perspective, surface Surface) *Resizer {
	r := &Resizer{
		display: display,
		camera:  cam,
		surface: surface,
		log:     logger.Named("resizer"),
	}
	r.ApplySize()
	display.OnResize(r.handleResize)
	return r
}

// OnResize registers a hook run after sizing is re-applied on each resize signal.
func (r *Resizer) OnResize(fn func()) {
	r.hooks = append(r.hooks, fn)
}

// Pending reports whether an apply was deferred because the display had no area.
func (r *Resizer) Pending() bool {
	return r.pending
}

// ApplySize syncs camera and surface with the display. It returns false and defers
// when the display has a zero dimension.
func (r *Resizer) ApplySize() bool {
	w, h := r.display.ClientSize()
	if w <= 0 || h <= 0 {
		r.pending = true
		r.log.Debug("resize deferred", zap.Int("width", w), zap.Int("height", h))
		return false
	}

	ratio := r.display.PixelRatio()
	r.camera.Aspect = float32(w) / float32(h)
	r.camera.UpdateProjection()
	r.surface.SetSize(w, h)
	r.surface.SetPixelRatio(ratio)
	r.pending = false

	r.log.Debug("viewport sized",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Float64("pixel_ratio", ratio),
	)
	return true
}

// Tick retries a deferred apply.
func (r *Resizer) Tick(time.Duration) {
	if r.pending {
		r.ApplySize()
	}
}

func (r *Resizer) handleResize() {
	r.ApplySize()
	for _, fn := range r.hooks {
		fn()
	}
}
