// Package viewer implements the render scheduling core of the model viewer: the frame
// loop, the viewport resizer, the dual-pass depth visualization and the material modes.
package viewer

import (
	"time"

	"github.com/Faultbox/depthview/internal/engine/camera"
	"github.com/Faultbox/depthview/internal/engine/scene"
)

// Filter is a texture sampling filter.
type Filter int

const (
	FilterNearest Filter = iota
	FilterLinear
)

// DepthFormat is the storage precision of a render target's depth channel.
type DepthFormat int

const (
	DepthUnsigned16 DepthFormat = iota
	DepthUnsigned24
)

// TargetOptions configure a render target allocation.
type TargetOptions struct {
	Filter      Filter
	DepthFormat DepthFormat
}

// RenderTarget is an off-screen color+depth destination. Its size is fixed for its lifetime.
type RenderTarget interface {
	Size() (width, height int)
	// DepthTexture returns the handle of the sampleable depth channel.
	DepthTexture() uint32
	Dispose()
}

// Backend draws scenes. A nil target means the display.
type Backend interface {
	SetRenderTarget(t RenderTarget)
	Render(s *scene.Scene, cam camera.Camera) error
	NewRenderTarget(width, height int, opts TargetOptions) (RenderTarget, error)
}

// Surface is the on-screen drawing surface.
type Surface interface {
	SetSize(width, height int)
	SetPixelRatio(ratio float64)
}

// Display is the window hosting the surface.
type Display interface {
	// ClientSize returns the logical size of the drawable area.
	ClientSize() (width, height int)
	// PixelRatio returns physical pixels per logical unit.
	PixelRatio() float64
	// OnResize registers fn to run on every resize signal.
	OnResize(fn func())
}

// RefreshSource invokes a callback once per display refresh.
// Passing nil cancels the callback.
type RefreshSource interface {
	SetAnimationLoop(fn func(now time.Time))
}

// Updatable is advanced once per frame before drawing.
type Updatable interface {
	Tick(delta time.Duration)
}

// UpdatableFunc adapts a function to Updatable.
type UpdatableFunc func(delta time.Duration)

// Tick calls f(delta).
func (f UpdatableFunc) Tick(delta time.Duration) { f(delta) }
