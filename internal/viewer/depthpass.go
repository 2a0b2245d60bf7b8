package viewer

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/depthview/internal/engine/camera"
	"github.com/Faultbox/depthview/internal/engine/scene"
	"github.com/Faultbox/depthview/internal/logger"
)

// ErrEmptyViewport is returned when the display has no drawable area yet.
var ErrEmptyViewport = errors.New("viewport has zero size")

// TargetState is the lifecycle state of the depth pass render target.
type TargetState int

const (
	TargetUninitialized TargetState = iota
	TargetAllocated
	TargetStale
)

func (s TargetState) String() string {
	switch s {
	case TargetUninitialized:
		return "uninitialized"
	case TargetAllocated:
		return "allocated"
	case TargetStale:
		return "stale"
	default:
		return fmt.Sprintf("TargetState(%d)", int(s))
	}
}

// DepthPass renders the scene into an off-screen target and draws its depth channel
// to the display as a false-color image.
type DepthPass struct {
	backend Backend
	display Display

	target RenderTarget
	state  TargetState

	uniform *scene.DepthUniform
	quad    *scene.Scene
	ortho   *camera.Orthographic

	log *zap.Logger
}

// NewDepthPass creates a depth pass. No target is allocated until first use.
func NewDepthPass(backend Backend, display Display) *DepthPass {
	u := &scene.DepthUniform{}
	quad := scene.New()
	quad.Add(&scene.Node{
		Name: "depth_quad",
		Submeshes: []*scene.Submesh{
			scene.NewSubmesh("quad", FullScreenQuad(), scene.NewDepthVisualizationMaterial(u)),
		},
	})

	return &DepthPass{
		backend: backend,
		display: display,
		uniform: u,
		quad:    quad,
		ortho:   camera.NewFullScreen(),
		log:     logger.Named("depthpass"),
	}
}

// State returns the target lifecycle state.
func (p *DepthPass) State() TargetState {
	return p.state
}

// Target returns the live render target, or nil.
func (p *DepthPass) Target() RenderTarget {
	return p.target
}

// Uniform returns the depth sampler uniform of the full-screen material.
func (p *DepthPass) Uniform() *scene.DepthUniform {
	return p.uniform
}

// TargetSize returns the display size in physical pixels.
func (p *DepthPass) TargetSize() (width, height int) {
	w, h := p.display.ClientSize()
	ratio := p.display.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}
	return int(math.Round(float64(w) * ratio)), int(math.Round(float64(h) * ratio))
}

// InitRenderTarget allocates a target matching the display. A live target of the
// right size is kept; any other is disposed before the new one is created.
func (p *DepthPass) InitRenderTarget() error {
	w, h := p.TargetSize()
	if w <= 0 || h <= 0 {
		return ErrEmptyViewport
	}

	if p.target != nil {
		if tw, th := p.target.Size(); tw == w && th == h {
			return nil
		}
		p.release()
	}

	t, err := p.backend.NewRenderTarget(w, h, TargetOptions{
		Filter:      FilterNearest,
		DepthFormat: DepthUnsigned16,
	})
	if err != nil {
		return fmt.Errorf("allocating depth target %dx%d: %w", w, h, err)
	}

	p.target = t
	p.state = TargetAllocated
	p.log.Debug("depth target allocated", zap.Int("width", w), zap.Int("height", h))
	return nil
}

// Invalidate disposes the live target. The next Render reallocates.
func (p *DepthPass) Invalidate() {
	if p.target == nil {
		return
	}
	p.release()
	p.state = TargetStale
}

// Render draws the scene into the target, then the depth visualization to the display.
// An empty viewport skips the frame.
func (p *DepthPass) Render(s *scene.Scene, cam camera.Camera) error {
	if err := p.InitRenderTarget(); err != nil {
		if errors.Is(err, ErrEmptyViewport) {
			return nil
		}
		return err
	}

	p.backend.SetRenderTarget(p.target)
	if err := p.backend.Render(s, cam); err != nil {
		p.backend.SetRenderTarget(nil)
		return fmt.Errorf("depth pass: %w", err)
	}

	// Rebound every frame: the target may have been recreated since the last one.
	p.uniform.Texture = p.target.DepthTexture()

	p.backend.SetRenderTarget(nil)
	if err := p.backend.Render(p.quad, p.ortho); err != nil {
		return fmt.Errorf("depth visualization pass: %w", err)
	}
	return nil
}

// Dispose releases the target for good.
func (p *DepthPass) Dispose() {
	if p.target != nil {
		p.release()
	}
	p.state = TargetUninitialized
}

func (p *DepthPass) release() {
	p.target.Dispose()
	p.target = nil
	p.uniform.Texture = 0
}

// FullScreenQuad returns two triangles covering clip space with 0..1 texture coordinates.
func FullScreenQuad() *scene.Geometry {
	return &scene.Geometry{
		Positions: []float32{
			-1, -1, 0,
			1, -1, 0,
			1, 1, 0,
			-1, 1, 0,
		},
		Normals: []float32{
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
			0, 0, 1,
		},
		UVs:     []float32{0, 0, 1, 0, 1, 1, 0, 1},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	}
}
