// Package framebuffer provides off-screen render targets with a sampleable depth channel.
package framebuffer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Options configure target allocation.
type Options struct {
	// Filter is the min/mag filter of both attachments, e.g. gl.NEAREST.
	Filter int32
	// DepthFormat is the depth texture internal format, e.g. gl.DEPTH_COMPONENT16.
	DepthFormat int32
}

// DefaultOptions samples depth without interpolation at 16-bit precision.
func DefaultOptions() Options {
	return Options{Filter: gl.NEAREST, DepthFormat: gl.DEPTH_COMPONENT16}
}

// Target is an off-screen framebuffer with an RGBA8 color texture and a depth texture.
// Its size is fixed; allocate a new target to change it.
type Target struct {
	fbo          uint32
	colorTexture uint32
	depthTexture uint32
	width        int32
	height       int32
}

// New allocates a target of the given pixel size.
func New(width, height int, opts Options) (*Target, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	if opts.Filter == 0 {
		opts.Filter = gl.NEAREST
	}
	if opts.DepthFormat == 0 {
		opts.DepthFormat = gl.DEPTH_COMPONENT16
	}

	t := &Target{width: int32(width), height: int32(height)}
	if err := t.create(opts); err != nil {
		return nil, fmt.Errorf("creating framebuffer: %w", err)
	}
	return t, nil
}

func (t *Target) create(opts Options) error {
	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	defer gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	gl.GenTextures(1, &t.colorTexture)
	gl.BindTexture(gl.TEXTURE_2D, t.colorTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, t.width, t.height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	setSampling(opts.Filter)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, t.colorTexture, 0)

	gl.GenTextures(1, &t.depthTexture)
	gl.BindTexture(gl.TEXTURE_2D, t.depthTexture)
	depthType := uint32(gl.UNSIGNED_SHORT)
	if opts.DepthFormat != gl.DEPTH_COMPONENT16 {
		depthType = gl.UNSIGNED_INT
	}
	gl.TexImage2D(gl.TEXTURE_2D, 0, opts.DepthFormat, t.width, t.height, 0, gl.DEPTH_COMPONENT, depthType, nil)
	setSampling(opts.Filter)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.depthTexture, 0)

	gl.BindTexture(gl.TEXTURE_2D, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.Dispose()
		return fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return nil
}

func setSampling(filter int32) {
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
}

// Bind makes this target current and covers it with the viewport.
func (t *Target) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, t.width, t.height)
}

// Unbind restores the default framebuffer.
func Unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ColorTexture returns the color attachment texture ID.
func (t *Target) ColorTexture() uint32 {
	return t.colorTexture
}

// DepthTexture returns the depth attachment texture ID.
func (t *Target) DepthTexture() uint32 {
	return t.depthTexture
}

// Size returns the target dimensions in pixels.
func (t *Target) Size() (width, height int) {
	return int(t.width), int(t.height)
}

// Dispose releases all OpenGL resources. It is safe to call more than once.
func (t *Target) Dispose() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
		t.fbo = 0
	}
	if t.colorTexture != 0 {
		gl.DeleteTextures(1, &t.colorTexture)
		t.colorTexture = 0
	}
	if t.depthTexture != 0 {
		gl.DeleteTextures(1, &t.depthTexture)
		t.depthTexture = 0
	}
}
