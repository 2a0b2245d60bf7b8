// Package camera provides camera implementations for 3D rendering.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera supplies the matrices a draw call needs.
type Camera interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
}

// Perspective is a perspective camera looking from Position at Target.
type Perspective struct {
	FOV    float32 // Vertical field of view in degrees
	Aspect float32
	Near   float32
	Far    float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3

	projection mgl32.Mat4
}

// NewPerspective creates a perspective camera and computes its projection.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	c := &Perspective{
		FOV:    fov,
		Aspect: aspect,
		Near:   near,
		Far:    far,
		Up:     mgl32.Vec3{0, 1, 0},
	}
	c.UpdateProjection()
	return c
}

// UpdateProjection recomputes the projection matrix after FOV, Aspect, Near or Far change.
func (c *Perspective) UpdateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

// ProjectionMatrix returns the projection computed by the last UpdateProjection.
func (c *Perspective) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// ViewMatrix returns the look-at view matrix.
func (c *Perspective) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

// Orthographic is an axis-aligned orthographic camera at the origin looking down -Z.
type Orthographic struct {
	Left, Right, Bottom, Top, Near, Far float32
}

// NewFullScreen returns the camera used for full-screen passes: a unit clip-space box.
func NewFullScreen() *Orthographic {
	return &Orthographic{Left: -1, Right: 1, Bottom: -1, Top: 1, Near: 0, Far: 1}
}

// ProjectionMatrix returns the orthographic projection.
func (c *Orthographic) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
}

// ViewMatrix returns identity.
func (c *Orthographic) ViewMatrix() mgl32.Mat4 {
	return mgl32.Ident4()
}
