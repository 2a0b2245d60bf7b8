package camera

import (
	gomath "math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// OrbitControls orbits a perspective camera around a target point.
// Pointer input accumulates pending motion; Tick applies it with damping.
type OrbitControls struct {
	camera *Perspective

	// Spherical coordinates around Target
	Distance float32
	Pitch    float32 // Vertical angle (radians)
	Yaw      float32 // Horizontal angle (radians)
	Target   mgl32.Vec3

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	RotateSensitivity float32
	ZoomSensitivity   float32
	PanSensitivity    float32

	// Damping is the fraction of pending motion applied per 60 Hz frame. 1 disables damping.
	Damping float32

	pendingYaw   float32
	pendingPitch float32
	pendingZoom  float32
	pendingPan   mgl32.Vec3
}

// NewOrbitControls creates controls for c, starting from its current position.
func NewOrbitControls(c *Perspective) *OrbitControls {
	o := &OrbitControls{
		camera:            c,
		Target:            c.Target,
		MinDistance:       0.5,
		MaxDistance:       50,
		MinPitch:          -1.5,
		MaxPitch:          1.5,
		RotateSensitivity: 0.005,
		ZoomSensitivity:   0.1,
		PanSensitivity:    0.002,
		Damping:           0.05,
	}

	offset := c.Position.Sub(c.Target)
	o.Distance = offset.Len()
	if o.Distance > 0 {
		o.Pitch = float32(gomath.Asin(float64(offset.Y() / o.Distance)))
		o.Yaw = float32(gomath.Atan2(float64(offset.X()), float64(offset.Z())))
	}
	o.apply()
	return o
}

// HandleDrag queues a rotation from a pointer drag in pixels.
func (o *OrbitControls) HandleDrag(deltaX, deltaY float32) {
	o.pendingYaw -= deltaX * o.RotateSensitivity
	o.pendingPitch += deltaY * o.RotateSensitivity
}

// HandleZoom queues a dolly from a wheel delta. Positive zooms in.
func (o *OrbitControls) HandleZoom(delta float32) {
	o.pendingZoom += delta * o.ZoomSensitivity
}

// HandlePan queues a pan of the target in the camera plane.
func (o *OrbitControls) HandlePan(deltaX, deltaY float32) {
	yaw := float64(o.Yaw)
	right := mgl32.Vec3{float32(gomath.Cos(yaw)), 0, float32(-gomath.Sin(yaw))}
	up := mgl32.Vec3{0, 1, 0}
	scale := o.Distance * o.PanSensitivity
	o.pendingPan = o.pendingPan.Add(right.Mul(-deltaX * scale)).Add(up.Mul(deltaY * scale))
}

// Tick applies a damped share of the pending motion and moves the camera.
func (o *OrbitControls) Tick(delta time.Duration) {
	f := o.dampingShare(delta)

	o.Yaw += o.pendingYaw * f
	o.Pitch += o.pendingPitch * f
	o.Distance -= o.pendingZoom * o.Distance * f
	o.Target = o.Target.Add(o.pendingPan.Mul(f))

	o.pendingYaw *= 1 - f
	o.pendingPitch *= 1 - f
	o.pendingZoom *= 1 - f
	o.pendingPan = o.pendingPan.Mul(1 - f)

	o.apply()
}

func (o *OrbitControls) dampingShare(delta time.Duration) float32 {
	if o.Damping <= 0 || o.Damping >= 1 {
		return 1
	}
	frames := delta.Seconds() * 60
	if frames <= 0 {
		return 0
	}
	return float32(1 - gomath.Pow(float64(1-o.Damping), frames))
}

// apply clamps the spherical coordinates and writes the camera position.
func (o *OrbitControls) apply() {
	o.Pitch = clamp(o.Pitch, o.MinPitch, o.MaxPitch)
	o.Distance = clamp(o.Distance, o.MinDistance, o.MaxDistance)

	pitch, yaw := float64(o.Pitch), float64(o.Yaw)
	offset := mgl32.Vec3{
		o.Distance * float32(gomath.Cos(pitch)*gomath.Sin(yaw)),
		o.Distance * float32(gomath.Sin(pitch)),
		o.Distance * float32(gomath.Cos(pitch)*gomath.Cos(yaw)),
	}
	o.camera.Target = o.Target
	o.camera.Position = o.Target.Add(offset)
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
