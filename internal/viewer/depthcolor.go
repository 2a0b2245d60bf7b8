package viewer

import "math"

// Depth band thresholds of the false-color depth shader.
const (
	DepthFarCutoff  = 0.995
	DepthNearCutoff = 0.875
)

// DepthColor is the CPU reference of the depth visualization fragment shader.
// It returns the RGBA written for a normalized depth, or ok=false when the fragment
// is left unwritten.
func DepthColor(depth float64) (rgba [4]float64, ok bool) {
	if depth >= DepthFarCutoff {
		return rgba, false
	}
	x := math.Pow(depth*math.Pi, 2.5)
	rgba = [4]float64{math.Cos(x), math.Sin(x), -math.Cos(x), 1}
	if depth < DepthNearCutoff {
		rgba = [4]float64{1, 0, 0, 1}
	}
	return rgba, true
}
