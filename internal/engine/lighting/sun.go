// Package lighting provides the light rig of the viewer scene.
package lighting

import (
	"math"

	"github.com/Faultbox/depthview/internal/engine/scene"
)

// SunDirection converts azimuth/elevation angles in degrees to a unit vector
// pointing towards the sun. Azimuth rotates around Y from +Z, elevation rises from the horizon.
func SunDirection(azimuth, elevation float32) [3]float32 {
	az := float64(azimuth) * math.Pi / 180.0
	el := float64(elevation) * math.Pi / 180.0

	return [3]float32{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(math.Cos(el) * math.Cos(az)),
	}
}

// Rig is an ambient fill plus one directional key light.
type Rig struct {
	Color     scene.Color `yaml:"color"`
	Ambient   float32     `yaml:"ambient"`
	Intensity float32     `yaml:"intensity"`
	Azimuth   float32     `yaml:"azimuth"`
	Elevation float32     `yaml:"elevation"`
}

// DefaultRig lights the model from the upper front right.
func DefaultRig() Rig {
	return Rig{
		Color:     scene.White,
		Ambient:   0.4,
		Intensity: 1,
		Azimuth:   45,
		Elevation: 35,
	}
}

// Lights returns the scene lights of the rig. The key light direction is the
// direction its rays travel, from the sun towards the origin.
func (r Rig) Lights() []scene.Light {
	sun := SunDirection(r.Azimuth, r.Elevation)
	return []scene.Light{
		{Color: r.Color, Intensity: r.Ambient},
		{Color: r.Color, Intensity: r.Intensity, Direction: [3]float32{-sun[0], -sun[1], -sun[2]}},
	}
}
