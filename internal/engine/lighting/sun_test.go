package lighting

import (
	"math"
	"testing"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name      string
		azimuth   float32
		elevation float32
		want      [3]float32
	}{
		{"front horizon", 0, 0, [3]float32{0, 0, 1}},
		{"right horizon", 90, 0, [3]float32{1, 0, 0}},
		{"zenith", 123, 90, [3]float32{0, 1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.azimuth, tt.elevation)
			for i := range got {
				if math.Abs(float64(got[i]-tt.want[i])) > 1e-6 {
					t.Fatalf("SunDirection(%g, %g) = %v, want %v", tt.azimuth, tt.elevation, got, tt.want)
				}
			}
		})
	}
}

func TestRigLights(t *testing.T) {
	lights := DefaultRig().Lights()
	if len(lights) != 2 {
		t.Fatalf("expected 2 lights, got %d", len(lights))
	}
	if !lights[0].Ambient() {
		t.Error("first light should be ambient")
	}
	key := lights[1]
	if key.Ambient() {
		t.Fatal("key light has no direction")
	}
	if key.Direction[1] >= 0 {
		t.Errorf("key light should shine downwards, got %v", key.Direction)
	}
}
