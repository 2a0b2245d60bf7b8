package asset

import (
	"fmt"
	"math"

	"github.com/Faultbox/depthview/internal/engine/scene"
)

const defaultSegments = 16

// Primitive builds the geometry for a named shape. size is width, height, depth;
// for cylinders it is diameter, height, unused.
//
// Boxes have one group per face (+x, -x, +y, -y, +z, -z) on slots 0..5. Cylinders
// put the side on slot 0, the top cap on slot 1 and the bottom cap on slot 2.
// Planes lie in the XY plane facing +z on slot 0.
func Primitive(shape string, size [3]float32, segments int) (*scene.Geometry, error) {
	for i, s := range size {
		if s < 0 {
			return nil, fmt.Errorf("negative %s size component %d", shape, i)
		}
	}
	if segments <= 0 {
		segments = defaultSegments
	}

	switch shape {
	case "box":
		return box(size[0], size[1], size[2]), nil
	case "plane":
		return plane(size[0], size[1]), nil
	case "cylinder":
		if segments < 3 {
			return nil, fmt.Errorf("cylinder needs at least 3 segments, got %d", segments)
		}
		return cylinder(size[0]/2, size[1], segments), nil
	default:
		return nil, fmt.Errorf("unknown shape %q", shape)
	}
}

type meshBuilder struct {
	g scene.Geometry
}

func (b *meshBuilder) vertex(p, n [3]float32, u, v float32) uint32 {
	idx := uint32(len(b.g.Positions) / 3)
	b.g.Positions = append(b.g.Positions, p[0], p[1], p[2])
	b.g.Normals = append(b.g.Normals, n[0], n[1], n[2])
	b.g.UVs = append(b.g.UVs, u, v)
	return idx
}

// group records the indices added since start as one draw group.
func (b *meshBuilder) group(start, slot int) {
	b.g.Groups = append(b.g.Groups, scene.Group{
		Start: int32(start),
		Count: int32(len(b.g.Indices) - start),
		Slot:  slot,
	})
}

// quad appends a face from its centre, two half-extent axes and its normal.
func (b *meshBuilder) quad(c, u, v, n [3]float32) {
	corner := func(su, sv float32) [3]float32 {
		return [3]float32{
			c[0] + su*u[0] + sv*v[0],
			c[1] + su*u[1] + sv*v[1],
			c[2] + su*u[2] + sv*v[2],
		}
	}
	i0 := b.vertex(corner(-1, -1), n, 0, 0)
	i1 := b.vertex(corner(1, -1), n, 1, 0)
	i2 := b.vertex(corner(1, 1), n, 1, 1)
	i3 := b.vertex(corner(-1, 1), n, 0, 1)
	b.g.Indices = append(b.g.Indices, i0, i1, i2, i0, i2, i3)
}

func box(w, h, d float32) *scene.Geometry {
	x, y, z := w/2, h/2, d/2
	faces := [6]struct{ c, u, v, n [3]float32 }{
		{[3]float32{x, 0, 0}, [3]float32{0, 0, -z}, [3]float32{0, y, 0}, [3]float32{1, 0, 0}},
		{[3]float32{-x, 0, 0}, [3]float32{0, 0, z}, [3]float32{0, y, 0}, [3]float32{-1, 0, 0}},
		{[3]float32{0, y, 0}, [3]float32{x, 0, 0}, [3]float32{0, 0, -z}, [3]float32{0, 1, 0}},
		{[3]float32{0, -y, 0}, [3]float32{x, 0, 0}, [3]float32{0, 0, z}, [3]float32{0, -1, 0}},
		{[3]float32{0, 0, z}, [3]float32{x, 0, 0}, [3]float32{0, y, 0}, [3]float32{0, 0, 1}},
		{[3]float32{0, 0, -z}, [3]float32{-x, 0, 0}, [3]float32{0, y, 0}, [3]float32{0, 0, -1}},
	}

	var b meshBuilder
	for slot, f := range faces {
		start := len(b.g.Indices)
		b.quad(f.c, f.u, f.v, f.n)
		b.group(start, slot)
	}
	return &b.g
}

func plane(w, h float32) *scene.Geometry {
	var b meshBuilder
	b.quad([3]float32{}, [3]float32{w / 2, 0, 0}, [3]float32{0, h / 2, 0}, [3]float32{0, 0, 1})
	b.group(0, 0)
	return &b.g
}

func cylinder(r, h float32, segments int) *scene.Geometry {
	var b meshBuilder
	top, bottom := h/2, -h/2

	// Side: a ring of segments+1 columns so the UV seam is not shared.
	start := len(b.g.Indices)
	for i := 0; i <= segments; i++ {
		u := float32(i) / float32(segments)
		theta := float64(u) * 2 * math.Pi
		sin, cos := float32(math.Sin(theta)), float32(math.Cos(theta))
		n := [3]float32{sin, 0, cos}
		b.vertex([3]float32{r * sin, top, r * cos}, n, u, 1)
		b.vertex([3]float32{r * sin, bottom, r * cos}, n, u, 0)
	}
	for i := 0; i < segments; i++ {
		a := uint32(i * 2)
		b.g.Indices = append(b.g.Indices, a, a+1, a+3, a, a+3, a+2)
	}
	b.group(start, 0)

	disc := func(y, ny float32, slot int) {
		start := len(b.g.Indices)
		n := [3]float32{0, ny, 0}
		centre := b.vertex([3]float32{0, y, 0}, n, 0.5, 0.5)
		first := centre + 1
		for i := 0; i <= segments; i++ {
			theta := float64(i) / float64(segments) * 2 * math.Pi
			sin, cos := float32(math.Sin(theta)), float32(math.Cos(theta))
			b.vertex([3]float32{r * sin, y, r * cos}, n, 0.5+sin/2, 0.5+cos/2)
		}
		for i := uint32(0); i < uint32(segments); i++ {
			if ny > 0 {
				b.g.Indices = append(b.g.Indices, centre, first+i, first+i+1)
			} else {
				b.g.Indices = append(b.g.Indices, centre, first+i+1, first+i)
			}
		}
		b.group(start, slot)
	}
	disc(top, 1, 1)
	disc(bottom, -1, 2)

	return &b.g
}
