// Package scene provides the scene graph drawn by the viewer: named nodes holding
// submeshes, their geometry and the materials bound to them.
package scene

// Group is a contiguous index range of a geometry drawn with one material slot.
type Group struct {
	Start int32
	Count int32
	Slot  int
}

// Geometry is indexed triangle data ready for GPU upload.
// Positions and normals are xyz triplets, UVs are uv pairs.
type Geometry struct {
	Positions []float32
	Normals   []float32
	UVs       []float32
	Indices   []uint32
	Groups    []Group
}

// VertexCount returns the number of vertices.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// DrawGroups returns the geometry groups, or a single group covering all indices.
func (g *Geometry) DrawGroups() []Group {
	if len(g.Groups) > 0 {
		return g.Groups
	}
	return []Group{{Start: 0, Count: int32(len(g.Indices)), Slot: 0}}
}

// Submesh is a named, independently shadeable part of a loaded model.
type Submesh struct {
	Name     string
	Geometry *Geometry
	// Materials holds one entry per material slot. A single entry applies to every group.
	Materials []*Material
	Visible   bool
	// Position offsets the submesh from its node origin.
	Position [3]float32
}

// NewSubmesh creates a visible submesh with the given slot materials.
func NewSubmesh(name string, geom *Geometry, materials ...*Material) *Submesh {
	return &Submesh{Name: name, Geometry: geom, Materials: materials, Visible: true}
}

// MaterialFor returns the material for a geometry slot. Slots past the end of the list
// fall back to slot 0; nil means the group is not drawn.
func (s *Submesh) MaterialFor(slot int) *Material {
	if len(s.Materials) == 0 {
		return nil
	}
	if slot >= 0 && slot < len(s.Materials) {
		return s.Materials[slot]
	}
	return s.Materials[0]
}

// SetMaterial binds one material to every slot.
func (s *Submesh) SetMaterial(m *Material) {
	s.Materials = []*Material{m}
}

// SetSlots binds a copy of the given slot list.
func (s *Submesh) SetSlots(slots []*Material) {
	s.Materials = append([]*Material(nil), slots...)
}

// Node is a named group of submeshes, such as the root of a loaded model.
type Node struct {
	Name      string
	Submeshes []*Submesh
	Position  [3]float32
}

// Submesh returns the child with the given name.
func (n *Node) Submesh(name string) (*Submesh, bool) {
	for _, s := range n.Submeshes {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// Light is a light source. A zero Direction makes it ambient.
type Light struct {
	Color     Color
	Intensity float32
	Direction [3]float32
}

// Ambient reports whether the light has no direction.
func (l Light) Ambient() bool {
	return l.Direction == [3]float32{}
}

// Scene is the root of everything drawn in a pass.
type Scene struct {
	Background    Color
	HasBackground bool
	Lights        []Light
	nodes         []*Node
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// SetBackground sets the clear color.
func (s *Scene) SetBackground(c Color) {
	s.Background = c
	s.HasBackground = true
}

// Add appends nodes to the scene.
func (s *Scene) Add(nodes ...*Node) {
	s.nodes = append(s.nodes, nodes...)
}

// Node returns the top-level node with the given name.
func (s *Scene) Node(name string) (*Node, bool) {
	for _, n := range s.nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// Nodes returns the top-level nodes in insertion order.
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// Walk calls fn for every visible submesh.
func (s *Scene) Walk(fn func(n *Node, sm *Submesh)) {
	for _, n := range s.nodes {
		for _, sm := range n.Submeshes {
			if sm.Visible {
				fn(n, sm)
			}
		}
	}
}
