package scene

import "fmt"

// Shading selects the shader family a material is drawn with.
type Shading int

const (
	// ShadingPhysical is the lit shading path (textured, metal/rough).
	ShadingPhysical Shading = iota
	// ShadingBasic is unlit flat color, optionally rasterized as wireframe.
	ShadingBasic
	// ShadingDepthVisualization samples a depth texture and maps it to false color.
	ShadingDepthVisualization
)

func (s Shading) String() string {
	switch s {
	case ShadingPhysical:
		return "physical"
	case ShadingBasic:
		return "basic"
	case ShadingDepthVisualization:
		return "depth"
	default:
		return fmt.Sprintf("Shading(%d)", int(s))
	}
}

// TextureRef points at an image used by a material.
type TextureRef struct {
	Path    string  `yaml:"path"`
	RepeatU float32 `yaml:"repeat_u,omitempty"`
	RepeatV float32 `yaml:"repeat_v,omitempty"`
	SRGB    bool    `yaml:"srgb,omitempty"`
}

// Repeat returns the texture repeat factors, treating zero as 1.
func (t TextureRef) Repeat() (u, v float32) {
	u, v = t.RepeatU, t.RepeatV
	if u == 0 {
		u = 1
	}
	if v == 0 {
		v = 1
	}
	return u, v
}

// MaterialParams are the shading parameters of a material.
type MaterialParams struct {
	Color        Color   `yaml:"color"`
	Roughness    float32 `yaml:"roughness"`
	Metalness    float32 `yaml:"metalness"`
	Opacity      float32 `yaml:"opacity"`
	Transparent  bool    `yaml:"transparent"`
	Transmission float32 `yaml:"transmission"`
	IOR          float32 `yaml:"ior"`
	Clearcoat    float32 `yaml:"clearcoat"`
	Reflectivity float32 `yaml:"reflectivity"`
	Iridescence  float32 `yaml:"iridescence"`
	Wireframe    bool    `yaml:"wireframe"`
	LineWidth    float32 `yaml:"line_width"`

	Map       *TextureRef `yaml:"map,omitempty"`
	NormalMap *TextureRef `yaml:"normal_map,omitempty"`
	AlphaMap  *TextureRef `yaml:"alpha_map,omitempty"`
}

// DefaultMaterialParams returns an opaque white dielectric.
func DefaultMaterialParams() MaterialParams {
	return MaterialParams{
		Color:     White,
		Roughness: 1,
		Opacity:   1,
		IOR:       1.5,
		LineWidth: 1,
	}
}

// DepthUniform carries the depth texture sampled by a depth visualization material.
// The pass that owns the texture rebinds it every frame.
type DepthUniform struct {
	Texture uint32
}

// Material is an immutable shading descriptor. Submeshes share materials by pointer;
// changing a submesh's look means assigning a different *Material.
type Material struct {
	name    string
	shading Shading
	params  MaterialParams
	depth   *DepthUniform
}

// NewMaterial creates a material. Params are copied.
func NewMaterial(name string, shading Shading, params MaterialParams) *Material {
	return &Material{name: name, shading: shading, params: copyParams(params)}
}

// NewWireframeMaterial creates an unlit wireframe material with the given color.
func NewWireframeMaterial(color Color) *Material {
	p := DefaultMaterialParams()
	p.Color = color
	p.Wireframe = true
	p.LineWidth = 0.2
	return NewMaterial("Wireframe", ShadingBasic, p)
}

// NewFlatMaterial creates an unlit opaque material.
func NewFlatMaterial(name string, color Color) *Material {
	p := DefaultMaterialParams()
	p.Color = color
	return NewMaterial(name, ShadingBasic, p)
}

// NewDepthVisualizationMaterial creates the full-screen depth shading material bound to u.
func NewDepthVisualizationMaterial(u *DepthUniform) *Material {
	return &Material{
		name:    "DepthVisualization",
		shading: ShadingDepthVisualization,
		params:  DefaultMaterialParams(),
		depth:   u,
	}
}

// Name returns the material name.
func (m *Material) Name() string { return m.name }

// Shading returns the shader family.
func (m *Material) Shading() Shading { return m.shading }

// Params returns a copy of the shading parameters.
func (m *Material) Params() MaterialParams { return copyParams(m.params) }

// Depth returns the depth uniform of a depth visualization material, or nil.
func (m *Material) Depth() *DepthUniform { return m.depth }

func (m *Material) String() string {
	return fmt.Sprintf("%s(%s)", m.name, m.shading)
}

func copyParams(p MaterialParams) MaterialParams {
	for _, ref := range []**TextureRef{&p.Map, &p.NormalMap, &p.AlphaMap} {
		if *ref != nil {
			c := **ref
			*ref = &c
		}
	}
	return p
}
