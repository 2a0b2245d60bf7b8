package asset

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/depthview/internal/engine/scene"
)

// Part is one submesh of a geometry manifest.
type Part struct {
	Name     string     `yaml:"name"`
	Shape    string     `yaml:"shape"`
	Size     [3]float32 `yaml:"size"`
	Position [3]float32 `yaml:"position"`
	Segments int        `yaml:"segments,omitempty"`
	// Slots names the library material of each slot, in order.
	Slots []string `yaml:"slots"`
}

// Manifest is a geometry document: a list of primitive parts.
type Manifest struct {
	Parts []Part `yaml:"parts"`
}

// ManifestDecoder decodes YAML material libraries and geometry manifests.
type ManifestDecoder struct{}

// Decode builds submeshes. Materials in the library are shared by every slot naming them;
// slots naming unknown materials get an untitled default.
func (ManifestDecoder) Decode(materials, geometry []byte) ([]*scene.Submesh, error) {
	var lib map[string]scene.MaterialDef
	if err := yaml.Unmarshal(materials, &lib); err != nil {
		return nil, fmt.Errorf("material library: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(geometry, &m); err != nil {
		return nil, fmt.Errorf("geometry manifest: %w", err)
	}
	if len(m.Parts) == 0 {
		return nil, fmt.Errorf("geometry manifest has no parts")
	}

	built := make(map[string]*scene.Material, len(lib))
	material := func(name string) (*scene.Material, error) {
		if mat, ok := built[name]; ok {
			return mat, nil
		}
		def, ok := lib[name]
		if !ok {
			def = scene.MaterialDef{MaterialParams: scene.DefaultMaterialParams()}
		}
		mat, err := def.Build(name)
		if err != nil {
			return nil, err
		}
		built[name] = mat
		return mat, nil
	}

	seen := make(map[string]bool, len(m.Parts))
	submeshes := make([]*scene.Submesh, 0, len(m.Parts))
	for _, p := range m.Parts {
		if p.Name == "" {
			return nil, fmt.Errorf("part with %s shape has no name", p.Shape)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate part name %q", p.Name)
		}
		seen[p.Name] = true

		geom, err := Primitive(p.Shape, p.Size, p.Segments)
		if err != nil {
			return nil, fmt.Errorf("part %q: %w", p.Name, err)
		}

		slots := make([]*scene.Material, 0, len(p.Slots))
		for _, name := range p.Slots {
			mat, err := material(name)
			if err != nil {
				return nil, fmt.Errorf("part %q: %w", p.Name, err)
			}
			slots = append(slots, mat)
		}
		if len(slots) == 0 {
			mat, _ := material("")
			slots = append(slots, mat)
		}

		sm := scene.NewSubmesh(p.Name, geom, slots...)
		sm.Position = p.Position
		submeshes = append(submeshes, sm)
	}
	return submeshes, nil
}
