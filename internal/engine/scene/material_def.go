package scene

import "fmt"

// MaterialDef is the serialized form of a material in plans and material libraries.
// Fields left out of the document keep DefaultMaterialParams values.
type MaterialDef struct {
	Shading        string `yaml:"shading,omitempty"`
	MaterialParams `yaml:",inline"`
}

// UnmarshalYAML decodes a definition on top of the default parameters.
func (d *MaterialDef) UnmarshalYAML(unmarshal func(any) error) error {
	type plain MaterialDef
	p := plain{MaterialParams: DefaultMaterialParams()}
	if err := unmarshal(&p); err != nil {
		return err
	}
	*d = MaterialDef(p)
	return nil
}

// Build creates the immutable material described by d.
func (d MaterialDef) Build(name string) (*Material, error) {
	switch d.Shading {
	case "", "physical":
		return NewMaterial(name, ShadingPhysical, d.MaterialParams), nil
	case "basic":
		return NewMaterial(name, ShadingBasic, d.MaterialParams), nil
	default:
		return nil, fmt.Errorf("material %q: unknown shading %q", name, d.Shading)
	}
}
