package viewer

import (
	"fmt"
	"os"
	"sort"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/depthview/internal/engine/scene"
	"github.com/Faultbox/depthview/internal/logger"
)

// Binding assigns a plan material to submeshes.
type Binding struct {
	Material string `yaml:"material"`
	// Submeshes lists target submesh names. Empty with MatchMaterial set means all.
	Submeshes []string `yaml:"submeshes,omitempty"`
	// Slot restricts the assignment to one material slot. Nil replaces every slot.
	Slot *int `yaml:"slot,omitempty"`
	// MatchMaterial replaces only slots currently holding a material with this name.
	MatchMaterial string `yaml:"match_material,omitempty"`
}

// MaterialPlan maps logical material names onto a model's submeshes.
type MaterialPlan struct {
	Materials map[string]scene.MaterialDef `yaml:"materials"`
	Bindings  []Binding                    `yaml:"bindings"`
}

// LoadPlan reads a material plan from a YAML file.
func LoadPlan(path string) (*MaterialPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading material plan: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan decodes a material plan document.
func ParsePlan(data []byte) (*MaterialPlan, error) {
	var p MaterialPlan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing material plan: %w", err)
	}
	return &p, nil
}

// Build creates one shared material per plan entry.
func (p *MaterialPlan) Build() (map[string]*scene.Material, error) {
	names := make([]string, 0, len(p.Materials))
	for name := range p.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	built := make(map[string]*scene.Material, len(names))
	var errs error
	for _, name := range names {
		m, err := p.Materials[name].Build(name)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		built[name] = m
	}
	return built, errs
}

// Remap applies the plan to the model's submeshes in binding order.
// Every resolvable binding is applied; the misses are returned together so the
// caller can report them while the model stays usable.
func Remap(model *scene.Node, plan *MaterialPlan) error {
	if len(model.Submeshes) == 0 {
		return ErrNoSubmeshes
	}

	materials, errs := plan.Build()

	for _, b := range plan.Bindings {
		m, ok := materials[b.Material]
		if !ok {
			errs = multierr.Append(errs, &UnknownMaterialError{Material: b.Material})
			continue
		}

		targets, err := bindingTargets(model, b)
		errs = multierr.Append(errs, err)

		for _, sm := range targets {
			errs = multierr.Append(errs, bind(sm, b, m))
		}
	}

	for _, err := range multierr.Errors(errs) {
		logger.Warn("material remap", zap.Error(err))
	}
	return errs
}

func bindingTargets(model *scene.Node, b Binding) ([]*scene.Submesh, error) {
	if len(b.Submeshes) == 0 && b.MatchMaterial != "" {
		return model.Submeshes, nil
	}

	var (
		targets []*scene.Submesh
		errs    error
	)
	for _, name := range b.Submeshes {
		sm, ok := model.Submesh(name)
		if !ok {
			errs = multierr.Append(errs, &UnknownSubmeshError{Submesh: name, Material: b.Material})
			continue
		}
		targets = append(targets, sm)
	}
	return targets, errs
}

func bind(sm *scene.Submesh, b Binding, m *scene.Material) error {
	switch {
	case b.MatchMaterial != "":
		slots := append([]*scene.Material(nil), sm.Materials...)
		for i, cur := range slots {
			if cur != nil && cur.Name() == b.MatchMaterial && (b.Slot == nil || *b.Slot == i) {
				slots[i] = m
			}
		}
		sm.Materials = slots
	case b.Slot != nil:
		if *b.Slot < 0 || *b.Slot >= len(sm.Materials) {
			return &SlotRangeError{Submesh: sm.Name, Slot: *b.Slot, Slots: len(sm.Materials)}
		}
		slots := append([]*scene.Material(nil), sm.Materials...)
		slots[*b.Slot] = m
		sm.Materials = slots
	default:
		sm.SetMaterial(m)
	}
	return nil
}
