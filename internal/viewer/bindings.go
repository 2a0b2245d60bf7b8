package viewer

import (
	"sort"

	"github.com/Faultbox/depthview/internal/engine/scene"
)

// BindingTable is the snapshot of every submesh's material slots taken after the
// initial remap. It is never modified afterwards.
type BindingTable struct {
	slots map[string][]*scene.Material
}

// NewBindingTable captures the current slots of every submesh.
func NewBindingTable(submeshes []*scene.Submesh) *BindingTable {
	t := &BindingTable{slots: make(map[string][]*scene.Material, len(submeshes))}
	for _, sm := range submeshes {
		t.slots[sm.Name] = append([]*scene.Material(nil), sm.Materials...)
	}
	return t
}

// Lookup returns a copy of the captured slots for a submesh.
func (t *BindingTable) Lookup(name string) ([]*scene.Material, bool) {
	slots, ok := t.slots[name]
	if !ok {
		return nil, false
	}
	return append([]*scene.Material(nil), slots...), true
}

// Len returns the number of captured submeshes.
func (t *BindingTable) Len() int {
	return len(t.slots)
}

// Names returns the captured submesh names in sorted order.
func (t *BindingTable) Names() []string {
	names := make([]string, 0, len(t.slots))
	for name := range t.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MaterialNames returns the slot material names of a submesh, "null" for empty slots.
func (t *BindingTable) MaterialNames(name string) []string {
	slots := t.slots[name]
	out := make([]string, len(slots))
	for i, m := range slots {
		if m == nil || m.Name() == "" {
			out[i] = "null"
			continue
		}
		out[i] = m.Name()
	}
	return out
}
