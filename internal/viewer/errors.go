package viewer

import (
	"errors"
	"fmt"
)

// ErrNoSubmeshes is returned when a material plan is applied to an empty model.
var ErrNoSubmeshes = errors.New("model has no submeshes")

// UnknownSubmeshError reports a binding naming a submesh the model does not have.
type UnknownSubmeshError struct {
	Submesh  string
	Material string
}

func (e *UnknownSubmeshError) Error() string {
	return fmt.Sprintf("binding %q: unknown submesh %q", e.Material, e.Submesh)
}

// SlotRangeError reports a binding to a material slot the submesh does not have.
type SlotRangeError struct {
	Submesh string
	Slot    int
	Slots   int
}

func (e *SlotRangeError) Error() string {
	return fmt.Sprintf("submesh %q: slot %d out of range (%d slots)", e.Submesh, e.Slot, e.Slots)
}

// UnknownMaterialError reports a binding naming a material the plan does not define.
type UnknownMaterialError struct {
	Material string
}

func (e *UnknownMaterialError) Error() string {
	return fmt.Sprintf("unknown material %q", e.Material)
}
