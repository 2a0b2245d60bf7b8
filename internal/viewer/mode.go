package viewer

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/depthview/internal/engine/scene"
	"github.com/Faultbox/depthview/internal/logger"
)

// Mode is a render mode.
type Mode int

const (
	ModeLit Mode = iota
	ModeWireframe
	ModeDepth
)

func (m Mode) String() string {
	switch m {
	case ModeLit:
		return "lit"
	case ModeWireframe:
		return "wireframe"
	case ModeDepth:
		return "depth"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses a mode name as written by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lit", "":
		return ModeLit, nil
	case "wireframe":
		return ModeWireframe, nil
	case "depth":
		return ModeDepth, nil
	default:
		return ModeLit, fmt.Errorf("unknown render mode %q", s)
	}
}

// DefaultWireframeColor is the initial wireframe tint.
var DefaultWireframeColor = scene.ColorFromHex(0x93ffe8)

// WireframePalette is cycled by CycleWireframeColor.
var WireframePalette = []scene.Color{
	DefaultWireframeColor,
	scene.ColorFromHex(0xffffff),
	scene.ColorFromHex(0xffb347),
	scene.ColorFromHex(0xff5e78),
	scene.ColorFromHex(0x2b2b2b),
}

// ModeController swaps the material of every submesh among the render modes.
// Geometry and the node hierarchy are never touched.
type ModeController struct {
	submeshes []*scene.Submesh
	table     *BindingTable

	mode      Mode
	wireColor scene.Color
	wireMat   *scene.Material
	flatMat   *scene.Material

	log *zap.Logger
}

// NewModeController creates a controller in Lit mode. table must have been captured
// from submeshes after the initial remap.
func NewModeController(submeshes []*scene.Submesh, table *BindingTable) *ModeController {
	return &ModeController{
		submeshes: submeshes,
		table:     table,
		mode:      ModeLit,
		wireColor: DefaultWireframeColor,
		flatMat:   scene.NewFlatMaterial("DepthFill", scene.White),
		log:       logger.Named("modes"),
	}
}

// Mode returns the active mode.
func (c *ModeController) Mode() Mode {
	return c.mode
}

// DepthActive reports whether frames must use the depth visualization passes.
func (c *ModeController) DepthActive() bool {
	return c.mode == ModeDepth
}

// WireframeColor returns the current wireframe tint.
func (c *ModeController) WireframeColor() scene.Color {
	return c.wireColor
}

// SetMode switches every submesh to the given mode. Setting the active mode again is a no-op.
func (c *ModeController) SetMode(m Mode) error {
	if m == c.mode {
		return nil
	}

	switch m {
	case ModeLit:
		c.restore()
	case ModeWireframe:
		c.wireMat = scene.NewWireframeMaterial(c.wireColor)
		c.assign(c.wireMat)
	case ModeDepth:
		c.assign(c.flatMat)
	default:
		return fmt.Errorf("set mode: unknown mode %d", int(m))
	}

	c.log.Info("render mode changed", zap.Stringer("from", c.mode), zap.Stringer("to", m))
	c.mode = m
	return nil
}

// SetWireframe switches to Wireframe mode tinted with color.
func (c *ModeController) SetWireframe(color scene.Color) error {
	if c.mode == ModeWireframe {
		c.SetWireframeColor(color)
		return nil
	}
	c.wireColor = color
	return c.SetMode(ModeWireframe)
}

// SetWireframeColor changes the wireframe tint. In Wireframe mode a new shared material
// is created and reassigned to every submesh.
func (c *ModeController) SetWireframeColor(color scene.Color) {
	if color == c.wireColor && c.wireMat != nil {
		return
	}
	c.wireColor = color
	if c.mode != ModeWireframe {
		return
	}
	c.wireMat = scene.NewWireframeMaterial(color)
	c.assign(c.wireMat)
	c.log.Debug("wireframe color changed", zap.Stringer("color", color))
}

// CycleWireframeColor advances the tint through WireframePalette.
func (c *ModeController) CycleWireframeColor() {
	next := WireframePalette[0]
	for i, col := range WireframePalette {
		if col == c.wireColor {
			next = WireframePalette[(i+1)%len(WireframePalette)]
			break
		}
	}
	c.SetWireframeColor(next)
}

func (c *ModeController) assign(m *scene.Material) {
	for _, sm := range c.submeshes {
		sm.SetMaterial(m)
	}
}

func (c *ModeController) restore() {
	for _, sm := range c.submeshes {
		slots, ok := c.table.Lookup(sm.Name)
		if !ok {
			c.log.Warn("submesh missing from binding table", zap.String("submesh", sm.Name))
			continue
		}
		sm.Materials = slots
	}
}
