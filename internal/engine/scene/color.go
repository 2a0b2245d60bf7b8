package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a linear RGB color with components in [0, 1].
type Color struct {
	R, G, B float32
}

// Named colors used by the viewer defaults.
var (
	White  = Color{1, 1, 1}
	Black  = Color{0, 0, 0}
	Silver = ColorFromHex(0xc0c0c0)
)

// ColorFromHex converts a 0xRRGGBB value to a Color.
func ColorFromHex(hex uint32) Color {
	return Color{
		R: float32((hex>>16)&0xff) / 255,
		G: float32((hex>>8)&0xff) / 255,
		B: float32(hex&0xff) / 255,
	}
}

// ParseColor accepts "#rrggbb", "0xrrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "#")
	v = strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
	if len(v) != 6 {
		return Color{}, fmt.Errorf("invalid color %q: want 6 hex digits", s)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return ColorFromHex(uint32(n)), nil
}

// Hex returns the 0xRRGGBB encoding of c, rounding each channel.
func (c Color) Hex() uint32 {
	return uint32(channel(c.R))<<16 | uint32(channel(c.G))<<8 | uint32(channel(c.B))
}

// String formats the color as #rrggbb.
func (c Color) String() string {
	return fmt.Sprintf("#%06x", c.Hex())
}

// Vec4 returns the color with the given alpha, laid out for uniform upload.
func (c Color) Vec4(alpha float32) [4]float32 {
	return [4]float32{c.R, c.G, c.B, alpha}
}

func channel(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// UnmarshalYAML decodes a color from a hex string.
func (c *Color) UnmarshalYAML(unmarshal func(any) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseColor(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes the color as #rrggbb.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}
