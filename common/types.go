// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"fmt"
	"strconv"
	"strings"
)

// Axis identifies one component of a 3D vector.
type Axis int

const (
	// AxisX is the first vector component.
	AxisX Axis = iota

	// AxisY is the second vector component.
	AxisY

	// AxisZ is the third vector component.
	AxisZ
)

// String returns the lowercase axis letter.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Transform is a plain position/rotation/scale triple. Rotation is Euler XYZ in radians.
type Transform struct {
	Position [3]float32
	Rotation [3]float32
	Scale    [3]float32
}

// IdentityTransform returns a Transform at the origin with no rotation and unit scale.
//
// Returns:
//   - Transform: the identity transform
func IdentityTransform() Transform {
	return Transform{Scale: [3]float32{1, 1, 1}}
}

// ImportedMaterial represents material properties from an imported model file.
type ImportedMaterial struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo/diffuse color (RGBA).
	BaseColor [4]float32

	// Metallic factor (0.0 = dielectric, 1.0 = metal).
	Metallic float32

	// Roughness factor (0.0 = smooth, 1.0 = rough).
	Roughness float32

	// Emissive is the linear emissive color.
	Emissive [3]float32

	// Transparent is true when the source material uses alpha blending.
	Transparent bool
}

// ParseHexColor parses a CSS style color string ("#6EB744", "6eb744" or "0x6EB744") into linear-agnostic RGB floats in [0, 1].
//
// Parameters:
//   - s: the hex color string
//
// Returns:
//   - [3]float32: the parsed RGB color
//   - error: error if the string is not a 6 digit hex color
func ParseHexColor(s string) ([3]float32, error) {
	hex := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "#"), "0x")
	if len(hex) != 6 {
		return [3]float32{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [3]float32{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return HexColor(uint32(v)), nil
}

// HexColor converts a packed 0xRRGGBB value into RGB floats in [0, 1].
//
// Parameters:
//   - v: the packed color
//
// Returns:
//   - [3]float32: the RGB color
func HexColor(v uint32) [3]float32 {
	return [3]float32{
		float32((v>>16)&0xFF) / 255.0,
		float32((v>>8)&0xFF) / 255.0,
		float32(v&0xFF) / 255.0,
	}
}

// FormatHexColor converts RGB floats back into the "#RRGGBB" form.
//
// Parameters:
//   - c: the RGB color, each channel in [0, 1]
//
// Returns:
//   - string: the hex color string
func FormatHexColor(c [3]float32) string {
	ch := func(f float32) uint32 {
		return uint32(Clamp(f, 0, 1)*255.0 + 0.5)
	}
	return fmt.Sprintf("#%02X%02X%02X", ch(c[0]), ch(c[1]), ch(c[2]))
}
