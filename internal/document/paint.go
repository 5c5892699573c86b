package document

import (
	"fmt"
	"strings"
)

// Color is an RGBA color with channels in the 0-1 range.
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a,omitempty"`
}

// GradientStop is one color stop along a gradient axis.
type GradientStop struct {
	Color    Color   `json:"color"`
	Position float64 `json:"position"`
}

// Paint kinds. Everything that is not SOLID is a gradient variant.
const (
	PaintSolid           = "SOLID"
	PaintGradientLinear  = "GRADIENT_LINEAR"
	PaintGradientRadial  = "GRADIENT_RADIAL"
	PaintGradientAngular = "GRADIENT_ANGULAR"
	PaintGradientDiamond = "GRADIENT_DIAMOND"
)

// Paint is one entry in a node's fill or stroke list, tagged by Type.
type Paint struct {
	Type              string         `json:"type"`
	Color             *Color         `json:"color,omitempty"`
	GradientStops     []GradientStop `json:"gradientStops,omitempty"`
	GradientTransform [][]float64    `json:"gradientTransform,omitempty"`
	Opacity           *float64       `json:"opacity,omitempty"`
	Visible           *bool          `json:"visible,omitempty"`
}

// IsSolid reports whether the paint is a solid color.
func (p Paint) IsSolid() bool { return p.Type == PaintSolid }

// IsGradient reports whether the paint is any gradient variant.
func (p Paint) IsGradient() bool { return strings.HasPrefix(p.Type, "GRADIENT_") }

// Validate checks the paint's tagged-variant invariants.
func (p Paint) Validate() error {
	switch {
	case p.IsSolid():
		if p.Color == nil {
			return fmt.Errorf("SOLID paint requires a color")
		}
	case p.IsGradient():
		if len(p.GradientStops) == 0 {
			return fmt.Errorf("%s paint requires gradientStops", p.Type)
		}
	default:
		return fmt.Errorf("unsupported paint type: %s", p.Type)
	}
	return nil
}

// SolidPaint builds a SOLID paint from a color.
func SolidPaint(c Color) Paint {
	return Paint{Type: PaintSolid, Color: &c}
}

// ApplyPaint layers a directly-set paint onto an existing paint list. If the
// first entry is of a compatible variant (solid over solid, gradient over any
// gradient) only that entry is replaced; otherwise the new paint is inserted
// at the front and the remaining layers are preserved.
func ApplyPaint(existing []Paint, p Paint) []Paint {
	if len(existing) > 0 {
		first := existing[0]
		compatible := (p.IsSolid() && first.IsSolid()) || (p.IsGradient() && first.IsGradient())
		if compatible {
			out := make([]Paint, len(existing))
			copy(out, existing)
			out[0] = p
			return out
		}
	}
	out := make([]Paint, 0, len(existing)+1)
	out = append(out, p)
	return append(out, existing...)
}
