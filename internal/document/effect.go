package document

import "fmt"

// Effect kinds.
const (
	EffectInnerShadow    = "INNER_SHADOW"
	EffectDropShadow     = "DROP_SHADOW"
	EffectLayerBlur      = "LAYER_BLUR"
	EffectBackgroundBlur = "BACKGROUND_BLUR"
)

// Vector is a 2D offset.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Effect is a visual effect entry on a node. Shadow variants require color,
// offset, and blend mode; blur variants only a radius.
type Effect struct {
	Type      string   `json:"type"`
	Radius    float64  `json:"radius"`
	Color     *Color   `json:"color,omitempty"`
	Offset    *Vector  `json:"offset,omitempty"`
	Spread    *float64 `json:"spread,omitempty"`
	Visible   *bool    `json:"visible,omitempty"`
	BlendMode string   `json:"blendMode,omitempty"`
}

// Validate checks the effect's variant invariants.
func (e Effect) Validate() error {
	switch e.Type {
	case EffectInnerShadow, EffectDropShadow:
		if e.Color == nil {
			return fmt.Errorf("%s effect requires a color", e.Type)
		}
		if e.Offset == nil {
			return fmt.Errorf("%s effect requires an offset", e.Type)
		}
		if e.BlendMode == "" {
			return fmt.Errorf("%s effect requires a blendMode", e.Type)
		}
	case EffectLayerBlur, EffectBackgroundBlur:
		// radius only
	default:
		return fmt.Errorf("unsupported effect type: %s", e.Type)
	}
	if e.Radius < 0 {
		return fmt.Errorf("effect radius must not be negative")
	}
	return nil
}
