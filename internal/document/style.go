package document

import "github.com/google/uuid"

// PaintStyle is a named, reusable paint list.
type PaintStyle struct {
	id     string
	name   string
	paints []Paint
}

// NewPaintStyle creates a style with the given name and paints.
func NewPaintStyle(name string, paints []Paint) *PaintStyle {
	return &PaintStyle{id: uuid.New().String(), name: name, paints: paints}
}

func (s *PaintStyle) ID() string   { return s.id }
func (s *PaintStyle) Name() string { return s.name }

// Paints returns a copy of the style's paint list so callers cannot mutate
// the style through a node.
func (s *PaintStyle) Paints() []Paint {
	out := make([]Paint, len(s.paints))
	copy(out, s.paints)
	return out
}

// SetPaints replaces the style's paint list.
func (s *PaintStyle) SetPaints(paints []Paint) { s.paints = paints }

// ApplyTo replaces the node's entire fill list with the style's paints.
// Layers previously on the node are not merged or preserved.
func (s *PaintStyle) ApplyTo(n Paintable) {
	n.SetFills(s.Paints())
}

// ApplyToStrokes replaces the node's entire stroke list with the style's
// paints.
func (s *PaintStyle) ApplyToStrokes(n Strokable) {
	n.SetStrokes(s.Paints())
}
