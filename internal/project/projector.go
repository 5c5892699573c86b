// Package project converts live document nodes into plain, transport-safe
// mappings. Fields appear only when the node exposes the matching
// capability; a node without paints simply projects without a fills key.
package project

import "github.com/inklab/canvasbridge/internal/document"

// Projection is a read-only snapshot of a node's attributes.
type Projection map[string]any

// Project builds the non-recursive projection of a node. Identity fields are
// always present; everything else is gated by a capability probe.
func Project(n document.Node) Projection {
	p := Projection{
		"id":   n.ID(),
		"type": string(n.Type()),
		"name": n.Name(),
	}

	if f, ok := n.(document.Flagged); ok {
		p["visible"] = f.Visible()
		p["locked"] = f.Locked()
	}
	if pos, ok := n.(document.Positioned); ok {
		x, y := pos.Position()
		p["x"] = x
		p["y"] = y
	}
	if s, ok := n.(document.Sized); ok {
		w, h := s.Size()
		p["width"] = w
		p["height"] = h
	}
	if paints, ok := n.(document.Paintable); ok {
		p["fills"] = paints.Fills()
	}
	if strokes, ok := n.(document.Strokable); ok {
		p["strokes"] = strokes.Strokes()
		p["strokeWeight"] = strokes.StrokeWeight()
	}

	return p
}

// ProjectDetailed extends Project with layout attributes, effects, text
// content, and a one-level projection of child nodes. Children are projected
// with the non-recursive rule; grandchildren are not descended into.
func ProjectDetailed(n document.Node) Projection {
	p := Project(n)

	if laid, ok := n.(document.AutoLaid); ok {
		p["layoutMode"] = laid.LayoutMode()
		p["constraints"] = laid.Constraints()
	}
	if effects, ok := n.(document.Effectable); ok {
		p["effects"] = effects.Effects()
	}
	if text, ok := n.(*document.TextNode); ok {
		p["characters"] = text.Characters()
	}
	if container, ok := n.(document.Container); ok {
		children := container.Children()
		projected := make([]Projection, 0, len(children))
		for _, child := range children {
			projected = append(projected, Project(child))
		}
		p["children"] = projected
	}

	return p
}
