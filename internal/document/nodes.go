package document

import "github.com/google/uuid"

func newNodeID() string { return uuid.New().String() }

// RectangleNode is a basic shape node.
type RectangleNode struct {
	baseNode
	geometry
	paintSet
	CornerRadius float64
}

// NewRectangle creates a 100x100 rectangle at the given position with the
// default light-gray fill.
func NewRectangle(x, y float64) *RectangleNode {
	r := &RectangleNode{
		baseNode: newBase(newNodeID(), TypeRectangle, "Rectangle"),
		geometry: geometry{x: x, y: y, w: 100, h: 100},
	}
	r.fills = []Paint{SolidPaint(Color{R: 0.8, G: 0.8, B: 0.8, A: 1})}
	return r
}

// EllipseNode is a basic shape node.
type EllipseNode struct {
	baseNode
	geometry
	paintSet
}

// NewEllipse creates a 100x100 ellipse at the given position.
func NewEllipse(x, y float64) *EllipseNode {
	e := &EllipseNode{
		baseNode: newBase(newNodeID(), TypeEllipse, "Ellipse"),
		geometry: geometry{x: x, y: y, w: 100, h: 100},
	}
	e.fills = []Paint{SolidPaint(Color{R: 0.8, G: 0.8, B: 0.8, A: 1})}
	return e
}

// TextNode carries characters in addition to shape capabilities.
type TextNode struct {
	baseNode
	geometry
	paintSet
	characters string
	fontSize   float64
}

// NewText creates a text node at the given position.
func NewText(x, y float64, characters string) *TextNode {
	t := &TextNode{
		baseNode:   newBase(newNodeID(), TypeText, "Text"),
		geometry:   geometry{x: x, y: y, w: 200, h: 24},
		characters: characters,
		fontSize:   12,
	}
	t.fills = []Paint{SolidPaint(Color{A: 1})}
	return t
}

// Characters returns the text content.
func (t *TextNode) Characters() string { return t.characters }

// SetCharacters replaces the text content.
func (t *TextNode) SetCharacters(s string) { t.characters = s }

// FontSize returns the font size in points.
func (t *TextNode) FontSize() float64 { return t.fontSize }

// FrameNode is a container with layout attributes.
type FrameNode struct {
	baseNode
	geometry
	paintSet
	children    []Node
	layoutMode  string
	constraints Constraints
}

// NewFrame creates an empty frame.
func NewFrame(name string, w, h float64) *FrameNode {
	return &FrameNode{
		baseNode:    newBase(newNodeID(), TypeFrame, name),
		geometry:    geometry{w: w, h: h},
		layoutMode:  "NONE",
		constraints: Constraints{Horizontal: "MIN", Vertical: "MIN"},
	}
}

func (f *FrameNode) Children() []Node         { return f.children }
func (f *FrameNode) AppendChild(n Node)       { f.children = append(f.children, n) }
func (f *FrameNode) LayoutMode() string       { return f.layoutMode }
func (f *FrameNode) SetLayoutMode(m string)   { f.layoutMode = m }
func (f *FrameNode) Constraints() Constraints { return f.constraints }

// GroupNode owns children but has no paints of its own.
type GroupNode struct {
	baseNode
	geometry
	children []Node
}

// NewGroup creates a group around the given children.
func NewGroup(name string, children ...Node) *GroupNode {
	return &GroupNode{
		baseNode: newBase(newNodeID(), TypeGroup, name),
		children: children,
	}
}

func (g *GroupNode) Children() []Node   { return g.children }
func (g *GroupNode) AppendChild(n Node) { g.children = append(g.children, n) }

// SliceNode marks a region of the page. It has geometry but no paints and is
// not renderable on its own.
type SliceNode struct {
	baseNode
	geometry
}

// NewSlice creates a slice region.
func NewSlice(x, y, w, h float64) *SliceNode {
	return &SliceNode{
		baseNode: newBase(newNodeID(), TypeSlice, "Slice"),
		geometry: geometry{x: x, y: y, w: w, h: h},
	}
}
