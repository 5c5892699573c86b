package document

// NodeType is a node's structural type.
type NodeType string

const (
	TypeFrame     NodeType = "FRAME"
	TypeGroup     NodeType = "GROUP"
	TypeRectangle NodeType = "RECTANGLE"
	TypeEllipse   NodeType = "ELLIPSE"
	TypeText      NodeType = "TEXT"
	TypeSlice     NodeType = "SLICE"
)

// Node is the identity every scene object carries.
type Node interface {
	ID() string
	Type() NodeType
	Name() string
	SetName(string)
}

// Flagged nodes expose visibility and lock flags.
type Flagged interface {
	Visible() bool
	SetVisible(bool)
	Locked() bool
	SetLocked(bool)
}

// Positioned nodes have a position on the page.
type Positioned interface {
	Position() (x, y float64)
	SetPosition(x, y float64)
}

// Sized nodes have width and height.
type Sized interface {
	Size() (w, h float64)
	Resize(w, h float64)
}

// Paintable nodes carry a fill paint list.
type Paintable interface {
	Fills() []Paint
	SetFills([]Paint)
}

// Strokable nodes carry a stroke paint list and weight.
type Strokable interface {
	Strokes() []Paint
	SetStrokes([]Paint)
	StrokeWeight() float64
	SetStrokeWeight(float64)
}

// Effectable nodes carry an effect list.
type Effectable interface {
	Effects() []Effect
	SetEffects([]Effect)
}

// Container nodes own children.
type Container interface {
	Children() []Node
	AppendChild(Node)
}

// Constraints pin a child to its parent's edges.
type Constraints struct {
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
}

// AutoLaid nodes expose layout mode and constraints.
type AutoLaid interface {
	LayoutMode() string
	Constraints() Constraints
}

// baseNode implements Node and Flagged.
type baseNode struct {
	id       string
	nodeType NodeType
	name     string
	visible  bool
	locked   bool
}

func newBase(id string, t NodeType, name string) baseNode {
	return baseNode{id: id, nodeType: t, name: name, visible: true}
}

func (b *baseNode) ID() string        { return b.id }
func (b *baseNode) Type() NodeType    { return b.nodeType }
func (b *baseNode) Name() string      { return b.name }
func (b *baseNode) SetName(n string)  { b.name = n }
func (b *baseNode) Visible() bool     { return b.visible }
func (b *baseNode) SetVisible(v bool) { b.visible = v }
func (b *baseNode) Locked() bool      { return b.locked }
func (b *baseNode) SetLocked(l bool)  { b.locked = l }

// geometry implements Positioned and Sized.
type geometry struct {
	x, y, w, h float64
}

func (g *geometry) Position() (float64, float64) { return g.x, g.y }
func (g *geometry) SetPosition(x, y float64)     { g.x, g.y = x, y }
func (g *geometry) Size() (float64, float64)     { return g.w, g.h }
func (g *geometry) Resize(w, h float64)          { g.w, g.h = w, h }

// paintSet implements Paintable, Strokable, and Effectable.
type paintSet struct {
	fills        []Paint
	strokes      []Paint
	strokeWeight float64
	effects      []Effect
}

func (p *paintSet) Fills() []Paint            { return p.fills }
func (p *paintSet) SetFills(f []Paint)        { p.fills = f }
func (p *paintSet) Strokes() []Paint          { return p.strokes }
func (p *paintSet) SetStrokes(s []Paint)      { p.strokes = s }
func (p *paintSet) StrokeWeight() float64     { return p.strokeWeight }
func (p *paintSet) SetStrokeWeight(w float64) { p.strokeWeight = w }
func (p *paintSet) Effects() []Effect         { return p.effects }
func (p *paintSet) SetEffects(e []Effect)     { p.effects = e }
