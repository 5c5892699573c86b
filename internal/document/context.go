package document

// Viewport is the user's view of the current page.
type Viewport struct {
	CenterX float64
	CenterY float64
	Zoom    float64
}

// Context is the live document state handlers operate on: the current page,
// the selection, the style registry, and the viewport. It is not safe for
// concurrent use; the dispatcher processes one command at a time.
type Context struct {
	page      *FrameNode
	selection []Node
	styles    []*PaintStyle
	viewport  Viewport
}

// NewContext creates an empty document with one page.
func NewContext() *Context {
	return &Context{
		page:     NewFrame("Page 1", 1920, 1080),
		viewport: Viewport{Zoom: 1},
	}
}

// Page returns the current page.
func (c *Context) Page() *FrameNode { return c.page }

// Selection returns the currently selected nodes.
func (c *Context) Selection() []Node { return c.selection }

// SetSelection replaces the selection.
func (c *Context) SetSelection(nodes []Node) { c.selection = nodes }

// Append adds a node to the current page.
func (c *Context) Append(n Node) { c.page.AppendChild(n) }

// Viewport returns the current viewport.
func (c *Context) Viewport() Viewport { return c.viewport }

// ScrollIntoView centers the viewport on the given nodes.
func (c *Context) ScrollIntoView(nodes []Node) {
	if len(nodes) == 0 {
		return
	}
	var cx, cy float64
	var counted int
	for _, n := range nodes {
		p, ok := n.(Positioned)
		if !ok {
			continue
		}
		x, y := p.Position()
		if s, ok := n.(Sized); ok {
			w, h := s.Size()
			x += w / 2
			y += h / 2
		}
		cx += x
		cy += y
		counted++
	}
	if counted == 0 {
		return
	}
	c.viewport.CenterX = cx / float64(counted)
	c.viewport.CenterY = cy / float64(counted)
}

// Styles returns all registered paint styles.
func (c *Context) Styles() []*PaintStyle { return c.styles }

// UpsertPaintStyle creates a style, or updates the paints of an existing
// style with the same name.
func (c *Context) UpsertPaintStyle(name string, paints []Paint) *PaintStyle {
	for _, s := range c.styles {
		if s.Name() == name {
			s.SetPaints(paints)
			return s
		}
	}
	style := NewPaintStyle(name, paints)
	c.styles = append(c.styles, style)
	return style
}

// StyleByID looks up a style by id.
func (c *Context) StyleByID(id string) (*PaintStyle, bool) {
	for _, s := range c.styles {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}
