package dispatch

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/inklab/canvasbridge/internal/document"
	"github.com/inklab/canvasbridge/internal/project"
)

// Typed parameter structs, decoded from the flattened wire object at the
// dispatch boundary. Pointer fields distinguish absent from zero.

type emptyParams struct{}

type createRectangleParams struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type createTextParams struct {
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	Text *string  `json:"text"`
}

type colorParams struct {
	R *float64 `json:"r"`
	G *float64 `json:"g"`
	B *float64 `json:"b"`
	A *float64 `json:"a"`
}

type createColorStyleParams struct {
	Name  string       `json:"name"`
	Color *colorParams `json:"color"`
}

type exportSelectionParams struct {
	Format string   `json:"format"`
	Scale  *float64 `json:"scale"`
}

type setPaintParams struct {
	Value   *document.Paint `json:"value"`
	StyleID *string         `json:"styleId"`
}

type setStrokeWeightParams struct {
	Value *float64 `json:"value"`
}

type setEffectParams struct {
	Value *document.Effect `json:"value"`
}

type pingParams struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func (d *Dispatcher) specs() []Spec {
	return []Spec{
		command("get-selection",
			"Get information about the currently selected nodes",
			nil,
			func(_ context.Context, doc *document.Context, _ emptyParams) (any, error) {
				nodes := doc.Selection()
				projections := make([]project.Projection, 0, len(nodes))
				for _, n := range nodes {
					projections = append(projections, project.Project(n))
				}
				return map[string]any{"nodes": projections, "count": len(nodes)}, nil
			}),

		command("get-selection-details",
			"Get detailed information about selected nodes including children, constraints, and layout properties",
			nil,
			func(_ context.Context, doc *document.Context, _ emptyParams) (any, error) {
				nodes := doc.Selection()
				projections := make([]project.Projection, 0, len(nodes))
				for _, n := range nodes {
					projections = append(projections, project.ProjectDetailed(n))
				}
				return map[string]any{"nodes": projections, "count": len(nodes)}, nil
			}),

		command("create-rectangle",
			"Create a rectangle on the current page",
			[]ParamSpec{
				{Name: "x", Type: "number", Description: "X coordinate of the rectangle"},
				{Name: "y", Type: "number", Description: "Y coordinate of the rectangle"},
			},
			func(_ context.Context, doc *document.Context, p createRectangleParams) (any, error) {
				rect := document.NewRectangle(coord(p.X), coord(p.Y))
				doc.Append(rect)
				doc.SetSelection([]document.Node{rect})
				doc.ScrollIntoView([]document.Node{rect})
				return map[string]any{"id": rect.ID()}, nil
			}),

		command("create-text",
			"Create a text element on the current page",
			[]ParamSpec{
				{Name: "x", Type: "number", Description: "X coordinate of the text"},
				{Name: "y", Type: "number", Description: "Y coordinate of the text"},
				{Name: "text", Type: "string", Description: "Text content"},
			},
			func(_ context.Context, doc *document.Context, p createTextParams) (any, error) {
				content := "Text"
				if p.Text != nil {
					content = *p.Text
				}
				text := document.NewText(coord(p.X), coord(p.Y), content)
				doc.Append(text)
				doc.SetSelection([]document.Node{text})
				doc.ScrollIntoView([]document.Node{text})
				return map[string]any{"id": text.ID()}, nil
			}),

		command("get-color-styles",
			"Get a list of all color styles in the document",
			nil,
			func(_ context.Context, doc *document.Context, _ emptyParams) (any, error) {
				styles := doc.Styles()
				out := make([]map[string]any, 0, len(styles))
				for _, s := range styles {
					out = append(out, map[string]any{
						"id":     s.ID(),
						"name":   s.Name(),
						"paints": s.Paints(),
					})
				}
				return map[string]any{"styles": out, "count": len(out)}, nil
			}),

		command("create-color-style",
			"Create or update a color style",
			[]ParamSpec{
				{Name: "name", Type: "string", Description: "Name of the color style", Required: true},
				{Name: "color", Type: "object", Description: "RGB color object with r, g, b in 0-1", Required: true},
			},
			func(_ context.Context, doc *document.Context, p createColorStyleParams) (any, error) {
				if p.Name == "" {
					return nil, fmt.Errorf("name parameter required")
				}
				color, err := p.Color.resolve()
				if err != nil {
					return nil, err
				}
				style := doc.UpsertPaintStyle(p.Name, []document.Paint{document.SolidPaint(color)})
				return map[string]any{"styleId": style.ID(), "name": style.Name()}, nil
			}),

		command("export-selection",
			"Export the currently selected node",
			[]ParamSpec{
				{Name: "format", Type: "string", Description: "Export format (PNG, JPG, SVG, PDF)", Required: true},
				{Name: "scale", Type: "number", Description: "Export scale for raster formats (default 1)"},
			},
			func(_ context.Context, doc *document.Context, p exportSelectionParams) (any, error) {
				selection := doc.Selection()
				if len(selection) == 0 {
					return nil, fmt.Errorf("Please select a node to export.")
				}
				if p.Format == "" {
					return nil, fmt.Errorf("format parameter required")
				}
				format, err := document.ParseExportFormat(p.Format)
				if err != nil {
					return nil, err
				}
				scale := 1.0
				if p.Scale != nil {
					scale = *p.Scale
				}

				node := selection[0]
				data, err := document.Export(node, document.ExportSettings{Format: format, Scale: scale})
				if err != nil {
					return nil, err
				}
				return map[string]any{
					"data":   base64.StdEncoding.EncodeToString(data),
					"format": string(format),
				}, nil
			}),

		command("set-fill-color",
			"Set fill color, gradient, or fill style for the selected nodes",
			[]ParamSpec{
				{Name: "value", Type: "object", Description: "Solid color or gradient paint object"},
				{Name: "styleId", Type: "string", Description: "ID of the color style to apply"},
			},
			func(_ context.Context, doc *document.Context, p setPaintParams) (any, error) {
				err := applyPaintToSelection(doc, p, paintTarget{
					selectHint: "Please select a node to set fill color.",
					applyStyle: func(style *document.PaintStyle, n document.Node) bool {
						paintable, ok := n.(document.Paintable)
						if ok {
							style.ApplyTo(paintable)
						}
						return ok
					},
					applyPaint: func(paint document.Paint, n document.Node) bool {
						paintable, ok := n.(document.Paintable)
						if ok {
							paintable.SetFills(document.ApplyPaint(paintable.Fills(), paint))
						}
						return ok
					},
					capabilityHint: "Selected nodes do not support fills.",
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"status": "Fill color set successfully."}, nil
			}),

		command("set-stroke-color",
			"Set stroke color, gradient, or stroke style for the selected nodes",
			[]ParamSpec{
				{Name: "value", Type: "object", Description: "Solid color or gradient paint object"},
				{Name: "styleId", Type: "string", Description: "ID of the color style to apply"},
			},
			func(_ context.Context, doc *document.Context, p setPaintParams) (any, error) {
				err := applyPaintToSelection(doc, p, paintTarget{
					selectHint: "Please select a node to set stroke color.",
					applyStyle: func(style *document.PaintStyle, n document.Node) bool {
						strokable, ok := n.(document.Strokable)
						if ok {
							style.ApplyToStrokes(strokable)
						}
						return ok
					},
					applyPaint: func(paint document.Paint, n document.Node) bool {
						strokable, ok := n.(document.Strokable)
						if ok {
							strokable.SetStrokes(document.ApplyPaint(strokable.Strokes(), paint))
						}
						return ok
					},
					capabilityHint: "Selected nodes do not support strokes.",
				})
				if err != nil {
					return nil, err
				}
				return map[string]any{"status": "Stroke color set successfully."}, nil
			}),

		command("set-stroke-weight",
			"Set stroke weight for the selected nodes",
			[]ParamSpec{
				{Name: "value", Type: "number", Description: "Stroke weight", Required: true},
			},
			func(_ context.Context, doc *document.Context, p setStrokeWeightParams) (any, error) {
				if len(doc.Selection()) == 0 {
					return nil, fmt.Errorf("Please select a node to set stroke weight.")
				}
				if p.Value == nil {
					return nil, fmt.Errorf("value parameter required")
				}
				if *p.Value < 0 {
					return nil, fmt.Errorf("stroke weight must not be negative")
				}
				applied := 0
				for _, n := range doc.Selection() {
					if strokable, ok := n.(document.Strokable); ok {
						strokable.SetStrokeWeight(*p.Value)
						applied++
					}
				}
				if applied == 0 {
					return nil, fmt.Errorf("Selected nodes do not support strokes.")
				}
				return map[string]any{"status": "Stroke weight set successfully."}, nil
			}),

		command("set-effect",
			"Set an effect on the selected nodes",
			[]ParamSpec{
				{Name: "value", Type: "object", Description: "Effect object (shadow or blur)", Required: true},
			},
			func(_ context.Context, doc *document.Context, p setEffectParams) (any, error) {
				if len(doc.Selection()) == 0 {
					return nil, fmt.Errorf("Please select a node to set effect.")
				}
				if p.Value == nil {
					return nil, fmt.Errorf("value parameter required")
				}
				if err := p.Value.Validate(); err != nil {
					return nil, err
				}
				applied := 0
				for _, n := range doc.Selection() {
					if effectable, ok := n.(document.Effectable); ok {
						effectable.SetEffects([]document.Effect{*p.Value})
						applied++
					}
				}
				if applied == 0 {
					return nil, fmt.Errorf("Selected nodes do not support effects.")
				}
				return map[string]any{"status": "Effect set successfully."}, nil
			}),

		command("ping",
			"Check that the execution context is responsive",
			[]ParamSpec{
				{Name: "message", Type: "string", Description: "Message to echo back"},
				{Name: "timestamp", Type: "string", Description: "Timestamp to echo back"},
			},
			func(_ context.Context, _ *document.Context, p pingParams) (any, error) {
				result := map[string]any{"status": "ok"}
				if p.Message != "" {
					result["message"] = p.Message
				}
				if p.Timestamp != "" {
					result["timestamp"] = p.Timestamp
				}
				return result, nil
			}),

		command("list-functions",
			"List every supported command with its parameter schema",
			nil,
			func(_ context.Context, _ *document.Context, _ emptyParams) (any, error) {
				catalog := d.Catalog()
				functions := make([]map[string]any, 0, len(catalog))
				for _, spec := range catalog {
					params := spec.Parameters
					if params == nil {
						params = []ParamSpec{}
					}
					functions = append(functions, map[string]any{
						"name":        spec.Name,
						"description": spec.Description,
						"parameters":  params,
					})
				}
				return map[string]any{"functions": functions}, nil
			}),
	}
}

// paintTarget abstracts fills versus strokes for the shared set-*-color flow.
type paintTarget struct {
	selectHint     string
	capabilityHint string
	applyStyle     func(*document.PaintStyle, document.Node) bool
	applyPaint     func(document.Paint, document.Node) bool
}

func applyPaintToSelection(doc *document.Context, p setPaintParams, target paintTarget) error {
	selection := doc.Selection()
	if len(selection) == 0 {
		return fmt.Errorf("%s", target.selectHint)
	}

	switch {
	case p.StyleID != nil && *p.StyleID != "":
		style, ok := doc.StyleByID(*p.StyleID)
		if !ok {
			return fmt.Errorf("Style not found: %s", *p.StyleID)
		}
		applied := 0
		for _, n := range selection {
			if target.applyStyle(style, n) {
				applied++
			}
		}
		if applied == 0 {
			return fmt.Errorf("%s", target.capabilityHint)
		}
	case p.Value != nil:
		if err := p.Value.Validate(); err != nil {
			return err
		}
		applied := 0
		for _, n := range selection {
			if target.applyPaint(*p.Value, n) {
				applied++
			}
		}
		if applied == 0 {
			return fmt.Errorf("%s", target.capabilityHint)
		}
	default:
		return fmt.Errorf("value or styleId parameter required")
	}
	return nil
}

func coord(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func (c *colorParams) resolve() (document.Color, error) {
	if c == nil {
		return document.Color{}, fmt.Errorf("color parameter required")
	}
	if c.R == nil || c.G == nil || c.B == nil {
		return document.Color{}, fmt.Errorf("color requires r, g, and b components")
	}
	alpha := 1.0
	if c.A != nil {
		alpha = *c.A
	}
	return document.Color{R: *c.R, G: *c.G, B: *c.B, A: alpha}, nil
}
