package dispatch

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inklab/canvasbridge/internal/document"
	"github.com/inklab/canvasbridge/internal/project"
	"github.com/inklab/canvasbridge/internal/protocol"
)

func run(t *testing.T, d *Dispatcher, id, method string, params any) protocol.Response {
	t.Helper()
	cmd, err := protocol.NewCommand(id, method, params)
	require.NoError(t, err)
	return d.Dispatch(context.Background(), cmd)
}

func resultMap(t *testing.T, resp protocol.Response) map[string]any {
	t.Helper()
	require.False(t, resp.IsError(), "unexpected error: %+v", resp.Err)
	m, ok := resp.Result.(map[string]any)
	require.True(t, ok, "result is not a map: %T", resp.Result)
	return m
}

func TestDispatch(t *testing.T) {
	t.Run("response carries the command id", func(t *testing.T) {
		d := New(document.NewContext())
		resp := run(t, d, "ping-42", "ping", nil)
		assert.Equal(t, "ping-42", resp.ID)
	})

	t.Run("unknown command yields an error response", func(t *testing.T) {
		d := New(document.NewContext())
		resp := run(t, d, "x-1", "teleport", nil)
		require.True(t, resp.IsError())
		assert.Equal(t, "Unknown command: teleport", resp.Err.Message)
		assert.Equal(t, "x-1", resp.ID)
	})

	t.Run("handler errors become error responses, not dropped commands", func(t *testing.T) {
		d := New(document.NewContext())
		resp := run(t, d, "e-1", "export-selection", map[string]any{"format": "png"})
		require.True(t, resp.IsError())
		assert.Equal(t, "e-1", resp.ID)
	})
}

func TestPing(t *testing.T) {
	d := New(document.NewContext())

	t.Run("bare ping", func(t *testing.T) {
		result := resultMap(t, run(t, d, "p-1", "ping", nil))
		assert.Equal(t, "ok", result["status"])
	})

	t.Run("echoes message and timestamp", func(t *testing.T) {
		result := resultMap(t, run(t, d, "p-2", "ping", map[string]any{
			"message":   "hello",
			"timestamp": "2026-08-23T00:00:00Z",
		}))
		assert.Equal(t, "hello", result["message"])
		assert.Equal(t, "2026-08-23T00:00:00Z", result["timestamp"])
	})
}

func TestCreateAndSelect(t *testing.T) {
	t.Run("create-rectangle places, selects, and reveals the node", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)

		created := resultMap(t, run(t, d, "cr-1", "create-rectangle", map[string]any{"x": 10, "y": 20}))
		id, ok := created["id"].(string)
		require.True(t, ok)
		assert.NotEmpty(t, id)

		sel := resultMap(t, run(t, d, "gs-1", "get-selection", nil))
		assert.Equal(t, 1, sel["count"])

		require.Len(t, doc.Selection(), 1)
		pos := doc.Selection()[0].(document.Positioned)
		x, y := pos.Position()
		assert.Equal(t, 10.0, x)
		assert.Equal(t, 20.0, y)

		vp := doc.Viewport()
		assert.Equal(t, 60.0, vp.CenterX)
		assert.Equal(t, 70.0, vp.CenterY)
	})

	t.Run("coordinates default to the origin", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-2", "create-rectangle", nil))

		pos := doc.Selection()[0].(document.Positioned)
		x, y := pos.Position()
		assert.Equal(t, 0.0, x)
		assert.Equal(t, 0.0, y)
	})

	t.Run("create-text defaults its content", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "ct-1", "create-text", map[string]any{"x": 5, "y": 5}))

		text := doc.Selection()[0].(*document.TextNode)
		assert.Equal(t, "Text", text.Characters())
	})

	t.Run("get-selection-details includes children one level deep", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)

		frame := document.NewFrame("card", 300, 200)
		frame.AppendChild(document.NewRectangle(0, 0))
		doc.Append(frame)
		doc.SetSelection([]document.Node{frame})

		details := resultMap(t, run(t, d, "gd-1", "get-selection-details", nil))
		nodes, ok := details["nodes"].([]project.Projection)
		require.True(t, ok)
		require.Len(t, nodes, 1)

		children, ok := nodes[0]["children"].([]project.Projection)
		require.True(t, ok)
		require.Len(t, children, 1)
		assert.Equal(t, "RECTANGLE", children[0]["type"])
	})
}

func TestColorStyles(t *testing.T) {
	doc := document.NewContext()
	d := New(doc)

	t.Run("create returns styleId and name", func(t *testing.T) {
		result := resultMap(t, run(t, d, "cs-1", "create-color-style", map[string]any{
			"name":  "Brand/Primary",
			"color": map[string]any{"r": 1, "g": 0, "b": 0},
		}))
		assert.NotEmpty(t, result["styleId"])
		assert.Equal(t, "Brand/Primary", result["name"])
	})

	t.Run("same name updates in place and keeps the id", func(t *testing.T) {
		first := resultMap(t, run(t, d, "cs-2", "create-color-style", map[string]any{
			"name":  "Brand/Accent",
			"color": map[string]any{"r": 0, "g": 1, "b": 0},
		}))
		second := resultMap(t, run(t, d, "cs-3", "create-color-style", map[string]any{
			"name":  "Brand/Accent",
			"color": map[string]any{"r": 0, "g": 0, "b": 1},
		}))
		assert.Equal(t, first["styleId"], second["styleId"])
	})

	t.Run("get-color-styles lists registered styles", func(t *testing.T) {
		result := resultMap(t, run(t, d, "gc-1", "get-color-styles", nil))
		assert.Equal(t, 2, result["count"])
	})

	t.Run("name is required", func(t *testing.T) {
		resp := run(t, d, "cs-4", "create-color-style", map[string]any{
			"color": map[string]any{"r": 1, "g": 1, "b": 1},
		})
		require.True(t, resp.IsError())
		assert.Equal(t, "name parameter required", resp.Err.Message)
	})

	t.Run("color components are required", func(t *testing.T) {
		resp := run(t, d, "cs-5", "create-color-style", map[string]any{
			"name":  "Broken",
			"color": map[string]any{"r": 1},
		})
		assert.True(t, resp.IsError())
	})
}

func TestSetFillColor(t *testing.T) {
	t.Run("requires a selection", func(t *testing.T) {
		d := New(document.NewContext())
		resp := run(t, d, "sf-1", "set-fill-color", map[string]any{
			"value": map[string]any{"type": "SOLID", "color": map[string]any{"r": 1, "g": 0, "b": 0}},
		})
		require.True(t, resp.IsError())
		assert.Equal(t, "Please select a node to set fill color.", resp.Err.Message)
	})

	t.Run("requires value or styleId", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		resp := run(t, d, "sf-2", "set-fill-color", nil)
		require.True(t, resp.IsError())
		assert.Equal(t, "value or styleId parameter required", resp.Err.Message)
	})

	t.Run("solid over solid replaces the first fill", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		result := resultMap(t, run(t, d, "sf-3", "set-fill-color", map[string]any{
			"value": map[string]any{"type": "SOLID", "color": map[string]any{"r": 1, "g": 0, "b": 0}},
		}))
		assert.Equal(t, "Fill color set successfully.", result["status"])

		rect := doc.Selection()[0].(document.Paintable)
		require.Len(t, rect.Fills(), 1)
		assert.Equal(t, 1.0, rect.Fills()[0].Color.R)
	})

	t.Run("solid over gradient prepends and preserves layers", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		rect := doc.Selection()[0].(document.Paintable)
		rect.SetFills([]document.Paint{{
			Type:          document.PaintGradientLinear,
			GradientStops: []document.GradientStop{{Color: document.Color{R: 1, A: 1}}},
		}})

		resultMap(t, run(t, d, "sf-4", "set-fill-color", map[string]any{
			"value": map[string]any{"type": "SOLID", "color": map[string]any{"r": 0, "g": 0, "b": 1}},
		}))
		require.Len(t, rect.Fills(), 2)
		assert.Equal(t, document.PaintSolid, rect.Fills()[0].Type)
		assert.Equal(t, document.PaintGradientLinear, rect.Fills()[1].Type)
	})

	t.Run("gradient over gradient replaces the first fill", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		rect := doc.Selection()[0].(document.Paintable)
		rect.SetFills([]document.Paint{{
			Type:          document.PaintGradientLinear,
			GradientStops: []document.GradientStop{{Color: document.Color{R: 1, A: 1}}},
		}})

		resultMap(t, run(t, d, "sf-5", "set-fill-color", map[string]any{
			"value": map[string]any{
				"type": "GRADIENT_RADIAL",
				"gradientStops": []map[string]any{
					{"color": map[string]any{"r": 0, "g": 1, "b": 0, "a": 1}, "position": 0},
				},
			},
		}))
		require.Len(t, rect.Fills(), 1)
		assert.Equal(t, document.PaintGradientRadial, rect.Fills()[0].Type)
	})

	t.Run("style application replaces the entire fill list", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		style := resultMap(t, run(t, d, "cs-1", "create-color-style", map[string]any{
			"name":  "Fill/Red",
			"color": map[string]any{"r": 1, "g": 0, "b": 0},
		}))

		rect := doc.Selection()[0].(document.Paintable)
		rect.SetFills([]document.Paint{
			document.SolidPaint(document.Color{B: 1, A: 1}),
			document.SolidPaint(document.Color{G: 1, A: 1}),
		})

		resultMap(t, run(t, d, "sf-6", "set-fill-color", map[string]any{
			"styleId": style["styleId"],
		}))
		require.Len(t, rect.Fills(), 1)
		assert.Equal(t, 1.0, rect.Fills()[0].Color.R)
	})

	t.Run("unknown style id", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		resp := run(t, d, "sf-7", "set-fill-color", map[string]any{"styleId": "nope"})
		require.True(t, resp.IsError())
		assert.Equal(t, "Style not found: nope", resp.Err.Message)
	})

	t.Run("invalid paint is rejected before touching the node", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))
		before := doc.Selection()[0].(document.Paintable).Fills()

		resp := run(t, d, "sf-8", "set-fill-color", map[string]any{
			"value": map[string]any{"type": "SOLID"},
		})
		require.True(t, resp.IsError())
		assert.Equal(t, before, doc.Selection()[0].(document.Paintable).Fills())
	})
}

func TestSetStrokeColor(t *testing.T) {
	t.Run("requires a selection", func(t *testing.T) {
		d := New(document.NewContext())
		resp := run(t, d, "ss-1", "set-stroke-color", map[string]any{
			"value": map[string]any{"type": "SOLID", "color": map[string]any{"r": 1, "g": 0, "b": 0}},
		})
		require.True(t, resp.IsError())
		assert.Equal(t, "Please select a node to set stroke color.", resp.Err.Message)
	})

	t.Run("sets strokes on the selection", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		result := resultMap(t, run(t, d, "ss-2", "set-stroke-color", map[string]any{
			"value": map[string]any{"type": "SOLID", "color": map[string]any{"r": 0, "g": 0, "b": 0}},
		}))
		assert.Equal(t, "Stroke color set successfully.", result["status"])

		rect := doc.Selection()[0].(document.Strokable)
		require.Len(t, rect.Strokes(), 1)
	})

	t.Run("selection without stroke capability", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		group := document.NewGroup("g")
		doc.Append(group)
		doc.SetSelection([]document.Node{group})

		resp := run(t, d, "ss-3", "set-stroke-color", map[string]any{
			"value": map[string]any{"type": "SOLID", "color": map[string]any{"r": 0, "g": 0, "b": 0}},
		})
		require.True(t, resp.IsError())
		assert.Equal(t, "Selected nodes do not support strokes.", resp.Err.Message)
	})
}

func TestSetStrokeWeight(t *testing.T) {
	t.Run("requires a selection", func(t *testing.T) {
		d := New(document.NewContext())
		resp := run(t, d, "sw-1", "set-stroke-weight", map[string]any{"value": 2})
		require.True(t, resp.IsError())
		assert.Equal(t, "Please select a node to set stroke weight.", resp.Err.Message)
	})

	t.Run("rejects negative weights", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		resp := run(t, d, "sw-2", "set-stroke-weight", map[string]any{"value": -1})
		assert.True(t, resp.IsError())
	})

	t.Run("zero is a legal weight", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		result := resultMap(t, run(t, d, "sw-3", "set-stroke-weight", map[string]any{"value": 0}))
		assert.Equal(t, "Stroke weight set successfully.", result["status"])
		assert.Equal(t, 0.0, doc.Selection()[0].(document.Strokable).StrokeWeight())
	})
}

func TestSetEffect(t *testing.T) {
	t.Run("requires a selection", func(t *testing.T) {
		d := New(document.NewContext())
		resp := run(t, d, "se-1", "set-effect", map[string]any{
			"value": map[string]any{"type": "LAYER_BLUR", "radius": 4},
		})
		require.True(t, resp.IsError())
		assert.Equal(t, "Please select a node to set effect.", resp.Err.Message)
	})

	t.Run("replaces the effect list with the single effect", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		rect := doc.Selection()[0].(document.Effectable)
		rect.SetEffects([]document.Effect{
			{Type: document.EffectLayerBlur, Radius: 1},
			{Type: document.EffectBackgroundBlur, Radius: 2},
		})

		result := resultMap(t, run(t, d, "se-2", "set-effect", map[string]any{
			"value": map[string]any{"type": "LAYER_BLUR", "radius": 8},
		}))
		assert.Equal(t, "Effect set successfully.", result["status"])
		require.Len(t, rect.Effects(), 1)
		assert.Equal(t, 8.0, rect.Effects()[0].Radius)
	})

	t.Run("shadow without color is rejected", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		resp := run(t, d, "se-3", "set-effect", map[string]any{
			"value": map[string]any{"type": "DROP_SHADOW", "radius": 4},
		})
		assert.True(t, resp.IsError())
	})
}

func TestExportSelection(t *testing.T) {
	t.Run("requires a selection", func(t *testing.T) {
		d := New(document.NewContext())
		resp := run(t, d, "ex-1", "export-selection", map[string]any{"format": "png"})
		require.True(t, resp.IsError())
		assert.Equal(t, "Please select a node to export.", resp.Err.Message)
	})

	t.Run("requires a format", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		resp := run(t, d, "ex-2", "export-selection", nil)
		require.True(t, resp.IsError())
		assert.Equal(t, "format parameter required", resp.Err.Message)
	})

	t.Run("lowercase format is normalized", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		result := resultMap(t, run(t, d, "ex-3", "export-selection", map[string]any{"format": "png"}))
		assert.Equal(t, "PNG", result["format"])

		data, err := base64.StdEncoding.DecodeString(result["data"].(string))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, data[:8])
	})

	t.Run("svg export is valid base64 markup", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		resultMap(t, run(t, d, "cr-1", "create-rectangle", nil))

		result := resultMap(t, run(t, d, "ex-4", "export-selection", map[string]any{"format": "SVG"}))
		data, err := base64.StdEncoding.DecodeString(result["data"].(string))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "<svg"))
	})

	t.Run("slice selection is rejected by type", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		slice := document.NewSlice(0, 0, 10, 10)
		doc.Append(slice)
		doc.SetSelection([]document.Node{slice})

		resp := run(t, d, "ex-5", "export-selection", map[string]any{"format": "PNG"})
		require.True(t, resp.IsError())
		assert.Equal(t, "Export is not supported for node type: SLICE", resp.Err.Message)
	})

	t.Run("only the first selected node is exported", func(t *testing.T) {
		doc := document.NewContext()
		d := New(doc)
		a := document.NewRectangle(0, 0)
		b := document.NewRectangle(50, 50)
		doc.Append(a)
		doc.Append(b)
		doc.SetSelection([]document.Node{a, b})

		result := resultMap(t, run(t, d, "ex-6", "export-selection", map[string]any{"format": "SVG"}))
		data, err := base64.StdEncoding.DecodeString(result["data"].(string))
		require.NoError(t, err)
		assert.Contains(t, string(data), "<rect")
	})
}

func TestListFunctions(t *testing.T) {
	d := New(document.NewContext())
	result := resultMap(t, run(t, d, "lf-1", "list-functions", nil))

	functions, ok := result["functions"].([]map[string]any)
	require.True(t, ok)

	catalog := d.Catalog()
	require.Len(t, functions, len(catalog))

	t.Run("catalog and dispatch table stay in lockstep", func(t *testing.T) {
		for i, fn := range functions {
			assert.Equal(t, catalog[i].Name, fn["name"])
			assert.NotEmpty(t, fn["description"])

			// Every listed function must dispatch without hitting the
			// unknown-command branch.
			resp := run(t, d, "probe", fn["name"].(string), nil)
			if resp.IsError() {
				assert.NotContains(t, resp.Err.Message, "Unknown command")
			}
		}
	})

	t.Run("parameterless commands report an empty schema, not null", func(t *testing.T) {
		for _, fn := range functions {
			params, ok := fn["parameters"].([]ParamSpec)
			require.True(t, ok, fn["name"])
			assert.NotNil(t, params)
		}
	})

	t.Run("required flags survive into the schema", func(t *testing.T) {
		var export map[string]any
		for _, fn := range functions {
			if fn["name"] == "export-selection" {
				export = fn
			}
		}
		require.NotNil(t, export)
		params := export["parameters"].([]ParamSpec)
		require.Len(t, params, 2)
		assert.Equal(t, "format", params[0].Name)
		assert.True(t, params[0].Required)
		assert.False(t, params[1].Required)
	})
}
