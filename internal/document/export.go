package document

import (
	"fmt"
	"strings"
)

// ExportFormat is a normalized export format.
type ExportFormat string

const (
	FormatPNG ExportFormat = "PNG"
	FormatJPG ExportFormat = "JPG"
	FormatSVG ExportFormat = "SVG"
	FormatPDF ExportFormat = "PDF"
)

// ParseExportFormat normalizes a format string case-insensitively.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PNG":
		return FormatPNG, nil
	case "JPG", "JPEG":
		return FormatJPG, nil
	case "SVG":
		return FormatSVG, nil
	case "PDF":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", s)
	}
}

// Raster reports whether the format takes a scale constraint. SVG and PDF
// are vector formats and ignore scale.
func (f ExportFormat) Raster() bool {
	return f == FormatPNG || f == FormatJPG
}

// ExportSettings describe one export request. Scale is only meaningful for
// raster formats.
type ExportSettings struct {
	Format ExportFormat
	Scale  float64
}

// exportable is the fixed allow-list of node types the renderer accepts.
var exportable = map[NodeType]bool{
	TypeFrame:     true,
	TypeGroup:     true,
	TypeRectangle: true,
	TypeEllipse:   true,
	TypeText:      true,
}

// CanExport reports whether a node's structural type is exportable.
func CanExport(n Node) bool { return exportable[n.Type()] }

// Export renders a node to bytes. The in-memory renderer produces real
// headers per format and a deterministic body derived from the node, which
// is enough for transport and round-trip testing.
func Export(n Node, settings ExportSettings) ([]byte, error) {
	if !CanExport(n) {
		return nil, fmt.Errorf("Export is not supported for node type: %s", n.Type())
	}

	w, h := 0.0, 0.0
	if s, ok := n.(Sized); ok {
		w, h = s.Size()
	}
	scale := settings.Scale
	if !settings.Format.Raster() || scale <= 0 {
		scale = 1
	}

	switch settings.Format {
	case FormatSVG:
		return renderSVG(n, w, h), nil
	case FormatPDF:
		body := fmt.Sprintf("%%PDF-1.4\n%% node %s %gx%g\n%%%%EOF\n", n.ID(), w, h)
		return []byte(body), nil
	case FormatPNG:
		header := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
		return append(header, rasterBody(n, w*scale, h*scale)...), nil
	case FormatJPG:
		header := []byte{0xff, 0xd8, 0xff, 0xe0}
		return append(header, rasterBody(n, w*scale, h*scale)...), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", settings.Format)
	}
}

func rasterBody(n Node, w, h float64) []byte {
	return []byte(fmt.Sprintf("%s %gx%g", n.ID(), w, h))
}

func renderSVG(n Node, w, h float64) []byte {
	var fill string
	if p, ok := n.(Paintable); ok {
		for _, paint := range p.Fills() {
			if paint.IsSolid() && paint.Color != nil {
				c := paint.Color
				fill = fmt.Sprintf(` fill="rgb(%d,%d,%d)"`,
					int(c.R*255), int(c.G*255), int(c.B*255))
				break
			}
		}
	}

	var shape string
	switch n.Type() {
	case TypeEllipse:
		shape = fmt.Sprintf(`<ellipse cx="%g" cy="%g" rx="%g" ry="%g"%s/>`, w/2, h/2, w/2, h/2, fill)
	case TypeText:
		text := ""
		if t, ok := n.(*TextNode); ok {
			text = t.Characters()
		}
		shape = fmt.Sprintf(`<text x="0" y="%g"%s>%s</text>`, h, fill, text)
	default:
		shape = fmt.Sprintf(`<rect width="%g" height="%g"%s/>`, w, h, fill)
	}

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g">%s</svg>`, w, h, shape)
	return []byte(svg)
}
