package document

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/inamate/svgedit/internal/geom"
)

const (
	SVGNamespace   = "http://www.w3.org/2000/svg"
	ExportFilename = "drawing.svg"
	ExportMIME     = "image/svg+xml"
)

// MarshalSVG serializes the document as standalone SVG markup.
func MarshalSVG(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "svg"},
		Attr: []xml.Attr{
			attr("xmlns", SVGNamespace),
			attr("width", strconv.Itoa(doc.Width)),
			attr("height", strconv.Itoa(doc.Height)),
			attr("viewBox", fmt.Sprintf("0 0 %d %d", doc.Width, doc.Height)),
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return nil, fmt.Errorf("encode svg: %w", err)
	}

	if gradients := doc.Gradients(); len(gradients) > 0 {
		defs := xml.StartElement{Name: xml.Name{Local: "defs"}}
		if err := enc.EncodeToken(defs); err != nil {
			return nil, fmt.Errorf("encode defs: %w", err)
		}
		for _, g := range gradients {
			if err := encodeGradient(enc, g); err != nil {
				return nil, fmt.Errorf("encode gradient %s: %w", g.ID, err)
			}
		}
		if err := enc.EncodeToken(defs.End()); err != nil {
			return nil, fmt.Errorf("encode defs: %w", err)
		}
	}

	for _, id := range doc.Root {
		if err := encodeNode(enc, doc, id); err != nil {
			return nil, fmt.Errorf("encode %s: %w", id, err)
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return nil, fmt.Errorf("encode svg: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func encodeGradient(enc *xml.Encoder, g Gradient) error {
	name := "linearGradient"
	if g.Type == GradientRadial {
		name = "radialGradient"
	}
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: []xml.Attr{attr("id", g.ID)}}
	for _, a := range [][2]string{{"x1", g.X1}, {"y1", g.Y1}, {"x2", g.X2}, {"y2", g.Y2}} {
		if a[1] != "" {
			start.Attr = append(start.Attr, attr(a[0], a[1]))
		}
	}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, s := range g.Stops {
		stop := xml.StartElement{
			Name: xml.Name{Local: "stop"},
			Attr: []xml.Attr{attr("offset", s.Offset), attr("stop-color", s.Color)},
		}
		if err := enc.EncodeToken(stop); err != nil {
			return err
		}
		if err := enc.EncodeToken(stop.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func encodeNode(enc *xml.Encoder, doc *Document, id string) error {
	n, ok := doc.Objects[id]
	if !ok {
		return ErrNotFound
	}

	start := xml.StartElement{Name: xml.Name{Local: string(n.Type)}, Attr: []xml.Attr{attr("id", n.ID)}}
	g := n.Geometry
	switch n.Type {
	case NodeTypeRect:
		start.Attr = append(start.Attr, num("x", g.X), num("y", g.Y), num("width", g.Width), num("height", g.Height))
	case NodeTypeCircle:
		start.Attr = append(start.Attr, num("cx", g.CX), num("cy", g.CY), num("r", g.R))
	case NodeTypeEllipse:
		start.Attr = append(start.Attr, num("cx", g.CX), num("cy", g.CY), num("rx", g.RX), num("ry", g.RY))
	case NodeTypePolygon:
		start.Attr = append(start.Attr, attr("points", geom.FormatPoints(g.Points)))
	case NodeTypePath:
		start.Attr = append(start.Attr, attr("d", g.D))
	case NodeTypeText:
		start.Attr = append(start.Attr, num("x", g.X), num("y", g.Y))
		if g.FontSize > 0 {
			start.Attr = append(start.Attr, num("font-size", g.FontSize))
		}
	}
	start.Attr = append(start.Attr, paintAttrs(n)...)

	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if n.Type == NodeTypeText && g.Text != "" {
		if err := enc.EncodeToken(xml.CharData(g.Text)); err != nil {
			return err
		}
	}
	for _, c := range n.Children {
		if err := encodeNode(enc, doc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func paintAttrs(n Node) []xml.Attr {
	var out []xml.Attr
	if n.Style.Fill != "" {
		out = append(out, attr("fill", n.Style.Fill))
	}
	if n.Style.Stroke != "" {
		out = append(out, attr("stroke", n.Style.Stroke))
	}
	if n.Style.StrokeWidth > 0 {
		out = append(out, num("stroke-width", n.Style.StrokeWidth))
	}
	if n.Style.Opacity != 1 {
		out = append(out, num("opacity", n.Style.Opacity))
	}
	if n.Transform != "" {
		out = append(out, attr("transform", n.Transform))
	}
	return out
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func num(name string, v float64) xml.Attr {
	return attr(name, geom.FormatNumber(v))
}
