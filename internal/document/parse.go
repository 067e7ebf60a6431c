package document

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/aymerick/douceur/parser"
	pstrconv "github.com/tdewolff/parse/v2/strconv"
	"golang.org/x/net/html/charset"

	"github.com/inamate/svgedit/internal/geom"
)

// ErrInvalidSVG is returned when imported text is not well-formed SVG.
var ErrInvalidSVG = errors.New("invalid SVG content")

// element is the raw XML tree read before conversion into nodes.
type element struct {
	name     string
	attrs    map[string]string
	children []*element
	text     strings.Builder
}

// ParseSVG builds a new document from SVG markup. Gradients found in defs
// blocks fill the defs table; the remaining top-level elements become nodes.
// Unsupported elements are skipped, missing or duplicate ids are replaced and
// paint references to unknown gradients are reset to none.
func ParseSVG(src string) (*Document, error) {
	root, err := readTree(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSVG, err)
	}
	if root.name != "svg" {
		return nil, fmt.Errorf("%w: root element is <%s>", ErrInvalidSVG, root.name)
	}

	width, height := canvasSize(root)
	doc := NewEmptyDocument(width, height)

	reserved := map[string]bool{}
	collectIDs(root, reserved)
	taken := func(id string) bool {
		return doc.Has(id) || reserved[id]
	}
	claim := func(id, prefix string) string {
		if id == "" || doc.Has(id) {
			return generateID(prefix, taken)
		}
		return id
	}

	for _, defs := range findAll(root, "defs") {
		for _, el := range defs.children {
			if g, ok := parseGradient(el); ok {
				g.ID = claim(g.ID, "gradient")
				doc.AddGradient(g)
			}
		}
	}

	var convert func(el *element, parent *string)
	convert = func(el *element, parent *string) {
		n, ok := parseNode(el)
		if !ok {
			return
		}
		n.ID = claim(el.attrs["id"], n.Type.Prefix())
		if !doc.ResolvesPaint(n.Style.Fill) {
			n.Style.Fill = "none"
		}
		if !doc.ResolvesPaint(n.Style.Stroke) {
			n.Style.Stroke = "none"
		}
		if err := doc.Append(n, parent); err != nil {
			return
		}
		if n.IsGroup() {
			id := n.ID
			for _, c := range el.children {
				convert(c, &id)
			}
		}
	}
	for _, el := range root.children {
		if el.name != "defs" {
			convert(el, nil)
		}
	}
	return doc, nil
}

func readTree(r io.Reader) (*element, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = true
	decoder.CharsetReader = charset.NewReaderLabel

	var root *element
	var stack []*element
	for {
		t, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch se := t.(type) {
		case xml.StartElement:
			el := &element{name: se.Name.Local, attrs: map[string]string{}}
			for _, a := range se.Attr {
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				el.attrs[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(se)
			}
		}
	}
	if root == nil {
		return nil, errors.New("no root element")
	}
	return root, nil
}

func collectIDs(el *element, ids map[string]bool) {
	if id := el.attrs["id"]; id != "" {
		ids[id] = true
	}
	for _, c := range el.children {
		collectIDs(c, ids)
	}
}

func findAll(el *element, name string) []*element {
	var out []*element
	for _, c := range el.children {
		if c.name == name {
			out = append(out, c)
		}
		out = append(out, findAll(c, name)...)
	}
	return out
}

func canvasSize(root *element) (int, int) {
	w := attrFloat(root.attrs["width"])
	h := attrFloat(root.attrs["height"])
	if w <= 0 || h <= 0 {
		if vb, err := geom.ParseNumbers(root.attrs["viewBox"]); err == nil && len(vb) == 4 {
			w, h = vb[2], vb[3]
		}
	}
	return int(math.Round(w)), int(math.Round(h))
}

func parseGradient(el *element) (Gradient, bool) {
	var g Gradient
	switch el.name {
	case "linearGradient":
		g.Type = GradientLinear
	case "radialGradient":
		g.Type = GradientRadial
	default:
		return g, false
	}
	g.ID = el.attrs["id"]
	g.X1, g.Y1 = el.attrs["x1"], el.attrs["y1"]
	g.X2, g.Y2 = el.attrs["x2"], el.attrs["y2"]
	g.Stops = []GradientStop{}
	for _, c := range el.children {
		if c.name != "stop" {
			continue
		}
		stop := GradientStop{Offset: c.attrs["offset"], Color: c.attrs["stop-color"]}
		if v, ok := inlineStyle(c)["stop-color"]; ok {
			stop.Color = v
		}
		if stop.Offset == "" {
			stop.Offset = "0"
		}
		if stop.Color == "" {
			stop.Color = "#000000"
		}
		g.Stops = append(g.Stops, stop)
	}
	return g, true
}

func parseNode(el *element) (Node, bool) {
	n := Node{}
	a := el.attrs
	switch el.name {
	case "rect":
		n.Type = NodeTypeRect
		n.Geometry = Geometry{X: attrFloat(a["x"]), Y: attrFloat(a["y"]), Width: attrFloat(a["width"]), Height: attrFloat(a["height"])}
	case "circle":
		n.Type = NodeTypeCircle
		n.Geometry = Geometry{CX: attrFloat(a["cx"]), CY: attrFloat(a["cy"]), R: attrFloat(a["r"])}
	case "ellipse":
		n.Type = NodeTypeEllipse
		n.Geometry = Geometry{CX: attrFloat(a["cx"]), CY: attrFloat(a["cy"]), RX: attrFloat(a["rx"]), RY: attrFloat(a["ry"])}
	case "polygon":
		pts, err := geom.ParsePoints(a["points"])
		if err != nil {
			return n, false
		}
		n.Type = NodeTypePolygon
		n.Geometry = Geometry{Points: pts}
	case "polyline":
		pts, err := geom.ParsePoints(a["points"])
		if err != nil || len(pts) == 0 {
			return n, false
		}
		n.Type = NodeTypePath
		n.Geometry = Geometry{D: polylineData(pts)}
	case "line":
		n.Type = NodeTypePath
		n.Geometry = Geometry{D: polylineData([]geom.Point{
			{X: attrFloat(a["x1"]), Y: attrFloat(a["y1"])},
			{X: attrFloat(a["x2"]), Y: attrFloat(a["y2"])},
		})}
	case "path":
		if _, err := geom.ParsePathData(a["d"]); err != nil {
			return n, false
		}
		n.Type = NodeTypePath
		n.Geometry = Geometry{D: strings.TrimSpace(a["d"])}
	case "text":
		n.Type = NodeTypeText
		n.Geometry = Geometry{X: attrFloat(a["x"]), Y: attrFloat(a["y"]), FontSize: attrFloat(a["font-size"]), Text: textContent(el)}
	case "g":
		n.Type = NodeTypeGroup
	default:
		return n, false
	}

	n.Style = Style{Fill: a["fill"], Stroke: a["stroke"], StrokeWidth: attrFloat(a["stroke-width"]), Opacity: 1}
	if v, ok := a["opacity"]; ok {
		n.Style.Opacity = attrFloat(v)
	}
	n.Transform = strings.TrimSpace(a["transform"])

	for prop, v := range inlineStyle(el) {
		switch prop {
		case "fill":
			n.Style.Fill = v
		case "stroke":
			n.Style.Stroke = v
		case "stroke-width":
			n.Style.StrokeWidth = attrFloat(v)
		case "opacity":
			n.Style.Opacity = attrFloat(v)
		case "font-size":
			if n.Type == NodeTypeText {
				n.Geometry.FontSize = attrFloat(v)
			}
		}
	}
	n.Style.Opacity = ClampOpacity(n.Style.Opacity)
	return n, true
}

// inlineStyle returns the declarations of the element's style attribute.
func inlineStyle(el *element) map[string]string {
	out := map[string]string{}
	style := strings.TrimSpace(el.attrs["style"])
	if style == "" {
		return out
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return out
	}
	for _, d := range decls {
		out[strings.ToLower(d.Property)] = strings.TrimSpace(d.Value)
	}
	return out
}

func textContent(el *element) string {
	var sb strings.Builder
	var walk func(e *element)
	walk = func(e *element) {
		sb.WriteString(e.text.String())
		for _, c := range e.children {
			walk(c)
		}
	}
	walk(el)
	return strings.Join(strings.Fields(sb.String()), " ")
}

func polylineData(pts []geom.Point) string {
	segs := make([]geom.Segment, 0, len(pts))
	for i, p := range pts {
		op := byte('L')
		if i == 0 {
			op = 'M'
		}
		segs = append(segs, geom.Segment{Op: op, Points: []geom.Point{p}})
	}
	return geom.FormatPathData(segs)
}

// attrFloat reads the leading number of a length attribute, ignoring units.
func attrFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, n := pstrconv.ParseFloat([]byte(s))
	if n == 0 {
		return 0
	}
	return f
}

// ClampOpacity limits v to [0, 1].
func ClampOpacity(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
