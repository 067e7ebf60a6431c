package document

import (
	"strings"

	"github.com/inamate/svgedit/internal/geom"
)

// Document is the scene being edited: an ordered list of top-level nodes,
// the node table and the defs table of paint servers.
type Document struct {
	Width     int                 `json:"width"`
	Height    int                 `json:"height"`
	Root      []string            `json:"root"`
	Objects   map[string]Node     `json:"objects"`
	Defs      map[string]Gradient `json:"defs"`
	DefsOrder []string            `json:"defsOrder"`
}

type NodeType string

const (
	NodeTypeRect    NodeType = "rect"
	NodeTypeCircle  NodeType = "circle"
	NodeTypeEllipse NodeType = "ellipse"
	NodeTypePolygon NodeType = "polygon"
	NodeTypePath    NodeType = "path"
	NodeTypeText    NodeType = "text"
	NodeTypeGroup   NodeType = "g"
)

// Prefix is the id prefix used when generating ids for nodes of this type.
func (t NodeType) Prefix() string {
	if t == NodeTypeGroup {
		return "group"
	}
	return string(t)
}

// Geometry holds the type-specific shape attributes. Only the fields
// relevant to the node type are meaningful.
type Geometry struct {
	X        float64      `json:"x,omitempty"`
	Y        float64      `json:"y,omitempty"`
	Width    float64      `json:"width,omitempty"`
	Height   float64      `json:"height,omitempty"`
	CX       float64      `json:"cx,omitempty"`
	CY       float64      `json:"cy,omitempty"`
	R        float64      `json:"r,omitempty"`
	RX       float64      `json:"rx,omitempty"`
	RY       float64      `json:"ry,omitempty"`
	Points   []geom.Point `json:"points,omitempty"`
	D        string       `json:"d,omitempty"`
	Text     string       `json:"text,omitempty"`
	FontSize float64      `json:"fontSize,omitempty"`
}

type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

type Node struct {
	ID        string   `json:"id"`
	Type      NodeType `json:"type"`
	Parent    *string  `json:"parent"`
	Children  []string `json:"children,omitempty"`
	Geometry  Geometry `json:"geometry"`
	Style     Style    `json:"style"`
	Transform string   `json:"transform,omitempty"`
}

// IsGroup reports whether the node can hold children.
func (n Node) IsGroup() bool {
	return n.Type == NodeTypeGroup
}

type GradientType string

const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
)

type GradientStop struct {
	Offset string `json:"offset"`
	Color  string `json:"color"`
}

type Gradient struct {
	ID    string         `json:"id"`
	Type  GradientType   `json:"type"`
	X1    string         `json:"x1,omitempty"`
	Y1    string         `json:"y1,omitempty"`
	X2    string         `json:"x2,omitempty"`
	Y2    string         `json:"y2,omitempty"`
	Stops []GradientStop `json:"stops"`
}

// NewEmptyDocument creates an empty document for a canvas of the given size.
func NewEmptyDocument(width, height int) *Document {
	return &Document{
		Width:     width,
		Height:    height,
		Root:      []string{},
		Objects:   map[string]Node{},
		Defs:      map[string]Gradient{},
		DefsOrder: []string{},
	}
}

// PaintRef extracts the id from a url(#id) paint reference.
func PaintRef(paint string) (string, bool) {
	p := strings.TrimSpace(paint)
	if !strings.HasPrefix(p, "url(") || !strings.HasSuffix(p, ")") {
		return "", false
	}
	ref := strings.TrimSpace(p[len("url(") : len(p)-1])
	ref = strings.Trim(ref, `'"`)
	if !strings.HasPrefix(ref, "#") || len(ref) == 1 {
		return "", false
	}
	return ref[1:], true
}

// PaintURL formats a url(#id) paint reference.
func PaintURL(id string) string {
	return "url(#" + id + ")"
}

// ResolvesPaint reports whether paint is a plain color or a reference to an
// existing defs entry.
func (d *Document) ResolvesPaint(paint string) bool {
	if !strings.HasPrefix(strings.TrimSpace(paint), "url(") {
		return true
	}
	id, ok := PaintRef(paint)
	if !ok {
		return false
	}
	_, ok = d.Defs[id]
	return ok
}

// AddGradient stores g in the defs table, keeping insertion order.
func (d *Document) AddGradient(g Gradient) {
	if _, exists := d.Defs[g.ID]; !exists {
		d.DefsOrder = append(d.DefsOrder, g.ID)
	}
	d.Defs[g.ID] = g
}

// Gradients returns the defs entries in insertion order.
func (d *Document) Gradients() []Gradient {
	out := make([]Gradient, 0, len(d.DefsOrder))
	for _, id := range d.DefsOrder {
		if g, ok := d.Defs[id]; ok {
			out = append(out, g)
		}
	}
	return out
}
