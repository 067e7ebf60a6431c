package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/svgedit/internal/geom"
)

func rectNode(id string) Node {
	return Node{
		ID:       id,
		Type:     NodeTypeRect,
		Geometry: Geometry{X: 10, Y: 10, Width: 20, Height: 20},
		Style:    Style{Fill: "#ff0000", Stroke: "#000000", StrokeWidth: 1, Opacity: 1},
	}
}

func groupNode(id string) Node {
	return Node{ID: id, Type: NodeTypeGroup, Style: Style{Opacity: 1}}
}

func TestGenerateUniqueID(t *testing.T) {
	doc := NewEmptyDocument(800, 600)

	first := doc.GenerateUniqueID("rect")
	require.NoError(t, doc.Append(rectNode(first), nil))
	second := doc.GenerateUniqueID("rect")
	require.NoError(t, doc.Append(rectNode(second), nil))

	assert.Equal(t, "rect-1", first)
	assert.Equal(t, "rect-2", second)

	// gaps are reused
	_, err := doc.Remove("rect-1")
	require.NoError(t, err)
	assert.Equal(t, "rect-1", doc.GenerateUniqueID("rect"))

	// defs entries share the id space
	doc.AddGradient(Gradient{ID: "gradient-1", Type: GradientLinear})
	assert.Equal(t, "gradient-2", doc.GenerateUniqueID("gradient"))
}

func TestTreeOperations(t *testing.T) {
	doc := NewEmptyDocument(800, 600)
	require.NoError(t, doc.Append(rectNode("a"), nil))
	require.NoError(t, doc.Append(groupNode("g"), nil))
	require.NoError(t, doc.Append(rectNode("b"), nil))

	g := "g"
	require.NoError(t, doc.Append(rectNode("c"), &g))
	require.NoError(t, doc.Insert(rectNode("d"), &g, 0))

	assert.Equal(t, []string{"a", "g", "b"}, doc.Root)
	assert.Equal(t, []string{"d", "c"}, doc.ChildrenOf(&g))
	assert.Equal(t, []string{"a", "g", "d", "c", "b"}, doc.Ordered())
	assert.True(t, doc.IsAncestor("g", "c"))
	assert.False(t, doc.IsAncestor("c", "g"))
	assert.Equal(t, 1, doc.IndexOf("c"))

	assert.ErrorIs(t, doc.Append(rectNode("a"), nil), ErrDuplicateID)
	a := "a"
	assert.ErrorIs(t, doc.Append(rectNode("x"), &a), ErrNotGroup)
	missing := "missing"
	assert.ErrorIs(t, doc.Append(rectNode("x"), &missing), ErrNotFound)

	require.NoError(t, doc.Reparent("a", &g, -1))
	assert.Equal(t, []string{"g", "b"}, doc.Root)
	assert.Equal(t, []string{"d", "c", "a"}, doc.ChildrenOf(&g))
	require.NotNil(t, doc.Objects["a"].Parent)
	assert.Equal(t, "g", *doc.Objects["a"].Parent)

	require.NoError(t, doc.Append(groupNode("inner"), &g))
	assert.ErrorIs(t, doc.Reparent("g", strPtr("inner"), 0), ErrCycle)

	removed, err := doc.Remove("g")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"g", "d", "c", "a", "inner"}, removed)
	assert.Equal(t, []string{"b"}, doc.Root)
	assert.Len(t, doc.Objects, 1)

	_, err = doc.Remove("g")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExtractGraft(t *testing.T) {
	doc := NewEmptyDocument(800, 600)
	require.NoError(t, doc.Append(groupNode("g"), nil))
	g := "g"
	child := rectNode("c")
	child.Geometry.Points = []geom.Point{{X: 1, Y: 2}}
	require.NoError(t, doc.Append(child, &g))

	nodes, err := doc.Extract("g")
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Empty(t, doc.Objects)

	// clones do not alias the removed nodes' slices
	nodes[1].Geometry.Points[0].X = 99
	assert.Equal(t, 1.0, child.Geometry.Points[0].X)

	require.NoError(t, doc.Append(groupNode("host"), nil))
	host := "host"
	require.NoError(t, doc.Graft(nodes, &host, -1))
	assert.Equal(t, []string{"host", "g", "c"}, doc.Ordered())
	assert.Equal(t, "host", *doc.Objects["g"].Parent)
	assert.Equal(t, "g", *doc.Objects["c"].Parent)

	assert.ErrorIs(t, doc.Graft(nodes, nil, -1), ErrDuplicateID)
}

func TestExtractKeepsNilSlices(t *testing.T) {
	doc := NewEmptyDocument(800, 600)
	leaf := rectNode("r")
	require.NoError(t, doc.Append(leaf, nil))
	before, _ := doc.Node("r")

	nodes, err := doc.Extract("r")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Nil(t, nodes[0].Children)
	assert.Nil(t, nodes[0].Geometry.Points)
	assert.Equal(t, before, nodes[0])
}

func TestPaintReferences(t *testing.T) {
	id, ok := PaintRef(" url( '#grad' ) ")
	require.True(t, ok)
	assert.Equal(t, "grad", id)
	_, ok = PaintRef("#ff0000")
	assert.False(t, ok)

	doc := NewEmptyDocument(100, 100)
	doc.AddGradient(Gradient{ID: "grad", Type: GradientRadial})
	assert.True(t, doc.ResolvesPaint("url(#grad)"))
	assert.True(t, doc.ResolvesPaint("blue"))
	assert.False(t, doc.ResolvesPaint("url(#other)"))
	assert.False(t, doc.ResolvesPaint("url(grad)"))
}

func TestParseSVGInvalid(t *testing.T) {
	for _, src := range []string{"<svg><rect", "", "not markup", "<html></html>", "<svg></svg><svg></svg>"} {
		doc, err := ParseSVG(src)
		assert.ErrorIs(t, err, ErrInvalidSVG, src)
		assert.Nil(t, doc)
	}
	assert.Equal(t, "invalid SVG content", ErrInvalidSVG.Error())
}

func TestParseSVG(t *testing.T) {
	src := `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" width="400px" height="300">
  <defs>
    <linearGradient id="fade" x1="0%" x2="100%">
      <stop offset="0%" stop-color="#fff"/>
      <stop offset="100%" style="stop-color: #000"/>
    </linearGradient>
  </defs>
  <rect id="box" x="5" y="6" width="50" height="40" fill="red" style="fill: url(#fade); stroke-width: 3"/>
  <circle cx="10" cy="10" r="4" fill="url(#gone)" opacity="2"/>
  <rect id="box" width="1" height="1"/>
  <line x1="0" y1="0" x2="10" y2="20" stroke="black"/>
  <foreignObject><div/></foreignObject>
  <g id="grp" transform="translate(10, 10)">
    <text x="1" y="2" font-size="12">Hello <tspan>there</tspan></text>
    <ellipse cx="1" cy="1" rx="2" ry="3"/>
  </g>
  <circle id="circle-1" r="1"/>
</svg>`

	doc, err := ParseSVG(src)
	require.NoError(t, err)

	assert.Equal(t, 400, doc.Width)
	assert.Equal(t, 300, doc.Height)

	require.Len(t, doc.Gradients(), 1)
	fade := doc.Defs["fade"]
	assert.Equal(t, GradientLinear, fade.Type)
	assert.Equal(t, []GradientStop{{Offset: "0%", Color: "#fff"}, {Offset: "100%", Color: "#000"}}, fade.Stops)

	// the unnamed circle avoids circle-1, which appears later in the file
	assert.Equal(t, []string{"box", "circle-2", "rect-1", "path-1", "grp", "circle-1"}, doc.Root)

	box := doc.Objects["box"]
	assert.Equal(t, "url(#fade)", box.Style.Fill)
	assert.Equal(t, 3.0, box.Style.StrokeWidth)
	assert.Equal(t, Geometry{X: 5, Y: 6, Width: 50, Height: 40}, box.Geometry)

	c := doc.Objects["circle-2"]
	assert.Equal(t, "none", c.Style.Fill)
	assert.Equal(t, 1.0, c.Style.Opacity)

	line := doc.Objects["path-1"]
	assert.Equal(t, NodeTypePath, line.Type)
	assert.Equal(t, "M 0 0 L 10 20", line.Geometry.D)

	grp := doc.Objects["grp"]
	assert.Equal(t, "translate(10, 10)", grp.Transform)
	require.Len(t, grp.Children, 2)
	text := doc.Objects[grp.Children[0]]
	assert.Equal(t, "Hello there", text.Geometry.Text)
	assert.Equal(t, 12.0, text.Geometry.FontSize)
	assert.Equal(t, "ellipse-1", grp.Children[1])
}

func TestMarshalSVGRoundTrip(t *testing.T) {
	doc := NewSampleDocument(800, 600)
	text := Node{
		ID:       "text-1",
		Type:     NodeTypeText,
		Geometry: Geometry{X: 10, Y: 20, Text: "a < b", FontSize: 16},
		Style:    Style{Fill: "#333333", Opacity: 0.5},
	}
	require.NoError(t, doc.Append(text, nil))

	out, err := MarshalSVG(doc)
	require.NoError(t, err)
	s := string(out)
	assert.True(t, strings.HasPrefix(s, "<?xml"))
	assert.Contains(t, s, `<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600" viewBox="0 0 800 600">`)
	assert.Contains(t, s, `<linearGradient id="gradient-1"`)
	assert.Contains(t, s, `a &lt; b`)
	assert.Contains(t, s, `opacity="0.5"`)

	back, err := ParseSVG(s)
	require.NoError(t, err)
	assert.Equal(t, doc.Root, back.Root)
	assert.Equal(t, doc.Defs, back.Defs)
	for id, n := range doc.Objects {
		got, ok := back.Objects[id]
		require.True(t, ok, id)
		assert.Equal(t, n, got, id)
	}
}

func strPtr(s string) *string {
	return &s
}
