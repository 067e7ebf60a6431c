//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/svgedit/internal/document"
	"github.com/inamate/svgedit/internal/engine"
	"github.com/inamate/svgedit/internal/geom"
	"github.com/inamate/svgedit/internal/shapes"
	"github.com/inamate/svgedit/internal/tools"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(engine.DefaultOptions())

	// Create the editor API object
	svgEditor := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	svgEditor.Set("addRect", js.FuncOf(idResult(eng.AddRect)))
	svgEditor.Set("addCircle", js.FuncOf(idResult(eng.AddCircle)))
	svgEditor.Set("addText", js.FuncOf(idResult(eng.AddText)))
	svgEditor.Set("addEllipse", js.FuncOf(idResult(eng.AddEllipse)))
	svgEditor.Set("addPolygon", js.FuncOf(idResult(eng.AddPolygon)))
	svgEditor.Set("addStar", js.FuncOf(idResult(eng.AddStar)))
	svgEditor.Set("addShape", js.FuncOf(addShape))
	svgEditor.Set("addNode", js.FuncOf(addNode))
	svgEditor.Set("addGradient", js.FuncOf(addGradient))
	svgEditor.Set("group", js.FuncOf(group))
	svgEditor.Set("ungroup", js.FuncOf(ungroup))
	svgEditor.Set("deleteElement", js.FuncOf(deleteElement))
	svgEditor.Set("deleteSelected", js.FuncOf(boolResult(eng.DeleteSelected)))
	svgEditor.Set("undo", js.FuncOf(boolResult(eng.Undo)))
	svgEditor.Set("redo", js.FuncOf(boolResult(eng.Redo)))
	svgEditor.Set("saveState", js.FuncOf(saveState))
	svgEditor.Set("setTool", js.FuncOf(setTool))
	svgEditor.Set("setTransformMode", js.FuncOf(setTransformMode))
	svgEditor.Set("startPath", js.FuncOf(startPath))
	svgEditor.Set("completePath", js.FuncOf(completePath))
	svgEditor.Set("pointerDown", js.FuncOf(pointer(eng.PointerDown)))
	svgEditor.Set("pointerMove", js.FuncOf(pointer(eng.PointerMove)))
	svgEditor.Set("pointerUp", js.FuncOf(pointer(eng.PointerUp)))
	svgEditor.Set("wheel", js.FuncOf(wheel))
	svgEditor.Set("keyDown", js.FuncOf(keyDown))
	svgEditor.Set("selectElement", js.FuncOf(selectElement))
	svgEditor.Set("setSelection", js.FuncOf(setSelection))
	svgEditor.Set("updateFill", js.FuncOf(updatePaint(eng.UpdateFill)))
	svgEditor.Set("updateStroke", js.FuncOf(updatePaint(eng.UpdateStroke)))
	svgEditor.Set("updateStrokeWidth", js.FuncOf(updateNumber(eng.UpdateStrokeWidth)))
	svgEditor.Set("updateOpacity", js.FuncOf(updateNumber(eng.UpdateOpacity)))
	svgEditor.Set("toggleGrid", js.FuncOf(boolResult(eng.ToggleGrid)))
	svgEditor.Set("toggleSnap", js.FuncOf(boolResult(eng.ToggleSnap)))
	svgEditor.Set("setCanvasOrigin", js.FuncOf(setCanvasOrigin))
	svgEditor.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	svgEditor.Set("importSVG", js.FuncOf(importSVG))

	// --- Queries (frontend ← engine) ---
	svgEditor.Set("render", js.FuncOf(render))
	svgEditor.Set("exportSVG", js.FuncOf(exportSVG))
	svgEditor.Set("getOverlay", js.FuncOf(jsonResult(func() any { return eng.Overlay() })))
	svgEditor.Set("getElements", js.FuncOf(jsonResult(func() any { return eng.Elements() })))
	svgEditor.Set("getStylePanel", js.FuncOf(getStylePanel))
	svgEditor.Set("getTransformHandles", js.FuncOf(rectResult(eng.TransformHandles)))
	svgEditor.Set("getSelectionBounds", js.FuncOf(rectResult(eng.SelectionBounds)))
	svgEditor.Set("hitTest", js.FuncOf(hitTest))
	svgEditor.Set("getDocument", js.FuncOf(getDocument))
	svgEditor.Set("getSelection", js.FuncOf(jsonResult(func() any { return eng.GetSelection() })))
	svgEditor.Set("canUndo", js.FuncOf(boolResult(eng.CanUndo)))
	svgEditor.Set("canRedo", js.FuncOf(boolResult(eng.CanRedo)))

	// Register on global scope
	js.Global().Set("svgEditor", svgEditor)

	// Signal that WASM is ready
	js.Global().Set("svgEditorReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func idResult(fn func() string) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		return js.ValueOf(fn())
	}
}

func boolResult(fn func() bool) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		return js.ValueOf(fn())
	}
}

func jsonResult(fn func() any) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		data, _ := json.Marshal(fn())
		return js.ValueOf(string(data))
	}
}

// rectResult returns the rect as JSON, or null when there is none.
func rectResult(fn func() (geom.Rect, bool)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		r, ok := fn()
		if !ok {
			return js.Null()
		}
		data, _ := json.Marshal(r)
		return js.ValueOf(string(data))
	}
}

// --- Command Handlers ---

func addShape(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing shape kind")
	}
	id, err := eng.AddShape(shapes.Kind(args[0].String()))
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(id)
}

func addNode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing node JSON")
	}
	var n document.Node
	if err := json.Unmarshal([]byte(args[0].String()), &n); err != nil {
		return errorResult(err.Error())
	}
	id, err := eng.AddNode(n)
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(id)
}

func addGradient(this js.Value, args []js.Value) interface{} {
	kind := document.GradientLinear
	if len(args) > 0 && args[0].Type() == js.TypeString {
		kind = document.GradientType(args[0].String())
	}
	return js.ValueOf(eng.AddGradient(kind))
}

func group(this js.Value, args []js.Value) interface{} {
	id, ok := eng.Group()
	if !ok {
		return js.Null()
	}
	return js.ValueOf(id)
}

func ungroup(this js.Value, args []js.Value) interface{} {
	ids, ok := eng.Ungroup()
	if !ok {
		return js.Null()
	}
	data, _ := json.Marshal(ids)
	return js.ValueOf(string(data))
}

func deleteElement(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.Delete(args[0].String()))
}

func saveState(this js.Value, args []js.Value) interface{} {
	eng.SaveState()
	return nil
}

func setTool(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing tool")
	}
	t, err := tools.ParseTool(args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	eng.SetTool(t)
	return okResult()
}

func setTransformMode(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing mode")
	}
	m, err := tools.ParseTransformMode(args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	eng.SetTransformMode(m)
	return okResult()
}

func startPath(this js.Value, args []js.Value) interface{} {
	eng.StartPath()
	return nil
}

func completePath(this js.Value, args []js.Value) interface{} {
	id, ok := eng.CompletePath()
	if !ok {
		return js.Null()
	}
	return js.ValueOf(id)
}

// pointer adapts (clientX, clientY, ctrl) arguments to a pointer event.
func pointer(fn func(tools.PointerEvent)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 2 {
			return nil
		}
		ev := tools.PointerEvent{Client: geom.Point{X: args[0].Float(), Y: args[1].Float()}}
		if len(args) > 2 {
			ev.Ctrl = args[2].Truthy()
		}
		fn(ev)
		return nil
	}
}

func wheel(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return nil
	}
	eng.Zoom(tools.PointerEvent{
		DeltaY: args[0].Float(),
		Client: geom.Point{X: args[1].Float(), Y: args[2].Float()},
	})
	return js.ValueOf(eng.ZoomLevel())
}

func keyDown(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	k := engine.KeyEvent{Key: args[0].String()}
	if len(args) > 3 {
		k.Ctrl, k.Shift, k.Meta = args[1].Truthy(), args[2].Truthy(), args[3].Truthy()
	}
	return js.ValueOf(eng.HandleKey(k))
}

func selectElement(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	ctrl := len(args) > 1 && args[1].Truthy()
	return js.ValueOf(eng.SelectElement(args[0].String(), ctrl))
}

func setSelection(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		eng.SetSelection(nil)
		return nil
	}

	arr := args[0]
	if arr.Type() != js.TypeObject {
		eng.SetSelection(nil)
		return nil
	}

	length := arr.Length()
	ids := make([]string, length)
	for i := 0; i < length; i++ {
		ids[i] = arr.Index(i).String()
	}
	eng.SetSelection(ids)
	return nil
}

func updatePaint(fn func(string) bool) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return js.ValueOf(false)
		}
		return js.ValueOf(fn(args[0].String()))
	}
}

func updateNumber(fn func(float64) bool) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return js.ValueOf(false)
		}
		return js.ValueOf(fn(args[0].Float()))
	}
}

func setCanvasOrigin(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	eng.SetCanvasOrigin(args[0].Float(), args[1].Float())
	return nil
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	eng.LoadSampleDocument()
	return okResult()
}

func importSVG(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("missing SVG content")
	}
	if err := eng.Import(args[0].String()); err != nil {
		return errorResult("Invalid SVG content")
	}
	return okResult()
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Render())
}

func exportSVG(this js.Value, args []js.Value) interface{} {
	data, err := eng.Export()
	if err != nil {
		return errorResult(err.Error())
	}
	return js.ValueOf(map[string]interface{}{
		"filename": document.ExportFilename,
		"mime":     document.ExportMIME,
		"content":  string(data),
	})
}

func getStylePanel(this js.Value, args []js.Value) interface{} {
	info, ok := eng.StylePanel()
	if !ok {
		return js.Null()
	}
	data, _ := json.Marshal(info)
	return js.ValueOf(string(data))
}

func hitTest(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	id, _ := eng.HitTest(eng.ToDocument(geom.Point{X: args[0].Float(), Y: args[1].Float()}))
	return js.ValueOf(id)
}

func getDocument(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.GetDocument())
}
