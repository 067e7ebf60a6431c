package engine

import "strings"

// KeyEvent is a key press with its modifiers. Meta counts as ctrl.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl"`
	Shift bool   `json:"shift"`
	Meta  bool   `json:"meta"`
}

// Chord renders the event as a binding name such as "ctrl+shift+g".
func (k KeyEvent) Chord() string {
	var parts []string
	if k.Ctrl || k.Meta {
		parts = append(parts, "ctrl")
	}
	if k.Shift {
		parts = append(parts, "shift")
	}
	return strings.Join(append(parts, strings.ToLower(k.Key)), "+")
}

func (e *Engine) defaultKeymap() map[string]func() {
	deleteSelected := func() { e.DeleteSelected() }
	return map[string]func(){
		"ctrl+z":       func() { e.Undo() },
		"ctrl+y":       func() { e.Redo() },
		"ctrl+g":       func() { e.Group() },
		"ctrl+shift+g": func() { e.Ungroup() },
		"delete":       deleteSelected,
		"backspace":    deleteSelected,
		"enter":        func() { e.CompletePath() },
		"escape":       func() { e.cancelDrag(); e.tools.Reset() },
	}
}

// Bind maps a chord to an action, replacing any existing binding. A nil
// action removes the binding.
func (e *Engine) Bind(chord string, action func()) {
	chord = strings.ToLower(chord)
	if action == nil {
		delete(e.keymap, chord)
		return
	}
	e.keymap[chord] = action
}

// HandleKey runs the action bound to the event and reports whether one was.
func (e *Engine) HandleKey(k KeyEvent) bool {
	action, ok := e.keymap[k.Chord()]
	if !ok {
		return false
	}
	action()
	return true
}
