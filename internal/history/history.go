// Package history keeps a linear list of whole-document snapshots with a
// cursor for undo and redo.
package history

import "slices"

// Rec is one saved state together with the action that produced it.
type Rec struct {
	Action string
	State  []byte
}

// History is the undo manager. The record at Cursor is the current state;
// records after it are the redo future.
type History struct {
	recs   []Rec
	cursor int
}

// New starts a history whose baseline is state. Undo never goes past it.
func New(state []byte) *History {
	return &History{recs: []Rec{{Action: "init", State: slices.Clone(state)}}}
}

// Save drops any redo future and appends state as the new current record.
func (h *History) Save(action string, state []byte) {
	h.recs = append(h.recs[:h.cursor+1], Rec{Action: action, State: slices.Clone(state)})
	h.cursor++
}

// Undo steps back one record and returns its state. It returns false at
// the baseline.
func (h *History) Undo() ([]byte, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.cursor--
	return h.recs[h.cursor].State, true
}

// Redo steps forward one record and returns its state.
func (h *History) Redo() ([]byte, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.cursor++
	return h.recs[h.cursor].State, true
}

func (h *History) CanUndo() bool { return h.cursor > 0 }

func (h *History) CanRedo() bool { return h.cursor < len(h.recs)-1 }

// Len returns the number of records, baseline included.
func (h *History) Len() int { return len(h.recs) }

// Cursor returns the index of the current record.
func (h *History) Cursor() int { return h.cursor }

// Current returns the record at the cursor.
func (h *History) Current() Rec { return h.recs[h.cursor] }

// Actions lists the action names of every record in order.
func (h *History) Actions() []string {
	out := make([]string, len(h.recs))
	for i, r := range h.recs {
		out[i] = r.Action
	}
	return out
}
