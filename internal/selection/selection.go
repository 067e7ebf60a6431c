// Package selection tracks which document nodes are currently selected.
package selection

import "slices"

// Set is an insertion-ordered set of node ids.
type Set struct {
	ids []string
}

// New returns a set holding ids, duplicates dropped.
func New(ids ...string) *Set {
	s := &Set{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports whether id is selected.
func (s *Set) Has(id string) bool {
	return slices.Contains(s.ids, id)
}

// Add selects id, keeping the existing order if it is already selected.
func (s *Set) Add(id string) {
	if !s.Has(id) {
		s.ids = append(s.ids, id)
	}
}

// Remove deselects id.
func (s *Set) Remove(id string) {
	s.ids = slices.DeleteFunc(s.ids, func(x string) bool { return x == id })
}

// Toggle flips the membership of id.
func (s *Set) Toggle(id string) {
	if s.Has(id) {
		s.Remove(id)
		return
	}
	s.Add(id)
}

// Replace makes ids the whole selection.
func (s *Set) Replace(ids ...string) {
	s.ids = nil
	for _, id := range ids {
		s.Add(id)
	}
}

func (s *Set) Clear() {
	s.ids = nil
}

func (s *Set) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the selected ids in selection order.
func (s *Set) IDs() []string {
	return slices.Clone(s.ids)
}

// Single returns the only selected id when exactly one node is selected.
func (s *Set) Single() (string, bool) {
	if len(s.ids) != 1 {
		return "", false
	}
	return s.ids[0], true
}

// Prune drops every id for which exists returns false and reports whether
// anything was removed.
func (s *Set) Prune(exists func(id string) bool) bool {
	before := len(s.ids)
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool { return !exists(id) })
	return len(s.ids) != before
}
