package document

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
)

var (
	ErrNotFound    = errors.New("node not found")
	ErrDuplicateID = errors.New("duplicate node id")
	ErrNotGroup    = errors.New("parent is not a group")
	ErrCycle       = errors.New("node cannot contain itself")
)

// Node returns the node with the given id.
func (d *Document) Node(id string) (Node, bool) {
	n, ok := d.Objects[id]
	return n, ok
}

// ChildrenOf returns the ordered child ids of parent, or the top-level ids
// when parent is nil.
func (d *Document) ChildrenOf(parent *string) []string {
	if parent == nil {
		return d.Root
	}
	return d.Objects[*parent].Children
}

func (d *Document) setChildren(parent *string, ids []string) {
	if parent == nil {
		d.Root = ids
		return
	}
	p := d.Objects[*parent]
	p.Children = ids
	d.Objects[*parent] = p
}

// IndexOf returns the position of id among its siblings, or -1.
func (d *Document) IndexOf(id string) int {
	n, ok := d.Objects[id]
	if !ok {
		return -1
	}
	for i, c := range d.ChildrenOf(n.Parent) {
		if c == id {
			return i
		}
	}
	return -1
}

// Insert adds node under parent at index; an out-of-range index appends.
func (d *Document) Insert(node Node, parent *string, index int) error {
	if d.Has(node.ID) {
		return fmt.Errorf("insert %s: %w", node.ID, ErrDuplicateID)
	}
	if parent != nil {
		p, ok := d.Objects[*parent]
		if !ok {
			return fmt.Errorf("insert %s under %s: %w", node.ID, *parent, ErrNotFound)
		}
		if !p.IsGroup() {
			return fmt.Errorf("insert %s under %s: %w", node.ID, *parent, ErrNotGroup)
		}
		pid := *parent
		node.Parent = &pid
	} else {
		node.Parent = nil
	}

	d.Objects[node.ID] = node
	d.setChildren(parent, insertAt(d.ChildrenOf(parent), node.ID, index))
	return nil
}

// Append adds node as the last child of parent (top level when nil).
func (d *Document) Append(node Node, parent *string) error {
	return d.Insert(node, parent, -1)
}

// Remove deletes id and all its descendants and returns the removed ids.
func (d *Document) Remove(id string) ([]string, error) {
	n, ok := d.Objects[id]
	if !ok {
		return nil, fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	d.detach(n)

	removed := d.Subtree(id)
	for _, rid := range removed {
		delete(d.Objects, rid)
	}
	return removed, nil
}

// detach unlinks n from its parent's child list without deleting it.
func (d *Document) detach(n Node) {
	siblings := d.ChildrenOf(n.Parent)
	kept := make([]string, 0, len(siblings))
	for _, c := range siblings {
		if c != n.ID {
			kept = append(kept, c)
		}
	}
	d.setChildren(n.Parent, kept)
}

// Reparent moves id (with its subtree) under newParent at index.
func (d *Document) Reparent(id string, newParent *string, index int) error {
	n, ok := d.Objects[id]
	if !ok {
		return fmt.Errorf("reparent %s: %w", id, ErrNotFound)
	}
	if newParent != nil {
		p, ok := d.Objects[*newParent]
		if !ok {
			return fmt.Errorf("reparent %s: %w", id, ErrNotFound)
		}
		if !p.IsGroup() {
			return fmt.Errorf("reparent %s: %w", id, ErrNotGroup)
		}
		if *newParent == id || d.IsAncestor(id, *newParent) {
			return fmt.Errorf("reparent %s: %w", id, ErrCycle)
		}
	}

	d.detach(n)
	n = d.Objects[id]
	if newParent != nil {
		pid := *newParent
		n.Parent = &pid
	} else {
		n.Parent = nil
	}
	d.Objects[id] = n
	d.setChildren(newParent, insertAt(d.ChildrenOf(newParent), id, index))
	return nil
}

// Subtree returns id followed by all its descendants in document order.
func (d *Document) Subtree(id string) []string {
	n, ok := d.Objects[id]
	if !ok {
		return nil
	}
	out := []string{id}
	for _, c := range n.Children {
		out = append(out, d.Subtree(c)...)
	}
	return out
}

// IsAncestor reports whether ancestor is a strict ancestor of id.
func (d *Document) IsAncestor(ancestor, id string) bool {
	n, ok := d.Objects[id]
	for ok && n.Parent != nil {
		if *n.Parent == ancestor {
			return true
		}
		n, ok = d.Objects[*n.Parent]
	}
	return false
}

// Ordered returns every node id in document (pre-order) order.
func (d *Document) Ordered() []string {
	out := make([]string, 0, len(d.Objects))
	for _, id := range d.Root {
		out = append(out, d.Subtree(id)...)
	}
	return out
}

// Extract removes id and its subtree from the document and returns deep
// copies of the removed nodes, root first. The copies keep their ids.
func (d *Document) Extract(id string) ([]Node, error) {
	ids := d.Subtree(id)
	if len(ids) == 0 {
		return nil, fmt.Errorf("extract %s: %w", id, ErrNotFound)
	}
	clones := make([]Node, 0, len(ids))
	for _, nid := range ids {
		var c Node
		if err := copier.CopyWithOption(&c, d.Objects[nid], copier.Option{DeepCopy: true}); err != nil {
			return nil, fmt.Errorf("clone %s: %w", nid, err)
		}
		keepNil(&c, d.Objects[nid])
		clones = append(clones, c)
	}
	if _, err := d.Remove(id); err != nil {
		return nil, err
	}
	return clones, nil
}

// Graft inserts a subtree produced by Extract under parent at index.
func (d *Document) Graft(nodes []Node, parent *string, index int) error {
	if len(nodes) == 0 {
		return nil
	}
	for _, n := range nodes {
		if d.Has(n.ID) {
			return fmt.Errorf("graft %s: %w", n.ID, ErrDuplicateID)
		}
	}
	root := nodes[0]
	if err := d.Insert(root, parent, index); err != nil {
		return err
	}
	// descendants keep their own parent links and child lists
	for _, n := range nodes[1:] {
		d.Objects[n.ID] = n
	}
	return nil
}

func insertAt(ids []string, id string, index int) []string {
	if index < 0 || index >= len(ids) {
		return append(append([]string{}, ids...), id)
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:index]...)
	out = append(out, id)
	out = append(out, ids[index:]...)
	return out
}

// keepNil undoes copier turning nil slices into empty ones, so a clone
// compares equal to its source.
func keepNil(c *Node, src Node) {
	if src.Children == nil {
		c.Children = nil
	}
	if src.Geometry.Points == nil {
		c.Geometry.Points = nil
	}
}
