package document

import "strconv"

// Has reports whether id is taken by a node or a defs entry.
func (d *Document) Has(id string) bool {
	if _, ok := d.Objects[id]; ok {
		return true
	}
	_, ok := d.Defs[id]
	return ok
}

// GenerateUniqueID returns prefix-N for the smallest N >= 1 not already in use.
func (d *Document) GenerateUniqueID(prefix string) string {
	return generateID(prefix, d.Has)
}

func generateID(prefix string, taken func(string) bool) string {
	for n := 1; ; n++ {
		id := prefix + "-" + strconv.Itoa(n)
		if !taken(id) {
			return id
		}
	}
}
