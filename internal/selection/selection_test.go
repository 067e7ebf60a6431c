package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	s := New("a", "b", "a")
	assert.Equal(t, []string{"a", "b"}, s.IDs())
	assert.Equal(t, 2, s.Len())

	s.Toggle("a")
	assert.False(t, s.Has("a"))
	s.Toggle("c")
	assert.Equal(t, []string{"b", "c"}, s.IDs())

	_, ok := s.Single()
	assert.False(t, ok)

	s.Replace("z")
	id, ok := s.Single()
	assert.True(t, ok)
	assert.Equal(t, "z", id)

	ids := s.IDs()
	ids[0] = "mutated"
	assert.True(t, s.Has("z"))

	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestPrune(t *testing.T) {
	s := New("a", "b", "c")
	alive := map[string]bool{"a": true, "c": true}

	assert.True(t, s.Prune(func(id string) bool { return alive[id] }))
	assert.Equal(t, []string{"a", "c"}, s.IDs())
	assert.False(t, s.Prune(func(id string) bool { return alive[id] }))
}
