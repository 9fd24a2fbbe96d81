package treecache

import (
	"sync"

	"github.com/vk/mustachio/internal/tree"
)

// Key identifies a parsed partial: its name and the indentation applied to
// its source before parsing.
type Key struct {
	Name   string
	Indent string
}

// KeyOf returns the cache key for a RuntimeTemplate node.
func KeyOf(rt *tree.RuntimeTemplate) Key {
	return Key{Name: rt.Name, Indent: rt.Indent}
}

// Store is an in-memory, concurrency-safe map from Key to parsed tree.
type Store struct {
	trees sync.Map // Key -> *tree.Section
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Get returns the cached tree for k.
func (s *Store) Get(k Key) (*tree.Section, bool) {
	v, ok := s.trees.Load(k)
	if !ok {
		return nil, false
	}
	return v.(*tree.Section), true
}

// Put stores root under k unless another tree was stored first, and returns
// whichever tree the store now holds.
func (s *Store) Put(k Key, root *tree.Section) *tree.Section {
	actual, _ := s.trees.LoadOrStore(k, root)
	return actual.(*tree.Section)
}

// Len returns the number of cached trees.
func (s *Store) Len() int {
	n := 0
	s.trees.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
