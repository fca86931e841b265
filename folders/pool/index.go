package pool

import (
	"path"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/fire-folders/folders/types"

	"github.com/armon/go-radix"
)

// Index is a patricia tree over the pool's photo paths. Values hold the
// listing position so prefix queries can be returned in listing order.
type Index struct {
	tree *radix.Tree
}

// NewIndex indexes ids, remembering their order
func NewIndex(ids []types.PhotoID) *Index {
	t := radix.New()
	for i, id := range ids {
		p := normalize(string(id))
		if p == "" {
			continue
		}
		if _, exists := t.Get(p); !exists {
			t.Insert(p, i)
		}
	}
	return &Index{tree: t}
}

func (ix *Index) Len() int { return ix.tree.Len() }

func (ix *Index) Contains(id types.PhotoID) bool {
	_, ok := ix.tree.Get(normalize(string(id)))
	return ok
}

// Remove drops id from the index
func (ix *Index) Remove(id types.PhotoID) {
	ix.tree.Delete(normalize(string(id)))
}

// All returns every indexed photo in listing order
func (ix *Index) All() []types.PhotoID {
	return ix.Under("")
}

// Under returns the photos inside folder (recursively) in listing order.
// An empty folder means the whole pool.
func (ix *Index) Under(folder string) []types.PhotoID {
	prefix := normalize(folder)
	if prefix != "" {
		prefix += "/"
	}

	type entry struct {
		id  types.PhotoID
		pos int
	}
	var found []entry
	ix.tree.WalkPrefix(prefix, func(k string, v interface{}) bool {
		found = append(found, entry{id: types.PhotoID(k), pos: v.(int)})
		return false
	})
	sort.Slice(found, func(i, j int) bool { return found[i].pos < found[j].pos })

	out := make([]types.PhotoID, len(found))
	for i, e := range found {
		out[i] = e.id
	}
	return out
}

// Folders returns every folder that directly or indirectly holds a photo, sorted
func (ix *Index) Folders() []string {
	set := make(map[string]struct{})
	ix.tree.Walk(func(k string, _ interface{}) bool {
		for dir := path.Dir(k); dir != "." && dir != "/"; dir = path.Dir(dir) {
			set[strings.Trim(dir, "/")] = struct{}{}
		}
		return false
	})
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
