package remote

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/ZanzyTHEbar/fire-folders/folders/common"
	"github.com/ZanzyTHEbar/fire-folders/folders/types"
)

// Operation names used by Memory for hooks, failure injection and call counts
const (
	OpListUploads    = "list_uploads"
	OpListGroups     = "list_groups"
	OpListGroupNames = "list_group_names"
	OpFetchMetadata  = "fetch_metadata"
	OpDeleteFile     = "delete_file"
	OpSetRank        = "set_rank"
	OpSetGroupName   = "set_group_name"
	OpUpload         = "upload"
)

// Memory is an in-memory photo authority. It behaves like the backend:
// deleting a file drops it from its group, empty groups disappear and names
// past the last group are cleaned up.
type Memory struct {
	mu       sync.Mutex
	files    []string
	meta     map[types.PhotoID]types.Metadata
	groups   [][]types.Photo
	names    map[int]string
	failures map[string]error
	calls    map[string]int

	// BeforeCall runs before every operation, outside the lock
	BeforeCall func(op string, key string)
}

var (
	_ Remote   = (*Memory)(nil)
	_ Uploader = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		meta:     make(map[types.PhotoID]types.Metadata),
		names:    make(map[int]string),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// AddFile seeds a file in the pool with a rank and capture date
func (m *Memory) AddFile(name string, dateTaken string, rank types.Rank) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = append(m.files, name)
	m.meta[types.PhotoID(name)] = types.Metadata{DateTaken: dateTaken, Rank: rank}
}

// AddListingEntry seeds a listing entry that carries no metadata (e.g. metadata.json itself)
func (m *Memory) AddListingEntry(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files = append(m.files, name)
}

// SetGroups replaces the grouping the service reports. Every photo must
// have been added with AddFile.
func (m *Memory) SetGroups(groups [][]types.PhotoID, names map[int]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups = make([][]types.Photo, 0, len(groups))
	for _, ids := range groups {
		g := make([]types.Photo, len(ids))
		for i, id := range ids {
			g[i] = types.Photo{ID: id, DateTaken: m.meta[id].DateTaken}
		}
		m.groups = append(m.groups, g)
	}
	m.names = make(map[int]string, len(names))
	for k, v := range names {
		m.names[k] = v
	}
}

// Fail makes every call of op on key fail with err until cleared with a nil err.
// key is the photo id, the group index in decimal, or "" for listing operations.
func (m *Memory) Fail(op, key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := op + "|" + key
	if err == nil {
		delete(m.failures, k)
		return
	}
	m.failures[k] = err
}

// Calls returns how many times op was invoked
func (m *Memory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// Rank returns the rank stored by the authority
func (m *Memory) Rank(id types.PhotoID) (types.Rank, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	meta, ok := m.meta[id]
	return meta.Rank, ok
}

// Names returns a copy of the authority's name map
func (m *Memory) Names() map[int]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[int]string, len(m.names))
	for k, v := range m.names {
		out[k] = v
	}
	return out
}

// HasFile reports whether name is still stored
func (m *Memory) HasFile(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.files {
		if f == name {
			return true
		}
	}
	return false
}

func (m *Memory) enter(op, key string) error {
	if hook := m.BeforeCall; hook != nil {
		hook(op, key)
	}
	m.mu.Lock()
	m.calls[op]++
	err := m.failures[op+"|"+key]
	m.mu.Unlock()
	return err
}

func (m *Memory) ListUploads(ctx context.Context) ([]string, error) {
	if err := m.enter(OpListUploads, ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.files...), nil
}

func (m *Memory) ListGroups(ctx context.Context) ([][]types.Photo, error) {
	if err := m.enter(OpListGroups, ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]types.Photo, len(m.groups))
	for i, g := range m.groups {
		out[i] = append([]types.Photo(nil), g...)
	}
	return out, nil
}

func (m *Memory) ListGroupNames(ctx context.Context) (map[int]string, error) {
	if err := m.enter(OpListGroupNames, ""); err != nil {
		return nil, err
	}
	return m.Names(), nil
}

func (m *Memory) FetchMetadata(ctx context.Context) (map[types.PhotoID]types.Metadata, error) {
	if err := m.enter(OpFetchMetadata, ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[types.PhotoID]types.Metadata, len(m.meta))
	for k, v := range m.meta {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) DeleteFile(ctx context.Context, id types.PhotoID) error {
	if err := m.enter(OpDeleteFile, string(id)); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, f := range m.files {
		if f == string(id) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return common.Rejected("delete "+string(id), http.StatusNotFound, "File not found")
	}
	m.files = append(m.files[:idx], m.files[idx+1:]...)
	delete(m.meta, id)

	kept := m.groups[:0]
	for _, g := range m.groups {
		filtered := g[:0]
		for _, p := range g {
			if p.ID != id {
				filtered = append(filtered, p)
			}
		}
		if len(filtered) > 0 {
			kept = append(kept, filtered)
		}
	}
	m.groups = kept
	for k := range m.names {
		if k >= len(m.groups) {
			delete(m.names, k)
		}
	}
	return nil
}

func (m *Memory) SetRank(ctx context.Context, id types.PhotoID, rank types.Rank) error {
	if err := m.enter(OpSetRank, string(id)); err != nil {
		return err
	}
	if !rank.Valid() {
		return common.Rejected("set rank of "+string(id), http.StatusBadRequest, "Invalid filename or ranking")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	meta, ok := m.meta[id]
	if !ok {
		return common.Rejected("set rank of "+string(id), http.StatusNotFound, "File not found in metadata")
	}
	meta.Rank = rank
	m.meta[id] = meta
	return nil
}

func (m *Memory) SetGroupName(ctx context.Context, index int, name string) error {
	if err := m.enter(OpSetGroupName, fmt.Sprint(index)); err != nil {
		return err
	}
	if index < 0 {
		return common.Rejected(fmt.Sprintf("name group %d", index), http.StatusBadRequest, "Invalid group index or name")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.names[index] = name
	return nil
}

// Upload stores the files in the pool with a neutral rank and no capture date
func (m *Memory) Upload(ctx context.Context, files []File) ([]string, error) {
	if err := m.enter(OpUpload, ""); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make([]string, 0, len(files))
	for _, f := range files {
		m.files = append(m.files, f.Name)
		m.meta[types.PhotoID(f.Name)] = types.Metadata{Rank: types.RankNeutral}
		saved = append(saved, f.Name)
	}
	sort.Strings(saved)
	return saved, nil
}
