package groups

import (
	"context"
	"fmt"
	"sync"

	"github.com/ZanzyTHEbar/fire-folders/folders/common"
	"github.com/ZanzyTHEbar/fire-folders/folders/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NameSetter is the remote operation the registry needs to persist a group name
type NameSetter interface {
	SetGroupName(ctx context.Context, index int, name string) error
}

// Ref is a group reference taken at a given registry version. The index is a
// hint only; Resolve re-derives the current index from the stable id.
type Ref struct {
	ID      uuid.UUID
	Index   int
	Version uint64
}

type group struct {
	id     uuid.UUID
	photos []types.Photo
}

// Registry is the ordered list of groups plus the index-keyed name map.
// No group in the registry is ever empty and every name is keyed by the
// current index of the group it was given to.
type Registry struct {
	mu      sync.RWMutex
	remote  NameSetter
	groups  []group
	names   map[int]string
	version uint64
	logger  zerolog.Logger
}

// NewRegistry creates an empty registry
func NewRegistry(remote NameSetter, logger zerolog.Logger) *Registry {
	return &Registry{
		remote: remote,
		names:  make(map[int]string),
		logger: logger.With().Str("component", "groups").Logger(),
	}
}

// Replace loads a fresh grouping from the remote, assigning new stable ids
func (r *Registry) Replace(photoGroups [][]types.Photo, names map[int]string) {
	loaded := make([]group, len(photoGroups))
	for i, photos := range photoGroups {
		loaded[i] = group{id: uuid.New(), photos: append([]types.Photo(nil), photos...)}
	}
	copied := make(map[int]string, len(names))
	for idx, name := range names {
		if idx >= 0 && idx < len(loaded) {
			copied[idx] = name
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups, r.names = compact(loaded, copied)
	r.version++
	r.logger.Debug().Int("groups", len(r.groups)).Int("names", len(r.names)).Uint64("version", r.version).Msg("registry replaced")
}

// ListGroups returns a snapshot of every group in order
func (r *Registry) ListGroups() []types.Group {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]types.Group, len(r.groups))
	for i := range r.groups {
		out[i] = r.snapshot(i)
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.groups)
}

// Version increases every time the group list or the name map changes
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Group returns the group currently at index
func (r *Registry) Group(index int) (types.Group, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.groups) {
		return types.Group{}, fmt.Errorf("group %d: %w", index, common.ErrNotFound)
	}
	return r.snapshot(index), nil
}

// Lookup returns the group with the given stable id at its current index
func (r *Registry) Lookup(id uuid.UUID) (types.Group, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i := r.indexOf(id)
	if i < 0 {
		return types.Group{}, false
	}
	return r.snapshot(i), true
}

// RefAt captures a reference to the group currently at index
func (r *Registry) RefAt(index int) (Ref, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.groups) {
		return Ref{}, fmt.Errorf("group %d: %w", index, common.ErrNotFound)
	}
	return Ref{ID: r.groups[index].id, Index: index, Version: r.version}, nil
}

// Resolve returns the current index of the referenced group
func (r *Registry) Resolve(ref Ref) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ref.Version == r.version && ref.Index >= 0 && ref.Index < len(r.groups) && r.groups[ref.Index].id == ref.ID {
		return ref.Index, nil
	}
	if i := r.indexOf(ref.ID); i >= 0 {
		return i, nil
	}
	return -1, fmt.Errorf("group %s (was index %d): %w", ref.ID, ref.Index, common.ErrNotFound)
}

// Names returns a copy of the index -> name map
func (r *Registry) Names() map[int]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int]string, len(r.names))
	for k, v := range r.names {
		out[k] = v
	}
	return out
}

// RemovePhoto removes id from every group containing it, then compacts.
// Removing an absent id is a no-op.
func (r *Registry) RemovePhoto(id types.PhotoID) {
	r.RemoveWhere(func(p types.PhotoID) bool { return p == id })
}

// RemoveWhere removes every photo matching pred across all groups and
// compacts once at the end. It returns the number of removed entries.
func (r *Registry) RemoveWhere(pred func(types.PhotoID) bool) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	next := make([]group, len(r.groups))
	for i, g := range r.groups {
		kept := make([]types.Photo, 0, len(g.photos))
		for _, p := range g.photos {
			if pred(p.ID) {
				removed++
				continue
			}
			kept = append(kept, p)
		}
		next[i] = group{id: g.id, photos: kept}
	}
	if removed == 0 {
		return 0
	}

	before := len(r.groups)
	r.groups, r.names = compact(next, r.names)
	r.version++
	r.logger.Debug().
		Int("removed_photos", removed).
		Int("removed_groups", before-len(r.groups)).
		Uint64("version", r.version).
		Msg("registry compacted")
	return removed
}

// RenameGroup persists name for the group at index and records it locally
// once the remote accepts. If the group disappeared while the call was in
// flight the name is not recorded and ErrNotFound is returned.
func (r *Registry) RenameGroup(ctx context.Context, index int, name string) error {
	ref, err := r.RefAt(index)
	if err != nil {
		return err
	}

	if err := r.remote.SetGroupName(ctx, index, name); err != nil {
		r.logger.Warn().Err(err).Int("index", index).Msg("remote rename failed")
		return fmt.Errorf("rename group %d: %w", index, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	current := r.indexOf(ref.ID)
	if current < 0 {
		r.logger.Warn().Int("index", index).Str("group", ref.ID.String()).Msg("renamed group no longer exists")
		return fmt.Errorf("rename group %d: %w", index, common.ErrNotFound)
	}
	r.names[current] = name
	r.version++
	r.logger.Debug().Int("index", current).Str("name", name).Msg("group renamed")
	return nil
}

func (r *Registry) indexOf(id uuid.UUID) int {
	for i, g := range r.groups {
		if g.id == id {
			return i
		}
	}
	return -1
}

// snapshot must be called with r.mu held
func (r *Registry) snapshot(i int) types.Group {
	g := r.groups[i]
	return types.Group{
		ID:     g.id,
		Index:  i,
		Name:   r.names[i],
		Photos: append([]types.Photo(nil), g.photos...),
	}
}

// compact drops empty groups and re-keys names from original to new positions.
// names is keyed by positions in groups; the name of a dropped group is lost.
func compact(groups []group, names map[int]string) ([]group, map[int]string) {
	out := make([]group, 0, len(groups))
	outNames := make(map[int]string, len(names))
	j := 0
	for i, g := range groups {
		if len(g.photos) == 0 {
			continue
		}
		out = append(out, g)
		if name, ok := names[i]; ok {
			outNames[j] = name
		}
		j++
	}
	return out, outNames
}
