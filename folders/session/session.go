package session

import (
	"context"
	"fmt"
	"sync"

	internal "github.com/ZanzyTHEbar/fire-folders/folders"
	"github.com/ZanzyTHEbar/fire-folders/folders/common"
	"github.com/ZanzyTHEbar/fire-folders/folders/groups"
	"github.com/ZanzyTHEbar/fire-folders/folders/pool"
	"github.com/ZanzyTHEbar/fire-folders/folders/ports"
	"github.com/ZanzyTHEbar/fire-folders/folders/ranking"
	"github.com/ZanzyTHEbar/fire-folders/folders/remote"
	"github.com/ZanzyTHEbar/fire-folders/folders/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Options configures a Session. Zero values fall back to the application defaults.
type Options struct {
	Logger         *zerolog.Logger
	PoolExtensions []string
	PoolIgnore     []string
	CleanupWorkers int
	// SyncNames pushes the re-keyed name map to the remote whenever a delete
	// drops a group
	SyncNames      bool
}

// Snapshot is a copy of the selection state, safe to hand to the projection
type Snapshot struct {
	Kind          types.CollectionKind
	Folder        string
	GroupID       uuid.UUID
	Displayed     []types.PhotoID
	Mode          types.DisplayMode
	CarouselIndex int
	Pickers       map[types.PhotoID]bool
	EditingName   bool
	Generation    uint64
}

// Open reports whether a collection is open
func (s Snapshot) Open() bool { return s.Kind != types.CollectionNone }

type selection struct {
	kind      types.CollectionKind
	folder    string
	groupID   uuid.UUID
	displayed []types.PhotoID
	mode      types.DisplayMode
	carousel  int
	pickers   map[types.PhotoID]bool
	editing   bool
}

// Session owns the ranking store, the group registry and the selection state
// of one curation session. All durable state lives on the remote.
type Session struct {
	mu         sync.Mutex
	remote     remote.Remote
	ui         ports.Interactor
	ranks      *ranking.Store
	groups     *groups.Registry
	filter     *pool.Filter
	pool       *pool.Index
	workers    int
	syncNames  bool
	sel        selection
	generation uint64
	logger     zerolog.Logger
	errs       *common.ErrorUtils
}

// New creates a closed session against rem
func New(rem remote.Remote, ui ports.Interactor, opts Options) *Session {
	logger := internal.GetLogger()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	logger = logger.With().Str("component", "session").Logger()

	if ui == nil {
		ui = ports.Silent{}
	}
	exts := opts.PoolExtensions
	if len(exts) == 0 {
		exts = internal.DefaultPoolExtensions
	}
	ignore := opts.PoolIgnore
	if ignore == nil {
		ignore = internal.DefaultPoolIgnore
	}
	workers := opts.CleanupWorkers
	if workers < 1 {
		workers = internal.DefaultCleanupWorkers
	}

	return &Session{
		remote:    rem,
		ui:        ui,
		ranks:     ranking.NewStore(rem, logger),
		groups:    groups.NewRegistry(rem, logger),
		filter:    pool.NewFilter(exts, ignore),
		pool:      pool.NewIndex(nil),
		workers:   workers,
		syncNames: opts.SyncNames,
		logger:    logger,
		errs:      common.NewErrorUtils(logger),
	}
}

// Ranks gives read access to the ranking store
func (s *Session) Ranks() *ranking.Store { return s.ranks }

// Groups gives read access to the group registry
func (s *Session) Groups() *groups.Registry { return s.groups }

// Load fetches groups, group names and metadata concurrently and replaces
// both stores once all three calls succeeded. On failure the previous
// stores are kept. An open group is closed because reloaded groups get new ids.
func (s *Session) Load(ctx context.Context) error {
	var (
		photoGroups [][]types.Photo
		names       map[int]string
		meta        map[types.PhotoID]types.Metadata
	)

	s.ui.StartSpinner("Loading collections")
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		photoGroups, err = s.remote.ListGroups(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		names, err = s.remote.ListGroupNames(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		meta, err = s.remote.FetchMetadata(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.ui.StopSpinner(false, "Could not load collections")
		s.ui.Error("Could not load collections", err)
		return s.errs.LogAndWrapError(err, zerolog.WarnLevel, "load collections")
	}

	s.ranks.Replace(meta)
	s.groups.Replace(photoGroups, names)

	s.mu.Lock()
	if s.sel.kind == types.CollectionGroup {
		s.generation++
		s.sel = selection{}
		s.ui.Warning("Groups were reloaded, the open group was closed")
	}
	s.mu.Unlock()

	s.ui.StopSpinner(true, fmt.Sprintf("Loaded %d groups", s.groups.Len()))
	s.logger.Info().Int("groups", s.groups.Len()).Int("photos", len(meta)).Msg("collections loaded")
	return nil
}

// OpenPool opens the unsorted pool
func (s *Session) OpenPool(ctx context.Context) error {
	return s.OpenPoolFolder(ctx, "")
}

// OpenPoolFolder opens the pool narrowed to the photos under folder. A failed
// listing still opens the collection, with nothing displayed.
func (s *Session) OpenPoolFolder(ctx context.Context, folder string) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.sel = selection{
		kind:    types.CollectionPool,
		folder:  folder,
		mode:    types.ModeGrid,
		pickers: make(map[types.PhotoID]bool),
	}
	s.mu.Unlock()

	listing, err := s.remote.ListUploads(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		s.logger.Debug().Uint64("generation", gen).Msg("discarding stale pool listing")
		return nil
	}
	if err != nil {
		s.sel.displayed = nil
		s.ui.Error("Could not list uploaded photos", err)
		return s.errs.LogAndWrapError(err, zerolog.WarnLevel, "open pool")
	}

	s.pool = pool.NewIndex(s.filter.Apply(listing))
	if folder == "" {
		s.sel.displayed = s.pool.All()
	} else {
		s.sel.displayed = s.pool.Under(folder)
		if len(s.sel.displayed) == 0 {
			s.ui.Warning(fmt.Sprintf("No photos under %s", folder))
		}
	}
	s.logger.Info().Str("folder", folder).Int("photos", len(s.sel.displayed)).Msg("pool opened")
	return nil
}

// PoolFolders lists the folders seen in the last pool listing
func (s *Session) PoolFolders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pool.Folders()
}

// OpenGroup opens the group currently at index
func (s *Session) OpenGroup(index int) error {
	ref, err := s.groups.RefAt(index)
	if err != nil {
		return err
	}
	return s.OpenGroupRef(ref)
}

// OpenGroupRef opens the group a reference was taken for. The reference is
// revalidated by id: after compaction it opens the same group at its new
// index, and fails with ErrNotFound when that group no longer exists.
func (s *Session) OpenGroupRef(ref groups.Ref) error {
	idx, err := s.groups.Resolve(ref)
	if err != nil {
		return err
	}
	g, ok := s.groups.Lookup(ref.ID)
	if !ok {
		return fmt.Errorf("group %d: %w", idx, common.ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.sel = selection{
		kind:      types.CollectionGroup,
		groupID:   g.ID,
		displayed: g.PhotoIDs(),
		mode:      types.ModeGrid,
		pickers:   make(map[types.PhotoID]bool),
	}
	if idx != ref.Index {
		s.logger.Debug().Int("was", ref.Index).Int("now", g.Index).Msg("group moved since reference was taken")
	}
	s.logger.Info().Int("index", g.Index).Str("group", g.ID.String()).Int("photos", len(g.Photos)).Msg("group opened")
	return nil
}

// Close discards the selection
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.sel = selection{}
	s.logger.Debug().Msg("collection closed")
}

// Snapshot copies the selection state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	pickers := make(map[types.PhotoID]bool, len(s.sel.pickers))
	for id, open := range s.sel.pickers {
		if open {
			pickers[id] = true
		}
	}
	return Snapshot{
		Kind:          s.sel.kind,
		Folder:        s.sel.folder,
		GroupID:       s.sel.groupID,
		Displayed:     append([]types.PhotoID(nil), s.sel.displayed...),
		Mode:          s.sel.mode,
		CarouselIndex: s.sel.carousel,
		Pickers:       pickers,
		EditingName:   s.sel.editing,
		Generation:    s.generation,
	}
}

// OpenGroupIndex returns the current index of the open group
func (s *Session) OpenGroupIndex() (int, error) {
	s.mu.Lock()
	kind, id := s.sel.kind, s.sel.groupID
	s.mu.Unlock()
	if kind != types.CollectionGroup {
		return -1, common.ErrNoCollection
	}
	g, ok := s.groups.Lookup(id)
	if !ok {
		return -1, fmt.Errorf("open group %s: %w", id, common.ErrNotFound)
	}
	return g.Index, nil
}

// prune removes ids from the displayed set and keeps the carousel in range.
// Must be called with s.mu held.
func (s *Session) prune(ids map[types.PhotoID]struct{}) {
	if len(ids) == 0 {
		return
	}
	kept := s.sel.displayed[:0]
	for _, id := range s.sel.displayed {
		if _, gone := ids[id]; gone {
			delete(s.sel.pickers, id)
			continue
		}
		kept = append(kept, id)
	}
	s.sel.displayed = kept

	switch {
	case len(kept) == 0:
		s.sel.carousel = 0
		s.sel.mode = types.ModeGrid
	case s.sel.carousel >= len(kept):
		s.sel.carousel = len(kept) - 1
	}
}
