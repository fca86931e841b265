package ranking

import (
	"context"
	"fmt"
	"sync"

	"github.com/ZanzyTHEbar/fire-folders/folders/common"
	"github.com/ZanzyTHEbar/fire-folders/folders/indexing"
	"github.com/ZanzyTHEbar/fire-folders/folders/types"

	roaring "github.com/RoaringBitmap/roaring"
	"github.com/rs/zerolog"
)

// RankSetter is the remote operation the store needs to persist a rank
type RankSetter interface {
	SetRank(ctx context.Context, id types.PhotoID, rank types.Rank) error
}

// Store is the local cache of server-side photo metadata. Writes go to the
// remote first and land locally only once the remote has accepted them.
type Store struct {
	mu      sync.RWMutex
	remote  RankSetter
	meta    map[types.PhotoID]types.Metadata
	mapper  *indexing.PhotoOrdinalMapper
	bitmaps *indexing.RankBitmaps
	logger  zerolog.Logger
}

// NewStore creates an empty ranking store
func NewStore(remote RankSetter, logger zerolog.Logger) *Store {
	return &Store{
		remote:  remote,
		meta:    make(map[types.PhotoID]types.Metadata),
		mapper:  indexing.NewPhotoOrdinalMapper(),
		bitmaps: indexing.NewRankBitmaps(),
		logger:  logger.With().Str("component", "ranking").Logger(),
	}
}

// Get returns the stored rank, Neutral when the photo is unknown
func (s *Store) Get(id types.PhotoID) types.Rank {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.meta[id]; ok {
		return m.Rank
	}
	return types.RankNeutral
}

// DateTaken returns the cached capture date of id
func (s *Store) DateTaken(id types.PhotoID) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meta[id]
	if !ok || m.DateTaken == "" {
		return "", false
	}
	return m.DateTaken, true
}

// Set persists rank for id on the remote and then records it locally.
// On failure the local value is left untouched.
func (s *Store) Set(ctx context.Context, id types.PhotoID, rank types.Rank) error {
	if !rank.Valid() {
		return fmt.Errorf("%w: %d", common.ErrInvalidRank, int(rank))
	}

	if err := s.remote.SetRank(ctx, id, rank); err != nil {
		s.logger.Warn().Err(err).Str("photo", string(id)).Stringer("rank", rank).Msg("remote rank update failed")
		return fmt.Errorf("set rank of %s: %w", id, err)
	}

	s.mu.Lock()
	m := s.meta[id]
	m.Rank = rank
	s.meta[id] = m
	s.bitmaps.Set(s.mapper.Intern(id), rank)
	s.mu.Unlock()

	s.logger.Debug().Str("photo", string(id)).Stringer("rank", rank).Msg("rank updated")
	return nil
}

// Replace swaps the whole cache for a fresh bulk fetch
func (s *Store) Replace(meta map[types.PhotoID]types.Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.meta = make(map[types.PhotoID]types.Metadata, len(meta))
	s.mapper = indexing.NewPhotoOrdinalMapper()
	s.bitmaps = indexing.NewRankBitmaps()
	for id, m := range meta {
		if !m.Rank.Valid() {
			s.logger.Warn().Str("photo", string(id)).Int("rank", int(m.Rank)).Msg("ignoring unknown rank from remote")
			m.Rank = types.RankNeutral
		}
		s.meta[id] = m
		s.bitmaps.Set(s.mapper.Intern(id), m.Rank)
	}
	s.logger.Debug().Int("photos", len(s.meta)).Msg("ranking store replaced")
}

// Forget drops id after it was deleted remotely
func (s *Store) Forget(id types.PhotoID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.meta, id)
	if ord, ok := s.mapper.Lookup(id); ok {
		s.bitmaps.Clear(ord)
	}
}

// Filter returns, in input order, the ids whose current rank equals rank.
// Ids the store has never seen are Neutral and do not get an ordinal.
func (s *Store) Filter(ids []types.PhotoID, rank types.Rank) []types.PhotoID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ords := make([]indexing.Ordinal, len(ids))
	known := make([]bool, len(ids))
	candidates := roaring.New()
	for i, id := range ids {
		ords[i], known[i] = s.mapper.Lookup(id)
		if known[i] {
			candidates.Add(ords[i])
		}
	}
	matched := s.bitmaps.Match(rank, candidates)

	out := make([]types.PhotoID, 0, matched.GetCardinality())
	for i, id := range ids {
		if known[i] && matched.Contains(ords[i]) || !known[i] && rank == types.RankNeutral {
			out = append(out, id)
		}
	}
	return out
}

// Counts returns how many cached photos carry each rank
func (s *Store) Counts() map[types.Rank]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[types.Rank]int, len(types.Ranks))
	for _, r := range types.Ranks {
		out[r] = int(s.bitmaps.Count(r))
	}
	return out
}
