package indexing

import (
	"github.com/ZanzyTHEbar/fire-folders/folders/types"

	roaring "github.com/RoaringBitmap/roaring"
)

// RankBitmaps holds one roaring bitmap of photo ordinals per explicitly stored rank.
// An ordinal present in no bitmap has no stored rank.
type RankBitmaps struct {
	byRank map[types.Rank]*roaring.Bitmap
}

func NewRankBitmaps() *RankBitmaps {
	rb := &RankBitmaps{byRank: make(map[types.Rank]*roaring.Bitmap, len(types.Ranks))}
	for _, r := range types.Ranks {
		rb.byRank[r] = roaring.New()
	}
	return rb
}

// Set moves ord into the bitmap for rank
func (rb *RankBitmaps) Set(ord Ordinal, rank types.Rank) {
	for r, bm := range rb.byRank {
		if r == rank {
			bm.Add(ord)
		} else {
			bm.Remove(ord)
		}
	}
}

// Clear removes ord from every bitmap
func (rb *RankBitmaps) Clear(ord Ordinal) {
	for _, bm := range rb.byRank {
		bm.Remove(ord)
	}
}

// Match returns the members of candidates that carry rank. Neutral also
// matches ordinals with no stored rank, since that is the default.
func (rb *RankBitmaps) Match(rank types.Rank, candidates *roaring.Bitmap) *roaring.Bitmap {
	if rank == types.RankNeutral {
		res := candidates.Clone()
		for r, bm := range rb.byRank {
			if r != types.RankNeutral {
				res.AndNot(bm)
			}
		}
		return res
	}
	bm, ok := rb.byRank[rank]
	if !ok {
		return roaring.New()
	}
	return roaring.And(candidates, bm)
}

// Count returns how many ordinals carry rank explicitly
func (rb *RankBitmaps) Count(rank types.Rank) uint64 {
	if bm, ok := rb.byRank[rank]; ok {
		return bm.GetCardinality()
	}
	return 0
}
