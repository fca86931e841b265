package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/fire-folders/folders/common"

	"github.com/google/uuid"
)

// PhotoID identifies a photo in the remote store (its relative filename)
type PhotoID string

// Rank is the tri-state quality label of a photo. The ordinals are part of
// the remote contract and must not change.
type Rank int

const (
	RankReject   Rank = 0
	RankNeutral  Rank = 1
	RankFavorite Rank = 2
)

// Ranks lists every valid rank in ordinal order
var Ranks = []Rank{RankReject, RankNeutral, RankFavorite}

func (r Rank) Valid() bool {
	return r >= RankReject && r <= RankFavorite
}

func (r Rank) String() string {
	switch r {
	case RankReject:
		return "reject"
	case RankNeutral:
		return "neutral"
	case RankFavorite:
		return "favorite"
	}
	return fmt.Sprintf("rank(%d)", int(r))
}

// ParseRank accepts a rank name or its ordinal
func ParseRank(s string) (Rank, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for _, r := range Ranks {
		if v == r.String() {
			return r, nil
		}
	}
	if n, err := strconv.Atoi(v); err == nil && Rank(n).Valid() {
		return Rank(n), nil
	}
	return RankNeutral, fmt.Errorf("%w: %q", common.ErrInvalidRank, s)
}

// Photo is a member of a group as served by the grouping service
type Photo struct {
	ID        PhotoID `json:"filename"`
	DateTaken string  `json:"date_taken"`
}

// Metadata is the per-photo server metadata the client caches
type Metadata struct {
	DateTaken string `json:"date_taken"`
	Rank      Rank   `json:"ranking"`
}

// Group is a read-only snapshot of a registry group. Index is only valid for
// the registry version it was read at; ID is stable for the group's lifetime.
type Group struct {
	ID     uuid.UUID
	Index  int
	Name   string
	Photos []Photo
}

// PhotoIDs returns the group's photo ids in order
func (g Group) PhotoIDs() []PhotoID {
	out := make([]PhotoID, len(g.Photos))
	for i, p := range g.Photos {
		out[i] = p.ID
	}
	return out
}

// DateRange returns the capture dates of the first and last photo
func (g Group) DateRange() (string, string) {
	if len(g.Photos) == 0 {
		return "", ""
	}
	return g.Photos[0].DateTaken, g.Photos[len(g.Photos)-1].DateTaken
}

// CollectionKind defines which kind of collection is open
type CollectionKind string

const (
	CollectionNone  CollectionKind = ""
	CollectionPool  CollectionKind = "pool"
	CollectionGroup CollectionKind = "group"
)

// DisplayMode defines how the open collection is shown
type DisplayMode string

const (
	ModeGrid     DisplayMode = "grid"
	ModeCarousel DisplayMode = "carousel"
)
