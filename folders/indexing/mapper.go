package indexing

import (
	"github.com/ZanzyTHEbar/fire-folders/folders/types"
)

// Ordinal is a small contiguous identifier for a photo, suitable for roaring bitmaps.
type Ordinal = uint32

// PhotoOrdinalMapper hands out ordinals to photo ids in first-seen order.
// Ordinals are never reused within a mapper's lifetime so bitmaps built from
// them stay valid after a photo is forgotten.
type PhotoOrdinalMapper struct {
	idToOrd map[types.PhotoID]Ordinal
	next    Ordinal
}

func NewPhotoOrdinalMapper() *PhotoOrdinalMapper {
	return &PhotoOrdinalMapper{idToOrd: make(map[types.PhotoID]Ordinal)}
}

// Intern returns the ordinal for id, assigning one if needed
func (m *PhotoOrdinalMapper) Intern(id types.PhotoID) Ordinal {
	if ord, ok := m.idToOrd[id]; ok {
		return ord
	}
	ord := m.next
	m.next++
	m.idToOrd[id] = ord
	return ord
}

func (m *PhotoOrdinalMapper) Lookup(id types.PhotoID) (Ordinal, bool) {
	ord, ok := m.idToOrd[id]
	return ord, ok
}

func (m *PhotoOrdinalMapper) Size() int { return len(m.idToOrd) }
