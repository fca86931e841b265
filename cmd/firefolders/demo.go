package main

import (
	"github.com/ZanzyTHEbar/fire-folders/folders/remote"
	"github.com/ZanzyTHEbar/fire-folders/folders/types"
)

// newDemoRemote returns an in-memory backend with a small seeded library
func newDemoRemote() *remote.Memory {
	m := remote.NewMemory()
	seed := []struct {
		name string
		date string
		rank types.Rank
	}{
		{"beach/IMG_0001.jpg", "2024:07:01 09:12:00", types.RankFavorite},
		{"beach/IMG_0002.jpg", "2024:07:01 09:13:41", types.RankReject},
		{"beach/IMG_0003.jpg", "2024:07:01 10:02:17", types.RankNeutral},
		{"hike/IMG_0101.jpg", "2024:08:15 07:45:03", types.RankNeutral},
		{"hike/IMG_0102.jpg", "2024:08:15 08:01:55", types.RankReject},
		{"IMG_0200.jpg", "2024:09:02 18:30:00", types.RankNeutral},
		{"IMG_0201.jpg", "2024:09:02 18:31:12", types.RankFavorite},
		{"IMG_0202.jpg", "2024:09:02 18:33:40", types.RankReject},
		{"scan_001.jpg", "", types.RankNeutral},
	}
	for _, s := range seed {
		m.AddFile(s.name, s.date, s.rank)
	}
	m.AddListingEntry("metadata.json")
	m.AddListingEntry("group_names.json")
	m.SetGroups([][]types.PhotoID{
		{"beach/IMG_0001.jpg", "beach/IMG_0002.jpg", "beach/IMG_0003.jpg"},
		{"hike/IMG_0101.jpg", "hike/IMG_0102.jpg"},
		{"IMG_0200.jpg", "IMG_0201.jpg", "IMG_0202.jpg"},
	}, map[int]string{0: "Beach Day", 2: "Sunset"})
	return m
}
