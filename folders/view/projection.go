package view

import (
	"fmt"

	"github.com/ZanzyTHEbar/fire-folders/folders/session"
	"github.com/ZanzyTHEbar/fire-folders/folders/types"

	"github.com/google/uuid"
)

const (
	AppTitle  = "Fire Folders 🔥"
	PoolTitle = "Uploads"
)

// RankSource is what the projection reads from the ranking store
type RankSource interface {
	Get(id types.PhotoID) types.Rank
	DateTaken(id types.PhotoID) (string, bool)
	Counts() map[types.Rank]int
}

// Decoration is how a rank is drawn
type Decoration struct {
	Rank  types.Rank
	Glyph string
	Color string
	Label string
}

var decorations = map[types.Rank]Decoration{
	types.RankReject:   {Rank: types.RankReject, Glyph: "❌", Color: "red", Label: "Reject"},
	types.RankNeutral:  {Rank: types.RankNeutral, Glyph: "—", Color: "goldenrod", Label: "Neutral"},
	types.RankFavorite: {Rank: types.RankFavorite, Glyph: "💗", Color: "hotpink", Label: "Favorite"},
}

// Decorate returns the decoration of rank. Unknown ranks draw as Neutral.
func Decorate(rank types.Rank) Decoration {
	if d, ok := decorations[rank]; ok {
		return d
	}
	return decorations[types.RankNeutral]
}

// RankCount is how many cached photos carry one rank
type RankCount struct {
	Decoration Decoration
	Count      int
}

// Tile is one folder on the landing screen
type Tile struct {
	Index     int
	GroupID   uuid.UUID
	Title     string
	Count     int
	DateRange string
}

func (t Tile) Label() string {
	return fmt.Sprintf("📁 %s (%d photos)", t.Title, t.Count)
}

// Item is one photo of the open collection
type Item struct {
	ID         types.PhotoID
	Position   int
	DateTaken  string
	Decoration Decoration
	PickerOpen bool
}

// Action is something the user can do on the open collection
type Action string

const (
	ActionCarousel      Action = "carousel"
	ActionRename        Action = "rename"
	ActionCleanup       Action = "cleanup"
	ActionPrev          Action = "prev"
	ActionNext          Action = "next"
	ActionCloseCarousel Action = "close-carousel"
	ActionSaveName      Action = "save-name"
	ActionCancelName    Action = "cancel-name"
)

// Model is everything needed to render the current state
type Model struct {
	Title      string
	Pool       Tile
	Tiles      []Tile
	Ranked     []RankCount
	Open       bool
	Kind       types.CollectionKind
	Heading    string
	CountLabel string
	Items      []Item
	Mode       types.DisplayMode
	Current    *Item
	Editing    bool
	Missing    bool
	Actions    []Action
}

// GroupTitle is the user-visible title of the group at index
func GroupTitle(index int, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("Group %d", index+1)
}

// CountLabel pluralizes the item count of a collection
func CountLabel(n int) string {
	if n == 1 {
		return "1 item in this folder"
	}
	return fmt.Sprintf("%d items in this folder", n)
}

// Project derives the render model from the registry snapshot, the ranking
// store and the session snapshot. It neither mutates nor calls the remote.
func Project(groups []types.Group, ranks RankSource, snap session.Snapshot) Model {
	m := Model{
		Title: AppTitle,
		Pool:  Tile{Index: -1, Title: PoolTitle},
		Tiles: make([]Tile, len(groups)),
		Open:  snap.Open(),
		Kind:  snap.Kind,
		Mode:  snap.Mode,
	}

	counts := ranks.Counts()
	m.Ranked = make([]RankCount, len(types.Ranks))
	for i, r := range types.Ranks {
		m.Ranked[i] = RankCount{Decoration: Decorate(r), Count: counts[r]}
	}

	dates := make(map[types.PhotoID]string)
	var open *types.Group
	for i, g := range groups {
		first, last := g.DateRange()
		m.Tiles[i] = Tile{
			Index:     g.Index,
			GroupID:   g.ID,
			Title:     GroupTitle(g.Index, g.Name),
			Count:     len(g.Photos),
			DateRange: first + " - " + last,
		}
		if snap.Kind == types.CollectionGroup && g.ID == snap.GroupID {
			open = &groups[i]
			for _, p := range g.Photos {
				dates[p.ID] = p.DateTaken
			}
		}
	}

	switch snap.Kind {
	case types.CollectionNone:
		return m
	case types.CollectionPool:
		m.Heading = PoolTitle
		if snap.Folder != "" {
			m.Heading = PoolTitle + "/" + snap.Folder
		}
	case types.CollectionGroup:
		if open == nil {
			m.Missing = true
			m.Heading = "Missing group"
		} else {
			m.Heading = GroupTitle(open.Index, open.Name)
			m.Editing = snap.EditingName
		}
	}

	m.CountLabel = CountLabel(len(snap.Displayed))
	m.Items = make([]Item, len(snap.Displayed))
	for i, id := range snap.Displayed {
		date, ok := dates[id]
		if !ok {
			date, _ = ranks.DateTaken(id)
		}
		m.Items[i] = Item{
			ID:         id,
			Position:   i,
			DateTaken:  date,
			Decoration: Decorate(ranks.Get(id)),
			PickerOpen: snap.Pickers[id],
		}
	}

	if snap.Mode == types.ModeCarousel && snap.CarouselIndex >= 0 && snap.CarouselIndex < len(m.Items) {
		cur := m.Items[snap.CarouselIndex]
		m.Current = &cur
	}
	m.Actions = actions(m)
	return m
}

func actions(m Model) []Action {
	if m.Missing {
		return nil
	}
	if m.Mode == types.ModeCarousel && len(m.Items) > 0 {
		return []Action{ActionPrev, ActionNext, ActionCloseCarousel}
	}
	if len(m.Items) == 0 {
		return nil
	}
	if m.Kind == types.CollectionPool {
		return []Action{ActionCleanup}
	}
	if m.Editing {
		return []Action{ActionCarousel, ActionSaveName, ActionCancelName, ActionCleanup}
	}
	return []Action{ActionCarousel, ActionRename, ActionCleanup}
}
