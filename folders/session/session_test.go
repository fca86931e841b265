package session

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/ZanzyTHEbar/fire-folders/folders/common"
	"github.com/ZanzyTHEbar/fire-folders/folders/remote"
	"github.com/ZanzyTHEbar/fire-folders/folders/types"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu       sync.Mutex
	confirm  bool
	outputs  []string
	warnings []string
	errs     []error
	asked    []string
}

func (r *recorder) Output(m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = append(r.outputs, m)
}

func (r *recorder) Warning(m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, m)
}

func (r *recorder) Error(_ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) Confirm(m string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.asked = append(r.asked, m)
	return r.confirm
}

func (r *recorder) StartSpinner(string)      {}
func (r *recorder) StopSpinner(bool, string) {}

func (r *recorder) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errs)
}

func newTestSession(t *testing.T, mem *remote.Memory, opts Options) (*Session, *recorder) {
	t.Helper()
	logger := zerolog.Nop()
	opts.Logger = &logger
	ui := &recorder{confirm: true}
	return New(mem, ui, opts), ui
}

// threeGroups seeds [A(a1,a2) "X", B(b1), C(c1,c2,c3) "Z"]
func threeGroups() *remote.Memory {
	mem := remote.NewMemory()
	for _, f := range []string{"a1.jpg", "a2.jpg", "b1.jpg", "c1.jpg", "c2.jpg", "c3.jpg"} {
		mem.AddFile(f, "2024:05:01 10:00:00", types.RankNeutral)
	}
	mem.AddListingEntry("metadata.json")
	mem.SetGroups([][]types.PhotoID{
		{"a1.jpg", "a2.jpg"},
		{"b1.jpg"},
		{"c1.jpg", "c2.jpg", "c3.jpg"},
	}, map[int]string{0: "X", 2: "Z"})
	return mem
}

func unavailable(op string) error {
	return common.Unavailable(op, errors.New("connection refused"))
}

func TestLoadReplacesStores(t *testing.T) {
	mem := threeGroups()
	mem.AddFile("d1.jpg", "", types.RankFavorite)
	s, _ := newTestSession(t, mem, Options{})

	require.NoError(t, s.Load(context.Background()))

	assert.Equal(t, 3, s.Groups().Len())
	assert.Equal(t, map[int]string{0: "X", 2: "Z"}, s.Groups().Names())
	assert.Equal(t, types.RankFavorite, s.Ranks().Get("d1.jpg"))
	assert.Equal(t, types.RankNeutral, s.Ranks().Get("unknown.jpg"))
}

func TestLoadFailureKeepsPreviousState(t *testing.T) {
	mem := threeGroups()
	s, ui := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))

	mem.Fail(remote.OpListGroupNames, "", unavailable("list group names"))
	err := s.Load(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRemoteUnavailable)
	assert.Equal(t, 3, s.Groups().Len())
	assert.Equal(t, 1, ui.errorCount())
}

func TestLoadClosesOpenGroup(t *testing.T) {
	s, ui := newTestSession(t, threeGroups(), Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenGroup(0))

	require.NoError(t, s.Load(context.Background()))

	assert.False(t, s.Snapshot().Open())
	assert.Len(t, ui.warnings, 1)
}

func TestOpenPoolFiltersListing(t *testing.T) {
	mem := threeGroups()
	mem.AddListingEntry("notes.txt")
	mem.AddListingEntry(".hidden.jpg")
	s, _ := newTestSession(t, mem, Options{})

	require.NoError(t, s.OpenPool(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, types.CollectionPool, snap.Kind)
	assert.Equal(t, types.ModeGrid, snap.Mode)
	assert.Equal(t, []types.PhotoID{"a1.jpg", "a2.jpg", "b1.jpg", "c1.jpg", "c2.jpg", "c3.jpg"}, snap.Displayed)
}

func TestOpenPoolFailureStillOpens(t *testing.T) {
	mem := threeGroups()
	mem.Fail(remote.OpListUploads, "", unavailable("list uploads"))
	s, ui := newTestSession(t, mem, Options{})

	err := s.OpenPool(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRemoteUnavailable)
	snap := s.Snapshot()
	assert.Equal(t, types.CollectionPool, snap.Kind)
	assert.Empty(t, snap.Displayed)
	assert.Equal(t, 1, ui.errorCount())
}

func TestOpenPoolFolder(t *testing.T) {
	mem := remote.NewMemory()
	mem.AddFile("trip/day1/p1.jpg", "", types.RankNeutral)
	mem.AddFile("trip/day2/p2.jpg", "", types.RankNeutral)
	mem.AddFile("home/p3.jpg", "", types.RankNeutral)
	s, _ := newTestSession(t, mem, Options{})

	require.NoError(t, s.OpenPoolFolder(context.Background(), "trip"))

	assert.Equal(t, []types.PhotoID{"trip/day1/p1.jpg", "trip/day2/p2.jpg"}, s.Snapshot().Displayed)
	assert.Equal(t, []string{"home", "trip", "trip/day1", "trip/day2"}, s.PoolFolders())
}

func TestStalePoolListingIsDiscarded(t *testing.T) {
	mem := threeGroups()
	s, _ := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))

	mem.BeforeCall = func(op, _ string) {
		if op == remote.OpListUploads {
			require.NoError(t, s.OpenGroup(1))
		}
	}
	require.NoError(t, s.OpenPool(context.Background()))

	snap := s.Snapshot()
	assert.Equal(t, types.CollectionGroup, snap.Kind)
	assert.Equal(t, []types.PhotoID{"b1.jpg"}, snap.Displayed)
}

func TestOpenGroup(t *testing.T) {
	s, _ := newTestSession(t, threeGroups(), Options{})
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.OpenGroup(2))
	snap := s.Snapshot()
	assert.Equal(t, types.CollectionGroup, snap.Kind)
	assert.Equal(t, []types.PhotoID{"c1.jpg", "c2.jpg", "c3.jpg"}, snap.Displayed)
	assert.Equal(t, 0, snap.CarouselIndex)
	assert.Empty(t, snap.Pickers)

	err := s.OpenGroup(3)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCloseDiscardsSelection(t *testing.T) {
	s, _ := newTestSession(t, threeGroups(), Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenGroup(0))
	_, err := s.ToggleRankPicker("a1.jpg")
	require.NoError(t, err)

	s.Close()

	snap := s.Snapshot()
	assert.False(t, snap.Open())
	assert.Empty(t, snap.Displayed)
	assert.Empty(t, snap.Pickers)
}

func TestStaleReferenceGuard(t *testing.T) {
	s, _ := newTestSession(t, threeGroups(), Options{})
	require.NoError(t, s.Load(context.Background()))

	staleRef, err := s.Groups().RefAt(2)
	require.NoError(t, err)
	vanishingRef, err := s.Groups().RefAt(1)
	require.NoError(t, err)

	require.NoError(t, s.OpenGroup(1))
	require.NoError(t, s.DeletePhoto(context.Background(), "b1.jpg"))
	require.Equal(t, 2, s.Groups().Len())

	// The reference to the old index 2 follows its group to index 1
	require.NoError(t, s.OpenGroupRef(staleRef))
	assert.Equal(t, []types.PhotoID{"c1.jpg", "c2.jpg", "c3.jpg"}, s.Snapshot().Displayed)
	idx, err := s.OpenGroupIndex()
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	err = s.OpenGroupRef(vanishingRef)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, s.OpenGroup(2), common.ErrNotFound)
}

func TestDeletePhoto(t *testing.T) {
	mem := threeGroups()
	s, _ := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenGroup(0))

	require.NoError(t, s.DeletePhoto(context.Background(), "a1.jpg"))

	assert.Equal(t, []types.PhotoID{"a2.jpg"}, s.Snapshot().Displayed)
	assert.False(t, mem.HasFile("a1.jpg"))
	g, err := s.Groups().Group(0)
	require.NoError(t, err)
	assert.Equal(t, []types.PhotoID{"a2.jpg"}, g.PhotoIDs())
}

func TestDeletePhotoSettlesAfterCollectionChanged(t *testing.T) {
	t.Run("pool opened while deleting from a group", func(t *testing.T) {
		mem := threeGroups()
		s, _ := newTestSession(t, mem, Options{})
		require.NoError(t, s.Load(context.Background()))
		require.NoError(t, s.OpenGroup(0))

		var openErr error
		mem.BeforeCall = func(op, key string) {
			if op == remote.OpDeleteFile && key == "a1.jpg" {
				openErr = s.OpenPool(context.Background())
			}
		}
		require.NoError(t, s.DeletePhoto(context.Background(), "a1.jpg"))
		require.NoError(t, openErr)

		snap := s.Snapshot()
		assert.Equal(t, types.CollectionPool, snap.Kind)
		assert.NotContains(t, snap.Displayed, types.PhotoID("a1.jpg"))
		assert.Contains(t, snap.Displayed, types.PhotoID("a2.jpg"))
		g, err := s.Groups().Group(0)
		require.NoError(t, err)
		assert.Equal(t, []types.PhotoID{"a2.jpg"}, g.PhotoIDs())
	})

	t.Run("group opened while deleting from the pool", func(t *testing.T) {
		mem := threeGroups()
		s, _ := newTestSession(t, mem, Options{})
		require.NoError(t, s.Load(context.Background()))
		require.NoError(t, s.OpenPool(context.Background()))

		var openErr error
		mem.BeforeCall = func(op, key string) {
			if op == remote.OpDeleteFile && key == "c2.jpg" {
				openErr = s.OpenGroup(2)
			}
		}
		require.NoError(t, s.DeletePhoto(context.Background(), "c2.jpg"))
		require.NoError(t, openErr)

		snap := s.Snapshot()
		assert.Equal(t, types.CollectionGroup, snap.Kind)
		assert.Equal(t, []types.PhotoID{"c1.jpg", "c3.jpg"}, snap.Displayed)
	})
}

func TestDeletePhotoFailureLeavesState(t *testing.T) {
	mem := threeGroups()
	mem.Fail(remote.OpDeleteFile, "a1.jpg", common.Rejected("delete a1.jpg", http.StatusNotFound, "File not found"))
	s, ui := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenGroup(0))
	version := s.Groups().Version()

	err := s.DeletePhoto(context.Background(), "a1.jpg")

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrRemoteRejected)
	assert.Equal(t, []types.PhotoID{"a1.jpg", "a2.jpg"}, s.Snapshot().Displayed)
	assert.Equal(t, version, s.Groups().Version())
	assert.Equal(t, 1, ui.errorCount())
}

func TestDeleteLastPhotoRekeysNames(t *testing.T) {
	s, _ := newTestSession(t, threeGroups(), Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenGroup(1))

	require.NoError(t, s.DeletePhoto(context.Background(), "b1.jpg"))

	assert.Empty(t, s.Snapshot().Displayed)
	assert.Equal(t, map[int]string{0: "X", 1: "Z"}, s.Groups().Names())
	_, err := s.OpenGroupIndex()
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSyncNamesAfterCompaction(t *testing.T) {
	mem := threeGroups()
	s, _ := newTestSession(t, mem, Options{SyncNames: true})
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.DeletePhoto(context.Background(), "b1.jpg"))

	assert.Equal(t, map[int]string{0: "X", 1: "Z"}, mem.Names())
}

func TestNoSyncWithoutCompaction(t *testing.T) {
	mem := threeGroups()
	s, _ := newTestSession(t, mem, Options{SyncNames: true})
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.DeletePhoto(context.Background(), "c1.jpg"))

	assert.Equal(t, 0, mem.Calls(remote.OpSetGroupName))
}

func TestConcurrentDeletesConverge(t *testing.T) {
	s, _ := newTestSession(t, threeGroups(), Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenPool(context.Background()))

	var wg sync.WaitGroup
	for _, id := range []types.PhotoID{"b1.jpg", "a1.jpg", "c2.jpg"} {
		wg.Add(1)
		go func(id types.PhotoID) {
			defer wg.Done()
			assert.NoError(t, s.DeletePhoto(context.Background(), id))
		}(id)
	}
	wg.Wait()

	assert.Equal(t, []types.PhotoID{"a2.jpg", "c1.jpg", "c3.jpg"}, s.Snapshot().Displayed)
	gs := s.Groups().ListGroups()
	require.Len(t, gs, 2)
	assert.Equal(t, []types.PhotoID{"a2.jpg"}, gs[0].PhotoIDs())
	assert.Equal(t, []types.PhotoID{"c1.jpg", "c3.jpg"}, gs[1].PhotoIDs())
	assert.Equal(t, map[int]string{0: "X", 1: "Z"}, s.Groups().Names())
}

func rankedPool(t *testing.T) *remote.Memory {
	t.Helper()
	mem := remote.NewMemory()
	mem.AddFile("p1.jpg", "", types.RankReject)
	mem.AddFile("p2.jpg", "", types.RankFavorite)
	mem.AddFile("p3.jpg", "", types.RankReject)
	return mem
}

func TestBulkCleanupPartialFailure(t *testing.T) {
	mem := rankedPool(t)
	mem.Fail(remote.OpDeleteFile, "p3.jpg", unavailable("delete p3.jpg"))
	s, ui := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenPool(context.Background()))

	report, err := s.BulkCleanup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, types.CollectionPool, report.Scope)
	assert.Equal(t, []types.PhotoID{"p1.jpg"}, report.Deleted)
	assert.Equal(t, []types.PhotoID{"p3.jpg"}, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.ErrorIs(t, report.Err(), common.ErrRemoteUnavailable)
	assert.Equal(t, []types.PhotoID{"p2.jpg"}, s.Snapshot().Displayed)
	assert.True(t, mem.HasFile("p3.jpg"))
	assert.Equal(t, types.RankReject, s.Ranks().Get("p3.jpg"))
	assert.Equal(t, 1, ui.errorCount())
}

func TestBulkCleanupSettlesAfterCollectionChanged(t *testing.T) {
	mem := rankedPool(t)
	mem.SetGroups([][]types.PhotoID{{"p1.jpg", "p2.jpg", "p3.jpg"}}, nil)
	mem.Fail(remote.OpDeleteFile, "p3.jpg", unavailable("delete p3.jpg"))
	s, _ := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenGroup(0))

	var openErr error
	mem.BeforeCall = func(op, key string) {
		if op == remote.OpDeleteFile && key == "p1.jpg" {
			openErr = s.OpenPool(context.Background())
		}
	}
	report, err := s.BulkCleanup(context.Background())

	require.NoError(t, err)
	require.NoError(t, openErr)
	assert.Equal(t, types.CollectionGroup, report.Scope)
	assert.Equal(t, []types.PhotoID{"p1.jpg"}, report.Deleted)
	assert.Equal(t, []types.PhotoID{"p3.jpg"}, report.Failed)

	// the pool keeps the reject that could not be deleted
	snap := s.Snapshot()
	assert.Equal(t, types.CollectionPool, snap.Kind)
	assert.Equal(t, []types.PhotoID{"p2.jpg", "p3.jpg"}, snap.Displayed)
	assert.True(t, mem.HasFile("p3.jpg"))

	g, err := s.Groups().Group(0)
	require.NoError(t, err)
	assert.Equal(t, []types.PhotoID{"p2.jpg", "p3.jpg"}, g.PhotoIDs())
}

func TestBulkCleanupRequiresConfirmation(t *testing.T) {
	mem := rankedPool(t)
	s, ui := newTestSession(t, mem, Options{})
	ui.confirm = false
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenPool(context.Background()))

	_, err := s.BulkCleanup(context.Background())

	assert.ErrorIs(t, err, common.ErrNotConfirmed)
	assert.Equal(t, 0, mem.Calls(remote.OpDeleteFile))
	assert.Len(t, s.Snapshot().Displayed, 3)
	assert.Len(t, ui.asked, 1)
}

func TestBulkCleanupNeedsOpenCollection(t *testing.T) {
	s, _ := newTestSession(t, rankedPool(t), Options{})
	_, err := s.BulkCleanup(context.Background())
	assert.ErrorIs(t, err, common.ErrNoCollection)
}

func TestBulkCleanupNothingToDelete(t *testing.T) {
	mem := remote.NewMemory()
	mem.AddFile("p1.jpg", "", types.RankNeutral)
	s, ui := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenPool(context.Background()))

	report, err := s.BulkCleanup(context.Background())

	require.NoError(t, err)
	assert.Empty(t, report.Deleted)
	assert.Empty(t, ui.asked)
}

func TestBulkCleanupGroupCompactsOnce(t *testing.T) {
	mem := remote.NewMemory()
	for _, f := range []string{"a1.jpg", "b1.jpg", "b2.jpg", "c1.jpg"} {
		mem.AddFile(f, "", types.RankNeutral)
	}
	mem.SetGroups([][]types.PhotoID{{"a1.jpg"}, {"b1.jpg", "b2.jpg"}, {"c1.jpg"}}, map[int]string{1: "B", 2: "C"})
	s, _ := newTestSession(t, mem, Options{CleanupWorkers: 4})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenGroup(1))
	require.NoError(t, s.SetRank(context.Background(), "b1.jpg", types.RankReject))
	require.NoError(t, s.SetRank(context.Background(), "b2.jpg", types.RankReject))
	version := s.Groups().Version()

	report, err := s.BulkCleanup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []types.PhotoID{"b1.jpg", "b2.jpg"}, report.Deleted)
	assert.Equal(t, version+1, s.Groups().Version())
	assert.Equal(t, 2, s.Groups().Len())
	assert.Equal(t, map[int]string{1: "C"}, s.Groups().Names())
	assert.Empty(t, s.Snapshot().Displayed)
}

func TestBulkCleanupPoolLeavesRegistry(t *testing.T) {
	mem := threeGroups()
	s, _ := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.SetRank(context.Background(), "b1.jpg", types.RankReject))
	require.NoError(t, s.OpenPool(context.Background()))
	version := s.Groups().Version()

	report, err := s.BulkCleanup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []types.PhotoID{"b1.jpg"}, report.Deleted)
	assert.Equal(t, version, s.Groups().Version())
	assert.NotContains(t, s.Snapshot().Displayed, types.PhotoID("b1.jpg"))
}

func TestSetRankClosesPicker(t *testing.T) {
	mem := threeGroups()
	s, _ := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenGroup(0))

	open, err := s.ToggleRankPicker("a1.jpg")
	require.NoError(t, err)
	require.True(t, open)
	_, err = s.ToggleRankPicker("a2.jpg")
	require.NoError(t, err)

	require.NoError(t, s.SetRank(context.Background(), "a1.jpg", types.RankFavorite))

	assert.Equal(t, types.RankFavorite, s.Ranks().Get("a1.jpg"))
	rank, ok := mem.Rank("a1.jpg")
	require.True(t, ok)
	assert.Equal(t, types.RankFavorite, rank)
	assert.Equal(t, map[types.PhotoID]bool{"a2.jpg": true}, s.Snapshot().Pickers)
}

func TestSetRankRejected(t *testing.T) {
	mem := threeGroups()
	mem.Fail(remote.OpSetRank, "a1.jpg", common.Rejected("set rank of a1.jpg", http.StatusBadRequest, "Invalid filename or ranking"))
	s, ui := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenGroup(0))
	_, err := s.ToggleRankPicker("a1.jpg")
	require.NoError(t, err)

	err = s.SetRank(context.Background(), "a1.jpg", types.RankFavorite)

	assert.ErrorIs(t, err, common.ErrRemoteRejected)
	assert.Equal(t, types.RankNeutral, s.Ranks().Get("a1.jpg"))
	assert.True(t, s.Snapshot().Pickers["a1.jpg"])
	assert.Equal(t, 1, ui.errorCount())
}

func TestToggleRankPicker(t *testing.T) {
	s, _ := newTestSession(t, threeGroups(), Options{})
	require.NoError(t, s.Load(context.Background()))

	_, err := s.ToggleRankPicker("a1.jpg")
	assert.ErrorIs(t, err, common.ErrNoCollection)

	require.NoError(t, s.OpenGroup(0))
	_, err = s.ToggleRankPicker("c1.jpg")
	assert.ErrorIs(t, err, common.ErrNotFound)

	open, err := s.ToggleRankPicker("a1.jpg")
	require.NoError(t, err)
	assert.True(t, open)
	open, err = s.ToggleRankPicker("a1.jpg")
	require.NoError(t, err)
	assert.False(t, open)
}

func TestRenameGroup(t *testing.T) {
	mem := threeGroups()
	s, _ := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenGroup(1))
	require.NoError(t, s.BeginRename())
	require.True(t, s.Snapshot().EditingName)

	require.NoError(t, s.RenameOpenGroup(context.Background(), "  Beach  "))

	assert.False(t, s.Snapshot().EditingName)
	assert.Equal(t, "Beach", s.Groups().Names()[1])
	assert.Equal(t, "Beach", mem.Names()[1])
}

func TestRenameGroupFailureKeepsEditing(t *testing.T) {
	mem := threeGroups()
	mem.Fail(remote.OpSetGroupName, "1", unavailable("name group 1"))
	s, ui := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.OpenGroup(1))
	require.NoError(t, s.BeginRename())

	err := s.RenameGroup(context.Background(), 1, "Beach")

	assert.ErrorIs(t, err, common.ErrRemoteUnavailable)
	assert.True(t, s.Snapshot().EditingName)
	_, named := s.Groups().Names()[1]
	assert.False(t, named)
	assert.Equal(t, 1, ui.errorCount())
}

func TestRenameRequiresOpenGroup(t *testing.T) {
	s, _ := newTestSession(t, threeGroups(), Options{})
	assert.ErrorIs(t, s.BeginRename(), common.ErrNoCollection)
	_, err := s.OpenGroupIndex()
	assert.ErrorIs(t, err, common.ErrNoCollection)
}

func TestSyncGroupNamesCollectsFailures(t *testing.T) {
	mem := threeGroups()
	mem.Fail(remote.OpSetGroupName, "1", unavailable("name group 1"))
	s, _ := newTestSession(t, mem, Options{})
	require.NoError(t, s.Load(context.Background()))

	err := s.SyncGroupNames(context.Background())

	assert.ErrorIs(t, err, common.ErrRemoteUnavailable)
	assert.Equal(t, 3, mem.Calls(remote.OpSetGroupName))
	assert.Equal(t, map[int]string{0: "X", 2: "Z"}, mem.Names())
}
