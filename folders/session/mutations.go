package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/fire-folders/folders/common"
	"github.com/ZanzyTHEbar/fire-folders/folders/types"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"
)

// CleanupReport is the outcome of a bulk cleanup. Deleted and Failed keep
// the order of the displayed set; Errors[i] is the cause of Failed[i].
type CleanupReport struct {
	Scope   types.CollectionKind
	Deleted []types.PhotoID
	Failed  []types.PhotoID
	Errors  []error
}

// Err joins the per-photo failures, nil when every delete succeeded
func (r CleanupReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, err := range r.Errors {
		errs[i] = fmt.Errorf("%s: %w", r.Failed[i], err)
	}
	return errors.Join(errs...)
}

// DeletePhoto deletes id on the remote and, once confirmed, removes it from
// the registry, the ranking store and the displayed set. Nothing local
// changes when the remote call fails.
func (s *Session) DeletePhoto(ctx context.Context, id types.PhotoID) error {
	if err := s.remote.DeleteFile(ctx, id); err != nil {
		s.ui.Error(fmt.Sprintf("Could not delete %s", id), err)
		return s.errs.LogAndWrapError(err, zerolog.WarnLevel, "delete %s", id)
	}

	before := s.groups.Len()
	s.groups.RemovePhoto(id)
	s.ranks.Forget(id)
	s.afterCompaction(ctx, before)

	s.mu.Lock()
	s.pool.Remove(id)
	s.prune(map[types.PhotoID]struct{}{id: {}})
	s.mu.Unlock()

	s.logger.Info().Str("photo", string(id)).Msg("photo deleted")
	return nil
}

// BulkCleanup deletes every rejected photo of the displayed set after the
// user confirmed. Failed deletes are collected and reported, successful ones
// are not rolled back. Group compaction runs once, and only for a group scope.
// Rejects leave the displayed set whether or not their delete went through.
func (s *Session) BulkCleanup(ctx context.Context) (CleanupReport, error) {
	s.mu.Lock()
	scope := s.sel.kind
	gen := s.generation
	displayed := append([]types.PhotoID(nil), s.sel.displayed...)
	s.mu.Unlock()

	report := CleanupReport{Scope: scope}
	if scope == types.CollectionNone {
		return report, s.errs.WrapError(common.ErrNoCollection, "cleanup")
	}

	rejects := s.ranks.Filter(displayed, types.RankReject)
	if len(rejects) == 0 {
		s.ui.Output("No rejected photos to clean up")
		return report, nil
	}
	if !s.ui.Confirm(fmt.Sprintf("Delete %d rejected photo(s)? This cannot be undone.", len(rejects))) {
		return report, s.errs.WrapError(common.ErrNotConfirmed, "cleanup of %d photo(s)", len(rejects))
	}

	s.ui.StartSpinner(fmt.Sprintf("Deleting %d photo(s)", len(rejects)))
	mapper := iter.Mapper[types.PhotoID, error]{MaxGoroutines: s.workers}
	results := mapper.Map(rejects, func(id *types.PhotoID) error {
		return s.remote.DeleteFile(ctx, *id)
	})

	deleted := make(map[types.PhotoID]struct{}, len(rejects))
	for i, err := range results {
		id := rejects[i]
		if err != nil {
			s.logger.Warn().Err(err).Str("photo", string(id)).Msg("cleanup delete failed")
			report.Failed = append(report.Failed, id)
			report.Errors = append(report.Errors, err)
			continue
		}
		report.Deleted = append(report.Deleted, id)
		deleted[id] = struct{}{}
	}

	if scope == types.CollectionGroup && len(deleted) > 0 {
		before := s.groups.Len()
		s.groups.RemoveWhere(func(id types.PhotoID) bool {
			_, ok := deleted[id]
			return ok
		})
		s.afterCompaction(ctx, before)
	}
	for id := range deleted {
		s.ranks.Forget(id)
	}

	// Every reject leaves the displayed set of the collection that was cleaned;
	// failed ones stay in the stores and come back when it is reopened. If the
	// user has moved on, only photos that are gone everywhere are pruned.
	s.mu.Lock()
	for id := range deleted {
		s.pool.Remove(id)
	}
	if s.generation == gen {
		hidden := make(map[types.PhotoID]struct{}, len(rejects))
		for _, id := range rejects {
			hidden[id] = struct{}{}
		}
		s.prune(hidden)
	} else {
		s.logger.Debug().Uint64("generation", gen).Msg("collection changed during cleanup")
		s.prune(deleted)
	}
	s.mu.Unlock()

	if len(report.Failed) > 0 {
		s.ui.StopSpinner(false, fmt.Sprintf("Deleted %d of %d photo(s)", len(report.Deleted), len(rejects)))
		s.ui.Error(fmt.Sprintf("Could not delete %s", joinIDs(report.Failed)), report.Err())
	} else {
		s.ui.StopSpinner(true, fmt.Sprintf("Deleted %d photo(s)", len(report.Deleted)))
	}
	s.logger.Info().
		Str("scope", string(scope)).
		Int("deleted", len(report.Deleted)).
		Int("failed", len(report.Failed)).
		Msg("cleanup finished")
	return report, nil
}

// SetRank persists rank for id and closes its rank picker on success
func (s *Session) SetRank(ctx context.Context, id types.PhotoID, rank types.Rank) error {
	if err := s.ranks.Set(ctx, id, rank); err != nil {
		if !errors.Is(err, common.ErrInvalidRank) {
			s.ui.Error(fmt.Sprintf("Could not rank %s as %s", id, rank), err)
		}
		return err
	}

	s.mu.Lock()
	delete(s.sel.pickers, id)
	s.mu.Unlock()
	return nil
}

// ToggleRankPicker flips the rank picker of a displayed photo and returns its new state
func (s *Session) ToggleRankPicker(id types.PhotoID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel.kind == types.CollectionNone {
		return false, common.ErrNoCollection
	}
	if !containsID(s.sel.displayed, id) {
		return false, fmt.Errorf("photo %s: %w", id, common.ErrNotFound)
	}
	open := !s.sel.pickers[id]
	if open {
		s.sel.pickers[id] = true
	} else {
		delete(s.sel.pickers, id)
	}
	return open, nil
}

// BeginRename enters the editing-name state of the open group
func (s *Session) BeginRename() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel.kind != types.CollectionGroup {
		return s.errs.WrapError(common.ErrNoCollection, "rename")
	}
	s.sel.editing = true
	return nil
}

func (s *Session) CancelRename() {
	s.mu.Lock()
	s.sel.editing = false
	s.mu.Unlock()
}

// RenameGroup names the group at index. A group that moved or vanished while
// the remote call was in flight is treated as a stale reference.
func (s *Session) RenameGroup(ctx context.Context, index int, name string) error {
	name = strings.TrimSpace(name)
	if err := s.groups.RenameGroup(ctx, index, name); err != nil {
		if common.IsRemote(err) || errors.Is(err, common.ErrNotFound) {
			s.ui.Error(fmt.Sprintf("Could not rename group %d", index+1), err)
		}
		return err
	}

	s.mu.Lock()
	s.sel.editing = false
	s.mu.Unlock()
	s.logger.Info().Int("index", index).Str("name", name).Msg("group renamed")
	return nil
}

// RenameOpenGroup names the group that is currently open
func (s *Session) RenameOpenGroup(ctx context.Context, name string) error {
	idx, err := s.OpenGroupIndex()
	if err != nil {
		return err
	}
	return s.RenameGroup(ctx, idx, name)
}

// SyncGroupNames pushes the local name of every group to the remote under
// its current index. Unnamed groups get an empty name so no stale name stays
// attached to an index that now belongs to another group.
func (s *Session) SyncGroupNames(ctx context.Context) error {
	var errs []error
	for _, g := range s.groups.ListGroups() {
		if err := s.remote.SetGroupName(ctx, g.Index, g.Name); err != nil {
			s.logger.Warn().Err(err).Int("index", g.Index).Msg("group name sync failed")
			errs = append(errs, fmt.Errorf("group %d: %w", g.Index, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		s.ui.Error("Could not sync group names", err)
		return err
	}
	s.logger.Debug().Int("groups", s.groups.Len()).Msg("group names synced")
	return nil
}

// afterCompaction syncs names when compaction dropped groups and syncing is on
func (s *Session) afterCompaction(ctx context.Context, groupsBefore int) {
	if !s.syncNames || s.groups.Len() == groupsBefore {
		return
	}
	_ = s.SyncGroupNames(ctx)
}

func containsID(ids []types.PhotoID, id types.PhotoID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

func joinIDs(ids []types.PhotoID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
