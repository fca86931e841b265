package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ZanzyTHEbar/fire-folders/folders/common"
	"github.com/ZanzyTHEbar/fire-folders/folders/types"

	"github.com/spf13/cobra"
)

const browseHelp = `commands:
  home                     back to the folder list
  open <pool|pool/<folder>|group>
  reload                   reload groups, names and ranks
  carousel [n]             open the carousel (on photo n)
  next | prev | grid       move the carousel or go back to the grid
  pick <n>                 toggle the rank picker of photo n
  rank <n> <rank>          rank photo n as reject, neutral or favorite
  delete <n>               delete photo n
  cleanup                  delete every reject of the open collection
  rename [name]            start renaming the open group, or rename it
  save <name> | cancel     finish or abandon a rename
  sync-names               push group names to the backend
  folders                  list the folders of the pool
  help | quit`

func newBrowseCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse and curate interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			ctx := cmd.Context()
			if err := a.session.Load(ctx); err != nil {
				return err
			}
			a.render()
			a.term.Output(a.term.styles.Muted.Render("type help for commands"))

			for {
				fmt.Fprint(a.term.out, "> ")
				line, err := a.term.readLine()
				if errors.Is(err, io.EOF) {
					fmt.Fprintln(a.term.out)
					return nil
				}
				if err != nil {
					return err
				}
				if line == "" {
					continue
				}
				quit, err := a.dispatch(ctx, strings.Fields(line))
				if err != nil {
					a.report(err)
				}
				if quit {
					return nil
				}
			}
		},
	}
}

// report prints errors the session did not already surface
func (a *app) report(err error) {
	switch {
	case common.IsRemote(err):
	case errors.Is(err, common.ErrNotConfirmed):
		a.term.Output("cancelled")
	case errors.Is(err, common.ErrNoCollection):
		a.term.Warning("open a collection first")
	default:
		a.term.Error("Error", err)
	}
}

// photoAt maps a 1-based position of the displayed set to its photo
func (a *app) photoAt(arg string) (types.PhotoID, error) {
	n, err := strconv.Atoi(arg)
	displayed := a.session.Snapshot().Displayed
	if err != nil || n < 1 || n > len(displayed) {
		return "", fmt.Errorf("no photo at position %q", arg)
	}
	return displayed[n-1], nil
}

func (a *app) dispatch(ctx context.Context, fields []string) (bool, error) {
	cmd, args := fields[0], fields[1:]
	a.logger.Debug().Str("command", cmd).Strs("args", args).Msg("browse")

	switch cmd {
	case "quit", "exit", "q":
		return true, nil
	case "help", "?":
		a.term.Output(browseHelp)
		return false, nil
	case "home":
		a.session.Close()
	case "reload":
		if err := a.session.Load(ctx); err != nil {
			return false, err
		}
	case "open":
		if len(args) != 1 {
			return false, errors.New("usage: open <pool|pool/<folder>|group>")
		}
		if err := a.open(ctx, args[0]); err != nil {
			return false, err
		}
	case "folders":
		folders := a.session.PoolFolders()
		if len(folders) == 0 {
			a.term.Output("no folders, open the pool first")
			return false, nil
		}
		a.term.Output(strings.Join(folders, "\n"))
		return false, nil
	case "carousel":
		at := 0
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return false, fmt.Errorf("invalid position %q", args[0])
			}
			at = n - 1
		}
		if err := a.session.OpenCarousel(at); err != nil {
			return false, err
		}
	case "next":
		a.session.Next()
	case "prev":
		a.session.Prev()
	case "grid":
		a.session.CloseCarousel()
	case "pick":
		if len(args) != 1 {
			return false, errors.New("usage: pick <n>")
		}
		id, err := a.photoAt(args[0])
		if err != nil {
			return false, err
		}
		if _, err := a.session.ToggleRankPicker(id); err != nil {
			return false, err
		}
	case "rank":
		if len(args) != 2 {
			return false, errors.New("usage: rank <n> <reject|neutral|favorite>")
		}
		id, err := a.photoAt(args[0])
		if err != nil {
			return false, err
		}
		rank, err := types.ParseRank(args[1])
		if err != nil {
			return false, err
		}
		if err := a.session.SetRank(ctx, id, rank); err != nil {
			return false, err
		}
	case "delete":
		if len(args) != 1 {
			return false, errors.New("usage: delete <n>")
		}
		id, err := a.photoAt(args[0])
		if err != nil {
			return false, err
		}
		if !a.term.Confirm(fmt.Sprintf("Delete %s? This cannot be undone.", id)) {
			return false, common.ErrNotConfirmed
		}
		if err := a.session.DeletePhoto(ctx, id); err != nil {
			return false, err
		}
	case "cleanup":
		if _, err := a.session.BulkCleanup(ctx); err != nil {
			return false, err
		}
	case "rename":
		if len(args) == 0 {
			if err := a.session.BeginRename(); err != nil {
				return false, err
			}
			break
		}
		if err := a.session.RenameOpenGroup(ctx, strings.Join(args, " ")); err != nil {
			return false, err
		}
	case "save":
		if !a.session.Snapshot().EditingName {
			return false, errors.New("not renaming, use rename first")
		}
		if err := a.session.RenameOpenGroup(ctx, strings.Join(args, " ")); err != nil {
			return false, err
		}
	case "cancel":
		a.session.CancelRename()
	case "sync-names":
		if err := a.session.SyncGroupNames(ctx); err != nil {
			return false, err
		}
		a.term.Output("group names synced")
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q, type help", cmd)
	}

	a.render()
	return false, nil
}
