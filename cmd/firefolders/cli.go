package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	internal "github.com/ZanzyTHEbar/fire-folders/folders"
	"github.com/ZanzyTHEbar/fire-folders/folders/common"
	"github.com/ZanzyTHEbar/fire-folders/folders/config"
	"github.com/ZanzyTHEbar/fire-folders/folders/remote"
	"github.com/ZanzyTHEbar/fire-folders/folders/session"
	"github.com/ZanzyTHEbar/fire-folders/folders/types"
	"github.com/ZanzyTHEbar/fire-folders/folders/upload"
	"github.com/ZanzyTHEbar/fire-folders/folders/view"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// backend is a remote that also accepts uploads
type backend interface {
	remote.Remote
	remote.Uploader
}

// app is everything a command needs, built once per invocation
type app struct {
	cfg     *config.Config
	logger  zerolog.Logger
	term    *terminal
	backend backend
	session *session.Session
	uploads *upload.Service
}

type rootFlags struct {
	configPath string
	envFile    string
	server     string
	demo       bool
	logLevel   string
}

func newApp(flags rootFlags, in io.Reader, out io.Writer) (*app, error) {
	config.LoadDotenvIfPresent(flags.envFile)
	cfg, err := config.LoadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.server != "" {
		cfg.Remote.BaseURL = flags.server
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}

	logger := internal.NewLogger(os.Stderr, cfg.Log.Level)
	a := &app{
		cfg:    cfg,
		logger: logger,
		term:   newTerminal(in, out),
	}

	if flags.demo {
		a.backend = newDemoRemote()
		logger.Debug().Msg("using in-memory demo backend")
	} else {
		client, err := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout(), logger)
		if err != nil {
			return nil, err
		}
		a.backend = client
	}

	a.session = session.New(a.backend, a.term, session.Options{
		Logger:         &logger,
		PoolExtensions: cfg.Pool.Extensions,
		PoolIgnore:     cfg.Pool.Ignore,
		CleanupWorkers: cfg.Cleanup.Workers,
		SyncNames:      cfg.Names.SyncAfterCompaction,
	})
	a.uploads = upload.NewService(a.backend, a.term, cfg.Upload.Extensions, logger)
	return a, nil
}

func (a *app) render() {
	a.term.Render(view.Project(a.session.Groups().ListGroups(), a.session.Ranks(), a.session.Snapshot()))
}

// open opens a collection by name: pool, pool/<folder>, or a 1-based group number
func (a *app) open(ctx context.Context, target string) error {
	switch {
	case target == "pool" || target == "uploads" || target == "0":
		return a.session.OpenPool(ctx)
	case strings.HasPrefix(target, "pool/"):
		return a.session.OpenPoolFolder(ctx, strings.TrimPrefix(target, "pool/"))
	}
	n, err := strconv.Atoi(target)
	if err != nil {
		return fmt.Errorf("unknown collection %q: use pool, pool/<folder> or a group number", target)
	}
	return a.session.OpenGroup(n - 1)
}

// groupIndex parses a 1-based group number
func groupIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return -1, fmt.Errorf("invalid group number %q", arg)
	}
	return n - 1, nil
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var (
		flags rootFlags
		a     *app
	)

	rootCmd := &cobra.Command{
		Use:           internal.DefaultAppName,
		Short:         "Curate uploaded photos: rank them, browse groups and clean up rejects",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(flags, in, out)
			return err
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file (default searches ./config.yaml and "+internal.DefaultGlobalConfigFile+")")
	pf.StringVar(&flags.envFile, "env-file", "", "dotenv file loaded before the config (default .env)")
	pf.StringVarP(&flags.server, "server", "s", "", "photo backend base URL (overrides remote.baseURL)")
	pf.BoolVar(&flags.demo, "demo", false, "use an in-memory demo library instead of a backend")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (overrides log.level)")

	getApp := func() *app { return a }

	rootCmd.AddCommand(
		newFoldersCmd(getApp),
		newShowCmd(getApp),
		newRankCmd(getApp),
		newDeleteCmd(getApp),
		newCleanupCmd(getApp),
		newRenameCmd(getApp),
		newSyncNamesCmd(getApp),
		newUploadCmd(getApp),
		newBrowseCmd(getApp),
	)
	return rootCmd
}

func newFoldersCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:     "folders",
		Aliases: []string{"ls"},
		Short:   "List the pool and every group",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.session.Load(cmd.Context()); err != nil {
				return err
			}
			a.render()
			return nil
		},
	}
}

func newShowCmd(getApp func() *app) *cobra.Command {
	var carousel int
	cmd := &cobra.Command{
		Use:   "show <pool|pool/<folder>|group>",
		Short: "Show the photos of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			ctx := cmd.Context()
			if err := a.session.Load(ctx); err != nil {
				return err
			}
			if err := a.open(ctx, args[0]); err != nil {
				return err
			}
			if carousel > 0 {
				if err := a.session.OpenCarousel(carousel - 1); err != nil {
					return err
				}
			}
			a.render()
			if strings.HasPrefix(args[0], "pool") {
				if folders := a.session.PoolFolders(); len(folders) > 0 {
					a.term.Output("folders: " + strings.Join(folders, ", "))
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&carousel, "carousel", 0, "open the carousel on this 1-based position")
	return cmd
}

func newRankCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rank <photo> <reject|neutral|favorite>",
		Short: "Set the rank of a photo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			rank, err := types.ParseRank(args[1])
			if err != nil {
				return err
			}
			if err := a.session.Load(cmd.Context()); err != nil {
				return err
			}
			id := types.PhotoID(args[0])
			if err := a.session.SetRank(cmd.Context(), id, rank); err != nil {
				return err
			}
			a.term.Output(fmt.Sprintf("%s is now %s", id, a.term.decoration(view.Decorate(rank))))
			return nil
		},
	}
}

func newDeleteCmd(getApp func() *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <photo>...",
		Short: "Delete photos from the backend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			a.term.assumeYes = yes
			if err := a.session.Load(cmd.Context()); err != nil {
				return err
			}
			if !a.term.Confirm(fmt.Sprintf("Delete %d photo(s)? This cannot be undone.", len(args))) {
				return fmt.Errorf("delete: %w", common.ErrNotConfirmed)
			}
			var errs []error
			for _, arg := range args {
				if err := a.session.DeletePhoto(cmd.Context(), types.PhotoID(arg)); err != nil {
					errs = append(errs, err)
					continue
				}
				a.term.Output("deleted " + arg)
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newCleanupCmd(getApp func() *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "cleanup <pool|pool/<folder>|group>",
		Short: "Delete every rejected photo of a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			a.term.assumeYes = yes
			ctx := cmd.Context()
			if err := a.session.Load(ctx); err != nil {
				return err
			}
			if err := a.open(ctx, args[0]); err != nil {
				return err
			}
			report, err := a.session.BulkCleanup(ctx)
			if err != nil {
				return err
			}
			a.render()
			return report.Err()
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newRenameCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <group> <name>...",
		Short: "Name a group",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			idx, err := groupIndex(args[0])
			if err != nil {
				return err
			}
			if err := a.session.Load(cmd.Context()); err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			if err := a.session.RenameGroup(cmd.Context(), idx, name); err != nil {
				return err
			}
			a.term.Output(fmt.Sprintf("group %d is now %q", idx+1, strings.TrimSpace(name)))
			return nil
		},
	}
}

func newSyncNamesCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-names",
		Short: "Push the name of every group to the backend under its current index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			if err := a.session.Load(cmd.Context()); err != nil {
				return err
			}
			if err := a.session.SyncGroupNames(cmd.Context()); err != nil {
				return err
			}
			a.term.Output(fmt.Sprintf("synced %d group name(s)", a.session.Groups().Len()))
			return nil
		},
	}
}

func newUploadCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file|folder>...",
		Short: "Upload photos, or every photo under a folder",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := getApp()
			candidates, skipped, err := a.uploads.Prepare(args)
			if err != nil {
				return err
			}
			if len(skipped) > 0 {
				a.term.Warning(fmt.Sprintf("skipping %d file(s): %s", len(skipped), strings.Join(skipped, ", ")))
			}
			res, err := a.uploads.Upload(cmd.Context(), candidates)
			if err != nil {
				return err
			}
			for _, name := range res.Uploaded {
				a.term.Output("uploaded " + name)
			}
			return nil
		},
	}
}
