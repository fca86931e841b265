package upload

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/fire-folders/folders/ports"
	"github.com/ZanzyTHEbar/fire-folders/folders/remote"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/iter"
)

// Candidate is a local file accepted for upload
type Candidate struct {
	Path      string
	Name      string
	Size      int64
	DateTaken string
}

// Dated reports whether a capture date was found. Undated photos are never
// grouped by the backend and stay in the pool.
func (c Candidate) Dated() bool { return c.DateTaken != "" }

// Result is the outcome of an upload
type Result struct {
	Uploaded []string
	Undated  []string
}

// Service prepares local photos and sends them to the backend
type Service struct {
	ui      ports.Interactor
	remote  remote.Uploader
	exts    map[string]struct{}
	workers int
	logger  zerolog.Logger
}

// NewService creates an upload service accepting the given extensions
func NewService(up remote.Uploader, ui ports.Interactor, extensions []string, logger zerolog.Logger) *Service {
	exts := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = struct{}{}
	}
	if ui == nil {
		ui = ports.Silent{}
	}
	return &Service{
		ui:      ui,
		remote:  up,
		exts:    exts,
		workers: 4,
		logger:  logger.With().Str("component", "upload").Logger(),
	}
}

// Accepts reports whether name has an accepted image extension
func (s *Service) Accepts(name string) bool {
	_, ok := s.exts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Prepare expands directories (folder mode), keeps accepted formats and
// reads capture dates. Files sharing a base name with an earlier one are
// skipped since the backend stores uploads by base name.
func (s *Service) Prepare(paths []string) ([]Candidate, []string, error) {
	var (
		files   []string
		skipped []string
	)
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, nil, fmt.Errorf("stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if s.Accepts(p) {
				files = append(files, p)
			} else {
				skipped = append(skipped, p)
			}
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if strings.HasPrefix(d.Name(), ".") && path != p {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if s.Accepts(path) {
				files = append(files, path)
			} else {
				skipped = append(skipped, path)
			}
			return nil
		})
		if err != nil {
			return nil, nil, fmt.Errorf("walk %s: %w", p, err)
		}
	}

	seen := make(map[string]struct{}, len(files))
	unique := files[:0]
	for _, f := range files {
		name := filepath.Base(f)
		if _, dup := seen[name]; dup {
			s.logger.Warn().Str("path", f).Msg("skipping duplicate file name")
			skipped = append(skipped, f)
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, f)
	}

	mapper := iter.Mapper[string, Candidate]{MaxGoroutines: s.workers}
	candidates := mapper.Map(unique, func(path *string) Candidate {
		c := Candidate{Path: *path, Name: filepath.Base(*path)}
		if info, err := os.Stat(*path); err == nil {
			c.Size = info.Size()
		}
		c.DateTaken, _ = DateTaken(*path)
		return c
	})
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	return candidates, skipped, nil
}

// Upload reads the candidates and posts them in one multipart request
func (s *Service) Upload(ctx context.Context, candidates []Candidate) (Result, error) {
	var res Result
	if len(candidates) == 0 {
		s.ui.Warning("No photos to upload")
		return res, nil
	}

	files := make([]remote.File, 0, len(candidates))
	for _, c := range candidates {
		content, err := os.ReadFile(c.Path)
		if err != nil {
			return res, fmt.Errorf("read %s: %w", c.Path, err)
		}
		files = append(files, remote.File{Name: c.Name, Content: content})
		if !c.Dated() {
			res.Undated = append(res.Undated, c.Name)
		}
	}

	s.ui.StartSpinner(fmt.Sprintf("Uploading %d photo(s)", len(files)))
	uploaded, err := s.remote.Upload(ctx, files)
	if err != nil {
		s.ui.StopSpinner(false, "Upload failed")
		s.ui.Error("Upload failed", err)
		return res, fmt.Errorf("upload: %w", err)
	}
	res.Uploaded = uploaded
	s.ui.StopSpinner(true, fmt.Sprintf("Uploaded %d photo(s)", len(uploaded)))

	if len(res.Undated) > 0 {
		s.ui.Warning(fmt.Sprintf("%d photo(s) have no capture date and will stay in Uploads: %s",
			len(res.Undated), strings.Join(res.Undated, ", ")))
	}
	s.logger.Info().Int("uploaded", len(uploaded)).Int("undated", len(res.Undated)).Msg("upload finished")
	return res, nil
}
