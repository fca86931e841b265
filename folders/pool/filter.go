package pool

import (
	"path"
	"strings"

	"github.com/ZanzyTHEbar/fire-folders/folders/types"

	ignore "github.com/sabhiram/go-gitignore"
)

// Filter decides which entries of an upload listing are displayable photos.
// An entry must carry a supported extension and match none of the ignore patterns.
type Filter struct {
	exts   map[string]struct{}
	ignore *ignore.GitIgnore
}

// NewFilter builds a filter from extensions (with or without the leading dot)
// and gitignore-style patterns
func NewFilter(extensions, ignorePatterns []string) *Filter {
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
	return &Filter{
		exts:   exts,
		ignore: ignore.CompileIgnoreLines(ignorePatterns...),
	}
}

// Accepts reports whether p is a displayable photo
func (f *Filter) Accepts(p string) bool {
	p = normalize(p)
	if p == "" {
		return false
	}
	if _, ok := f.exts[strings.ToLower(path.Ext(p))]; !ok {
		return false
	}
	return !f.ignore.MatchesPath(p)
}

// Apply keeps the accepted entries of listing in order, dropping duplicates
func (f *Filter) Apply(listing []string) []types.PhotoID {
	seen := make(map[string]struct{}, len(listing))
	out := make([]types.PhotoID, 0, len(listing))
	for _, p := range listing {
		if !f.Accepts(p) {
			continue
		}
		p = normalize(p)
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, types.PhotoID(p))
	}
	return out
}

func normalize(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	return strings.Trim(p, "/")
}
