package posts

import (
	"context"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// candidate is a discovered content file before parsing.
type candidate struct {
	slug    string
	path    string
	extRank int
}

// discover lists content files under the store root. The result is sorted by
// slug, then extension priority, then path, so duplicate slugs resolve the
// same way on every platform.
func (s *Store) discover(ctx context.Context) ([]candidate, error) {
	var found []candidate

	walkErr := fs.WalkDir(s.fs, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if p == "." {
				return nil
			}
			if !s.cfg.Recursive || isHidden(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if isHidden(d.Name()) {
			return nil
		}
		slug, rank, ok := s.classify(d.Name())
		if !ok {
			return nil
		}
		found = append(found, candidate{slug: slug, path: p, extRank: rank})
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	slices.SortFunc(found, compareCandidates)
	return found, nil
}

// dedupe keeps the first candidate per slug and returns the rest as shadowed.
func dedupe(sorted []candidate) (unique, shadowed []candidate) {
	unique = make([]candidate, 0, len(sorted))
	for i, c := range sorted {
		if i > 0 && sorted[i-1].slug == c.slug {
			shadowed = append(shadowed, c)
			continue
		}
		unique = append(unique, c)
	}
	return unique, shadowed
}

// classify maps a file name onto its slug and extension rank.
func (s *Store) classify(name string) (string, int, bool) {
	ext := strings.ToLower(path.Ext(name))
	rank := slices.Index(s.cfg.Extensions, ext)
	if rank < 0 {
		return "", 0, false
	}
	slug := strings.ToLower(strings.TrimSuffix(name, path.Ext(name)))
	if slug == "" {
		return "", 0, false
	}
	return slug, rank, true
}

func compareCandidates(a, b candidate) int {
	if c := strings.Compare(a.slug, b.slug); c != 0 {
		return c
	}
	if a.extRank != b.extRank {
		return a.extRank - b.extRank
	}
	return strings.Compare(a.path, b.path)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

// NormalizeSlug lowercases and trims slug, reporting false for values that
// cannot name a published content file: blank, path separators, dot
// segments, or a hidden prefix.
func NormalizeSlug(slug string) (string, bool) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" || strings.Trim(slug, ".") == "" {
		return "", false
	}
	if strings.ContainsAny(slug, `/\`) || strings.ContainsRune(slug, 0) {
		return "", false
	}
	if isHidden(slug) {
		return "", false
	}
	return slug, true
}
