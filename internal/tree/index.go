// Package tree answers structural questions about a wiki: parent, children,
// siblings and position of a page, and its place in the pre-order reading
// sequence.
//
// Nothing is cached. Every query re-reads the directory listing through the
// storage.Provider, so an Index stays correct across mutations.
package tree

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/starford/wikitree/internal/apperr"
	"github.com/starford/wikitree/internal/models"
	"github.com/starford/wikitree/internal/pathcodec"
	"github.com/starford/wikitree/internal/storage"
)

// Index resolves family relations of pages stored in a Provider.
type Index struct {
	store storage.Provider
	root  models.Page
}

// Load scans the wiki root for its single root page.
func Load(store storage.Provider) (*Index, error) {
	files, err := pageFiles(store, ".")
	if err != nil {
		return nil, fmt.Errorf("tree: load: %w", err)
	}
	switch len(files) {
	case 0:
		return nil, fmt.Errorf("tree: load: %w: no root page in wiki", apperr.ErrPageNotFound)
	case 1:
		return &Index{store: store, root: models.RootPage(files[0])}, nil
	default:
		return nil, fmt.Errorf("tree: load: %w: several root pages: %s",
			apperr.ErrStructural, strings.Join(files, ", "))
	}
}

// Root returns the wiki's root page.
func (ix *Index) Root() models.Page {
	return ix.root
}

// Pages lists every page in the wiki, sorted by path.
func (ix *Index) Pages() ([]models.Page, error) {
	paths, err := ix.store.ListPages("")
	if err != nil {
		return nil, err
	}
	out := make([]models.Page, 0, len(paths))
	for _, p := range paths {
		out = append(out, ix.page(p))
	}
	return out, nil
}

// Find resolves a page by name, ignoring case and treating spaces and
// hyphens alike.
func (ix *Index) Find(name string) (models.Page, error) {
	pages, err := ix.Pages()
	if err != nil {
		return models.Page{}, err
	}
	var matches []models.Page
	for _, p := range pages {
		if pathcodec.SameName(p.Stem(), name) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return models.Page{}, fmt.Errorf("%w: %q", apperr.ErrPageNotFound, name)
	case 1:
		return matches[0], nil
	default:
		return models.Page{}, fmt.Errorf("%w: name %q matches %d pages", apperr.ErrStructural, name, len(matches))
	}
}

// Parent returns the page owning p's directory. The root is its own parent.
func (ix *Index) Parent(p models.Page) (models.Page, error) {
	if p.Root {
		return p, nil
	}
	parentDir := path.Dir(p.Dir())
	if parentDir == "." {
		return ix.root, nil
	}
	files, err := pageFiles(ix.store, parentDir)
	if err != nil {
		return models.Page{}, fmt.Errorf("tree: parent of %s: %w", p.Path, err)
	}
	if len(files) != 1 {
		return models.Page{}, fmt.Errorf("%w: directory %s holds %d pages, want 1",
			apperr.ErrStructural, parentDir, len(files))
	}
	return models.ChildPage(files[0]), nil
}

// Children returns the pages directly below p, ordered by position.
func (ix *Index) Children(p models.Page) ([]models.Page, error) {
	dir := p.Dir()
	entries, err := ix.store.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("tree: children of %s: %w", p.Path, err)
	}

	type child struct {
		page models.Page
		pos  int
	}
	var kids []child
	seen := make(map[string]string)
	for _, e := range entries {
		if !e.IsDir || strings.HasPrefix(e.Name, ".") {
			continue
		}
		sub := path.Join(dir, e.Name)
		files, err := pageFiles(ix.store, sub)
		if err != nil {
			return nil, fmt.Errorf("tree: children of %s: %w", p.Path, err)
		}
		if len(files) == 0 {
			continue
		}
		if len(files) > 1 {
			return nil, fmt.Errorf("%w: directory %s holds %d pages, want 1",
				apperr.ErrStructural, sub, len(files))
		}
		pos, err := pathcodec.ParsePosition(e.Name)
		if err != nil {
			return nil, err
		}
		page := models.ChildPage(files[0])
		key := strings.ToLower(page.Stem())
		if other, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: sibling directories %s and %s hold the same page name",
				apperr.ErrStructural, other, e.Name)
		}
		seen[key] = e.Name
		kids = append(kids, child{page: page, pos: pos})
	}

	sort.SliceStable(kids, func(i, j int) bool {
		if kids[i].pos != kids[j].pos {
			return kids[i].pos < kids[j].pos
		}
		return kids[i].page.Path < kids[j].page.Path
	})
	out := make([]models.Page, len(kids))
	for i, k := range kids {
		out[i] = k.page
	}
	return out, nil
}

// Siblings returns the children of p's parent, p included. The root has no
// siblings of its own, so its children stand in for them.
func (ix *Index) Siblings(p models.Page) ([]models.Page, error) {
	parent, err := ix.Parent(p)
	if err != nil {
		return nil, err
	}
	return ix.Children(parent)
}

// Position returns p's rank among its siblings, parsed from its directory name.
func (ix *Index) Position(p models.Page) (int, error) {
	if p.Root {
		return 0, nil
	}
	return pathcodec.ParsePosition(p.DirName())
}

// Depth is the number of ancestors between p and the root.
func (ix *Index) Depth(p models.Page) int {
	if p.Root {
		return 0
	}
	return strings.Count(p.Path, "/")
}

// IndexOf returns the position of p within pages, or -1.
func IndexOf(pages []models.Page, p models.Page) int {
	for i, s := range pages {
		if s.Equal(p) {
			return i
		}
	}
	return -1
}

func (ix *Index) page(p string) models.Page {
	if p == ix.root.Path {
		return ix.root
	}
	return models.ChildPage(p)
}

// pageFiles returns the page files directly inside dir.
func pageFiles(store storage.Provider, dir string) ([]string, error) {
	entries, err := store.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir && pathcodec.IsPageFile(e.Name) {
			out = append(out, path.Join(dir, e.Name))
		}
	}
	sort.Strings(out)
	return out, nil
}
