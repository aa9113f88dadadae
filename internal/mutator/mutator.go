// Package mutator creates, moves and removes wiki pages while keeping sibling
// positions contiguous.
//
// Multi-step operations are not transactional: a failure halfway through a
// renumbering cascade leaves the siblings partially shifted.
package mutator

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/starford/wikitree/internal/apperr"
	"github.com/starford/wikitree/internal/models"
	"github.com/starford/wikitree/internal/pathcodec"
	"github.com/starford/wikitree/internal/storage"
	"github.com/starford/wikitree/internal/tree"
)

// stagingPrefix marks a page directory parked during a move. Hidden
// directories are invisible to the tree index.
const stagingPrefix = ".moving_"

// Mutator applies structural changes to a wiki.
type Mutator struct {
	store storage.Provider
}

// New creates a Mutator writing through store.
func New(store storage.Provider) *Mutator {
	return &Mutator{store: store}
}

// Create makes the directory of p and an empty page file inside it. It fails
// with apperr.ErrAlreadyExists, touching nothing, when the directory exists.
func (m *Mutator) Create(p models.Page) error {
	if p.Root {
		return fmt.Errorf("%w: the root page cannot be created", apperr.ErrAlreadyExists)
	}
	if err := m.store.CreateDir(p.Dir()); err != nil {
		return err
	}
	return m.store.Write(p.Path, nil)
}

// Remove deletes p, its generated artifacts and its directory. The directory
// must hold nothing else; in particular children have to be removed first.
func (m *Mutator) Remove(p models.Page) error {
	if p.Root {
		return fmt.Errorf("%w: the root page cannot be removed", apperr.ErrInvalidMove)
	}
	entries, err := m.store.ReadDir(p.Dir())
	if err != nil {
		return err
	}
	base := path.Base(p.Path)
	for _, e := range entries {
		switch e.Name {
		case base, pathcodec.SidebarFile, pathcodec.FooterFile:
		default:
			return fmt.Errorf("%w: %s still holds %s", apperr.ErrDirectoryNotEmpty, p.Dir(), e.Name)
		}
	}
	if err := m.store.Delete(p.Path); err != nil {
		return err
	}
	for _, name := range []string{pathcodec.SidebarFile, pathcodec.FooterFile} {
		artifact := path.Join(p.Dir(), name)
		ok, err := m.store.Exists(artifact)
		if err != nil {
			return err
		}
		if ok {
			if err := m.store.Delete(artifact); err != nil {
				return err
			}
		}
	}
	return m.store.RemoveDir(p.Dir())
}

// Move relocates the directory of p, children included, to position under
// newParent and returns the page at its new location. The target slot must
// be free.
func (m *Mutator) Move(p, newParent models.Page, position int) (models.Page, error) {
	if p.Root {
		return models.Page{}, fmt.Errorf("%w: the root page cannot be moved", apperr.ErrInvalidMove)
	}
	target, err := pathcodec.BuildNewPagePath(p.Stem(), newParent, position)
	if err != nil {
		return models.Page{}, err
	}
	moved := models.ChildPage(target)
	if moved.Dir() == p.Dir() {
		return moved, nil
	}
	if err := m.store.Move(p.Dir(), moved.Dir()); err != nil {
		return models.Page{}, err
	}
	return moved, nil
}

// AddPageAt creates a page called name below the page called under. A nil
// position appends; otherwise the children at position and after are shifted
// one place later, highest position first, so no two directories ever share
// a name.
func (m *Mutator) AddPageAt(name, under string, position *int) (models.Page, error) {
	if err := pathcodec.Validate(name); err != nil {
		return models.Page{}, err
	}
	ix, err := tree.Load(m.store)
	if err != nil {
		return models.Page{}, err
	}
	switch _, err := ix.Find(name); {
	case err == nil:
		return models.Page{}, fmt.Errorf("%w: a page named %q", apperr.ErrAlreadyExists, name)
	case !errors.Is(err, apperr.ErrPageNotFound):
		return models.Page{}, err
	}
	parent, err := ix.Find(under)
	if err != nil {
		return models.Page{}, err
	}
	children, err := ix.Children(parent)
	if err != nil {
		return models.Page{}, err
	}
	pos, err := resolvePosition(position, len(children))
	if err != nil {
		return models.Page{}, err
	}
	// The target path is checked before any sibling is shifted.
	target, err := pathcodec.BuildNewPagePath(name, parent, pos)
	if err != nil {
		return models.Page{}, err
	}
	if err := m.shiftUp(parent, children[pos:]); err != nil {
		return models.Page{}, err
	}
	page := models.ChildPage(target)
	if err := m.Create(page); err != nil {
		return models.Page{}, err
	}
	return page, nil
}

// MovePageTo moves the page called name, with its subtree, below the page
// called under. The gap left behind is closed and a slot is opened at the
// destination; a nil position appends.
func (m *Mutator) MovePageTo(name, under string, position *int) (models.Page, error) {
	ix, err := tree.Load(m.store)
	if err != nil {
		return models.Page{}, err
	}
	page, err := ix.Find(name)
	if err != nil {
		return models.Page{}, err
	}
	dest, err := ix.Find(under)
	if err != nil {
		return models.Page{}, err
	}
	if page.Root {
		return models.Page{}, fmt.Errorf("%w: the root page cannot be moved", apperr.ErrInvalidMove)
	}
	if dest.Equal(page) || strings.HasPrefix(dest.Path, page.Dir()+"/") {
		return models.Page{}, fmt.Errorf("%w: %q cannot be moved below itself", apperr.ErrInvalidMove, name)
	}

	oldParent, err := ix.Parent(page)
	if err != nil {
		return models.Page{}, err
	}
	siblings, err := ix.Children(oldParent)
	if err != nil {
		return models.Page{}, err
	}
	oldIdx := tree.IndexOf(siblings, page)
	if oldIdx < 0 {
		return models.Page{}, fmt.Errorf("%w: %s missing from its siblings", apperr.ErrStructural, page.Path)
	}

	// Validate the destination slot before touching the disk. When moving
	// within one parent the page's own slot is about to be vacated.
	destChildren, err := ix.Children(dest)
	if err != nil {
		return models.Page{}, err
	}
	limit := len(destChildren)
	if dest.Equal(oldParent) {
		limit--
	}
	pos, err := resolvePosition(position, limit)
	if err != nil {
		return models.Page{}, err
	}
	if _, err := pathcodec.BuildNewPagePath(page.Stem(), dest, pos); err != nil {
		return models.Page{}, err
	}

	staged := path.Join(path.Dir(page.Dir()), stagingPrefix+page.DirName())
	if err := m.store.Move(page.Dir(), staged); err != nil {
		return models.Page{}, err
	}
	if err := m.shiftDown(oldParent, siblings[oldIdx+1:]); err != nil {
		return models.Page{}, err
	}

	// Shifting may have renamed an ancestor of the destination.
	ix, err = tree.Load(m.store)
	if err != nil {
		return models.Page{}, err
	}
	dest, err = ix.Find(under)
	if err != nil {
		return models.Page{}, err
	}
	destChildren, err = ix.Children(dest)
	if err != nil {
		return models.Page{}, err
	}
	if err := m.shiftUp(dest, destChildren[pos:]); err != nil {
		return models.Page{}, err
	}

	target, err := pathcodec.BuildNewPagePath(page.Stem(), dest, pos)
	if err != nil {
		return models.Page{}, err
	}
	moved := models.ChildPage(target)
	if err := m.store.Move(staged, moved.Dir()); err != nil {
		return models.Page{}, err
	}
	return moved, nil
}

// RemovePageAt removes the page called name and moves its later siblings one
// place earlier. Pages with children are refused.
func (m *Mutator) RemovePageAt(name string) error {
	ix, err := tree.Load(m.store)
	if err != nil {
		return err
	}
	page, err := ix.Find(name)
	if err != nil {
		return err
	}
	if page.Root {
		return fmt.Errorf("%w: the root page cannot be removed", apperr.ErrInvalidMove)
	}
	kids, err := ix.Children(page)
	if err != nil {
		return err
	}
	if len(kids) > 0 {
		return fmt.Errorf("%w: %q has %d child pages", apperr.ErrDirectoryNotEmpty, name, len(kids))
	}
	parent, err := ix.Parent(page)
	if err != nil {
		return err
	}
	siblings, err := ix.Children(parent)
	if err != nil {
		return err
	}
	idx := tree.IndexOf(siblings, page)
	if err := m.Remove(page); err != nil {
		return err
	}
	return m.shiftDown(parent, siblings[idx+1:])
}

// shiftUp moves each page one position later, last page first.
func (m *Mutator) shiftUp(parent models.Page, pages []models.Page) error {
	for i := len(pages) - 1; i >= 0; i-- {
		if err := m.shiftBy(parent, pages[i], 1); err != nil {
			return err
		}
	}
	return nil
}

// shiftDown moves each page one position earlier, first page first.
func (m *Mutator) shiftDown(parent models.Page, pages []models.Page) error {
	for _, p := range pages {
		if err := m.shiftBy(parent, p, -1); err != nil {
			return err
		}
	}
	return nil
}

func (m *Mutator) shiftBy(parent, p models.Page, delta int) error {
	pos, err := pathcodec.ParsePosition(p.DirName())
	if err != nil {
		return err
	}
	_, err = m.Move(p, parent, pos+delta)
	return err
}

func resolvePosition(position *int, count int) (int, error) {
	if position == nil {
		return count, nil
	}
	if *position < 0 || *position > count {
		return 0, fmt.Errorf("%w: %d is outside 0..%d", apperr.ErrInvalidPosition, *position, count)
	}
	return *position, nil
}
