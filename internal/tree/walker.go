package tree

import (
	"fmt"

	"github.com/starford/wikitree/internal/apperr"
	"github.com/starford/wikitree/internal/models"
)

// Nearest holds the pages adjacent to a page in reading order.
type Nearest struct {
	Next     models.Page
	Previous models.Page
	Parent   models.Page
}

// Walker computes the pre-order reading sequence of a wiki: a page comes
// before its children, and its children before its next sibling. The root
// opens the sequence and, as Next of the very last page, closes it.
type Walker struct {
	ix *Index
}

// NewWalker creates a Walker over ix.
func NewWalker(ix *Index) *Walker {
	return &Walker{ix: ix}
}

// Nearest returns the next, previous and parent pages of p.
func (w *Walker) Nearest(p models.Page) (Nearest, error) {
	root := w.ix.Root()
	if p.Root {
		kids, err := w.ix.Children(p)
		if err != nil {
			return Nearest{}, err
		}
		n := Nearest{Next: root, Previous: root, Parent: root}
		if len(kids) > 0 {
			n.Next = kids[0]
		}
		return n, nil
	}

	siblings, err := w.ix.Siblings(p)
	if err != nil {
		return Nearest{}, err
	}
	idx := IndexOf(siblings, p)
	if idx < 0 {
		return Nearest{}, fmt.Errorf("%w: %s is missing from its sibling listing", apperr.ErrStructural, p.Path)
	}
	next, err := w.Next(p, siblings, idx)
	if err != nil {
		return Nearest{}, err
	}
	prev, err := w.Previous(p, siblings, idx)
	if err != nil {
		return Nearest{}, err
	}
	parent, err := w.ix.Parent(p)
	if err != nil {
		return Nearest{}, err
	}
	return Nearest{Next: next, Previous: prev, Parent: parent}, nil
}

// Next returns the page after p, which sits at index within siblings.
func (w *Walker) Next(p models.Page, siblings []models.Page, index int) (models.Page, error) {
	kids, err := w.ix.Children(p)
	if err != nil {
		return models.Page{}, err
	}
	switch {
	case len(kids) > 0:
		return kids[0], nil
	case index == len(siblings)-1:
		return w.NextOfLastChild(p)
	default:
		return siblings[index+1], nil
	}
}

// NextOfLastChild climbs from a last child until an ancestor with a following
// sibling is found and returns that sibling. It returns the root once the
// climb reaches it.
func (w *Walker) NextOfLastChild(p models.Page) (models.Page, error) {
	limit := w.ix.Depth(p) + 1
	cur := p
	for step := 0; step <= limit; step++ {
		parent, err := w.ix.Parent(cur)
		if err != nil {
			return models.Page{}, err
		}
		if parent.Root {
			return parent, nil
		}
		uncles, err := w.ix.Siblings(parent)
		if err != nil {
			return models.Page{}, err
		}
		idx := IndexOf(uncles, parent)
		if idx < 0 {
			return models.Page{}, fmt.Errorf("%w: %s is missing from its sibling listing", apperr.ErrStructural, parent.Path)
		}
		if idx < len(uncles)-1 {
			return uncles[idx+1], nil
		}
		cur = parent
	}
	return models.Page{}, fmt.Errorf("%w: ascent from %s exceeded depth %d", apperr.ErrStructural, p.Path, limit)
}

// Previous returns the page before p, which sits at index within siblings.
// A first child is preceded by its parent.
func (w *Walker) Previous(p models.Page, siblings []models.Page, index int) (models.Page, error) {
	if index == 0 {
		return w.ix.Parent(p)
	}
	return siblings[index-1], nil
}

// Sequence returns every page in reading order, starting at the root.
func (w *Walker) Sequence() ([]models.Page, error) {
	pages, err := w.ix.Pages()
	if err != nil {
		return nil, err
	}
	root := w.ix.Root()
	seq := []models.Page{root}
	seen := map[string]bool{root.Path: true}
	cur := root
	for {
		n, err := w.Nearest(cur)
		if err != nil {
			return nil, err
		}
		if n.Next.Root {
			return seq, nil
		}
		if seen[n.Next.Path] || len(seq) > len(pages) {
			return nil, fmt.Errorf("%w: reading order revisits %s", apperr.ErrStructural, n.Next.Path)
		}
		seen[n.Next.Path] = true
		seq = append(seq, n.Next)
		cur = n.Next
	}
}
