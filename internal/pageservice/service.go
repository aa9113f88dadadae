// Package pageservice coordinates the tree index, the mutator and the
// navigation renderer for the CLI, the HTTP API and the MCP server.
package pageservice

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/starford/wikitree/internal/apperr"
	"github.com/starford/wikitree/internal/models"
	"github.com/starford/wikitree/internal/mutator"
	"github.com/starford/wikitree/internal/nav"
	"github.com/starford/wikitree/internal/pathcodec"
	"github.com/starford/wikitree/internal/storage"
	"github.com/starford/wikitree/internal/tree"
)

// Service answers page queries from a fresh scan of the wiki on every call.
// Mutations are serialized and reads wait for them, so a read never sees a
// page parked mid-move.
type Service struct {
	store    storage.Provider
	mutator  *mutator.Mutator
	headings nav.HeadingExtractor
	links    nav.Links
	home     string

	mu sync.RWMutex
}

// NewService creates a page service. home names the root page created by
// Init and defaults to "Home".
func NewService(store storage.Provider, headings nav.HeadingExtractor, links nav.Links, home string) *Service {
	if home == "" {
		home = "Home"
	}
	return &Service{
		store:    store,
		mutator:  mutator.New(store),
		headings: headings,
		links:    links,
		home:     home,
	}
}

// Init creates the root page when the wiki has none. It reports whether a
// page was written.
func (s *Service) Init(_ context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := tree.Load(s.store)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, apperr.ErrPageNotFound):
		return false, err
	}
	if err := pathcodec.Validate(s.home); err != nil {
		return false, err
	}
	title := "# " + pathcodec.ToHumanName(pathcodec.ToDashedName(s.home)) + "\n"
	if err := s.store.Write(pathcodec.FileName(s.home), []byte(title)); err != nil {
		return false, err
	}
	return true, nil
}

// ListPages returns every page in reading order.
func (s *Service) ListPages(_ context.Context) ([]models.PageItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ix, err := tree.Load(s.store)
	if err != nil {
		return nil, err
	}
	seq, err := tree.NewWalker(ix).Sequence()
	if err != nil {
		return nil, err
	}
	items := make([]models.PageItem, len(seq))
	for i, p := range seq {
		item, err := pageItem(ix, p)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

// GetPage describes the page called name and its relatives.
func (s *Service) GetPage(_ context.Context, name string) (*models.PageDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ix, err := tree.Load(s.store)
	if err != nil {
		return nil, err
	}
	p, err := ix.Find(name)
	if err != nil {
		return nil, err
	}
	return pageDetail(ix, p)
}

// Sidebar renders the sidebar of the page called name without writing it.
func (s *Service) Sidebar(_ context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, p, err := s.renderer(name)
	if err != nil {
		return "", err
	}
	return r.Sidebar(p)
}

// Footer renders the footer links of the page called name without writing
// them.
func (s *Service) Footer(_ context.Context, name string) (nav.Footer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, p, err := s.renderer(name)
	if err != nil {
		return nav.Footer{}, err
	}
	return r.RelativeNav(p)
}

// UpdateNavigation rewrites the sidebar and footer of every page and returns
// how many pages were updated.
func (s *Service) UpdateNavigation(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked()
}

// AddPage creates a page called name below under. A nil position appends.
// Navigation is regenerated afterwards.
func (s *Service) AddPage(_ context.Context, name, under string, position *int) (*models.PageDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.mutator.AddPageAt(name, under, position); err != nil {
		return nil, err
	}
	return s.afterMutation(name)
}

// MovePage moves the page called name, with its subtree, below under.
func (s *Service) MovePage(_ context.Context, name, under string, position *int) (*models.PageDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.mutator.MovePageTo(name, under, position); err != nil {
		return nil, err
	}
	return s.afterMutation(name)
}

// RemovePage removes the leaf page called name.
func (s *Service) RemovePage(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.mutator.RemovePageAt(name); err != nil {
		return err
	}
	_, err := s.updateLocked()
	return err
}

func (s *Service) afterMutation(name string) (*models.PageDetail, error) {
	if _, err := s.updateLocked(); err != nil {
		return nil, err
	}
	ix, err := tree.Load(s.store)
	if err != nil {
		return nil, err
	}
	p, err := ix.Find(name)
	if err != nil {
		return nil, err
	}
	return pageDetail(ix, p)
}

func (s *Service) updateLocked() (int, error) {
	ix, err := tree.Load(s.store)
	if err != nil {
		return 0, err
	}
	pages, err := ix.Pages()
	if err != nil {
		return 0, err
	}
	r := nav.NewRenderer(s.store, ix, s.headings, s.links)
	if err := r.UpdateAll(pages); err != nil {
		return 0, err
	}
	return len(pages), nil
}

func (s *Service) renderer(name string) (*nav.Renderer, models.Page, error) {
	ix, err := tree.Load(s.store)
	if err != nil {
		return nil, models.Page{}, err
	}
	p, err := ix.Find(name)
	if err != nil {
		return nil, models.Page{}, err
	}
	return nav.NewRenderer(s.store, ix, s.headings, s.links), p, nil
}

func pageItem(ix *tree.Index, p models.Page) (models.PageItem, error) {
	pos, err := ix.Position(p)
	if err != nil {
		return models.PageItem{}, err
	}
	return models.PageItem{
		Name:     pathcodec.ToHumanName(p.Stem()),
		Path:     p.Path,
		Position: pos,
		Depth:    ix.Depth(p),
		Root:     p.Root,
	}, nil
}

func pageDetail(ix *tree.Index, p models.Page) (*models.PageDetail, error) {
	item, err := pageItem(ix, p)
	if err != nil {
		return nil, err
	}
	parent, err := ix.Parent(p)
	if err != nil {
		return nil, err
	}
	children, err := ix.Children(p)
	if err != nil {
		return nil, err
	}
	siblings, err := ix.Siblings(p)
	if err != nil {
		return nil, err
	}
	near, err := tree.NewWalker(ix).Nearest(p)
	if err != nil {
		return nil, fmt.Errorf("pageservice: nearest of %s: %w", p.Path, err)
	}
	d := &models.PageDetail{
		PageItem: item,
		Children: names(children),
		Siblings: names(siblings),
		Next:     pathcodec.ToHumanName(near.Next.Stem()),
		Previous: pathcodec.ToHumanName(near.Previous.Stem()),
	}
	if !p.Root {
		d.Parent = pathcodec.ToHumanName(parent.Stem())
	}
	return d, nil
}

func names(pages []models.Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = pathcodec.ToHumanName(p.Stem())
	}
	return out
}
