// Package nav renders the navigation artifacts of a wiki: the sidebar with a
// directory tree and table of contents, and the footer with next, previous
// and up links.
package nav

import (
	"fmt"
	"path"
	"strings"

	"github.com/starford/wikitree/internal/models"
	"github.com/starford/wikitree/internal/parser"
	"github.com/starford/wikitree/internal/pathcodec"
	"github.com/starford/wikitree/internal/storage"
	"github.com/starford/wikitree/internal/tree"
)

// Footer labels.
const (
	nextHead = "Next: "
	prevHead = "Prev: "
	upHead   = "Up: "
)

// HeadingExtractor returns the table of contents headings of a page source.
type HeadingExtractor interface {
	Headings(source []byte) ([]parser.Heading, error)
}

// Footer holds the rendered relative links of a page. Empty fields are
// suppressed.
type Footer struct {
	Next     string `json:"next,omitempty"`
	Previous string `json:"previous,omitempty"`
	Up       string `json:"up,omitempty"`
}

// String joins the present links into footer Markdown.
func (f Footer) String() string {
	var parts []string
	if f.Next != "" {
		parts = append(parts, nextHead+f.Next)
	}
	if f.Previous != "" {
		parts = append(parts, prevHead+f.Previous)
	}
	if f.Up != "" {
		parts = append(parts, upHead+f.Up)
	}
	return strings.Join(parts, Indent)
}

// Renderer builds sidebars and footers from the live tree.
type Renderer struct {
	store    storage.Provider
	index    *tree.Index
	walker   *tree.Walker
	headings HeadingExtractor
	links    Links
}

// NewRenderer creates a Renderer over ix.
func NewRenderer(store storage.Provider, ix *tree.Index, headings HeadingExtractor, links Links) *Renderer {
	return &Renderer{
		store:    store,
		index:    ix,
		walker:   tree.NewWalker(ix),
		headings: headings,
		links:    links,
	}
}

// RelativeNav returns the footer links of p. Next is dropped for the last
// page of the wiki, Previous for the root, and Up for the root and for first
// children, whose Previous already points at the parent.
func (r *Renderer) RelativeNav(p models.Page) (Footer, error) {
	n, err := r.walker.Nearest(p)
	if err != nil {
		return Footer{}, err
	}
	var f Footer
	if !n.Next.Root {
		f.Next = r.links.PageLink(n.Next)
	}
	if !p.Root {
		f.Previous = r.links.PageLink(n.Previous)
		if !n.Previous.Equal(n.Parent) {
			f.Up = r.links.PageLink(n.Parent)
		}
	}
	return f, nil
}

// Tree renders the pages around p: its parent's generation, then p's own
// generation with p in bold, then p's children.
func (r *Renderer) Tree(p models.Page) (string, error) {
	var lines []string
	idx := 0
	if p.Root {
		lines = []string{Bold(r.links.PageLink(p))}
	} else {
		siblings, err := r.index.Siblings(p)
		if err != nil {
			return "", err
		}
		idx = tree.IndexOf(siblings, p)
		if idx < 0 {
			return "", fmt.Errorf("nav: %s missing from its siblings", p.Path)
		}
		lines = r.pageLinks(siblings)
		lines[idx] = Bold(lines[idx])
	}

	children, err := r.index.Children(p)
	if err != nil {
		return "", err
	}
	lines = insertSubtree(lines, r.pageLinks(children), idx)

	if !p.Root {
		parent, err := r.index.Parent(p)
		if err != nil {
			return "", err
		}
		var outer []string
		parentIdx := 0
		if parent.Root {
			outer = []string{r.links.PageLink(parent)}
		} else {
			uncles, err := r.index.Siblings(parent)
			if err != nil {
				return "", err
			}
			parentIdx = tree.IndexOf(uncles, parent)
			if parentIdx < 0 {
				return "", fmt.Errorf("nav: %s missing from its siblings", parent.Path)
			}
			outer = r.pageLinks(uncles)
		}
		lines = insertSubtree(outer, lines, parentIdx)
	}
	return strings.Join(lines, Newline), nil
}

// TableOfContents links to the most significant headings of p.
func (r *Renderer) TableOfContents(p models.Page) (string, error) {
	src, err := r.store.Read(p.Path)
	if err != nil {
		return "", err
	}
	hs, err := r.headings.Headings(src)
	if err != nil {
		return "", fmt.Errorf("nav: headings of %s: %w", p.Path, err)
	}
	url := r.links.PageURL(p)
	lines := make([]string, 0, len(hs))
	for _, h := range hs {
		lines = append(lines, Link(h.Text, url+"#"+h.ID))
	}
	return strings.Join(lines, Newline), nil
}

// Sidebar renders the full sidebar document of p.
func (r *Renderer) Sidebar(p models.Page) (string, error) {
	t, err := r.Tree(p)
	if err != nil {
		return "", err
	}
	toc, err := r.TableOfContents(p)
	if err != nil {
		return "", err
	}
	return strings.Join([]string{"# Directory", t, "# Contents", toc}, Newline), nil
}

// UpdatePage writes the sidebar and footer of p next to it, replacing any
// previous artifacts.
func (r *Renderer) UpdatePage(p models.Page) error {
	sidebar, err := r.Sidebar(p)
	if err != nil {
		return err
	}
	footer, err := r.RelativeNav(p)
	if err != nil {
		return err
	}
	if err := r.store.Write(path.Join(p.Dir(), pathcodec.SidebarFile), []byte(sidebar)); err != nil {
		return err
	}
	return r.store.Write(path.Join(p.Dir(), pathcodec.FooterFile), []byte(footer.String()))
}

// UpdateAll regenerates the artifacts of every page in pages.
func (r *Renderer) UpdateAll(pages []models.Page) error {
	for _, p := range pages {
		if err := r.UpdatePage(p); err != nil {
			return fmt.Errorf("nav: update %s: %w", p.Path, err)
		}
	}
	return nil
}

func (r *Renderer) pageLinks(pages []models.Page) []string {
	out := make([]string, len(pages))
	for i, p := range pages {
		out[i] = r.links.PageLink(p)
	}
	return out
}

// insertSubtree places sub, indented one level, right after line index of
// lines.
func insertSubtree(lines, sub []string, index int) []string {
	out := make([]string, 0, len(lines)+len(sub))
	out = append(out, lines[:index+1]...)
	for _, s := range sub {
		out = append(out, Indent+s)
	}
	return append(out, lines[index+1:]...)
}
