package tree

import (
	"testing"

	"github.com/starford/wikitree/internal/models"
	"github.com/starford/wikitree/internal/testutil"
)

func TestPrevious(t *testing.T) {
	w := NewWalker(fixtureIndex(t))
	siblings := pages("measure-transient-respite", "official-union-advantage", "middle-pasture-floating")
	cases := []struct {
		name  string
		of    string
		index int
		want  string
	}{
		{"is_first_child", "measure-transient-respite", 0, "impeach-vermilion-vacuum"},
		{"else", "official-union-advantage", 1, "measure-transient-respite"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := w.Previous(page(c.of), siblings, c.index)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(page(c.want)) {
				t.Errorf("Previous = %s, want %s", got.Path, page(c.want).Path)
			}
		})
	}
}

func TestNextOfLastChild(t *testing.T) {
	w := NewWalker(fixtureIndex(t))
	cases := []struct {
		name string
		of   string
		want string
	}{
		{"is_last_page", "reaction-diagonal-patter", "home"},
		{"parent_is_last_child", "meridian-preserve-winter", "equity-substitute-huddle"},
		{"else", "middle-pasture-floating", "equity-substitute-huddle"},
		{"deep", "slate-slide-course", "official-union-advantage"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := w.NextOfLastChild(page(c.of))
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(page(c.want)) {
				t.Errorf("NextOfLastChild = %s, want %s", got.Path, page(c.want).Path)
			}
		})
	}
}

func TestNext(t *testing.T) {
	w := NewWalker(fixtureIndex(t))
	cases := []struct {
		name     string
		of       string
		siblings []models.Page
		index    int
		want     string
	}{
		{"has_children", "equity-substitute-huddle",
			pages("impeach-vermilion-vacuum", "equity-substitute-huddle"), 1, "automatic-party-merit"},
		{"is_last_child", "serpentine-hurry-butcher",
			pages("close-waste-transform", "transit-thrum-middle", "serpentine-hurry-butcher"), 2, "middle-pasture-floating"},
		{"else", "medium-establish-vital",
			pages("automatic-party-merit", "medium-establish-vital", "reaction-diagonal-patter"), 1, "reaction-diagonal-patter"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := w.Next(page(c.of), c.siblings, c.index)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Equal(page(c.want)) {
				t.Errorf("Next = %s, want %s", got.Path, page(c.want).Path)
			}
		})
	}
}

func TestNearestRoot(t *testing.T) {
	w := NewWalker(fixtureIndex(t))
	n, err := w.Nearest(page("home"))
	if err != nil {
		t.Fatal(err)
	}
	if !n.Next.Equal(page("impeach-vermilion-vacuum")) {
		t.Errorf("Next = %s", n.Next.Path)
	}
	if !n.Previous.Root || !n.Parent.Root {
		t.Errorf("root previous/parent = %+v", n)
	}
}

func TestNearestLoneRoot(t *testing.T) {
	_, store := testutil.BuildWiki(t, map[string]string{"Home.md": ""})
	ix, err := Load(store)
	if err != nil {
		t.Fatal(err)
	}
	n, err := NewWalker(ix).Nearest(ix.Root())
	if err != nil {
		t.Fatal(err)
	}
	if !n.Next.Root || !n.Previous.Root {
		t.Errorf("lone root nearest = %+v", n)
	}
}

func TestRootWithTwoChildren(t *testing.T) {
	_, store := testutil.BuildWiki(t, map[string]string{
		"Home.md":   "",
		"00_A/A.md": "",
		"01_B/B.md": "",
	})
	ix, err := Load(store)
	if err != nil {
		t.Fatal(err)
	}
	w := NewWalker(ix)
	home, a, b := ix.Root(), models.ChildPage("00_A/A.md"), models.ChildPage("01_B/B.md")

	cases := []struct {
		of, next, prev models.Page
	}{
		{a, b, home},
		{b, home, a},
	}
	n, _ := w.Nearest(home)
	if !n.Next.Equal(a) {
		t.Errorf("next(Home) = %s", n.Next.Path)
	}
	for _, c := range cases {
		n, err := w.Nearest(c.of)
		if err != nil {
			t.Fatal(err)
		}
		if !n.Next.Equal(c.next) {
			t.Errorf("next(%s) = %s, want %s", c.of.Path, n.Next.Path, c.next.Path)
		}
		if !n.Previous.Equal(c.prev) {
			t.Errorf("previous(%s) = %s, want %s", c.of.Path, n.Previous.Path, c.prev.Path)
		}
	}
}

func TestSequenceVisitsEveryPageOnce(t *testing.T) {
	ix := fixtureIndex(t)
	seq, err := NewWalker(ix).Sequence()
	if err != nil {
		t.Fatal(err)
	}
	assertPages(t, seq, pages(testutil.FixtureOrder...))

	all, _ := ix.Pages()
	if len(seq) != len(all) {
		t.Errorf("sequence covers %d of %d pages", len(seq), len(all))
	}
}

// Previous jumps to the previous sibling rather than to that sibling's last
// descendant, so previous(next(A)) is A itself unless next had to climb out of
// A's subtree, in which case it is the ancestor of A that next climbed from.
func TestPreviousOfNextLeadsBack(t *testing.T) {
	ix := fixtureIndex(t)
	w := NewWalker(ix)
	all, err := ix.Pages()
	if err != nil {
		t.Fatal(err)
	}
	exact := 0
	for _, a := range all {
		if a.Root {
			continue
		}
		n, err := w.Nearest(a)
		if err != nil {
			t.Fatal(err)
		}
		if n.Next.Root {
			continue
		}
		back, err := w.Nearest(n.Next)
		if err != nil {
			t.Fatal(err)
		}
		if back.Previous.Equal(a) {
			exact++
			continue
		}
		if !isAncestor(t, ix, back.Previous, a) {
			t.Errorf("previous(next(%s)) = %s, neither the page nor an ancestor", a.Path, back.Previous.Path)
		}
		kids, _ := ix.Children(a)
		if len(kids) > 0 {
			t.Errorf("next of %s descended, so previous should return to it", a.Path)
		}
	}
	if exact == 0 {
		t.Error("expected at least one exact inverse")
	}
}

func TestInverseAcrossLeafSiblings(t *testing.T) {
	w := NewWalker(fixtureIndex(t))
	for _, pair := range [][2]string{
		{"close-waste-transform", "transit-thrum-middle"},
		{"transit-thrum-middle", "serpentine-hurry-butcher"},
		{"automatic-party-merit", "medium-establish-vital"},
		{"impeach-vermilion-vacuum", "measure-transient-respite"},
	} {
		n, err := w.Nearest(page(pair[0]))
		if err != nil {
			t.Fatal(err)
		}
		if !n.Next.Equal(page(pair[1])) {
			t.Fatalf("next(%s) = %s", pair[0], n.Next.Path)
		}
		back, err := w.Nearest(n.Next)
		if err != nil {
			t.Fatal(err)
		}
		if !back.Previous.Equal(page(pair[0])) {
			t.Errorf("previous(%s) = %s, want %s", pair[1], back.Previous.Path, pair[0])
		}
	}
}

func isAncestor(t *testing.T, ix *Index, anc, p models.Page) bool {
	t.Helper()
	cur := p
	for !cur.Root {
		parent, err := ix.Parent(cur)
		if err != nil {
			t.Fatal(err)
		}
		if parent.Equal(anc) {
			return true
		}
		cur = parent
	}
	return false
}
