package tree

import (
	"errors"
	"testing"

	"github.com/starford/wikitree/internal/apperr"
	"github.com/starford/wikitree/internal/models"
	"github.com/starford/wikitree/internal/testutil"
)

func fixtureIndex(t *testing.T) *Index {
	t.Helper()
	_, store := testutil.FixtureWiki(t)
	ix, err := Load(store)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ix
}

func page(key string) models.Page {
	p := testutil.FixturePages[key]
	if key == "home" {
		return models.RootPage(p)
	}
	return models.ChildPage(p)
}

func pages(keys ...string) []models.Page {
	out := make([]models.Page, len(keys))
	for i, k := range keys {
		out[i] = page(k)
	}
	return out
}

func assertPages(t *testing.T, got, want []models.Page) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d pages %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("page[%d] = %s, want %s", i, got[i].Path, want[i].Path)
		}
	}
}

func TestLoadFindsRoot(t *testing.T) {
	ix := fixtureIndex(t)
	root := ix.Root()
	if !root.Root || root.Path != "Home.md" {
		t.Errorf("root = %+v", root)
	}
}

func TestLoadRejectsSeveralRoots(t *testing.T) {
	_, store := testutil.BuildWiki(t, map[string]string{"Home.md": "", "Other.md": ""})
	if _, err := Load(store); !errors.Is(err, apperr.ErrStructural) {
		t.Errorf("Load = %v, want ErrStructural", err)
	}
}

func TestLoadEmptyWiki(t *testing.T) {
	_, store := testutil.TestWiki(t)
	if _, err := Load(store); !errors.Is(err, apperr.ErrPageNotFound) {
		t.Errorf("Load = %v, want ErrPageNotFound", err)
	}
}

func TestChildren(t *testing.T) {
	ix := fixtureIndex(t)
	cases := []struct {
		name string
		of   string
		want []models.Page
	}{
		{"no_children", "close-waste-transform", nil},
		{"home", "home", pages("impeach-vermilion-vacuum", "equity-substitute-huddle")},
		{"first_branch", "impeach-vermilion-vacuum", pages("measure-transient-respite", "official-union-advantage", "middle-pasture-floating")},
		{"second_branch", "equity-substitute-huddle", pages("automatic-party-merit", "medium-establish-vital", "reaction-diagonal-patter")},
		{"nested", "official-union-advantage", pages("close-waste-transform", "transit-thrum-middle", "serpentine-hurry-butcher")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ix.Children(page(c.of))
			if err != nil {
				t.Fatalf("Children: %v", err)
			}
			assertPages(t, got, c.want)
		})
	}
}

func TestParent(t *testing.T) {
	ix := fixtureIndex(t)
	cases := []struct {
		name string
		of   string
		want string
	}{
		{"home", "home", "home"},
		{"top_level", "impeach-vermilion-vacuum", "home"},
		{"nested", "serpentine-hurry-butcher", "official-union-advantage"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ix.Parent(page(c.of))
			if err != nil {
				t.Fatalf("Parent: %v", err)
			}
			if !got.Equal(page(c.want)) {
				t.Errorf("Parent = %s, want %s", got.Path, page(c.want).Path)
			}
		})
	}
	got, _ := ix.Parent(page("impeach-vermilion-vacuum"))
	if !got.Root {
		t.Error("parent of a top-level page should carry the root tag")
	}
}

func TestParentRejectsAmbiguousDirectory(t *testing.T) {
	_, store := testutil.BuildWiki(t, map[string]string{
		"Home.md":            "",
		"00_A/A.md":          "",
		"00_A/Stray.md":      "",
		"00_A/00_Kid/Kid.md": "",
	})
	ix, err := Load(store)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	_, err = ix.Parent(models.ChildPage("00_A/00_Kid/Kid.md"))
	if !errors.Is(err, apperr.ErrStructural) {
		t.Errorf("Parent = %v, want ErrStructural", err)
	}
}

func TestSiblings(t *testing.T) {
	ix := fixtureIndex(t)
	cases := []struct {
		name string
		of   string
		want []models.Page
	}{
		{"home", "home", pages("impeach-vermilion-vacuum", "equity-substitute-huddle")},
		{"subpage", "impeach-vermilion-vacuum", pages("impeach-vermilion-vacuum", "equity-substitute-huddle")},
		{"only_child", "slate-slide-course", pages("slate-slide-course")},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ix.Siblings(page(c.of))
			if err != nil {
				t.Fatalf("Siblings: %v", err)
			}
			assertPages(t, got, c.want)
		})
	}
}

func TestPosition(t *testing.T) {
	ix := fixtureIndex(t)
	cases := map[string]int{
		"home":                      0,
		"impeach-vermilion-vacuum":  0,
		"measure-transient-respite": 0,
		"middle-pasture-floating":   2,
		"medium-establish-vital":    1,
	}
	for key, want := range cases {
		got, err := ix.Position(page(key))
		if err != nil {
			t.Fatalf("Position(%s): %v", key, err)
		}
		if got != want {
			t.Errorf("Position(%s) = %d, want %d", key, got, want)
		}
	}
}

func TestPositionsAreContiguous(t *testing.T) {
	ix := fixtureIndex(t)
	all, err := ix.Pages()
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range all {
		kids, err := ix.Children(p)
		if err != nil {
			t.Fatal(err)
		}
		for i, k := range kids {
			pos, err := ix.Position(k)
			if err != nil {
				t.Fatal(err)
			}
			if pos != i {
				t.Errorf("%s at index %d has position %d", k.Path, i, pos)
			}
		}
	}
}

func TestChildrenOrderedNumericallyPastWidth(t *testing.T) {
	files := map[string]string{"Home.md": ""}
	files["99_Ninety-Nine/Ninety-Nine.md"] = ""
	files["100_Hundred/Hundred.md"] = ""
	files["09_Nine/Nine.md"] = ""
	_, store := testutil.BuildWiki(t, files)
	ix, err := Load(store)
	if err != nil {
		t.Fatal(err)
	}
	kids, err := ix.Children(ix.Root())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"09_Nine/Nine.md", "99_Ninety-Nine/Ninety-Nine.md", "100_Hundred/Hundred.md"}
	for i, w := range want {
		if kids[i].Path != w {
			t.Errorf("child %d = %s, want %s", i, kids[i].Path, w)
		}
	}
}

func TestChildrenSkipsHiddenAndEmptyDirectories(t *testing.T) {
	_, store := testutil.BuildWiki(t, map[string]string{
		"Home.md":          "",
		".git/HEAD":        "ref",
		"assets/logo.png":  "png",
		"00_A/A.md":        "",
		"00_A/_Sidebar.md": "",
	})
	ix, err := Load(store)
	if err != nil {
		t.Fatal(err)
	}
	kids, err := ix.Children(ix.Root())
	if err != nil {
		t.Fatal(err)
	}
	assertPages(t, kids, []models.Page{models.ChildPage("00_A/A.md")})
}

func TestChildrenRejectsBadPrefix(t *testing.T) {
	_, store := testutil.BuildWiki(t, map[string]string{
		"Home.md":        "",
		"Loose/Loose.md": "",
	})
	ix, _ := Load(store)
	if _, err := ix.Children(ix.Root()); !errors.Is(err, apperr.ErrStructural) {
		t.Errorf("Children = %v, want ErrStructural", err)
	}
}

func TestChildrenRejectsDuplicateNames(t *testing.T) {
	_, store := testutil.BuildWiki(t, map[string]string{
		"Home.md":   "",
		"00_A/A.md": "",
		"01_A/A.md": "",
	})
	ix, _ := Load(store)
	if _, err := ix.Children(ix.Root()); !errors.Is(err, apperr.ErrStructural) {
		t.Errorf("Children = %v, want ErrStructural", err)
	}
}

func TestFind(t *testing.T) {
	ix := fixtureIndex(t)
	cases := map[string]string{
		"Home":                      "home",
		"impeach-vermilion-vacuum":  "impeach-vermilion-vacuum",
		"Impeach-Vermilion-Vacuum":  "impeach-vermilion-vacuum",
		"measure transient respite": "measure-transient-respite",
	}
	for name, key := range cases {
		got, err := ix.Find(name)
		if err != nil {
			t.Fatalf("Find(%q): %v", name, err)
		}
		if !got.Equal(page(key)) {
			t.Errorf("Find(%q) = %s", name, got.Path)
		}
	}
	root, _ := ix.Find("home")
	if !root.Root {
		t.Error("Find should tag the root page")
	}
}

func TestFindMissing(t *testing.T) {
	ix := fixtureIndex(t)
	if _, err := ix.Find("Page-That-Doesn't-Exist"); !errors.Is(err, apperr.ErrPageNotFound) {
		t.Errorf("Find = %v, want ErrPageNotFound", err)
	}
}
