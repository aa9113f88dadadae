package nav

import (
	"testing"

	"github.com/starford/wikitree/internal/models"
)

func TestPageLink(t *testing.T) {
	l := Links{BaseURL: "https://github.com/o/r/wiki/"}
	got := l.PageLink(models.ChildPage("00_Getting-Started/Getting-Started.md"))
	if got != "[Getting Started](https://github.com/o/r/wiki/Getting-Started)" {
		t.Errorf("PageLink = %q", got)
	}
	if got := (Links{}).PageURL(models.RootPage("Home.md")); got != "Home" {
		t.Errorf("relative PageURL = %q", got)
	}
}

func TestBold(t *testing.T) {
	if got := Bold("text"); got != "**text**" {
		t.Errorf("Bold = %q", got)
	}
}

func TestLink(t *testing.T) {
	if got := Link("text", "link"); got != "[text](link)" {
		t.Errorf("Link = %q", got)
	}
}

func TestBaseURLFromRemote(t *testing.T) {
	cases := map[string]string{
		"https://github.com/owner/repo.wiki.git": "https://github.com/owner/repo/wiki/",
		"https://github.com/owner/repo.wiki":     "https://github.com/owner/repo/wiki/",
		"https://github.com/owner/repo.git":      "https://github.com/owner/repo/wiki/",
		"git@github.com:owner/repo.wiki.git":     "https://github.com/owner/repo/wiki/",
		"":                                       "",
	}
	for in, want := range cases {
		if got := BaseURLFromRemote(in); got != want {
			t.Errorf("BaseURLFromRemote(%q) = %q, want %q", in, got, want)
		}
	}
}
