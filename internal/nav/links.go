package nav

import (
	"fmt"
	"strings"

	"github.com/starford/wikitree/internal/models"
	"github.com/starford/wikitree/internal/pathcodec"
)

// Markdown tokens used by the generated artifacts.
const (
	// Newline is a Markdown hard line break.
	Newline = "  \n"
	// Indent survives rendering where runs of spaces would collapse.
	Indent = "&nbsp;&nbsp;&nbsp;&nbsp;"
)

// Links turns pages into Markdown links against a wiki base URL.
type Links struct {
	BaseURL string
}

// PageURL returns the address of p. With an empty BaseURL the result is the
// bare page stem, which GitHub resolves relative to the wiki.
func (l Links) PageURL(p models.Page) string {
	return l.BaseURL + p.Stem()
}

// PageLink renders a link to p labelled with its human name.
func (l Links) PageLink(p models.Page) string {
	return Link(pathcodec.ToHumanName(p.Stem()), l.PageURL(p))
}

// Link renders a Markdown link.
func Link(text, target string) string {
	return fmt.Sprintf("[%s](%s)", text, target)
}

// Bold renders text in strong emphasis.
func Bold(text string) string {
	return "**" + text + "**"
}

// BaseURLFromRemote derives the web address of a GitHub wiki from the clone
// URL of its repository, e.g. "git@github.com:owner/repo.wiki.git" becomes
// "https://github.com/owner/repo/wiki/". An empty remote yields "".
func BaseURLFromRemote(remote string) string {
	u := strings.TrimSpace(remote)
	if u == "" {
		return ""
	}
	if rest, ok := strings.CutPrefix(u, "git@"); ok {
		host, repo, _ := strings.Cut(rest, ":")
		u = "https://" + host + "/" + repo
	}
	u = strings.TrimSuffix(u, "/")
	u = strings.TrimSuffix(u, ".git")
	u = strings.TrimSuffix(u, ".wiki")
	return u + "/wiki/"
}
