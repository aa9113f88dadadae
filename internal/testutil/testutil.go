// Package testutil provides shared test helpers for building wiki trees.
package testutil

import (
	"testing"

	"github.com/starford/wikitree/internal/storage"
)

// FixturePages maps a lower-case page name to its path in the fixture wiki
// built by FixtureWiki. Pre-order:
//
//	Home
//	  Impeach Vermilion Vacuum
//	    Measure Transient Respite
//	      Slate Slide Course
//	    Official Union Advantage
//	      Close Waste Transform
//	      Transit Thrum Middle
//	      Serpentine Hurry Butcher
//	    Middle Pasture Floating
//	      Meridian Preserve Winter
//	  Equity Substitute Huddle
//	    Automatic Party Merit
//	    Medium Establish Vital
//	    Reaction Diagonal Patter
var FixturePages = map[string]string{
	"home":                      "Home.md",
	"impeach-vermilion-vacuum":  "00_Impeach-Vermilion-Vacuum/Impeach-Vermilion-Vacuum.md",
	"measure-transient-respite": "00_Impeach-Vermilion-Vacuum/00_Measure-Transient-Respite/Measure-Transient-Respite.md",
	"slate-slide-course":        "00_Impeach-Vermilion-Vacuum/00_Measure-Transient-Respite/00_Slate-Slide-Course/Slate-Slide-Course.md",
	"official-union-advantage":  "00_Impeach-Vermilion-Vacuum/01_Official-Union-Advantage/Official-Union-Advantage.md",
	"close-waste-transform":     "00_Impeach-Vermilion-Vacuum/01_Official-Union-Advantage/00_Close-Waste-Transform/Close-Waste-Transform.md",
	"transit-thrum-middle":      "00_Impeach-Vermilion-Vacuum/01_Official-Union-Advantage/01_Transit-Thrum-Middle/Transit-Thrum-Middle.md",
	"serpentine-hurry-butcher":  "00_Impeach-Vermilion-Vacuum/01_Official-Union-Advantage/02_Serpentine-Hurry-Butcher/Serpentine-Hurry-Butcher.md",
	"middle-pasture-floating":   "00_Impeach-Vermilion-Vacuum/02_Middle-Pasture-Floating/Middle-Pasture-Floating.md",
	"meridian-preserve-winter":  "00_Impeach-Vermilion-Vacuum/02_Middle-Pasture-Floating/00_Meridian-Preserve-Winter/Meridian-Preserve-Winter.md",
	"equity-substitute-huddle":  "01_Equity-Substitute-Huddle/Equity-Substitute-Huddle.md",
	"automatic-party-merit":     "01_Equity-Substitute-Huddle/00_Automatic-Party-Merit/Automatic-Party-Merit.md",
	"medium-establish-vital":    "01_Equity-Substitute-Huddle/01_Medium-Establish-Vital/Medium-Establish-Vital.md",
	"reaction-diagonal-patter":  "01_Equity-Substitute-Huddle/02_Reaction-Diagonal-Patter/Reaction-Diagonal-Patter.md",
}

// FixtureOrder is the pre-order sequence of the fixture wiki.
var FixtureOrder = []string{
	"home",
	"impeach-vermilion-vacuum",
	"measure-transient-respite",
	"slate-slide-course",
	"official-union-advantage",
	"close-waste-transform",
	"transit-thrum-middle",
	"serpentine-hurry-butcher",
	"middle-pasture-floating",
	"meridian-preserve-winter",
	"equity-substitute-huddle",
	"automatic-party-merit",
	"medium-establish-vital",
	"reaction-diagonal-patter",
}

// TestWiki creates an empty temporary wiki directory with a storage.Provider.
func TestWiki(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// BuildWiki creates a temporary wiki holding the given files. Map values are
// file contents.
func BuildWiki(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	dir, store := TestWiki(t)
	for p, content := range files {
		if err := store.Write(p, []byte(content)); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return dir, store
}

// FixtureWiki builds the wiki described by FixturePages with empty pages.
func FixtureWiki(t *testing.T) (string, *storage.FS) {
	t.Helper()
	files := make(map[string]string, len(FixturePages))
	for _, p := range FixturePages {
		files[p] = ""
	}
	return BuildWiki(t, files)
}
