// Package models defines the domain types for wikitree.
package models

import (
	"path"
	"strings"
)

// Page is a single wiki document. Path is slash-separated and relative to the
// wiki root. Root marks the self-parented entry page (Home.md).
type Page struct {
	Path string `json:"path"`
	Root bool   `json:"root,omitempty"`
}

// RootPage returns the root page stored at p.
func RootPage(p string) Page {
	return Page{Path: p, Root: true}
}

// ChildPage returns a non-root page stored at p.
func ChildPage(p string) Page {
	return Page{Path: p}
}

// Stem is the dashed file name without the .md extension.
func (p Page) Stem() string {
	return strings.TrimSuffix(path.Base(p.Path), path.Ext(p.Path))
}

// Dir is the directory holding the page file ("." for the root page).
func (p Page) Dir() string {
	return path.Dir(p.Path)
}

// DirName is the last element of Dir, e.g. "03_Some-Page".
func (p Page) DirName() string {
	return path.Base(p.Dir())
}

// Equal compares pages by location.
func (p Page) Equal(o Page) bool {
	return p.Path == o.Path
}

// PageItem is a page annotated with its place in the tree, used by list
// responses.
type PageItem struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Position int    `json:"position"`
	Depth    int    `json:"depth"`
	Root     bool   `json:"root,omitempty"`
}

// PageDetail describes one page and its immediate relatives.
type PageDetail struct {
	PageItem
	Parent   string   `json:"parent"`
	Children []string `json:"children"`
	Siblings []string `json:"siblings"`
	Next     string   `json:"next"`
	Previous string   `json:"previous"`
}
