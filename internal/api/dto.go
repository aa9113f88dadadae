package api

import (
	"github.com/starford/wikitree/internal/models"
	"github.com/starford/wikitree/internal/nav"
)

// AddPageRequest is the request body for creating a page.
type AddPageRequest struct {
	Name     string `json:"name" example:"Getting Started"`
	Under    string `json:"under" example:"Home"`
	Position *int   `json:"position,omitempty" example:"0"`
}

// MovePageRequest is the request body for moving a page.
type MovePageRequest struct {
	Under    string `json:"under" example:"Home"`
	Position *int   `json:"position,omitempty" example:"1"`
}

// PageListResponse wraps the pages in reading order.
type PageListResponse struct {
	Pages []models.PageItem `json:"pages"`
	Total int               `json:"total" example:"14"`
}

// PageDetail is the single page response type.
type PageDetail = models.PageDetail

// FooterResponse carries the rendered footer links and the footer document.
type FooterResponse struct {
	nav.Footer
	Markdown string `json:"markdown"`
}

// NavigationResponse reports a navigation regeneration.
type NavigationResponse struct {
	Pages int `json:"pages" example:"14"`
}
