package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/wikitree/internal/checksum"
	"github.com/starford/wikitree/internal/pageservice"
)

const maxBodyBytes = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc      *pageservice.Service
	notifier Notifier
}

// NewHandler creates a new Handler. notifier may be nil.
func NewHandler(svc *pageservice.Service, notifier Notifier) *Handler {
	return &Handler{svc: svc, notifier: notifier}
}

// pageName extracts the page name from the URL. Both "Some Page" and
// "Some-Page" spellings are accepted downstream.
func pageName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// ListPages handles GET /api/pages.
//
//	@Summary	List pages in reading order
//	@Tags		pages
//	@Produce	json
//	@Success	200	{object}	PageListResponse
//	@Security	BearerAuth
//	@Router		/pages [get]
func (h *Handler) ListPages(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListPages(r.Context())
	if err != nil {
		writeError(w, "list pages", err)
		return
	}
	writeJSON(w, http.StatusOK, PageListResponse{Pages: items, Total: len(items)})
}

// GetPage handles GET /api/pages/{name}.
//
//	@Summary	Get a page and its relatives
//	@Tags		pages
//	@Produce	json
//	@Param		name	path		string	true	"Page name"
//	@Success	200		{object}	PageDetail
//	@Failure	404		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/pages/{name} [get]
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.GetPage(r.Context(), pageName(r))
	if err != nil {
		writeError(w, "get page", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// Sidebar handles GET /api/pages/{name}/sidebar. The rendered Markdown is
// served with an ETag; a matching If-None-Match yields 304.
//
//	@Summary	Render the sidebar of a page
//	@Tags		navigation
//	@Produce	text/markdown
//	@Param		name	path	string	true	"Page name"
//	@Success	200
//	@Success	304
//	@Failure	404	{object}	errResponse
//	@Security	BearerAuth
//	@Router		/pages/{name}/sidebar [get]
func (h *Handler) Sidebar(w http.ResponseWriter, r *http.Request) {
	md, err := h.svc.Sidebar(r.Context(), pageName(r))
	if err != nil {
		writeError(w, "render sidebar", err)
		return
	}
	body := []byte(md)
	etag := checksum.ETag(body)
	w.Header().Set("ETag", etag)
	if checksum.Matches(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Footer handles GET /api/pages/{name}/footer.
//
//	@Summary	Render the footer links of a page
//	@Tags		navigation
//	@Produce	json
//	@Param		name	path		string	true	"Page name"
//	@Success	200		{object}	FooterResponse
//	@Failure	404		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/pages/{name}/footer [get]
func (h *Handler) Footer(w http.ResponseWriter, r *http.Request) {
	f, err := h.svc.Footer(r.Context(), pageName(r))
	if err != nil {
		writeError(w, "render footer", err)
		return
	}
	md := f.String()
	w.Header().Set("ETag", checksum.ETag([]byte(md)))
	writeJSON(w, http.StatusOK, FooterResponse{Footer: f, Markdown: md})
}

// AddPage handles POST /api/pages.
//
//	@Summary	Create a page below another one
//	@Tags		pages
//	@Accept		json
//	@Produce	json
//	@Param		body	body		AddPageRequest	true	"Page to create"
//	@Success	201		{object}	PageDetail
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Failure	409		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/pages [post]
func (h *Handler) AddPage(w http.ResponseWriter, r *http.Request) {
	var req AddPageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Under) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("under is required"))
		return
	}
	page, err := h.svc.AddPage(r.Context(), req.Name, req.Under, req.Position)
	if err != nil {
		writeError(w, "add page", err)
		return
	}
	h.notify("added", page.Name)
	writeJSON(w, http.StatusCreated, page)
}

// MovePage handles POST /api/pages/{name}/move.
//
//	@Summary	Move a page and its subtree
//	@Tags		pages
//	@Accept		json
//	@Produce	json
//	@Param		name	path		string			true	"Page name"
//	@Param		body	body		MovePageRequest	true	"Destination"
//	@Success	200		{object}	PageDetail
//	@Failure	400		{object}	errResponse
//	@Failure	404		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/pages/{name}/move [post]
func (h *Handler) MovePage(w http.ResponseWriter, r *http.Request) {
	var req MovePageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Under) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("under is required"))
		return
	}
	page, err := h.svc.MovePage(r.Context(), pageName(r), req.Under, req.Position)
	if err != nil {
		writeError(w, "move page", err)
		return
	}
	h.notify("moved", page.Name)
	writeJSON(w, http.StatusOK, page)
}

// RemovePage handles DELETE /api/pages/{name}.
//
//	@Summary	Remove a leaf page
//	@Tags		pages
//	@Param		name	path	string	true	"Page name"
//	@Success	204		"Page removed"
//	@Failure	404		{object}	errResponse
//	@Failure	409		{object}	errResponse
//	@Security	BearerAuth
//	@Router		/pages/{name} [delete]
func (h *Handler) RemovePage(w http.ResponseWriter, r *http.Request) {
	name := pageName(r)
	if err := h.svc.RemovePage(r.Context(), name); err != nil {
		writeError(w, "remove page", err)
		return
	}
	h.notify("removed", name)
	w.WriteHeader(http.StatusNoContent)
}

// UpdateNavigation handles POST /api/navigation.
//
//	@Summary	Regenerate every sidebar and footer
//	@Tags		navigation
//	@Produce	json
//	@Success	200	{object}	NavigationResponse
//	@Security	BearerAuth
//	@Router		/navigation [post]
func (h *Handler) UpdateNavigation(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.UpdateNavigation(r.Context())
	if err != nil {
		writeError(w, "update navigation", err)
		return
	}
	if h.notifier != nil {
		h.notifier.PublishNavigation(n)
	}
	writeJSON(w, http.StatusOK, NavigationResponse{Pages: n})
}

func (h *Handler) notify(kind, page string) {
	if h.notifier != nil {
		h.notifier.PublishPageEvent(kind, page)
	}
}
