// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes wikitree tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/wikitree/internal/pageservice"
)

// Server wraps the MCP server with wikitree tools.
type Server struct {
	mcp *server.MCPServer
	svc *pageservice.Service
}

// New creates a new MCP server with all wikitree tools registered.
func New(svc *pageservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"wikitree",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List every wiki page in reading order with its position and depth."),
	), s.listPages)

	s.mcp.AddTool(mcp.NewTool("get_page",
		mcp.WithDescription("Describe a page: its path, parent, children, siblings, and the next and previous pages in reading order."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Page name, e.g. \"Getting Started\" or \"Getting-Started\"")),
	), s.getPage)

	s.mcp.AddTool(mcp.NewTool("get_navigation",
		mcp.WithDescription("Render the sidebar and footer Markdown of a page without writing them."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Page name")),
	), s.getNavigation)

	s.mcp.AddTool(mcp.NewTool("add_page",
		mcp.WithDescription("Create an empty page below another page. Later siblings are renumbered. "+
			"Read the layout first via the get_layout tool or the "+LayoutURI+" resource."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new page")),
		mcp.WithString("under", mcp.Required(), mcp.Description("Name of the parent page")),
		mcp.WithNumber("position", mcp.Description("Zero-based position among the parent's children; omit to append")),
	), s.addPage)

	s.mcp.AddTool(mcp.NewTool("move_page",
		mcp.WithDescription("Move a page with all its children below another page. Both sibling groups are renumbered."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the page to move")),
		mcp.WithString("under", mcp.Required(), mcp.Description("Name of the new parent page")),
		mcp.WithNumber("position", mcp.Description("Zero-based position among the new parent's children; omit to append")),
	), s.movePage)

	s.mcp.AddTool(mcp.NewTool("remove_page",
		mcp.WithDescription("Remove a page that has no children. Later siblings move up one place."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the page to remove")),
	), s.removePage)

	s.mcp.AddTool(mcp.NewTool("update_navigation",
		mcp.WithDescription("Regenerate the _Sidebar.md and _Footer.md of every page."),
	), s.updateNavigation)

	s.mcp.AddTool(mcp.NewTool("get_layout",
		mcp.WithDescription("Returns how wiki pages are laid out on disk and the rules for editing the tree."),
	), s.getLayout)

	s.mcp.AddResource(
		mcp.NewResource(LayoutURI, "Wiki Layout",
			mcp.WithResourceDescription("On-disk layout of the wiki page tree."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readLayoutResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

// optionalPosition returns nil when the position argument is absent.
func optionalPosition(req mcp.CallToolRequest) (*int, error) {
	if _, ok := req.GetArguments()["position"]; !ok {
		return nil, nil
	}
	n, err := req.RequireInt("position")
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Server) listPages(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := s.svc.ListPages(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(items)
}

func (s *Server) getPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := s.svc.GetPage(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(page)
}

func (s *Server) getNavigation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sidebar, err := s.svc.Sidebar(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	footer, err := s.svc.Footer(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]string{
		"sidebar": sidebar,
		"footer":  footer.String(),
	})
}

func (s *Server) addPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	under, err := req.RequireString("under")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pos, err := optionalPosition(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := s.svc.AddPage(ctx, name, under, pos)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", page.Path)), nil
}

func (s *Server) movePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	under, err := req.RequireString("under")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pos, err := optionalPosition(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	page, err := s.svc.MovePage(ctx, name, under, pos)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("moved: %s", page.Path)), nil
}

func (s *Server) removePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.RemovePage(ctx, name); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed: %s", name)), nil
}

func (s *Server) updateNavigation(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	n, err := s.svc.UpdateNavigation(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated navigation of %d pages", n)), nil
}

func (s *Server) getLayout(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(WikiLayout), nil
}

func (s *Server) readLayoutResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      LayoutURI,
			MIMEType: "text/markdown",
			Text:     WikiLayout,
		},
	}, nil
}
