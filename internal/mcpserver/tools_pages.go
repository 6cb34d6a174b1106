package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pagesmith/internal/export"
	"pagesmith/internal/models"
)

func (s *Server) registerPageTools() {
	s.mcp.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List all saved landing pages"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleListPages)

	s.mcp.AddTool(mcp.NewTool("create_page",
		mcp.WithDescription("Create an empty landing page and make it the active page"),
		mcp.WithString("name", mcp.Description("Page name"), mcp.Required()),
	), s.handleCreatePage)

	s.mcp.AddTool(mcp.NewTool("load_page",
		mcp.WithDescription("Make a saved page the active page"),
		mcp.WithString("pageId", mcp.Description("Page ID"), mcp.Required()),
	), s.handleLoadPage)

	s.mcp.AddTool(mcp.NewTool("get_active_page",
		mcp.WithDescription("Return the active page with its sections in display order"),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleGetActivePage)

	s.mcp.AddTool(mcp.NewTool("save_page",
		mcp.WithDescription("Save the active page into the page collection and persist it"),
	), s.handleSavePage)

	s.mcp.AddTool(mcp.NewTool("delete_page",
		mcp.WithDescription("Delete a saved page"),
		mcp.WithString("pageId", mcp.Description("Page ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleDeletePage)

	s.mcp.AddTool(mcp.NewTool("update_brand",
		mcp.WithDescription("Merge brand settings into the active page. Only the given fields change."),
		mcp.WithObject("brand",
			mcp.Description("Brand fields: primaryColor, secondaryColor, accentColor, textColor, backgroundColor, headingFont, bodyFont, logoUrl, designStyle, campaign"),
			mcp.Required(),
		),
	), s.handleUpdateBrand)

	s.mcp.AddTool(mcp.NewTool("export_html",
		mcp.WithDescription("Render a page as a standalone HTML document"),
		mcp.WithString("pageId", mcp.Description("Page ID (optional, defaults to the active page)")),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{ReadOnlyHint: boolPtr(true)}),
	), s.handleExportHTML)
}

func (s *Server) handleListPages(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type summary struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Sections int    `json:"sections"`
	}
	pages := s.doc.Pages()
	out := make([]summary, 0, len(pages))
	for _, p := range pages {
		out = append(out, summary{ID: p.ID, Name: p.Name, Sections: len(p.Sections)})
	}
	return jsonResult(out)
}

func (s *Server) handleCreatePage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(getString(req.GetArguments(), "name"))
	if name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}
	return jsonResult(s.doc.CreatePage(name))
}

func (s *Server) handleLoadPage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.doc.LoadPage(getString(req.GetArguments(), "pageId")); err != nil {
		return errorResult(err), nil
	}
	return s.activePage()
}

func (s *Server) handleGetActivePage(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.activePage()
}

func (s *Server) activePage() (*mcp.CallToolResult, error) {
	p, ok := s.doc.ActivePage()
	if !ok {
		return mcp.NewToolResultError("no active page"), nil
	}
	p.Sections = p.Ordered()
	return jsonResult(p)
}

func (s *Server) handleSavePage(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.doc.Save(); err != nil {
		return errorResult(err), nil
	}
	if err := s.flush(ctx); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText("Page saved"), nil
}

func (s *Server) handleDeletePage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := getString(req.GetArguments(), "pageId")
	if err := s.doc.DeletePage(id); err != nil {
		return errorResult(err), nil
	}
	if err := s.flush(ctx); err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf("Page %s deleted", id)), nil
}

func (s *Server) handleUpdateBrand(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := rawJSON(req.GetArguments(), "brand")
	if err != nil {
		return errorResult(err), nil
	}
	if raw == nil {
		return mcp.NewToolResultError("brand is required"), nil
	}
	var u models.BrandUpdate
	if err := json.Unmarshal(raw, &u); err != nil {
		return errorResult(fmt.Errorf("brand: %w", err)), nil
	}
	if err := s.doc.UpdateBrandSettings(u); err != nil {
		return errorResult(err), nil
	}
	p, _ := s.doc.ActivePage()
	return jsonResult(p.Brand)
}

func (s *Server) handleExportHTML(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		p  models.Page
		ok bool
	)
	if id := getString(req.GetArguments(), "pageId"); id != "" {
		p, ok = s.doc.Page(id)
	} else {
		p, ok = s.doc.ActivePage()
	}
	if !ok {
		return errorResult(errors.New("page not found")), nil
	}
	html, err := export.HTML(p)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return mcp.NewToolResultText(html), nil
}
