package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pagesmith/internal/document"
	"pagesmith/internal/generate"
	"pagesmith/internal/models"
)

func (s *Server) registerSectionTools() {
	types := make([]string, 0, len(models.SectionTypes()))
	for _, t := range models.SectionTypes() {
		types = append(types, string(t))
	}

	s.mcp.AddTool(mcp.NewTool("add_section",
		mcp.WithDescription("Append a section to the active page. Without data the type's default content is used."),
		mcp.WithString("type", mcp.Description("Section type"), mcp.Enum(types...), mcp.Required()),
		mcp.WithObject("data", mcp.Description("Section content (optional)")),
	), s.handleAddSection)

	s.mcp.AddTool(mcp.NewTool("update_section",
		mcp.WithDescription("Replace a section's content and optionally change its type"),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithString("type", mcp.Description("New section type (optional)"), mcp.Enum(types...)),
		mcp.WithObject("data", mcp.Description("New section content")),
	), s.handleUpdateSection)

	s.mcp.AddTool(mcp.NewTool("remove_section",
		mcp.WithDescription("Remove a section from the active page"),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithToolAnnotation(mcp.ToolAnnotation{DestructiveHint: boolPtr(true)}),
	), s.handleRemoveSection)

	s.mcp.AddTool(mcp.NewTool("duplicate_section",
		mcp.WithDescription("Append a copy of a section at the end of the active page"),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
	), s.handleDuplicateSection)

	s.mcp.AddTool(mcp.NewTool("reorder_sections",
		mcp.WithDescription("Move the section at position from to position to (zero-based)"),
		mcp.WithNumber("from", mcp.Description("Current position"), mcp.Required()),
		mcp.WithNumber("to", mcp.Description("Target position"), mcp.Required()),
	), s.handleReorderSections)

	s.mcp.AddTool(mcp.NewTool("generate_section",
		mcp.WithDescription("Fill a section of the active page with AI generated content"),
		mcp.WithString("sectionId", mcp.Description("Section ID"), mcp.Required()),
		mcp.WithString("prompt", mcp.Description("What the section should say"), mcp.Required()),
	), s.handleGenerateSection)
}

func (s *Server) handleAddSection(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	t := models.SectionType(getString(args, "type"))
	raw, err := rawJSON(args, "data")
	if err != nil {
		return errorResult(err), nil
	}

	var data models.Content
	if raw != nil {
		data = models.DecodeContent(t, raw)
	}
	sec, err := s.doc.AddSection(t, data)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(sec)
}

func (s *Server) handleUpdateSection(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	id := getString(args, "sectionId")

	var u document.SectionUpdate
	if v := getString(args, "type"); v != "" {
		t := models.SectionType(v)
		u.Type = &t
	}
	raw, err := rawJSON(args, "data")
	if err != nil {
		return errorResult(err), nil
	}
	if raw != nil {
		u.Data = models.RawContent{Data: raw}
	}
	if u.Type == nil && u.Data == nil {
		return mcp.NewToolResultError("nothing to update: give type or data"), nil
	}

	if err := s.doc.UpdateSection(id, u); err != nil {
		return errorResult(err), nil
	}
	return s.section(id)
}

func (s *Server) handleRemoveSection(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := getString(req.GetArguments(), "sectionId")
	if err := s.doc.RemoveSection(id); err != nil {
		return errorResult(err), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Section %s removed", id)), nil
}

func (s *Server) handleDuplicateSection(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sec, err := s.doc.DuplicateSection(getString(req.GetArguments(), "sectionId"))
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(sec)
}

func (s *Server) handleReorderSections(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	from, okFrom := getInt(args, "from")
	to, okTo := getInt(args, "to")
	if !okFrom || !okTo {
		return mcp.NewToolResultError("from and to are required"), nil
	}
	if err := s.doc.ReorderSections(from, to); err != nil {
		return errorResult(err), nil
	}
	return s.activePage()
}

func (s *Server) handleGenerateSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.generator == nil {
		return mcp.NewToolResultError("no AI provider is configured"), nil
	}
	args := req.GetArguments()
	id := getString(args, "sectionId")
	prompt := strings.TrimSpace(getString(args, "prompt"))

	p, ok := s.doc.ActivePage()
	if !ok {
		return errorResult(document.ErrNoActivePage), nil
	}
	sec, ok := p.Section(id)
	if !ok {
		return errorResult(fmt.Errorf("section %q: %w", id, document.ErrSectionNotFound)), nil
	}

	ticket, err := s.doc.BeginGeneration(id)
	if err != nil {
		return errorResult(err), nil
	}
	defer s.doc.EndGeneration(ticket)

	content, err := s.generator.Generate(ctx, generate.Request{
		Type:   sec.Type,
		Prompt: prompt,
		Brief:  p.Brand.Campaign,
	})
	if err != nil {
		return errorResult(err), nil
	}
	if err := s.doc.ApplyGenerated(ticket, content); err != nil {
		return errorResult(err), nil
	}
	return s.section(id)
}

func (s *Server) section(id string) (*mcp.CallToolResult, error) {
	p, ok := s.doc.ActivePage()
	if !ok {
		return errorResult(document.ErrNoActivePage), nil
	}
	sec, ok := p.Section(id)
	if !ok {
		return errorResult(document.ErrSectionNotFound), nil
	}
	return jsonResult(sec)
}
