// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes journal tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jinsol/rememberme/internal/journalservice"
	"github.com/jinsol/rememberme/internal/media"
	"github.com/jinsol/rememberme/internal/models"
)

// Server wraps the MCP server with journal tools.
type Server struct {
	mcp *server.MCPServer
	svc *journalservice.Service
}

// New creates a new MCP server with all journal tools registered.
func New(svc *journalservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"RememberMe",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_memories",
		mcp.WithDescription("List journal memories, newest first, optionally filtered by tag."),
		mcp.WithString("tag", mcp.Description("Optional tag to filter by")),
	), s.listMemories)

	s.mcp.AddTool(mcp.NewTool("read_memory",
		mcp.WithDescription("Read the full content of a memory, including likes and comments."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Memory id")),
	), s.readMemory)

	s.mcp.AddTool(mcp.NewTool("create_memory",
		mcp.WithDescription("Create a new memory authored by the current user. "+
			"Content MUST follow the canonical record format (see the get_memory_contract "+
			"tool or the rememberme://memory-format resource). Media, if any, must be a "+
			"base64 data URL; validate it first with the attach_media tool."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Memory title")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Memory body text")),
		mcp.WithString("date", mcp.Description("Calendar date the memory is about (YYYY-MM-DD)")),
		mcp.WithString("type", mcp.Description("Media type: text, image, audio or video (default text)")),
		mcp.WithString("tags", mcp.Description("Comma-separated tags")),
		mcp.WithString("media_url", mcp.Description("Optional data URL payload for non-text memories")),
	), s.createMemory)

	s.mcp.AddTool(mcp.NewTool("search_memories",
		mcp.WithDescription("Full-text search through memory titles, content and tags."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchMemories)

	s.mcp.AddTool(mcp.NewTool("add_comment",
		mcp.WithDescription("Append a comment to a memory as the current user."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Memory id")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Comment text")),
	), s.addComment)

	s.mcp.AddTool(mcp.NewTool("list_family",
		mcp.WithDescription("List the family roster with ids and relationships."),
	), s.listFamily)

	s.mcp.AddTool(mcp.NewTool("attach_media",
		mcp.WithDescription("Validate and normalize a base64 data URL before embedding it "+
			"in a memory's media_url field."),
		mcp.WithString("data_url", mcp.Required(), mcp.Description("data:<mime>;base64,<payload>")),
	), s.attachMedia)

	s.mcp.AddTool(mcp.NewTool("get_memory_contract",
		mcp.WithDescription("Returns the canonical memory record format. "+
			"Call this before creating memories to ensure correct structure."),
	), s.getMemoryContract)

	// Resource: memory record contract.
	s.mcp.AddResource(
		mcp.NewResource("rememberme://memory-format", "Memory Record Contract",
			mcp.WithResourceDescription("Canonical memory record format that all created memories must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readMemoryFormatResource,
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

func (s *Server) listMemories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag := ""
	if v, err := req.RequireString("tag"); err == nil {
		tag = v
	}
	items, _, err := s.svc.ListMemories(ctx, 100, 0, tag, "", "")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := s.svc.GetMemory(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(m, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createMemory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	draft := models.MemoryDraft{
		Title:   title,
		Content: content,
		Type:    models.MediaText,
		Tags:    []string{},
	}
	if v, err := req.RequireString("date"); err == nil {
		draft.Date = v
	}
	if v, err := req.RequireString("type"); err == nil && v != "" {
		switch t := models.MediaType(v); t {
		case models.MediaText, models.MediaImage, models.MediaAudio, models.MediaVideo:
			draft.Type = t
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unsupported type: %s", v)), nil
		}
	}
	if v, err := req.RequireString("tags"); err == nil && v != "" {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				draft.Tags = append(draft.Tags, t)
			}
		}
	}
	if v, err := req.RequireString("media_url"); err == nil && v != "" {
		if _, err := media.Parse(v); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		draft.MediaURL = &v
	}

	// Author is always the acting user; the pointer may name a deleted
	// member, in which case only the id survives in the snapshot.
	store := s.svc.Store()
	draft.AuthorID = store.CurrentUserID()
	if f := store.FamilyMemberByID(draft.AuthorID); f != nil {
		draft.AuthorName = f.Name
	}

	m, err := s.svc.CreateMemory(ctx, draft)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", m.ID)), nil
}

func (s *Server) searchMemories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addComment(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	store := s.svc.Store()
	draft := models.CommentDraft{
		AuthorID: store.CurrentUserID(),
		Content:  content,
	}
	if f := store.FamilyMemberByID(draft.AuthorID); f != nil {
		draft.AuthorName = f.Name
	}

	m, err := s.svc.AddComment(ctx, id, draft)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("memory %s now has %d comments", m.ID, len(m.Comments))), nil
}

func (s *Server) listFamily(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	members := s.svc.FamilyMembers(ctx)
	var lines []string
	for _, f := range members {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%s", f.ID, f.Name, f.Relationship))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) attachMedia(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("data_url")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	p, err := media.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.Marshal(map[string]any{
		"mime": p.MIME,
		"size": len(p.Data),
	})
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getMemoryContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(MemoryFormatContract), nil
}

func (s *Server) readMemoryFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "rememberme://memory-format",
			MIMEType: "text/markdown",
			Text:     MemoryFormatContract,
		},
	}, nil
}
