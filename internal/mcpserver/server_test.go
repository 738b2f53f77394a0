package mcpserver

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jinsol/rememberme/internal/journalservice"
	"github.com/jinsol/rememberme/internal/testutil"
)

func testServer(t *testing.T) (*Server, *journalservice.Service) {
	t.Helper()

	_, store := testutil.TestJournal(t)
	db := testutil.TestDB(t)
	svc := journalservice.NewService(store, db)
	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_memories":
		result, err = srv.listMemories(ctx, req)
	case "read_memory":
		result, err = srv.readMemory(ctx, req)
	case "create_memory":
		result, err = srv.createMemory(ctx, req)
	case "search_memories":
		result, err = srv.searchMemories(ctx, req)
	case "add_comment":
		result, err = srv.addComment(ctx, req)
	case "list_family":
		result, err = srv.listFamily(ctx, req)
	case "attach_media":
		result, err = srv.attachMedia(ctx, req)
	case "get_memory_contract":
		result, err = srv.getMemoryContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadMemory(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "create_memory", map[string]interface{}{
		"title":   "Picnic",
		"content": "We had a picnic by the river.",
		"date":    "2025-04-10",
		"tags":    "spring, river",
	})
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") {
		t.Fatalf("create result = %q", text)
	}
	id := strings.TrimPrefix(text, "created: ")

	// The current user's identity is stamped on, never supplied.
	m, err := svc.GetMemory(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if m.AuthorID != "1" || m.AuthorName != "할머니" {
		t.Errorf("author = %q/%q, want current user", m.AuthorID, m.AuthorName)
	}
	if len(m.Tags) != 2 || m.Tags[0] != "spring" {
		t.Errorf("tags = %v", m.Tags)
	}

	r = callTool(t, srv, "read_memory", map[string]interface{}{"id": id})
	if !strings.Contains(resultText(r), "Picnic") {
		t.Errorf("read result = %q", resultText(r))
	}
}

func TestCreateMemory_RejectsBadInput(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_memory", map[string]interface{}{
		"title": "t", "content": "c", "type": "hologram",
	})
	if !r.IsError {
		t.Error("unsupported type should be a tool error")
	}

	r = callTool(t, srv, "create_memory", map[string]interface{}{
		"title": "t", "content": "c", "media_url": "https://not-a-data-url",
	})
	if !r.IsError {
		t.Error("non-data-URL media should be a tool error")
	}
}

func TestListAndSearchMemories(t *testing.T) {
	srv, _ := testServer(t)

	callTool(t, srv, "create_memory", map[string]interface{}{
		"title": "Harvest festival", "content": "We made songpyeon together.",
	})

	r := callTool(t, srv, "list_memories", map[string]interface{}{})
	if !strings.Contains(resultText(r), "Harvest festival") {
		t.Errorf("list result = %q", resultText(r))
	}

	r = callTool(t, srv, "search_memories", map[string]interface{}{"query": "songpyeon"})
	if !strings.Contains(resultText(r), "Harvest festival") {
		t.Errorf("search result = %q", resultText(r))
	}
}

func TestAddComment(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "create_memory", map[string]interface{}{
		"title": "Commented", "content": "x",
	})
	id := strings.TrimPrefix(resultText(r), "created: ")

	r = callTool(t, srv, "add_comment", map[string]interface{}{
		"id": id, "content": "what a day",
	})
	if !strings.Contains(resultText(r), "1 comments") {
		t.Errorf("comment result = %q", resultText(r))
	}
	m, _ := svc.GetMemory(context.Background(), id)
	if len(m.Comments) != 1 || m.Comments[0].AuthorID != "1" {
		t.Errorf("comments = %+v", m.Comments)
	}

	r = callTool(t, srv, "add_comment", map[string]interface{}{
		"id": "ghost", "content": "lost",
	})
	if !r.IsError {
		t.Error("commenting a missing memory should be a tool error")
	}
}

func TestListFamily(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "list_family", map[string]interface{}{}))
	if !strings.Contains(text, "할머니") || !strings.Contains(text, "본인") {
		t.Errorf("family list = %q", text)
	}
}

func TestAttachMedia(t *testing.T) {
	srv, _ := testServer(t)

	u := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("png bytes"))
	r := callTool(t, srv, "attach_media", map[string]interface{}{"data_url": u})
	text := resultText(r)
	if !strings.Contains(text, `"mime":"image/png"`) {
		t.Errorf("attach result = %q", text)
	}

	r = callTool(t, srv, "attach_media", map[string]interface{}{"data_url": "data:application/zip;base64,aGk="})
	if !r.IsError {
		t.Error("disallowed mime should be a tool error")
	}
}

func TestMemoryContract(t *testing.T) {
	srv, _ := testServer(t)
	text := resultText(callTool(t, srv, "get_memory_contract", map[string]interface{}{}))
	if !strings.Contains(text, "mediaUrl") || !strings.Contains(text, "attach_media") {
		t.Errorf("contract missing expected guidance: %q", text)
	}
}
