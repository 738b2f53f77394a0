package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jinsol/rememberme/internal/index"
	"github.com/jinsol/rememberme/internal/journal"
	"github.com/jinsol/rememberme/internal/journalservice"
	"github.com/jinsol/rememberme/internal/storage"
)

// testEnv sets up a temp journal, SQLite DB, service, and router for testing.
// An empty authToken means disabled mode.
func testEnv(t *testing.T, authToken string) (*journalservice.Service, http.Handler) {
	t.Helper()

	dataDir := t.TempDir()
	provider, err := storage.NewFS(dataDir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := journal.NewStore(provider, logger)

	dbFile, err := os.CreateTemp("", "rememberme-api-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := journalservice.NewService(store, db)
	router := NewRouter(svc, authToken != "", authToken, nil)
	return svc, router
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createMemory(t *testing.T, router http.Handler, title string) MemoryDetail {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/memories", map[string]any{
		"title":      title,
		"content":    "some content about " + title,
		"date":       "2025-05-05",
		"type":       "text",
		"tags":       []string{"test"},
		"authorId":   "1",
		"authorName": "할머니",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var m MemoryDetail
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestCreateAndGetMemory(t *testing.T) {
	_, router := testEnv(t, "")
	created := createMemory(t, router, "Hello")

	if created.ID == "" || created.CreatedAt == "" {
		t.Error("server should mint id and createdAt")
	}
	if created.Checksum == "" {
		t.Error("response should carry the record checksum")
	}

	w := doJSON(t, router, http.MethodGet, "/memories/"+created.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	var got MemoryDetail
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Title != "Hello" || got.Checksum != created.Checksum {
		t.Errorf("got = %+v", got)
	}
}

func TestGetMemory_NotFound(t *testing.T) {
	_, router := testEnv(t, "")
	if w := doJSON(t, router, http.MethodGet, "/memories/nope", nil); w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCreateMemory_Validation(t *testing.T) {
	_, router := testEnv(t, "")

	// Missing title.
	w := doJSON(t, router, http.MethodPost, "/memories", map[string]any{
		"content": "x", "type": "text", "authorId": "1", "authorName": "할머니",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing title status = %d, want 400", w.Code)
	}

	// Bad media type.
	w = doJSON(t, router, http.MethodPost, "/memories", map[string]any{
		"title": "t", "type": "hologram", "authorId": "1", "authorName": "할머니",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad type status = %d, want 400", w.Code)
	}
}

func TestListMemories(t *testing.T) {
	_, router := testEnv(t, "")
	createMemory(t, router, "One")
	createMemory(t, router, "Two")

	w := doJSON(t, router, http.MethodGet, "/memories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var resp MemoryListResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 2 || len(resp.Memories) != 2 {
		t.Errorf("list = %+v", resp)
	}

	// Tag filter that matches nothing still answers an empty array.
	w = doJSON(t, router, http.MethodGet, "/memories?tag=nothing", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Total != 0 || resp.Memories == nil {
		t.Errorf("empty list should be [], got %s", w.Body.String())
	}
}

func TestUpdateMemory_Patch(t *testing.T) {
	_, router := testEnv(t, "")
	m := createMemory(t, router, "Before")

	w := doJSON(t, router, http.MethodPut, "/memories/"+m.ID, map[string]any{"title": "After"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	var got MemoryDetail
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.Title != "After" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Content != m.Content {
		t.Error("unpatched field changed")
	}
	if got.Checksum == m.Checksum {
		t.Error("checksum should change with the record")
	}
}

func TestUpdateMemory_MediaURLTriState(t *testing.T) {
	_, router := testEnv(t, "")
	m := createMemory(t, router, "Media")

	// Set a payload.
	w := doJSON(t, router, http.MethodPut, "/memories/"+m.ID, map[string]any{
		"type": "image", "mediaUrl": "data:image/png;base64,aGk=",
	})
	var got MemoryDetail
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.MediaURL == nil {
		t.Fatal("mediaUrl should be set")
	}

	// A body that omits mediaUrl leaves it alone.
	w = doJSON(t, router, http.MethodPut, "/memories/"+m.ID, map[string]any{"title": "still media"})
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if got.MediaURL == nil {
		t.Error("omitted mediaUrl must be left untouched")
	}

	// Explicit null clears it.
	req := httptest.NewRequest(http.MethodPut, "/memories/"+m.ID, bytes.NewReader([]byte(`{"mediaUrl": null}`)))
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	_ = json.Unmarshal(w2.Body.Bytes(), &got)
	if got.MediaURL != nil {
		t.Error("explicit null should clear mediaUrl")
	}
}

func TestUpdateMemory_IfMatch(t *testing.T) {
	_, router := testEnv(t, "")
	m := createMemory(t, router, "Guarded")

	// Stale checksum is rejected.
	req := httptest.NewRequest(http.MethodPut, "/memories/"+m.ID, bytes.NewReader([]byte(`{"title":"x"}`)))
	req.Header.Set("If-Match", `"stale-checksum"`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("stale If-Match status = %d, want 409", w.Code)
	}

	// The current checksum passes.
	req = httptest.NewRequest(http.MethodPut, "/memories/"+m.ID, bytes.NewReader([]byte(`{"title":"y"}`)))
	req.Header.Set("If-Match", `"`+m.Checksum+`"`)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("matching If-Match status = %d, body = %s", w.Code, w.Body.String())
	}
}

func TestDeleteMemory(t *testing.T) {
	_, router := testEnv(t, "")
	m := createMemory(t, router, "Doomed")

	if w := doJSON(t, router, http.MethodDelete, "/memories/"+m.ID, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodDelete, "/memories/"+m.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestToggleLikeAndComments(t *testing.T) {
	_, router := testEnv(t, "")
	m := createMemory(t, router, "Social")

	w := doJSON(t, router, http.MethodPost, "/memories/"+m.ID+"/likes", map[string]string{"userId": "2"})
	if w.Code != http.StatusOK {
		t.Fatalf("like status = %d", w.Code)
	}
	var got MemoryDetail
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if len(got.Likes) != 1 || got.Likes[0] != "2" {
		t.Errorf("likes = %v", got.Likes)
	}

	w = doJSON(t, router, http.MethodPost, "/memories/"+m.ID+"/likes", map[string]string{"userId": "2"})
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if len(got.Likes) != 0 {
		t.Errorf("likes after second toggle = %v", got.Likes)
	}

	w = doJSON(t, router, http.MethodPost, "/memories/"+m.ID+"/comments", map[string]string{
		"authorId": "3", "authorName": "딸", "content": "lovely",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("comment status = %d, body = %s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &got)
	if len(got.Comments) != 1 || got.Comments[0].Content != "lovely" {
		t.Errorf("comments = %+v", got.Comments)
	}
}

func TestSearchEndpoint(t *testing.T) {
	_, router := testEnv(t, "")
	createMemory(t, router, "Seaside")

	w := doJSON(t, router, http.MethodGet, "/search?q=Seaside", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search status = %d", w.Code)
	}
	var resp struct {
		Results []index.SearchResult `json:"results"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if len(resp.Results) != 1 {
		t.Errorf("results = %+v", resp.Results)
	}

	if w := doJSON(t, router, http.MethodGet, "/search", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing q status = %d, want 400", w.Code)
	}
}

func TestFamilyRoster(t *testing.T) {
	_, router := testEnv(t, "")

	// Seed roster is served without ever being written.
	w := doJSON(t, router, http.MethodGet, "/family", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var roster []map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &roster)
	if len(roster) != 3 {
		t.Fatalf("seed roster = %d entries, want 3", len(roster))
	}

	w = doJSON(t, router, http.MethodPost, "/family", map[string]string{
		"name": "삼촌", "relationship": "친척",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	var member map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &member)
	id, _ := member["id"].(string)
	if id == "" {
		t.Fatal("new member should have a minted id")
	}

	w = doJSON(t, router, http.MethodPut, "/family/"+id, map[string]string{"name": "외삼촌"})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d", w.Code)
	}

	if w := doJSON(t, router, http.MethodDelete, "/family/"+id, nil); w.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPut, "/family/"+id, map[string]string{"name": "x"}); w.Code != http.StatusNotFound {
		t.Errorf("update after delete status = %d, want 404", w.Code)
	}
}

func TestSettings(t *testing.T) {
	svc, router := testEnv(t, "")

	// Current user defaults to the first seed member.
	w := doJSON(t, router, http.MethodGet, "/settings/current-user", nil)
	var cur map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &cur)
	if cur["userId"] != "1" {
		t.Errorf("default current user = %q", cur["userId"])
	}

	w = doJSON(t, router, http.MethodPut, "/settings/current-user", map[string]string{"userId": "3"})
	if w.Code != http.StatusOK {
		t.Fatalf("set current user status = %d", w.Code)
	}
	if got := svc.Store().CurrentUserID(); got != "3" {
		t.Errorf("current user = %q", got)
	}

	// View mode defaults to list and validates its values.
	w = doJSON(t, router, http.MethodGet, "/settings/view-mode", nil)
	var vm map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &vm)
	if vm["mode"] != "list" {
		t.Errorf("default view mode = %q", vm["mode"])
	}
	if w := doJSON(t, router, http.MethodPut, "/settings/view-mode", map[string]string{"mode": "carousel"}); w.Code != http.StatusBadRequest {
		t.Errorf("invalid view mode status = %d, want 400", w.Code)
	}
	if w := doJSON(t, router, http.MethodPut, "/settings/view-mode", map[string]string{"mode": "grid"}); w.Code != http.StatusOK {
		t.Errorf("set view mode status = %d", w.Code)
	}

	// API key endpoint reports presence only.
	w = doJSON(t, router, http.MethodGet, "/settings/api-key", nil)
	var ak map[string]bool
	_ = json.Unmarshal(w.Body.Bytes(), &ak)
	if ak["configured"] {
		t.Error("fresh store should report no api key")
	}
	if w := doJSON(t, router, http.MethodPut, "/settings/api-key", map[string]string{"apiKey": "sk-test"}); w.Code != http.StatusOK {
		t.Fatalf("set api key status = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/settings/api-key", nil)
	_ = json.Unmarshal(w.Body.Bytes(), &ak)
	if !ak["configured"] {
		t.Error("api key presence not reported")
	}
	if bytes.Contains(w.Body.Bytes(), []byte("sk-test")) {
		t.Error("the credential itself must never be echoed")
	}
}

func TestCaption_NoKeyConfigured(t *testing.T) {
	_, router := testEnv(t, "")

	w := doJSON(t, router, http.MethodPost, "/caption", map[string]string{"text": "we ate cake"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without api key", w.Code)
	}

	// Exactly one of text or image.
	if w := doJSON(t, router, http.MethodPost, "/caption", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Errorf("empty caption request status = %d, want 400", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/caption", map[string]string{"text": "a", "image": "b"}); w.Code != http.StatusBadRequest {
		t.Errorf("both fields status = %d, want 400", w.Code)
	}
}

func TestUploadMedia(t *testing.T) {
	_, router := testEnv(t, "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "photo.png")
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	_, _ = fw.Write(png)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp MediaUploadResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.MIME != "image/png" || resp.Size != len(png) {
		t.Errorf("resp = %+v", resp)
	}

	// Missing file field.
	req = httptest.NewRequest(http.MethodPost, "/media", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=none")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing file status = %d, want 400", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	_, router := testEnv(t, "secret-token")

	// No token.
	if w := doJSON(t, router, http.MethodGet, "/memories", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", w.Code)
	}

	// Wrong token.
	req := httptest.NewRequest(http.MethodGet, "/memories", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("wrong token status = %d, want 401", w.Code)
	}

	// Correct token.
	req = httptest.NewRequest(http.MethodGet, "/memories", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token status = %d, want 200", w.Code)
	}
}
