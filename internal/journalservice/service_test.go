package journalservice

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jinsol/rememberme/internal/ai"
	"github.com/jinsol/rememberme/internal/apperr"
	"github.com/jinsol/rememberme/internal/models"
	"github.com/jinsol/rememberme/internal/testutil"
)

func testService(t *testing.T, aiOpts ...ai.Option) *Service {
	t.Helper()
	_, store := testutil.TestJournal(t)
	db := testutil.TestDB(t)
	return NewService(store, db, aiOpts...)
}

func TestCreateMemory_IndexedImmediately(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	m, err := svc.CreateMemory(ctx, models.MemoryDraft{
		Title: "Indexed", Content: "findable text", Type: models.MediaText,
	})
	if err != nil {
		t.Fatalf("CreateMemory: %v", err)
	}
	if m.Checksum == "" {
		t.Error("detail should carry the record checksum")
	}

	// Own writes are visible in listings without waiting for the watcher.
	items, total, err := svc.ListMemories(ctx, 10, 0, "", "", "")
	if err != nil {
		t.Fatalf("ListMemories: %v", err)
	}
	if total != 1 || items[0].ID != m.ID {
		t.Errorf("list = %+v total = %d", items, total)
	}

	results, err := svc.Search(ctx, "findable", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].ID != m.ID {
		t.Errorf("search = %+v", results)
	}
}

func TestUpdateMemory_ChecksumPrecondition(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	m, _ := svc.CreateMemory(ctx, models.MemoryDraft{Title: "Guarded", Type: models.MediaText})

	title := "changed"

	// A stale token is rejected without writing.
	_, err := svc.UpdateMemory(ctx, m.ID, models.MemoryPatch{Title: &title}, "stale")
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	got, _ := svc.GetMemory(ctx, m.ID)
	if got.Title != "Guarded" {
		t.Error("rejected update must not write")
	}

	// The current token passes and the checksum advances.
	updated, err := svc.UpdateMemory(ctx, m.ID, models.MemoryPatch{Title: &title}, m.Checksum)
	if err != nil {
		t.Fatalf("UpdateMemory: %v", err)
	}
	if updated.Checksum == m.Checksum {
		t.Error("checksum should advance with the record")
	}

	// No token means last-write-wins as before.
	if _, err := svc.UpdateMemory(ctx, m.ID, models.MemoryPatch{Title: &title}, ""); err != nil {
		t.Errorf("unconditional update failed: %v", err)
	}
}

func TestDeleteMemory_RemovesFromIndex(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	m, _ := svc.CreateMemory(ctx, models.MemoryDraft{Title: "Gone", Content: "ephemeral", Type: models.MediaText})

	removed, err := svc.DeleteMemory(ctx, m.ID)
	if err != nil || !removed {
		t.Fatalf("DeleteMemory: removed=%v err=%v", removed, err)
	}
	if results, _ := svc.Search(ctx, "ephemeral", 10); len(results) != 0 {
		t.Errorf("deleted memory still searchable: %+v", results)
	}
	if _, err := svc.GetMemory(ctx, m.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("get err = %v, want ErrNotFound", err)
	}
}

func TestSocialOpsReindex(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()
	m, _ := svc.CreateMemory(ctx, models.MemoryDraft{Title: "Counted", Type: models.MediaText})

	if _, err := svc.ToggleLike(ctx, m.ID, "2"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddComment(ctx, m.ID, models.CommentDraft{AuthorID: "3", AuthorName: "딸", Content: "hi"}); err != nil {
		t.Fatal(err)
	}

	items, _, err := svc.ListMemories(ctx, 10, 0, "", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if items[0].LikeCount != 1 || items[0].CommentCount != 1 {
		t.Errorf("counts not reindexed: %+v", items[0])
	}
}

func TestCaption_NoKey(t *testing.T) {
	svc := testService(t)
	if _, err := svc.CaptionText(context.Background(), "hello", ""); !errors.Is(err, ai.ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
	if _, err := svc.CaptionImage(context.Background(), "aGk=", ""); !errors.Is(err, ai.ErrNoAPIKey) {
		t.Errorf("err = %v, want ErrNoAPIKey", err)
	}
}

func TestCaption_UsesStoredKeyAndOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-from-store" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"polished"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	svc := testService(t, ai.WithBaseURL(srv.URL), ai.WithModel("test-model"))
	if err := svc.Store().SetAPIKey("sk-from-store"); err != nil {
		t.Fatal(err)
	}

	got, err := svc.CaptionText(context.Background(), "rough words", "Title")
	if err != nil {
		t.Fatalf("CaptionText: %v", err)
	}
	if got != "polished" {
		t.Errorf("caption = %q", got)
	}
}

// ListMemories on an index that has drifted behind the store only shows
// indexed rows; GetMemory always reads the store directly.
func TestListVersusGetConsistency(t *testing.T) {
	_, store := testutil.TestJournal(t)
	db := testutil.TestDB(t)
	svc := NewService(store, db)
	ctx := context.Background()

	m, err := store.SaveMemory(models.MemoryDraft{Title: "Unindexed", Type: models.MediaText})
	if err != nil {
		t.Fatal(err)
	}

	if _, total, _ := svc.ListMemories(ctx, 10, 0, "", "", ""); total != 0 {
		t.Errorf("unindexed memory should not list, total = %d", total)
	}
	if got, err := svc.GetMemory(ctx, m.ID); err != nil || got.Title != "Unindexed" {
		t.Errorf("GetMemory should hit the store: %+v %v", got, err)
	}
}
