// internal/service/feed/feed_test.go
package feed

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"slate-service/internal/domain/feed"

	"go.uber.org/zap"
)

type memFeedStore struct {
	mu     sync.Mutex
	nextID int
	items  []feed.Item
}

func (m *memFeedStore) GetFeedForUser(ctx context.Context, userID string, limit, offset int) ([]feed.Item, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var visible []feed.Item
	for _, item := range m.items {
		if !item.UserID.Valid || item.UserID.String == userID {
			visible = append(visible, item)
		}
	}
	total := int64(len(visible))
	if offset >= len(visible) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(visible) {
		end = len(visible)
	}
	return visible[offset:end], total, nil
}

func (m *memFeedStore) Create(ctx context.Context, item *feed.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	item.ID = fmt.Sprintf("item-%d", m.nextID)
	m.items = append(m.items, *item)
	return nil
}

func newTestFeed(t *testing.T) (*FeedService, *memFeedStore) {
	t.Helper()
	store := &memFeedStore{}
	return NewFeedService(store, zap.NewNop()), store
}

func TestGetFeed_EmptyGetsWelcomeItem(t *testing.T) {
	svc, _ := newTestFeed(t)

	page, err := svc.GetFeed(context.Background(), "u1", feed.ListQuery{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}

	if len(page.Items) != 1 {
		t.Fatalf("items = %d, want 1 welcome item", len(page.Items))
	}
	item := page.Items[0]
	if item.Type != feed.TypeAnnouncement {
		t.Errorf("type = %q, want announcement", item.Type)
	}
	if item.Title != "Welcome to Slate!" {
		t.Errorf("title = %q, want welcome title", item.Title)
	}
}

func TestGetFeed_SecondPageOfEmptyFeedStaysEmpty(t *testing.T) {
	svc, _ := newTestFeed(t)

	page, err := svc.GetFeed(context.Background(), "u1", feed.ListQuery{Page: 2, Limit: 20})
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("items = %d, want 0 on page 2", len(page.Items))
	}
}

func TestGetFeed_OwnPostsAndAnnouncements(t *testing.T) {
	svc, store := newTestFeed(t)

	if _, err := svc.CreatePost(context.Background(), "u1", &feed.CreatePostRequest{
		Title:   "First post",
		Content: "hello",
		Tags:    []string{"intro"},
	}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if _, err := svc.CreatePost(context.Background(), "u2", &feed.CreatePostRequest{
		Title:   "Someone else",
		Content: "not visible to u1",
	}); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	// Global announcement.
	if err := store.Create(context.Background(), &feed.Item{
		Type:    feed.TypeAnnouncement,
		Title:   "Maintenance window",
		Content: "Sunday 02:00 UTC",
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	page, err := svc.GetFeed(context.Background(), "u1", feed.ListQuery{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}

	if page.Total != 2 {
		t.Errorf("total = %d, want 2", page.Total)
	}
	for _, item := range page.Items {
		if item.UserID.Valid && item.UserID.String == "u2" {
			t.Errorf("another user's post leaked into the feed: %+v", item)
		}
	}
}

func TestGetFeed_QueryDefaults(t *testing.T) {
	svc, _ := newTestFeed(t)

	page, err := svc.GetFeed(context.Background(), "u1", feed.ListQuery{Page: 0, Limit: 500})
	if err != nil {
		t.Fatalf("GetFeed: %v", err)
	}
	if page.Page != 1 {
		t.Errorf("page = %d, want 1", page.Page)
	}
	if page.Limit != 20 {
		t.Errorf("limit = %d, want 20", page.Limit)
	}
}

func TestCreatePost_SetsAuthorAndType(t *testing.T) {
	svc, _ := newTestFeed(t)

	item, err := svc.CreatePost(context.Background(), "u1", &feed.CreatePostRequest{
		Title:   "First post",
		Content: "hello",
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	if item.ID == "" {
		t.Error("expected assigned id")
	}
	if !item.UserID.Valid || item.UserID.String != "u1" {
		t.Errorf("author = %+v, want u1", item.UserID)
	}
	if item.Type != feed.TypePost {
		t.Errorf("type = %q, want post", item.Type)
	}
}
