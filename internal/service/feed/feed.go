// internal/service/feed/feed.go
package feed

import (
	"context"
	"database/sql"
	"time"

	"slate-service/internal/domain/feed"

	"go.uber.org/zap"
)

type Store interface {
	GetFeedForUser(ctx context.Context, userID string, limit, offset int) ([]feed.Item, int64, error)
	Create(ctx context.Context, item *feed.Item) error
}

type FeedService struct {
	store  Store
	logger *zap.Logger
}

func NewFeedService(store Store, logger *zap.Logger) *FeedService {
	return &FeedService{store: store, logger: logger}
}

// GetFeed returns a page of the user's feed: their own posts plus global
// announcements, newest first. A brand-new user with an empty feed gets a
// synthetic welcome item so the first screen is never blank.
func (s *FeedService) GetFeed(ctx context.Context, userID string, q feed.ListQuery) (*feed.ListResponse, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	items, total, err := s.store.GetFeedForUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	if total == 0 && page == 1 {
		items = []feed.Item{welcomeItem()}
		total = 1
	}

	return &feed.ListResponse{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// CreatePost publishes a new post authored by the user.
func (s *FeedService) CreatePost(ctx context.Context, userID string, req *feed.CreatePostRequest) (*feed.Item, error) {
	item := &feed.Item{
		UserID:  nullString(userID),
		Type:    feed.TypePost,
		Title:   req.Title,
		Content: req.Content,
		Tags:    req.Tags,
	}

	if err := s.store.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("feed post created",
		zap.String("user_id", userID),
		zap.String("item_id", item.ID),
	)
	return item, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func welcomeItem() feed.Item {
	now := time.Now()
	return feed.Item{
		ID:        "welcome",
		Type:      feed.TypeAnnouncement,
		Title:     "Welcome to Slate!",
		Content:   "Your feed is empty for now. Create your first post or follow announcements to see them here.",
		Tags:      []string{"welcome"},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
