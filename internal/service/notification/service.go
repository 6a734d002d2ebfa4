// internal/service/notification/service.go
package notification

import (
	"context"
	"database/sql"

	"slate-service/internal/domain/notification"

	"go.uber.org/zap"
)

type Store interface {
	Create(ctx context.Context, n *notification.Notification) error
	GetForUser(ctx context.Context, userID string, limit int) ([]notification.Notification, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) (bool, error)
}

type NotificationService struct {
	store  Store
	logger *zap.Logger
}

func NewNotificationService(store Store, logger *zap.Logger) *NotificationService {
	return &NotificationService{store: store, logger: logger}
}

// List returns the user's most recent notifications alongside the unread count.
func (s *NotificationService) List(ctx context.Context, userID string, limit int) (*notification.ListResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	items, err := s.store.GetForUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	unread, err := s.store.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &notification.ListResponse{Items: items, UnreadCount: unread}, nil
}

// MarkAsRead flags a single notification as read. Returns false when the
// notification does not exist or belongs to another user.
func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID, userID string) (bool, error) {
	return s.store.MarkAsRead(ctx, notificationID, userID)
}

// Notify creates a notification for a user.
func (s *NotificationService) Notify(ctx context.Context, userID string, typ notification.Type, title, message, link string) error {
	n := &notification.Notification{
		UserID:  userID,
		Type:    typ,
		Title:   title,
		Message: message,
		Link:    sql.NullString{String: link, Valid: link != ""},
	}

	if err := s.store.Create(ctx, n); err != nil {
		return err
	}

	s.logger.Debug("notification created",
		zap.String("user_id", userID),
		zap.String("type", string(typ)),
		zap.String("title", title),
	)
	return nil
}

// SendWelcome drops the onboarding notification for a freshly registered
// account. Satisfies the welcomer hook on the auth service.
func (s *NotificationService) SendWelcome(ctx context.Context, userID string) error {
	return s.Notify(ctx, userID,
		notification.TypeSuccess,
		"Account Created",
		"Welcome to Slate! Your universal identity is now ready.",
		"/onboarding",
	)
}
