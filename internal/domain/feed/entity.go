// internal/domain/feed/entity.go
package feed

import (
	"database/sql"
	"time"
)

type ItemType string

const (
	TypePost         ItemType = "post"
	TypeAnnouncement ItemType = "announcement"
)

// Item is one feed entry. UserID is null for global announcements visible to
// every user.
type Item struct {
	ID        string         `json:"id" db:"id"`
	UserID    sql.NullString `json:"user_id,omitempty" db:"user_id"`
	Type      ItemType       `json:"type" db:"type"`
	Title     string         `json:"title" db:"title"`
	Content   string         `json:"content" db:"content"`
	MediaURL  sql.NullString `json:"media_url,omitempty" db:"media_url"`
	Tags      []string       `json:"tags,omitempty" db:"tags"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}
