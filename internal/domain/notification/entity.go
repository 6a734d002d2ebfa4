// internal/domain/notification/entity.go
package notification

import (
	"database/sql"
	"time"
)

type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

type Notification struct {
	ID        string         `json:"id" db:"id"`
	UserID    string         `json:"user_id" db:"user_id"`
	Type      Type           `json:"type" db:"type"`
	Title     string         `json:"title" db:"title"`
	Message   string         `json:"message" db:"message"`
	Link      sql.NullString `json:"link,omitempty" db:"link"`
	IsRead    bool           `json:"is_read" db:"is_read"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

type ListResponse struct {
	Items       []Notification `json:"items"`
	UnreadCount int            `json:"unread_count"`
}
