// internal/domain/session/entity.go
package session

import (
	"database/sql"
	"time"
)

// Session is one authenticated device/browser binding. TokenJTI is unique
// across all sessions ever issued; deleting the row is the sole revocation
// mechanism for the matching token.
type Session struct {
	ID           string         `json:"id" db:"id"`
	UserID       string         `json:"user_id" db:"user_id"`
	TokenJTI     string         `json:"-" db:"token_jti"`
	DeviceInfo   sql.NullString `json:"device_info,omitempty" db:"device_info"`
	IPAddress    sql.NullString `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent    sql.NullString `json:"user_agent,omitempty" db:"user_agent"`
	ExpiresAt    time.Time      `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	LastActiveAt time.Time      `json:"last_active_at" db:"last_active_at"`
}

// Live reports whether the session has not yet passed its expiry.
func (s *Session) Live(now time.Time) bool {
	return s.ExpiresAt.After(now)
}

// Metadata captures the client context supplied at login time.
type Metadata struct {
	DeviceInfo string
	IPAddress  string
	UserAgent  string
}

// Info is the session listing item exposed to the owning user.
type Info struct {
	ID           string    `json:"id"`
	DeviceInfo   *string   `json:"device_info"`
	IPAddress    *string   `json:"ip_address"`
	UserAgent    *string   `json:"user_agent"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	IsCurrent    bool      `json:"is_current"`
}

// ToInfo converts a session row to its listing form. currentJTI is the jti of
// the requester's own token.
func (s *Session) ToInfo(currentJTI string) Info {
	return Info{
		ID:           s.ID,
		DeviceInfo:   stringPtr(s.DeviceInfo),
		IPAddress:    stringPtr(s.IPAddress),
		UserAgent:    stringPtr(s.UserAgent),
		CreatedAt:    s.CreatedAt,
		LastActiveAt: s.LastActiveAt,
		ExpiresAt:    s.ExpiresAt,
		IsCurrent:    s.TokenJTI == currentJTI,
	}
}

func stringPtr(s sql.NullString) *string {
	if s.Valid {
		return &s.String
	}
	return nil
}
