// internal/domain/user/entity.go
package user

import (
	"database/sql"
	"time"
)

type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusSuspended AccountStatus = "suspended"
	StatusDeleted   AccountStatus = "deleted"
)

type ProfileVisibility string

const (
	VisibilityPublic      ProfileVisibility = "public"
	VisibilityPrivate     ProfileVisibility = "private"
	VisibilityConnections ProfileVisibility = "connections"
)

type User struct {
	ID                string         `json:"id" db:"id"`
	Email             string         `json:"email" db:"email"`
	PasswordHash      string         `json:"-" db:"password_hash"`
	FirstName         string         `json:"first_name" db:"first_name"`
	LastName          string         `json:"last_name" db:"last_name"`
	AvatarURL         sql.NullString `json:"avatar_url,omitempty" db:"avatar_url"`
	Bio               sql.NullString `json:"bio,omitempty" db:"bio"`
	Timezone          string         `json:"timezone" db:"timezone"`
	PreferredLanguage string         `json:"preferred_language" db:"preferred_language"`
	AccountStatus     AccountStatus  `json:"account_status" db:"account_status"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
	DeletedAt         sql.NullTime   `json:"-" db:"deleted_at"`
}

// Profile is the owner-facing view of a user row (no password hash).
type Profile struct {
	ID                string         `json:"id"`
	Email             string         `json:"email"`
	FirstName         string         `json:"first_name"`
	LastName          string         `json:"last_name"`
	AvatarURL         sql.NullString `json:"avatar_url"`
	Bio               sql.NullString `json:"bio"`
	Timezone          string         `json:"timezone"`
	PreferredLanguage string         `json:"preferred_language"`
	AccountStatus     AccountStatus  `json:"account_status"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// PublicProfile is what other users may see, subject to visibility settings.
type PublicProfile struct {
	ID        string         `json:"id"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	AvatarURL sql.NullString `json:"avatar_url"`
	Bio       sql.NullString `json:"bio"`
}

type Settings struct {
	ID                 string            `json:"id" db:"id"`
	UserID             string            `json:"user_id" db:"user_id"`
	ProfileVisibility  ProfileVisibility `json:"profile_visibility" db:"profile_visibility"`
	DataSharingEnabled bool              `json:"data_sharing_enabled" db:"data_sharing_enabled"`
	EmailNotifications bool              `json:"email_notifications" db:"email_notifications"`
	PushNotifications  bool              `json:"push_notifications" db:"push_notifications"`
	SMSNotifications   bool              `json:"sms_notifications" db:"sms_notifications"`
	MarketingEmails    bool              `json:"marketing_emails" db:"marketing_emails"`
	SecurityAlerts     bool              `json:"security_alerts" db:"security_alerts"`
	TwoFactorEnabled   bool              `json:"two_factor_enabled" db:"two_factor_enabled"`
	CreatedAt          time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at" db:"updated_at"`
}

// AuditEntry records a mutation to user-owned data.
type AuditEntry struct {
	ID         string                 `json:"id" db:"id"`
	UserID     string                 `json:"user_id" db:"user_id"`
	Action     string                 `json:"action" db:"action"`
	EntityType string                 `json:"entity_type" db:"entity_type"`
	EntityID   sql.NullString         `json:"entity_id,omitempty" db:"entity_id"`
	Changes    map[string]interface{} `json:"changes,omitempty" db:"changes"`
	IPAddress  sql.NullString         `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  sql.NullString         `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt  time.Time              `json:"created_at" db:"created_at"`
}
