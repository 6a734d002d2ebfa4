// internal/service/user/user.go
package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"slate-service/internal/domain/session"
	"slate-service/internal/domain/user"
	xerrors "slate-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*user.Profile, error)
	GetPublicProfile(ctx context.Context, userID string) (*user.PublicProfile, error)
	UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.Profile, error)
	SoftDelete(ctx context.Context, userID string) (bool, error)
	FindSettings(ctx context.Context, userID string) (*user.Settings, error)
	CreateDefaultSettings(ctx context.Context, userID string) (*user.Settings, error)
	UpdateSettings(ctx context.Context, userID string, req *user.UpdateSettingsRequest) (*user.Settings, error)
}

type SessionStore interface {
	FindActiveByUser(ctx context.Context, userID string) ([]session.Session, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

type AuditStore interface {
	Create(ctx context.Context, entry *user.AuditEntry) error
}

// UserService covers profile, settings, account deletion and session
// listing for the authenticated account.
type UserService struct {
	users    ProfileStore
	sessions SessionStore
	audit    AuditStore
	logger   *zap.Logger
}

func NewUserService(users ProfileStore, sessions SessionStore, audit AuditStore, logger *zap.Logger) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
		audit:    audit,
		logger:   logger,
	}
}

// ========== Profile ==========

func (s *UserService) GetMyProfile(ctx context.Context, userID string) (*user.Profile, error) {
	return s.users.GetProfile(ctx, userID)
}

// GetPublicProfile returns the target's public profile, or ErrNotFound when
// the target is missing, not active, or has a private profile. "Private" and
// "missing" are deliberately indistinguishable.
func (s *UserService) GetPublicProfile(ctx context.Context, requestingUserID, targetUserID string) (*user.PublicProfile, error) {
	settings, err := s.users.FindSettings(ctx, targetUserID)
	if err != nil && !errors.Is(err, xerrors.ErrNotFound) {
		return nil, err
	}

	if settings != nil && settings.ProfileVisibility == user.VisibilityPrivate && requestingUserID != targetUserID {
		return nil, xerrors.ErrNotFound
	}

	return s.users.GetPublicProfile(ctx, targetUserID)
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest, meta user.RequestMetadata) (*user.Profile, error) {
	current, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateProfile(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	changes := profileChanges(current, req)
	if len(changes) > 0 {
		s.recordAudit(ctx, userID, "UPDATE_PROFILE", "user", userID, changes, meta)
		s.logger.Info("user profile updated", zap.String("user_id", userID))
	}

	return updated, nil
}

// ========== Settings ==========

// GetSettings returns the user's settings row, creating the defaults if it
// does not exist yet.
func (s *UserService) GetSettings(ctx context.Context, userID string) (*user.Settings, error) {
	settings, err := s.users.FindSettings(ctx, userID)
	if errors.Is(err, xerrors.ErrNotFound) {
		return s.users.CreateDefaultSettings(ctx, userID)
	}
	return settings, err
}

func (s *UserService) UpdateSettings(ctx context.Context, userID string, req *user.UpdateSettingsRequest, meta user.RequestMetadata) (*user.Settings, error) {
	current, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.UpdateSettings(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	changes := settingsChanges(current, req)
	if len(changes) > 0 {
		s.recordAudit(ctx, userID, "UPDATE_SETTINGS", "user_settings", current.ID, changes, meta)
		s.logger.Info("user settings updated", zap.String("user_id", userID))
	}

	return updated, nil
}

// ========== Account Deletion ==========

// DeleteAccount soft-deletes the user and revokes every session so no
// outstanding token stays usable.
func (s *UserService) DeleteAccount(ctx context.Context, userID string, meta user.RequestMetadata) (bool, error) {
	deleted, err := s.users.SoftDelete(ctx, userID)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, nil
	}

	if _, err := s.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return true, fmt.Errorf("account deleted but failed to revoke sessions: %w", err)
	}

	s.recordAudit(ctx, userID, "DELETE_ACCOUNT", "user", userID, nil, meta)
	s.logger.Info("user account deleted", zap.String("user_id", userID))

	return true, nil
}

// ========== Sessions ==========

// GetActiveSessions lists the user's live sessions, flagging the one that
// matches the requester's current token jti.
func (s *UserService) GetActiveSessions(ctx context.Context, userID, currentJTI string) ([]session.Info, error) {
	sessions, err := s.sessions.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	infos := make([]session.Info, 0, len(sessions))
	for i := range sessions {
		infos = append(infos, sessions[i].ToInfo(currentJTI))
	}

	return infos, nil
}

// ========== Helpers ==========

func (s *UserService) recordAudit(ctx context.Context, userID, action, entityType, entityID string, changes map[string]interface{}, meta user.RequestMetadata) {
	entry := &user.AuditEntry{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   sql.NullString{String: entityID, Valid: entityID != ""},
		Changes:    changes,
		IPAddress:  sql.NullString{String: meta.IPAddress, Valid: meta.IPAddress != ""},
		UserAgent:  sql.NullString{String: meta.UserAgent, Valid: meta.UserAgent != ""},
	}

	if err := s.audit.Create(ctx, entry); err != nil {
		// Audit failures never fail the user-visible operation.
		s.logger.Error("failed to record audit entry",
			zap.String("user_id", userID),
			zap.String("action", action),
			zap.Error(err),
		)
	}
}

func profileChanges(current *user.Profile, req *user.UpdateProfileRequest) map[string]interface{} {
	changes := map[string]interface{}{}

	diffString(changes, "first_name", current.FirstName, req.FirstName)
	diffString(changes, "last_name", current.LastName, req.LastName)
	diffString(changes, "timezone", current.Timezone, req.Timezone)
	diffString(changes, "preferred_language", current.PreferredLanguage, req.PreferredLanguage)
	diffNullString(changes, "avatar_url", current.AvatarURL, req.AvatarURL)
	diffNullString(changes, "bio", current.Bio, req.Bio)

	return changes
}

func settingsChanges(current *user.Settings, req *user.UpdateSettingsRequest) map[string]interface{} {
	changes := map[string]interface{}{}

	if req.ProfileVisibility != nil && *req.ProfileVisibility != current.ProfileVisibility {
		changes["profile_visibility"] = change(current.ProfileVisibility, *req.ProfileVisibility)
	}
	diffBool(changes, "data_sharing_enabled", current.DataSharingEnabled, req.DataSharingEnabled)
	diffBool(changes, "email_notifications", current.EmailNotifications, req.EmailNotifications)
	diffBool(changes, "push_notifications", current.PushNotifications, req.PushNotifications)
	diffBool(changes, "sms_notifications", current.SMSNotifications, req.SMSNotifications)
	diffBool(changes, "marketing_emails", current.MarketingEmails, req.MarketingEmails)
	diffBool(changes, "security_alerts", current.SecurityAlerts, req.SecurityAlerts)
	diffBool(changes, "two_factor_enabled", current.TwoFactorEnabled, req.TwoFactorEnabled)

	return changes
}

func change(from, to interface{}) map[string]interface{} {
	return map[string]interface{}{"from": from, "to": to}
}

func diffString(changes map[string]interface{}, key, current string, updated *string) {
	if updated != nil && *updated != current {
		changes[key] = change(current, *updated)
	}
}

func diffNullString(changes map[string]interface{}, key string, current sql.NullString, updated *string) {
	if updated != nil && (!current.Valid || *updated != current.String) {
		from := interface{}(nil)
		if current.Valid {
			from = current.String
		}
		changes[key] = change(from, *updated)
	}
}

func diffBool(changes map[string]interface{}, key string, current bool, updated *bool) {
	if updated != nil && *updated != current {
		changes[key] = change(current, *updated)
	}
}
