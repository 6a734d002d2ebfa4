// internal/service/auth/auth.go
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"slate-service/internal/domain/session"
	"slate-service/internal/domain/user"
	xerrors "slate-service/internal/pkg/errors"
	"slate-service/internal/pkg/token"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the slice of the user repository the lifecycle service needs.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateWithDefaultSettings(ctx context.Context, u *user.User) error
}

type SessionStore interface {
	Create(ctx context.Context, s *session.Session) error
	FindActiveByUser(ctx context.Context, userID string) ([]session.Session, error)
	DeleteByID(ctx context.Context, sessionID, userID string) (bool, error)
	DeleteByJTI(ctx context.Context, jti string) (bool, error)
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

// LoginLimiter throttles login attempts per origin.
type LoginLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, ip, email string) error
}

// Welcomer posts the account-created notification after registration.
type Welcomer interface {
	SendWelcome(ctx context.Context, userID string) error
}

// PlanSeeder provisions the default subscription for a new account.
type PlanSeeder interface {
	EnsureDefault(ctx context.Context, userID string) error
}

// AuthService orchestrates registration, login and the logout variants. Each
// successful login/registration binds one freshly issued token to one new
// session row via the jti.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	codec    *token.Codec
	limiter  LoginLimiter
	welcomer Welcomer
	plans    PlanSeeder
	logger   *zap.Logger
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	codec *token.Codec,
	limiter LoginLimiter,
	welcomer Welcomer,
	plans PlanSeeder,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		codec:    codec,
		limiter:  limiter,
		welcomer: welcomer,
		plans:    plans,
		logger:   logger,
	}
}

// ========== Registration ==========

// Register creates a new account with its default settings in one atomic
// unit, then issues a token and a matching session.
func (s *AuthService) Register(ctx context.Context, req *user.RegisterRequest, meta session.Metadata) (*user.AuthResponse, error) {
	// Pre-check; the store's uniqueness constraint closes the remaining race.
	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, xerrors.ErrEmailInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &user.User{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}

	if err := s.users.CreateWithDefaultSettings(ctx, u); err != nil {
		return nil, err
	}

	if err := s.welcomer.SendWelcome(ctx, u.ID); err != nil {
		// Registration already succeeded; log only.
		s.logger.Error("failed to send welcome notification",
			zap.String("user_id", u.ID),
			zap.Error(err),
		)
	}

	if err := s.plans.EnsureDefault(ctx, u.ID); err != nil {
		// Same as above; first subscription read provisions it anyway.
		s.logger.Error("failed to seed default subscription",
			zap.String("user_id", u.ID),
			zap.Error(err),
		)
	}

	signed, err := s.issueSession(ctx, u.ID, u.Email, meta)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID),
		zap.String("email", u.Email),
	)

	return &user.AuthResponse{UserID: u.ID, Token: signed}, nil
}

// ========== Login ==========

// Login authenticates a user with email/password. Unknown email, inactive
// account and wrong password all collapse into ErrInvalidCredentials so
// callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error) {
	allowed, _, err := s.limiter.CheckLoginAttempt(ctx, req.IPAddress, req.Email)
	if err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}
	if !allowed {
		return nil, xerrors.ErrRateLimited
	}

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if u.AccountStatus != user.StatusActive {
		return nil, xerrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrInvalidCredentials
	}

	if err := s.limiter.ResetLoginAttempts(ctx, req.IPAddress, req.Email); err != nil {
		s.logger.Warn("failed to reset login attempts", zap.Error(err))
	}

	signed, err := s.issueSession(ctx, u.ID, u.Email, session.Metadata{
		DeviceInfo: req.DeviceInfo,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in",
		zap.String("user_id", u.ID),
		zap.String("ip", req.IPAddress),
	)

	return &user.AuthResponse{UserID: u.ID, Token: signed}, nil
}

// issueSession generates a fresh jti, signs a token for it and creates the
// matching session row with the same validity window.
func (s *AuthService) issueSession(ctx context.Context, userID, email string, meta session.Metadata) (string, error) {
	jti := s.codec.NewJTI()

	signed, err := s.codec.Issue(userID, email, jti)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	sess := &session.Session{
		UserID:     userID,
		TokenJTI:   jti,
		DeviceInfo: nullString(meta.DeviceInfo),
		IPAddress:  nullString(meta.IPAddress),
		UserAgent:  nullString(meta.UserAgent),
		ExpiresAt:  time.Now().Add(s.codec.TTL()),
	}

	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return signed, nil
}

// ========== Logout ==========

// Logout revokes the session behind the caller's current token. The token
// itself stays cryptographically valid until expiry but no longer admits.
func (s *AuthService) Logout(ctx context.Context, userID, jti string) error {
	deleted, err := s.sessions.DeleteByJTI(ctx, jti)
	if err != nil {
		return err
	}
	if !deleted {
		// Already revoked elsewhere; logout is idempotent.
		s.logger.Debug("logout on already revoked session", zap.String("user_id", userID))
		return nil
	}

	s.logger.Info("user logged out", zap.String("user_id", userID))
	return nil
}

// LogoutSession deletes one session, only if it belongs to userID.
func (s *AuthService) LogoutSession(ctx context.Context, userID, sessionID string) (bool, error) {
	deleted, err := s.sessions.DeleteByID(ctx, sessionID, userID)
	if err != nil {
		return false, err
	}

	if deleted {
		s.logger.Info("session logged out",
			zap.String("user_id", userID),
			zap.String("session_id", sessionID),
		)
	}

	return deleted, nil
}

// LogoutAll deletes the user's sessions. With exceptJTI set it enumerates the
// active sessions and deletes every one whose jti differs; sessions created
// concurrently may survive, which is acceptable for a user-initiated bulk
// action.
func (s *AuthService) LogoutAll(ctx context.Context, userID, exceptJTI string) (int64, error) {
	if exceptJTI == "" {
		count, err := s.sessions.DeleteAllForUser(ctx, userID)
		if err != nil {
			return 0, err
		}

		s.logger.Info("all sessions logged out",
			zap.String("user_id", userID),
			zap.Int64("count", count),
		)
		return count, nil
	}

	sessions, err := s.sessions.FindActiveByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	var count int64
	for _, sess := range sessions {
		if sess.TokenJTI == exceptJTI {
			continue
		}
		deleted, err := s.sessions.DeleteByID(ctx, sess.ID, userID)
		if err != nil {
			return count, err
		}
		if deleted {
			count++
		}
	}

	s.logger.Info("sessions logged out except current",
		zap.String("user_id", userID),
		zap.Int64("count", count),
	)

	return count, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
