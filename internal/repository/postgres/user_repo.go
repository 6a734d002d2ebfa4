// internal/repository/postgres/user_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slate-service/internal/domain/user"
	xerrors "slate-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
	tx *DB
}

func NewUserRepository(pool *pgxpool.Pool, tx *DB) *UserRepository {
	return &UserRepository{db: pool, tx: tx}
}

// ========== User Methods ==========

func (r *UserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, avatar_url, bio,
		       timezone, preferred_language, account_status, created_at, updated_at, deleted_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`
	return r.scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, email, password_hash, first_name, last_name, avatar_url, bio,
		       timezone, preferred_language, account_status, created_at, updated_at, deleted_at
		FROM users
		WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL
	`
	return r.scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *UserRepository) scanUser(row pgx.Row) (*user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.AvatarURL, &u.Bio,
		&u.Timezone, &u.PreferredLanguage, &u.AccountStatus, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return &u, nil
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) AND deleted_at IS NULL)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	return exists, nil
}

// CreateWithDefaultSettings inserts the user row and its default settings row
// in one transaction; a partial failure leaves neither behind. The email
// uniqueness constraint is what actually closes the pre-check race, so its
// violation surfaces as ErrEmailInUse rather than an internal fault.
func (r *UserRepository) CreateWithDefaultSettings(ctx context.Context, u *user.User) error {
	err := r.tx.WithTx(ctx, func(tx pgx.Tx) error {
		userQuery := `
			INSERT INTO users (email, password_hash, first_name, last_name)
			VALUES ($1, $2, $3, $4)
			RETURNING id, timezone, preferred_language, account_status, created_at, updated_at
		`

		err := tx.QueryRow(ctx, userQuery, u.Email, u.PasswordHash, u.FirstName, u.LastName).Scan(
			&u.ID, &u.Timezone, &u.PreferredLanguage, &u.AccountStatus, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `INSERT INTO user_settings (user_id) VALUES ($1)`, u.ID)
		return err
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return xerrors.ErrEmailInUse
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) GetProfile(ctx context.Context, userID string) (*user.Profile, error) {
	query := `
		SELECT id, email, first_name, last_name, avatar_url, bio,
		       timezone, preferred_language, account_status, created_at, updated_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`

	var p user.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.AvatarURL, &p.Bio,
		&p.Timezone, &p.PreferredLanguage, &p.AccountStatus, &p.CreatedAt, &p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &p, nil
}

func (r *UserRepository) GetPublicProfile(ctx context.Context, userID string) (*user.PublicProfile, error) {
	query := `
		SELECT id, first_name, last_name, avatar_url, bio
		FROM users
		WHERE id = $1 AND deleted_at IS NULL AND account_status = 'active'
	`

	var p user.PublicProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(&p.ID, &p.FirstName, &p.LastName, &p.AvatarURL, &p.Bio)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get public profile: %w", err)
	}

	return &p, nil
}

// UpdateProfile applies only the fields set in req and returns the updated
// profile.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.Profile, error) {
	query := `
		UPDATE users SET
			first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			avatar_url = COALESCE($3, avatar_url),
			bio = COALESCE($4, bio),
			timezone = COALESCE($5, timezone),
			preferred_language = COALESCE($6, preferred_language),
			updated_at = NOW()
		WHERE id = $7 AND deleted_at IS NULL
		RETURNING id, email, first_name, last_name, avatar_url, bio,
		          timezone, preferred_language, account_status, created_at, updated_at
	`

	var p user.Profile
	err := r.db.QueryRow(ctx, query,
		req.FirstName, req.LastName, req.AvatarURL, req.Bio,
		req.Timezone, req.PreferredLanguage, userID,
	).Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.AvatarURL, &p.Bio,
		&p.Timezone, &p.PreferredLanguage, &p.AccountStatus, &p.CreatedAt, &p.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return &p, nil
}

// SoftDelete marks the account deleted and reports whether a row changed.
func (r *UserRepository) SoftDelete(ctx context.Context, userID string) (bool, error) {
	query := `
		UPDATE users
		SET deleted_at = $1, account_status = 'deleted'
		WHERE id = $2 AND deleted_at IS NULL
	`

	result, err := r.db.Exec(ctx, query, time.Now(), userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ========== Settings Methods ==========

func (r *UserRepository) FindSettings(ctx context.Context, userID string) (*user.Settings, error) {
	query := `
		SELECT id, user_id, profile_visibility, data_sharing_enabled, email_notifications,
		       push_notifications, sms_notifications, marketing_emails, security_alerts,
		       two_factor_enabled, created_at, updated_at
		FROM user_settings
		WHERE user_id = $1
	`
	return r.scanSettings(r.db.QueryRow(ctx, query, userID))
}

func (r *UserRepository) CreateDefaultSettings(ctx context.Context, userID string) (*user.Settings, error) {
	query := `
		INSERT INTO user_settings (user_id)
		VALUES ($1)
		RETURNING id, user_id, profile_visibility, data_sharing_enabled, email_notifications,
		          push_notifications, sms_notifications, marketing_emails, security_alerts,
		          two_factor_enabled, created_at, updated_at
	`
	return r.scanSettings(r.db.QueryRow(ctx, query, userID))
}

func (r *UserRepository) UpdateSettings(ctx context.Context, userID string, req *user.UpdateSettingsRequest) (*user.Settings, error) {
	query := `
		UPDATE user_settings SET
			profile_visibility = COALESCE($1, profile_visibility),
			data_sharing_enabled = COALESCE($2, data_sharing_enabled),
			email_notifications = COALESCE($3, email_notifications),
			push_notifications = COALESCE($4, push_notifications),
			sms_notifications = COALESCE($5, sms_notifications),
			marketing_emails = COALESCE($6, marketing_emails),
			security_alerts = COALESCE($7, security_alerts),
			two_factor_enabled = COALESCE($8, two_factor_enabled),
			updated_at = NOW()
		WHERE user_id = $9
		RETURNING id, user_id, profile_visibility, data_sharing_enabled, email_notifications,
		          push_notifications, sms_notifications, marketing_emails, security_alerts,
		          two_factor_enabled, created_at, updated_at
	`
	return r.scanSettings(r.db.QueryRow(ctx, query,
		req.ProfileVisibility, req.DataSharingEnabled, req.EmailNotifications,
		req.PushNotifications, req.SMSNotifications, req.MarketingEmails,
		req.SecurityAlerts, req.TwoFactorEnabled, userID,
	))
}

func (r *UserRepository) scanSettings(row pgx.Row) (*user.Settings, error) {
	var s user.Settings
	err := row.Scan(
		&s.ID, &s.UserID, &s.ProfileVisibility, &s.DataSharingEnabled, &s.EmailNotifications,
		&s.PushNotifications, &s.SMSNotifications, &s.MarketingEmails, &s.SecurityAlerts,
		&s.TwoFactorEnabled, &s.CreatedAt, &s.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan settings: %w", err)
	}

	return &s, nil
}
