// internal/repository/postgres/session_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slate-service/internal/domain/session"
	xerrors "slate-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type SessionRepository struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new live session. A jti collision surfaces as
// ErrDuplicateJTI; callers generate fresh random jtis so this indicates a
// caller bug, not a retryable condition.
func (r *SessionRepository) Create(ctx context.Context, s *session.Session) error {
	query := `
		INSERT INTO user_sessions (user_id, token_jti, device_info, ip_address, user_agent, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, last_active_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.UserID, s.TokenJTI, s.DeviceInfo, s.IPAddress, s.UserAgent, s.ExpiresAt,
	).Scan(&s.ID, &s.CreatedAt, &s.LastActiveAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return xerrors.ErrDuplicateJTI
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// FindByJTI is a point lookup with no expiry filtering; liveness is the
// caller's decision.
func (r *SessionRepository) FindByJTI(ctx context.Context, jti string) (*session.Session, error) {
	query := `
		SELECT id, user_id, token_jti, device_info, ip_address, user_agent,
		       expires_at, created_at, last_active_at
		FROM user_sessions
		WHERE token_jti = $1
	`

	var s session.Session
	err := r.db.QueryRow(ctx, query, jti).Scan(
		&s.ID, &s.UserID, &s.TokenJTI, &s.DeviceInfo, &s.IPAddress, &s.UserAgent,
		&s.ExpiresAt, &s.CreatedAt, &s.LastActiveAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return &s, nil
}

// FindActiveByUser returns the user's live sessions, most recently active
// first.
func (r *SessionRepository) FindActiveByUser(ctx context.Context, userID string) ([]session.Session, error) {
	query := `
		SELECT id, user_id, token_jti, device_info, ip_address, user_agent,
		       expires_at, created_at, last_active_at
		FROM user_sessions
		WHERE user_id = $1 AND expires_at > NOW()
		ORDER BY last_active_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []session.Session{}
	for rows.Next() {
		var s session.Session
		err := rows.Scan(
			&s.ID, &s.UserID, &s.TokenJTI, &s.DeviceInfo, &s.IPAddress, &s.UserAgent,
			&s.ExpiresAt, &s.CreatedAt, &s.LastActiveAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// Touch bumps last_active_at. A missing row is not an error; a logout racing
// a concurrent request is tolerated silently.
func (r *SessionRepository) Touch(ctx context.Context, jti string) error {
	query := `UPDATE user_sessions SET last_active_at = $1 WHERE token_jti = $2`
	_, err := r.db.Exec(ctx, query, time.Now(), jti)
	return err
}

// DeleteByID deletes the session only if it belongs to userID, and reports
// whether a row was removed.
func (r *SessionRepository) DeleteByID(ctx context.Context, sessionID, userID string) (bool, error) {
	query := `DELETE FROM user_sessions WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, sessionID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *SessionRepository) DeleteByJTI(ctx context.Context, jti string) (bool, error) {
	query := `DELETE FROM user_sessions WHERE token_jti = $1`

	result, err := r.db.Exec(ctx, query, jti)
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *SessionRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM user_sessions WHERE user_id = $1`

	result, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}

	return result.RowsAffected(), nil
}

// SweepExpired purges rows past expiry. Best-effort maintenance; liveness is
// still checked at authentication time.
func (r *SessionRepository) SweepExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM user_sessions WHERE expires_at <= NOW()`

	result, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", err)
	}

	return result.RowsAffected(), nil
}
