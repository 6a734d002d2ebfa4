// internal/pkg/authn/authn.go
package authn

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"slate-service/internal/domain/session"
	xerrors "slate-service/internal/pkg/errors"
	"slate-service/internal/pkg/token"

	"go.uber.org/zap"
)

// RejectReason is the closed set of terminal rejection states. Token-level
// and session-level failures are distinct internally but all map to 401 so
// clients cannot tell which check failed.
type RejectReason int

const (
	AuthenticationRequired RejectReason = iota + 1
	InvalidToken
	TokenExpired
	InvalidOrExpiredSession
	InternalError
)

func (r RejectReason) Message() string {
	switch r {
	case AuthenticationRequired:
		return "Authentication required"
	case InvalidToken:
		return "Invalid token"
	case TokenExpired:
		return "Token expired"
	case InvalidOrExpiredSession:
		return "Invalid or expired session"
	default:
		return "Internal server error"
	}
}

func (r RejectReason) Status() int {
	if r == InternalError {
		return http.StatusInternalServerError
	}
	return http.StatusUnauthorized
}

// Rejection is the reject outcome of one authentication attempt. Err holds
// the underlying cause for logging and is never exposed to clients.
type Rejection struct {
	Reason RejectReason
	Err    error
}

// Identity is the verified payload attached to an admitted request.
type Identity struct {
	UserID string
	Email  string
	JTI    string
}

// SessionStore is the slice of the session repository the pipeline needs.
type SessionStore interface {
	FindByJTI(ctx context.Context, jti string) (*session.Session, error)
	Touch(ctx context.Context, jti string) error
}

// Pipeline decides admit/reject for a single request. Token signature
// validity alone is never sufficient: a live session row with the token's
// jti must also exist.
type Pipeline struct {
	codec    *token.Codec
	sessions SessionStore
	logger   *zap.Logger
}

func NewPipeline(codec *token.Codec, sessions SessionStore, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		codec:    codec,
		sessions: sessions,
		logger:   logger,
	}
}

// Authenticate runs the full admit/reject decision for the given
// Authorization header value. On admit it bumps the session's last-active
// timestamp; a failed bump never fails the request.
func (p *Pipeline) Authenticate(ctx context.Context, authorization string) (*Identity, *Rejection) {
	credential, ok := extractBearer(authorization)
	if !ok {
		return nil, &Rejection{Reason: AuthenticationRequired}
	}

	claims, err := p.codec.Verify(credential)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrTokenExpired):
			return nil, &Rejection{Reason: TokenExpired, Err: err}
		case errors.Is(err, token.ErrBadSignature), errors.Is(err, token.ErrMalformedToken):
			return nil, &Rejection{Reason: InvalidToken, Err: err}
		default:
			return nil, &Rejection{Reason: InternalError, Err: err}
		}
	}

	sess, err := p.sessions.FindByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, &Rejection{Reason: InvalidOrExpiredSession}
		}
		return nil, &Rejection{Reason: InternalError, Err: err}
	}

	// Expiry is enforced here regardless of any filtering the store does:
	// a revoked or swept session must reject even if the token itself is
	// still cryptographically valid.
	if !sess.Live(time.Now()) {
		return nil, &Rejection{Reason: InvalidOrExpiredSession}
	}

	if err := p.sessions.Touch(ctx, claims.ID); err != nil {
		p.logger.Warn("session heartbeat failed",
			zap.String("jti", claims.ID),
			zap.Error(err),
		)
	}

	return &Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		JTI:    claims.ID,
	}, nil
}

func extractBearer(authorization string) (string, bool) {
	if authorization == "" {
		return "", false
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
