// internal/pkg/token/codec.go
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// Verification failures form a closed set so callers can handle every case.
var (
	ErrMalformedToken = errors.New("malformed token")
	ErrBadSignature   = errors.New("bad token signature")
	ErrTokenExpired   = errors.New("token expired")
)

type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Codec signs and verifies access tokens with a shared HMAC secret. It is
// stateless; the secret is injected once at construction and never read from
// ambient state.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewCodec(cfg Config) (*Codec, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("token codec requires a signing secret")
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Codec{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    ttl,
	}, nil
}

func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// NewJTI returns a fresh unique token identifier.
func (c *Codec) NewJTI() string {
	return ulid.Make().String()
}

// Issue signs a token for the given user with the codec's fixed validity
// window. Issued-at and expiry are embedded in the signed payload.
func (c *Codec) Issue(userID, email, jti string) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a signed token. Failures are always one of
// ErrMalformedToken, ErrBadSignature or ErrTokenExpired.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrMalformedToken
		}
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrMalformedToken
	}

	if c.issuer != "" && claims.Issuer != c.issuer {
		return nil, ErrBadSignature
	}

	return claims, nil
}
