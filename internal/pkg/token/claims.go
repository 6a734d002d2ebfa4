// internal/pkg/token/claims.go
package token

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed payload carried by every access token. The JTI
// (RegisteredClaims.ID) is the join key to the server-side session row.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
