// internal/middleware/auth_middleware.go
package middleware

import (
	"slate-service/internal/pkg/authn"
	"slate-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	pipeline *authn.Pipeline
	logger   *zap.Logger
}

func NewAuthMiddleware(pipeline *authn.Pipeline, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		pipeline: pipeline,
		logger:   logger,
	}
}

// Auth admits or rejects the request via the authentication pipeline. On
// admit the verified identity is attached to the gin context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, rejection := m.pipeline.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if rejection != nil {
			if rejection.Reason == authn.InternalError {
				m.logger.Error("authentication pipeline error",
					zap.String("path", c.Request.URL.Path),
					zap.Error(rejection.Err),
				)
			}
			response.AuthError(c, rejection.Reason.Status(), rejection.Reason.Message())
			return
		}

		c.Set("user_id", identity.UserID)
		c.Set("email", identity.Email)
		c.Set("jti", identity.JTI)

		c.Next()
	}
}
