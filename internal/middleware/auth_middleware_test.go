// internal/middleware/auth_middleware_test.go
package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"slate-service/internal/domain/session"
	"slate-service/internal/pkg/authn"
	xerrors "slate-service/internal/pkg/errors"
	"slate-service/internal/pkg/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func (m *memSessionStore) FindByJTI(ctx context.Context, jti string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[jti]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionStore) Touch(ctx context.Context, jti string) error {
	return nil
}

func setupRouter(t *testing.T) (*gin.Engine, *token.Codec, *memSessionStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := token.NewCodec(token.Config{Secret: "test-secret", Issuer: "slate-api", TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	store := &memSessionStore{sessions: map[string]*session.Session{}}
	pipeline := authn.NewPipeline(codec, store, zap.NewNop())

	r := gin.New()
	auth := NewAuthMiddleware(pipeline, zap.NewNop())
	r.GET("/protected", auth.Auth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": MustGetUserID(c),
			"jti":     MustGetJTI(c),
		})
	})
	return r, codec, store
}

func doRequest(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_AdmitAttachesIdentity(t *testing.T) {
	r, codec, store := setupRouter(t)

	jti := codec.NewJTI()
	signed, err := codec.Issue("user-1", "user@example.com", jti)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	store.sessions[jti] = &session.Session{
		ID:        "sess-1",
		UserID:    "user-1",
		TokenJTI:  jti,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	w := doRequest(r, "Bearer "+signed)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body["user_id"] != "user-1" {
		t.Errorf("user_id = %q, want user-1", body["user_id"])
	}
	if body["jti"] != jti {
		t.Errorf("jti = %q, want %q", body["jti"], jti)
	}
}

func TestAuth_RejectionBodies(t *testing.T) {
	r, codec, _ := setupRouter(t)

	// Token valid but no session row behind it.
	orphan, err := codec.Issue("user-1", "user@example.com", codec.NewJTI())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := []struct {
		name          string
		authorization string
		status        int
		errBody       string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authentication required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Authentication required"},
		{"garbage token", "Bearer nope", http.StatusUnauthorized, "Invalid token"},
		{"no session", "Bearer " + orphan, http.StatusUnauthorized, "Invalid or expired session"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, tc.authorization)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d", w.Code, tc.status)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("bad body: %v", err)
			}
			if body["error"] != tc.errBody {
				t.Errorf("error = %q, want %q", body["error"], tc.errBody)
			}
			if len(body) != 1 {
				t.Errorf("body = %v, want only the error field", body)
			}
		})
	}
}
