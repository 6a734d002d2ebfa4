// internal/pkg/authn/authn_test.go
package authn

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"slate-service/internal/domain/session"
	xerrors "slate-service/internal/pkg/errors"
	"slate-service/internal/pkg/token"

	"go.uber.org/zap"
)

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
	findErr  error
	touchErr error
	touched  []string
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]*session.Session{}}
}

func (m *memSessionStore) add(jti string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[jti] = &session.Session{
		ID:        "sess-" + jti,
		UserID:    "user-1",
		TokenJTI:  jti,
		ExpiresAt: expiresAt,
	}
}

func (m *memSessionStore) remove(jti string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, jti)
}

func (m *memSessionStore) FindByJTI(ctx context.Context, jti string) (*session.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	s, ok := m.sessions[jti]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessionStore) Touch(ctx context.Context, jti string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.touchErr != nil {
		return m.touchErr
	}
	m.touched = append(m.touched, jti)
	return nil
}

func newTestPipeline(t *testing.T) (*Pipeline, *token.Codec, *memSessionStore) {
	t.Helper()
	codec, err := token.NewCodec(token.Config{Secret: "test-secret", Issuer: "slate-api", TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	store := newMemSessionStore()
	return NewPipeline(codec, store, zap.NewNop()), codec, store
}

func issue(t *testing.T, codec *token.Codec) (string, string) {
	t.Helper()
	jti := codec.NewJTI()
	signed, err := codec.Issue("user-1", "user@example.com", jti)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return signed, jti
}

func TestAuthenticate_Admit(t *testing.T) {
	pipeline, codec, store := newTestPipeline(t)

	signed, jti := issue(t, codec)
	store.add(jti, time.Now().Add(time.Hour))

	identity, rejection := pipeline.Authenticate(context.Background(), "Bearer "+signed)
	if rejection != nil {
		t.Fatalf("unexpected rejection: %v", rejection.Reason)
	}

	if identity.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", identity.UserID, "user-1")
	}
	if identity.Email != "user@example.com" {
		t.Errorf("Email = %q, want %q", identity.Email, "user@example.com")
	}
	if identity.JTI != jti {
		t.Errorf("JTI = %q, want %q", identity.JTI, jti)
	}

	if len(store.touched) != 1 || store.touched[0] != jti {
		t.Errorf("touched = %v, want [%s]", store.touched, jti)
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	for _, header := range []string{"", "Bearer", "Bearer ", "Basic abc", "tok"} {
		_, rejection := pipeline.Authenticate(context.Background(), header)
		if rejection == nil {
			t.Fatalf("header %q: expected rejection", header)
		}
		if rejection.Reason != AuthenticationRequired {
			t.Errorf("header %q: reason = %v, want AuthenticationRequired", header, rejection.Reason)
		}
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	pipeline, _, _ := newTestPipeline(t)

	_, rejection := pipeline.Authenticate(context.Background(), "Bearer not-a-token")
	if rejection == nil || rejection.Reason != InvalidToken {
		t.Fatalf("rejection = %+v, want InvalidToken", rejection)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	expiredCodec, err := token.NewCodec(token.Config{Secret: "test-secret", Issuer: "slate-api", TTL: -time.Minute})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	pipeline, _, _ := newTestPipeline(t)

	signed, _ := issue(t, expiredCodec)

	_, rejection := pipeline.Authenticate(context.Background(), "Bearer "+signed)
	if rejection == nil || rejection.Reason != TokenExpired {
		t.Fatalf("rejection = %+v, want TokenExpired", rejection)
	}
}

// A valid signature alone never admits: the session row must exist.
func TestAuthenticate_NoSessionRow(t *testing.T) {
	pipeline, codec, _ := newTestPipeline(t)

	signed, _ := issue(t, codec)

	_, rejection := pipeline.Authenticate(context.Background(), "Bearer "+signed)
	if rejection == nil || rejection.Reason != InvalidOrExpiredSession {
		t.Fatalf("rejection = %+v, want InvalidOrExpiredSession", rejection)
	}
}

// Deleting the session row revokes a token that is otherwise still valid.
func TestAuthenticate_RevokedByDeletion(t *testing.T) {
	pipeline, codec, store := newTestPipeline(t)

	signed, jti := issue(t, codec)
	store.add(jti, time.Now().Add(time.Hour))

	if _, rejection := pipeline.Authenticate(context.Background(), "Bearer "+signed); rejection != nil {
		t.Fatalf("precondition: expected admit, got %v", rejection.Reason)
	}

	store.remove(jti)

	_, rejection := pipeline.Authenticate(context.Background(), "Bearer "+signed)
	if rejection == nil || rejection.Reason != InvalidOrExpiredSession {
		t.Fatalf("rejection = %+v, want InvalidOrExpiredSession after revocation", rejection)
	}
}

// A session row past its expiry rejects even when the store returns it.
func TestAuthenticate_ExpiredSessionRow(t *testing.T) {
	pipeline, codec, store := newTestPipeline(t)

	signed, jti := issue(t, codec)
	store.add(jti, time.Now().Add(-time.Minute))

	_, rejection := pipeline.Authenticate(context.Background(), "Bearer "+signed)
	if rejection == nil || rejection.Reason != InvalidOrExpiredSession {
		t.Fatalf("rejection = %+v, want InvalidOrExpiredSession", rejection)
	}
}

func TestAuthenticate_StoreFailure(t *testing.T) {
	pipeline, codec, store := newTestPipeline(t)

	signed, _ := issue(t, codec)
	store.findErr = errors.New("connection refused")

	_, rejection := pipeline.Authenticate(context.Background(), "Bearer "+signed)
	if rejection == nil || rejection.Reason != InternalError {
		t.Fatalf("rejection = %+v, want InternalError", rejection)
	}
}

// A failed last-active bump must not reject an otherwise valid request.
func TestAuthenticate_TouchFailureStillAdmits(t *testing.T) {
	pipeline, codec, store := newTestPipeline(t)

	signed, jti := issue(t, codec)
	store.add(jti, time.Now().Add(time.Hour))
	store.touchErr = errors.New("write timeout")

	identity, rejection := pipeline.Authenticate(context.Background(), "Bearer "+signed)
	if rejection != nil {
		t.Fatalf("unexpected rejection: %v", rejection.Reason)
	}
	if identity.JTI != jti {
		t.Errorf("JTI = %q, want %q", identity.JTI, jti)
	}
}

func TestRejectReason_StatusAndMessage(t *testing.T) {
	cases := []struct {
		reason  RejectReason
		status  int
		message string
	}{
		{AuthenticationRequired, http.StatusUnauthorized, "Authentication required"},
		{InvalidToken, http.StatusUnauthorized, "Invalid token"},
		{TokenExpired, http.StatusUnauthorized, "Token expired"},
		{InvalidOrExpiredSession, http.StatusUnauthorized, "Invalid or expired session"},
		{InternalError, http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		if got := tc.reason.Status(); got != tc.status {
			t.Errorf("%v Status() = %d, want %d", tc.reason, got, tc.status)
		}
		if got := tc.reason.Message(); got != tc.message {
			t.Errorf("%v Message() = %q, want %q", tc.reason, got, tc.message)
		}
	}
}
