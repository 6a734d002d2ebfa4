// internal/pkg/token/codec_test.go
package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestCodec(t *testing.T, ttl time.Duration) *Codec {
	t.Helper()
	codec, err := NewCodec(Config{Secret: "test-secret", Issuer: "slate-api", TTL: ttl})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return codec
}

func TestNewCodec_RequiresSecret(t *testing.T) {
	if _, err := NewCodec(Config{Issuer: "slate-api"}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestNewCodec_DefaultTTL(t *testing.T) {
	codec := newTestCodec(t, 0)
	if got, want := codec.TTL(), 7*24*time.Hour; got != want {
		t.Errorf("TTL() = %v, want %v", got, want)
	}
}

func TestIssueVerify_Roundtrip(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	jti := codec.NewJTI()
	signed, err := codec.Issue("user-1", "user@example.com", jti)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", claims.UserID, "user-1")
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q, want %q", claims.Email, "user@example.com")
	}
	if claims.ID != jti {
		t.Errorf("jti = %q, want %q", claims.ID, jti)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Error("expiry not after issued-at")
	}
}

func TestNewJTI_Unique(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		jti := codec.NewJTI()
		if seen[jti] {
			t.Fatalf("duplicate jti %q", jti)
		}
		seen[jti] = true
	}
}

func TestVerify_Expired(t *testing.T) {
	codec := newTestCodec(t, -time.Minute)

	signed, err := codec.Issue("user-1", "user@example.com", codec.NewJTI())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = codec.Verify(signed)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("err = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	other, err := NewCodec(Config{Secret: "another-secret", Issuer: "slate-api", TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	signed, err := other.Issue("user-1", "user@example.com", other.NewJTI())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, err = codec.Verify(signed)
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("err = %v, want ErrBadSignature", err)
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	signed, err := codec.Issue("user-1", "user@example.com", codec.NewJTI())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	parts := strings.Split(signed, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = codec.Verify(tampered)
	if !errors.Is(err, ErrBadSignature) {
		t.Errorf("err = %v, want ErrBadSignature", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	codec := newTestCodec(t, time.Hour)

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := codec.Verify(tok); !errors.Is(err, ErrMalformedToken) {
			t.Errorf("Verify(%q) err = %v, want ErrMalformedToken", tok, err)
		}
	}
}

func TestVerify_IssuerMismatch(t *testing.T) {
	codec := newTestCodec(t, time.Hour)
	other, err := NewCodec(Config{Secret: "test-secret", Issuer: "someone-else", TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	signed, err := other.Issue("user-1", "user@example.com", other.NewJTI())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := codec.Verify(signed); !errors.Is(err, ErrBadSignature) {
		t.Errorf("err = %v, want ErrBadSignature", err)
	}
}
