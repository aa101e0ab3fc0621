package security

import (
	"strings"
	"testing"
	"time"

	"github.com/homeroot/mesh/platform/identity"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewTokenCodecRejectsShortSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenCodec("too-short"); err == nil {
		t.Fatalf("expected error for short secret")
	}
	if _, err := NewTokenCodec(testSecret); err != nil {
		t.Fatalf("valid secret rejected: %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	codec, err := NewTokenCodec(testSecret)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}

	p := identity.Principal{
		ID:       42,
		Username: "alice",
		Roles:    []identity.Role{identity.RoleAdmin, identity.RoleUser},
	}
	raw, err := codec.Issue(p, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if parts := strings.Split(raw, "."); len(parts) != 3 {
		t.Fatalf("expected compact JWT, got %q", raw)
	}

	got, err := codec.Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != p.ID || got.Username != p.Username {
		t.Fatalf("decoded principal = %+v, want %+v", got, p)
	}
	if !got.IsAdmin() || !got.HasRole(identity.RoleUser) {
		t.Fatalf("decoded roles = %v", got.Roles)
	}
}

func TestDecodeRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	codec, _ := NewTokenCodec(testSecret)
	raw, err := codec.Issue(identity.Principal{ID: 1, Username: "bob"}, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := codec.Decode(raw); err == nil {
		t.Fatalf("expected error for expired token")
	}
}

func TestDecodeRejectsForeignSecret(t *testing.T) {
	t.Parallel()

	issuer, _ := NewTokenCodec(testSecret)
	verifier, _ := NewTokenCodec("ffffffffffffffffffffffffffffffff")

	raw, err := issuer.Issue(identity.Principal{ID: 1, Username: "bob"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Decode(raw); err == nil {
		t.Fatalf("expected signature verification failure")
	}
}

func TestDecodeRejectsMissingSubject(t *testing.T) {
	t.Parallel()

	codec, _ := NewTokenCodec(testSecret)
	raw, err := codec.Issue(identity.Principal{ID: 5}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := codec.Decode(raw); err == nil {
		t.Fatalf("expected error for token without subject")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	codec, _ := NewTokenCodec(testSecret)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := codec.Decode(raw); err == nil {
			t.Fatalf("expected error decoding %q", raw)
		}
	}
}
