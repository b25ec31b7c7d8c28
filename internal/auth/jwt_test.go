package auth

import (
	"testing"
	"time"
)

func newTestIssuer(t *testing.T, ttl time.Duration) *Issuer {
	t.Helper()
	i, err := NewIssuer("test-secret", "HS256", ttl)
	if err != nil {
		t.Fatalf("NewIssuer() error: %v", err)
	}
	return i
}

func TestIssueAndParse(t *testing.T) {
	i := newTestIssuer(t, time.Hour)

	tok, err := i.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	email, err := i.Parse(tok)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if email != "user@example.com" {
		t.Errorf("Parse() subject = %q, want user@example.com", email)
	}
}

func TestParse_ZeroTTLIsExpired(t *testing.T) {
	i := newTestIssuer(t, 0)

	tok, err := i.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := i.Parse(tok); err == nil {
		t.Fatal("Parse() accepted a token issued with ttl=0")
	}
}

func TestParse_RejectsForeignSecret(t *testing.T) {
	issuer := newTestIssuer(t, time.Hour)
	other, err := NewIssuer("different-secret", "HS256", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer() error: %v", err)
	}

	tok, err := other.Issue("user@example.com")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if _, err := issuer.Parse(tok); err == nil {
		t.Fatal("Parse() accepted a token signed with another secret")
	}
}

func TestParse_RejectsMalformedToken(t *testing.T) {
	i := newTestIssuer(t, time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := i.Parse(raw); err == nil {
			t.Errorf("Parse(%q) accepted a malformed token", raw)
		}
	}
}

func TestNewIssuer_Validation(t *testing.T) {
	tests := []struct {
		name      string
		secret    string
		algorithm string
	}{
		{name: "empty secret", secret: "", algorithm: "HS256"},
		{name: "unknown algorithm", secret: "s", algorithm: "XX999"},
		{name: "non-HMAC algorithm", secret: "s", algorithm: "RS256"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewIssuer(tt.secret, tt.algorithm, time.Hour); err == nil {
				t.Error("NewIssuer() accepted invalid configuration")
			}
		})
	}
}
