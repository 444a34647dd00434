package session

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func TestRandomToken_Entropy(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := randomToken()
		if err != nil {
			t.Fatalf("randomToken err: %v", err)
		}
		// 32 bytes -> 43 chars base64url sin padding
		if len(tok) != 43 {
			t.Fatalf("unexpected token length: got %d want 43 (%q)", len(tok), tok)
		}
		if _, err := base64.RawURLEncoding.DecodeString(tok); err != nil {
			t.Fatalf("token is not base64url: %v", err)
		}
		if seen[tok] {
			t.Fatalf("duplicate token: %q", tok)
		}
		seen[tok] = true
	}
}

func TestChallengeS256_RFC7636Appendix(t *testing.T) {
	// Vector del RFC 7636 apéndice B.
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	want := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
	if got := challengeS256(verifier); got != want {
		t.Fatalf("challenge mismatch: got %q want %q", got, want)
	}
}

func TestNewSession_ChallengeMatchesVerifier(t *testing.T) {
	sess, err := newSession()
	if err != nil {
		t.Fatalf("newSession err: %v", err)
	}
	if sess.Key == "" || sess.Verifier == "" || sess.Challenge == "" {
		t.Fatalf("incomplete session: %+v", sess)
	}
	if sess.Key == sess.Verifier {
		t.Fatalf("key and verifier must be independent")
	}
	sum := sha256.Sum256([]byte(sess.Verifier))
	if want := base64.RawURLEncoding.EncodeToString(sum[:]); sess.Challenge != want {
		t.Fatalf("challenge does not derive from verifier: got %q want %q", sess.Challenge, want)
	}
}
