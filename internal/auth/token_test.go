package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	t.Parallel()
	tokens := Tokens{Secret: []byte("test-secret-test-secret-test-sec"), TTL: time.Hour}

	raw, err := tokens.Issue("juliette")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	sess, err := tokens.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if sess.Username != "juliette" {
		t.Errorf("Username: got %q, want %q", sess.Username, "juliette")
	}
	if !sess.Active(time.Now()) {
		t.Error("freshly issued session should be active")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	t.Parallel()
	tokens := Tokens{Secret: []byte("test-secret-test-secret-test-sec"), TTL: -time.Minute}

	raw, err := tokens.Issue("juliette")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := tokens.Parse(raw); err == nil {
		t.Error("Parse of an expired token: got nil error, want error")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	issuer := Tokens{Secret: []byte("issuer-secret-issuer-secret-1234"), TTL: time.Hour}
	verifier := Tokens{Secret: []byte("other-secret-other-secret-567890"), TTL: time.Hour}

	raw, err := issuer.Issue("juliette")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Parse(raw); err == nil {
		t.Error("Parse with a different secret: got nil error, want error")
	}
}

func TestSessionActive(t *testing.T) {
	t.Parallel()
	var nilSession *Session
	if nilSession.Active(time.Now()) {
		t.Error("nil session must not be active")
	}
}
