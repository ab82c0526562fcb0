package editor

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	now := t0
	tokens := NewTokens([]byte("test-key"), 2*time.Hour).WithClock(func() time.Time { return now })

	raw, err := tokens.Issue("session-1", t0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	now = t0.Add(90 * time.Minute)
	id, err := tokens.Verify(raw)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id != "session-1" {
		t.Errorf("id = %q", id)
	}
	if tokens.State(raw) != LoggedIn {
		t.Error("State = LoggedOut for a live token")
	}

	now = t0.Add(2*time.Hour + time.Second)
	if _, err := tokens.Verify(raw); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify(expired) = %v, want ErrTokenExpired", err)
	}
	if tokens.State(raw) != LoggedOut {
		t.Error("State = LoggedIn for an expired token")
	}
}

func TestTokenRejectsTampering(t *testing.T) {
	tokens := NewTokens([]byte("test-key"), time.Hour).WithClock(func() time.Time { return t0 })
	raw, err := tokens.Issue("session-1", t0)
	if err != nil {
		t.Fatal(err)
	}

	otherKey := NewTokens([]byte("other-key"), time.Hour).WithClock(func() time.Time { return t0 })
	parts := strings.Split(raw, ".")

	cases := map[string]string{
		"empty":     "",
		"garbage":   "not-a-token",
		"truncated": parts[0] + "." + parts[1],
		"bad sig":   parts[0] + "." + parts[1] + ".AAAA",
	}
	for name, tok := range cases {
		if _, err := tokens.Verify(tok); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("%s: Verify = %v, want ErrTokenMalformed", name, err)
		}
		if tokens.State(tok) != LoggedOut {
			t.Errorf("%s: State = LoggedIn", name)
		}
	}
	if _, err := otherKey.Verify(raw); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify with wrong key = %v, want ErrTokenMalformed", err)
	}
}

func TestStateString(t *testing.T) {
	if LoggedIn.String() != "logged_in" || LoggedOut.String() != "logged_out" {
		t.Errorf("State strings = %q %q", LoggedIn, LoggedOut)
	}
}
