package editor

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
)

var (
	// ErrTokenExpired is returned for a well-formed token past its expiry.
	ErrTokenExpired = errors.New("editor: token expired")
	// ErrTokenMalformed is returned for a token that fails to parse or verify.
	ErrTokenMalformed = errors.New("editor: token malformed")
)

// State is the login state derived from a token.
type State int

const (
	LoggedOut State = iota
	LoggedIn
)

func (s State) String() string {
	if s == LoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

const tokenSubject = "vra-seniors-editor"

// Tokens issues and verifies HS256 session tokens. The token id is the
// editing session id and the expiry is the session creation time plus ttl.
type Tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokens creates a token signer. A non-positive ttl uses DefaultTTL.
func NewTokens(key []byte, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Tokens{key: key, ttl: ttl, now: time.Now}
}

// WithClock replaces the clock used for expiry checks.
func (t *Tokens) WithClock(now func() time.Time) *Tokens {
	c := *t
	c.now = now
	return &c
}

// Issue signs a token for sessionID created at created.
func (t *Tokens) Issue(sessionID string, created time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   tokenSubject,
		IssuedAt:  jwt.NewNumericDate(created),
		ExpiresAt: jwt.NewNumericDate(created.Add(t.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", fmt.Errorf("editor: sign token: %w", err)
	}
	return signed, nil
}

// Verify checks raw and returns the session id it carries.
func (t *Tokens) Verify(raw string) (string, error) {
	if raw == "" {
		return "", ErrTokenMalformed
	}
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.key, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if claims.ID == "" || claims.Subject != tokenSubject {
		return "", ErrTokenMalformed
	}
	if !claims.VerifyExpiresAt(t.now(), true) {
		return "", ErrTokenExpired
	}
	return claims.ID, nil
}

// State maps a token to a login state. Any verification error is LoggedOut.
func (t *Tokens) State(raw string) State {
	if _, err := t.Verify(raw); err != nil {
		return LoggedOut
	}
	return LoggedIn
}
