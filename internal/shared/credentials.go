package shared

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SignIn stores the API token and operator and rotates the session id.
func (s *Session) SignIn(token string, op Operator) {
	if !s.isNew {
		s.previous = s.ID
		s.ID = uuid.NewString()
	}
	s.data.Token = token
	s.data.Operator = &op
	s.dirty = true
}

// SignOut forgets the API token and operator. Flashes survive so the
// login screen can still explain why the operator was signed out.
func (s *Session) SignOut() {
	if s.data.Token == "" && s.data.Operator == nil {
		return
	}
	s.data.Token = ""
	s.data.Operator = nil
	s.dirty = true
}

// Authenticated reports whether a token is held, without checking expiry.
func (s *Session) Authenticated() bool {
	return s != nil && s.data.Token != ""
}

// Operator returns the signed-in operator, if any.
func (s *Session) Operator() *Operator {
	if s == nil {
		return nil
	}
	return s.data.Operator
}

// APIToken returns the bearer token for the remote API. Tokens that parse as
// JWTs are checked against their exp claim; opaque tokens never expire here.
func (s *Session) APIToken(now time.Time) (string, error) {
	if !s.Authenticated() {
		return "", ErrNotSignedIn
	}
	if expired(s.data.Token, now) {
		return "", ErrSessionExpired
	}
	return s.data.Token, nil
}

func expired(raw string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
