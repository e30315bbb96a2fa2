package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("auth: invalid or expired token")

// Session identifies an authenticated admin. Every admin operation takes one
// explicitly; there is no ambient logged-in state.
type Session struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Active reports whether the session is usable at the given time.
func (s *Session) Active(now time.Time) bool {
	return s != nil && s.ExpiresAt != nil && now.Before(s.ExpiresAt.Time)
}

// Tokens issues and parses signed session tokens.
type Tokens struct {
	Secret []byte
	TTL    time.Duration
}

func (t Tokens) Issue(username string) (string, error) {
	now := time.Now()
	claims := &Session{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.TTL)),
			Issuer:    "dress-catalogue",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

func (t Tokens) Parse(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Session{}, func(*jwt.Token) (interface{}, error) {
		return t.Secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Session)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
