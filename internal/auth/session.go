// Package auth implements the admin session: one shared password for the
// whole platform, checked against a bcrypt hash, exchanged for a signed
// session cookie.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const SessionCookieName = "admin_session"

type SessionClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// CheckPassword compares the shared admin password against its stored
// bcrypt hash.
func CheckPassword(passwordHash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return errors.New("invalid password")
	}
	return nil
}

// IssueSessionToken creates a signed admin session token.
func IssueSessionToken(secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateSessionToken parses and verifies an admin session token.
func ValidateSessionToken(secret, tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Role != "admin" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
