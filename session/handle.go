package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrBadHandle = errors.New("invalid session handle")

// Signer issues and verifies the opaque handle a browser presents. The handle
// only names a session; it carries no expiry.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) Issue(sessionID string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sessionID,
		"iat": time.Now().Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session handle: %w", err)
	}
	return signed, nil
}

func (s *Signer) Parse(handle string) (string, error) {
	token, err := jwt.Parse(handle, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrBadHandle
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrBadHandle
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrBadHandle
	}
	return sid, nil
}
