package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/msomdec/discount-pro/internal/domain"
)

// ClientTokens signs and verifies the cookie that identifies a browser
// client. The client ID selects the storage scope, so it must not be
// forgeable.
type ClientTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewClientTokens creates a token signer. ttl bounds how long a browser
// keeps its storage scope without visiting.
func NewClientTokens(secret string, ttl time.Duration) *ClientTokens {
	return &ClientTokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *ClientTokens) TTL() time.Duration {
	return t.ttl
}

// Issue returns a signed token for clientID.
func (t *ClientTokens) Issue(clientID string) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub": clientID,
		"iat": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign client token: %w", err)
	}
	return signed, nil
}

// Validate parses a token and returns the client ID from the sub claim.
func (t *ClientTokens) Validate(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return "", domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", domain.ErrUnauthorized
	}
	return sub, nil
}
