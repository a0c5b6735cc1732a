package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the minimal identity baked into a session token:
// the user id plus the display fields clients render without a lookup.
type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs a session token and returns it with the "Bearer " scheme tag
// already attached, ready for an Authorization header.
func (m *Manager) Issue(userID, name, avatar string) (string, error) {
	now := time.Now().UTC()

	claims := Claims{
		UserID: userID,
		Name:   name,
		Avatar: avatar,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Subject:   userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(m.secret)

	if err != nil {
		return "", err
	}

	return "Bearer " + signed, nil
}

// Verify parses a raw token (without the scheme tag). Expiry is the only
// invalidation path; there is no revocation list.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256

		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.UserID == "" {
		return nil, errors.New("missing subject")
	}

	return claims, nil
}

// StripScheme removes a leading "Bearer " tag if present, so callers can
// verify tokens in the exact shape Issue hands out.
func StripScheme(raw string) string {
	if strings.HasPrefix(raw, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(raw, "Bearer"))
	}

	return raw
}
