// Package auth issues and verifies bearer tokens and hashes passwords.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the standard claims and the owning user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
}

// Codec signs and verifies HS256 tokens with a fixed validity window.
type Codec struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewCodec(secretKey string, validity time.Duration) *Codec {
	return &Codec{secret: []byte(secretKey), validity: validity, now: time.Now}
}

// Validity reports how long issued tokens stay valid.
func (c *Codec) Validity() time.Duration { return c.validity }

// Issue returns a signed token for userID that expires after the codec
// validity. Every call yields a distinct token, even within the same second.
func (c *Codec) Issue(userID string) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.validity)),
		},
		UserID: userID,
	})

	return token.SignedString(c.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// yields common.ErrInvalidToken.
func (c *Codec) Verify(tokenString string) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
