// Package auth signs and verifies the access tokens issued after login.
//
// The identity travels as a JSON document inside the registered "sub" claim,
// so clients can read who is logged in without holding the signing key.
package auth

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"dropwatch/internal/common"
)

// Identity is the payload embedded in every access token.
type Identity struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func GenerateToken(identity Identity, secretKey []byte, validityDuration time.Duration) (string, error) {
	sub, err := json.Marshal(identity)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": string(sub),
		"iat": jwt.NewNumericDate(time.Now()),
		"exp": jwt.NewNumericDate(time.Now().Add(validityDuration)),
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// GetIdentityFromToken verifies the signature and expiry of tokenString and
// extracts the embedded identity.
func GetIdentityFromToken(tokenString string, secretKey []byte) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return nil, common.ErrInvalidToken
	}

	var identity Identity
	if err := json.Unmarshal([]byte(sub), &identity); err != nil {
		return nil, common.ErrInvalidToken
	}

	return &identity, nil
}
