// Package tokentest mints session tokens shaped like the library backend's for tests.
package tokentest

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"library-client/token"
)

var signingKey = []byte("tokentest-secret")

// Issue returns a signed token whose "sub" claim is the identity object.
func Issue(id token.Identity) string {
	return sign(jwt.MapClaims{
		"sub": map[string]any{
			"id":       id.ID,
			"username": id.Username,
			"role":     string(id.Role),
		},
		"iat":  time.Now().Unix(),
		"type": "access",
	})
}

// IssueClaims signs arbitrary claims, for malformed-identity cases.
func IssueClaims(claims jwt.MapClaims) string {
	return sign(claims)
}

func sign(claims jwt.MapClaims) string {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return signed
}
