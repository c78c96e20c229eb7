package tokenfake

import (
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const signingSecret = "storefront-test-secret"

// Mint returns a signed token carrying email, role and exp. The client never
// verifies the signature, so the secret only has to produce a well formed token.
func Mint(email, role string, exp time.Time) string {
	return sign(jwtlib.MapClaims{
		"sub":   email,
		"email": email,
		"role":  role,
		"iat":   exp.Add(-time.Hour).Unix(),
		"exp":   exp.Unix(),
	})
}

// MintWithoutExpiry returns a well formed token that has no exp claim.
func MintWithoutExpiry(email string) string {
	return sign(jwtlib.MapClaims{
		"sub":   email,
		"email": email,
	})
}

func sign(claims jwtlib.MapClaims) string {
	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(signingSecret))
	if err != nil {
		panic(err)
	}
	return signed
}
