package authflow

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// DecodeAssertion decodes the claims of a completion assertion WITHOUT
// verifying its signature. Use it to peek at subject or expiry for display;
// trust decisions must go through proper verification against the issuer's
// keys.
func DecodeAssertion(assertion string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(assertion, claims); err != nil {
		return nil, fmt.Errorf("failed to decode assertion: %w", err)
	}
	return claims, nil
}
