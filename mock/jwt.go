package mock

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CreateAssertion creates a signed assertion for the given subject
func (m *FlowService) CreateAssertion(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": m.Issuer,
		"sub": subject,
		"aud": m.ApplicationID,
		"exp": now.Add(time.Hour).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(m.PrivateKey)
}
