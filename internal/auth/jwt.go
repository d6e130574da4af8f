package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Speech service tokens are short-lived; clients exchange their
// subscription key for a fresh token before the current one expires.
const TokenTTL = 10 * time.Minute

// Claims represents the claims in an authorization token
type Claims struct {
	DeviceID string `json:"device_id"`
	Region   string `json:"region"`
	jwt.RegisteredClaims
}

// secret returns the signing key. AUTH_TOKEN_SECRET must be set in
// production; the fallback keeps local development working.
func secret() []byte {
	if s := os.Getenv("AUTH_TOKEN_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("penerjemah-dev-secret")
}

// IssueToken generates an authorization token for a device that presented
// a valid subscription key
func IssueToken(deviceID, region string) (string, time.Time, error) {
	if deviceID == "" {
		return "", time.Time{}, errors.New("device ID is required")
	}

	expiresAt := time.Now().Add(TokenTTL)
	claims := &Claims{
		DeviceID: deviceID,
		Region:   region,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret())
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// ValidateToken validates an authorization token and returns the claims
func ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret(), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrInvalidKey
}
