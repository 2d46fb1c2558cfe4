package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// SessionTokenLifetime bounds how long a session cookie token is accepted.
	// The cookie itself carries no expiry and ends with the browser session.
	SessionTokenLifetime = 7 * 24 * time.Hour

	// TokenIssuer identifies the issuer of the token.
	TokenIssuer = "Buzz-Portal"
)

// GenerateToken creates and signs a new JWT string from the given Payload.
func GenerateToken(payload *Payload, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	payload.StandardClaims = jwt.StandardClaims{
		ExpiresAt: now.Add(duration).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	return token.SignedString([]byte(secretKey))
}

// ParseToken parses and validates a JWT string signed with secretKey.
func ParseToken(tokenString string, secretKey string) (*Payload, error) {
	claims := &Payload{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}

// CredentialExpiry reads the "exp" claim of a bearer credential issued by the remote
// events service. The signature is not checked: the portal does not hold that key and
// only uses the value to drop sessions whose credential is already dead.
// ok is false when the credential is not a JWT or carries no expiry.
func CredentialExpiry(credential string) (expiresAt time.Time, ok bool) {
	claims := &jwt.StandardClaims{}

	if _, _, err := new(jwt.Parser).ParseUnverified(credential, claims); err != nil {
		return time.Time{}, false
	}

	if claims.ExpiresAt == 0 {
		return time.Time{}, false
	}

	return time.Unix(claims.ExpiresAt, 0), true
}
