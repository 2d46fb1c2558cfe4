package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the claims of the portal's session cookie token.
// It names the browser session's slot in the session store and nothing else;
// identity and credential stay server-side.
type Payload struct {
	// StandardClaims carries Exp, Iat and Iss, used for token validity checks.
	jwt.StandardClaims

	// SessionID is the key of the browser session's slot in the session store.
	SessionID string `json:"sid"`
}
