package jwt

import (
	"context"
	"net/http"

	"buzzportal/internal/pkg/logx"
	"buzzportal/internal/pkg/randx"
)

// Define Context Key for storing the session id, preventing key collisions with other packages.
type contextKey string

const (
	// ContextSessionIDKey is the key used to store the browser session id in the request Context.
	ContextSessionIDKey contextKey = "session_id"

	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "buzz_session"
)

// SessionCookieMiddleware makes sure every request belongs to a browser session.
// A valid cookie token carrying a v4 session id yields that id; anything else is replaced
// by a fresh id and a new cookie. The cookie has no Expires/Max-Age, so the browser drops
// it when its session ends.
func SessionCookieMiddleware(secretKey string, secure bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				payload, err := ParseToken(cookie.Value, secretKey)
				switch {
				case err != nil:
					logx.Warn("Invalid or expired session cookie, starting a new session", "error", err)
				case !randx.IsValidSessionID(payload.SessionID):
					logx.Warn("Session cookie carries a malformed session id, starting a new session")
				default:
					next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), payload.SessionID)))
					return
				}
			}

			sessionID := randx.SessionID()
			if err := IssueSessionCookie(w, sessionID, secretKey, secure); err != nil {
				logx.Error(err, "Failed to sign session cookie")
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}

// IssueSessionCookie signs sessionID and sets it as the browser-session cookie.
func IssueSessionCookie(w http.ResponseWriter, sessionID, secretKey string, secure bool) error {
	tokenString, err := GenerateToken(&Payload{SessionID: sessionID}, secretKey, SessionTokenLifetime)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    tokenString,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// WithSessionID returns a copy of ctx carrying the given session id.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ContextSessionIDKey, sessionID)
}

// GetSessionID extracts the browser session id from the request Context.
// It returns an empty string when SessionCookieMiddleware did not run.
func GetSessionID(r *http.Request) string {
	sessionID, _ := r.Context().Value(ContextSessionIDKey).(string)
	return sessionID
}
