package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(&Payload{SessionID: "s-1"}, testSecret, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload, err := ParseToken(token, testSecret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.SessionID != "s-1" || payload.Issuer != TokenIssuer {
		t.Fatalf("unexpected payload %+v", payload)
	}

	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Fatalf("expected signature mismatch to fail")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken(&Payload{SessionID: "s-1"}, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseToken(token, testSecret); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestCredentialExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	remote := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.StandardClaims{ExpiresAt: exp.Unix()})
	credential, err := remote.SignedString([]byte("remote-service-key"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := CredentialExpiry(credential)
	if !ok || !got.Equal(exp) {
		t.Fatalf("expected expiry %v, got %v ok=%v", exp, got, ok)
	}

	if _, ok := CredentialExpiry("opaque-token-value"); ok {
		t.Fatalf("expected opaque credential to report no expiry")
	}
}

func TestSessionCookieMiddleware(t *testing.T) {
	var seen string
	handler := SessionCookieMiddleware(testSecret, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionID(r)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookieName {
		t.Fatalf("expected a session cookie, got %v", cookies)
	}
	if cookies[0].MaxAge != 0 || !cookies[0].Expires.IsZero() {
		t.Fatalf("expected a browser-session cookie without expiry")
	}
	first := seen
	if first == "" {
		t.Fatalf("expected a session id in the context")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != first {
		t.Fatalf("expected session id %s to be reused, got %s", first, seen)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("expected no new cookie for a valid session")
	}
}

func TestSessionCookieMiddlewareReplacesMalformedSessionID(t *testing.T) {
	var seen string
	handler := SessionCookieMiddleware(testSecret, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionID(r)
	}))

	forged, err := GenerateToken(&Payload{SessionID: "chosen-by-attacker"}, testSecret, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: forged})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen == "chosen-by-attacker" || seen == "" {
		t.Fatalf("expected a fresh session id, got %q", seen)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("expected a replacement cookie")
	}
}

func TestIssueSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := IssueSessionCookie(rec, "0b7c1f0e-4d0a-4c7e-9a53-3f1d2f0d9b11", testSecret, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || !cookies[0].Secure || !cookies[0].HttpOnly {
		t.Fatalf("unexpected cookie %v", cookies)
	}
	payload, err := ParseToken(cookies[0].Value, testSecret)
	if err != nil || payload.SessionID != "0b7c1f0e-4d0a-4c7e-9a53-3f1d2f0d9b11" {
		t.Fatalf("expected signed session id, got %+v err=%v", payload, err)
	}
}
