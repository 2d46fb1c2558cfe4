package logx

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestAnonymizeIP(t *testing.T) {
	cases := map[string]string{
		"203.0.113.77:5123":          "203.0.113.0",
		"198.51.100.9":               "198.51.100.0",
		"[2001:db8:1:2:3:4:5:6]:443": "2001:db8:1:2::",
		"127.0.0.1:9000":             "127.0.0.1",
		"not-an-ip":                  "unknown_ip",
	}
	for in, want := range cases {
		if got := anonymizeIP(in); got != want {
			t.Fatalf("anonymizeIP(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRequestLoggerAttachesScopedLogger(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = previous }()

	h := middleware.RequestID(RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Ctx(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusNotFound)
	})))

	req := httptest.NewRequest(http.MethodGet, "/student/view", nil)
	req.RemoteAddr = "203.0.113.77:5123"
	h.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected handler line and completion line, got %d: %s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], `"request_path":"/student/view"`) || !strings.Contains(lines[0], "inside handler") {
		t.Fatalf("expected request fields on handler line, got %s", lines[0])
	}
	if !strings.Contains(lines[1], `"level":"warn"`) || !strings.Contains(lines[1], `"status":404`) || !strings.Contains(lines[1], `"remote_ip":"203.0.113.0"`) {
		t.Fatalf("unexpected completion line %s", lines[1])
	}
}

func TestCtxFallsBackToGlobalLogger(t *testing.T) {
	if Ctx(context.Background()) != Logger() {
		t.Fatalf("expected global logger without a request logger")
	}
}
