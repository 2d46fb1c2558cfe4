package logx

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

var (
	ipv4Network = net.CIDRMask(24, 32)
	ipv6Network = net.CIDRMask(64, 128)
)

// anonymizeIP keeps only the network part of a client address: a /24 for IPv4 and a /64
// for IPv6. Loopback addresses are reported as 127.0.0.1.
func anonymizeIP(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}

	ip := net.ParseIP(addr)
	switch {
	case ip == nil:
		return "unknown_ip"
	case ip.IsLoopback():
		return "127.0.0.1"
	case ip.To4() != nil:
		return ip.To4().Mask(ipv4Network).String()
	default:
		return ip.Mask(ipv6Network).String()
	}
}

// completionEvent picks the level of a request's completion line: Info for success and
// the redirects page flows rely on, Warn for 4xx, Error for 5xx.
func completionEvent(l *zerolog.Logger, status int) *zerolog.Event {
	switch {
	case status >= http.StatusInternalServerError:
		return l.Error()
	case status >= http.StatusBadRequest:
		return l.Warn()
	default:
		return l.Info()
	}
}

// RequestLogger returns a middleware that attaches a request-scoped logger to the
// context (see Ctx) and writes one completion line when the handler returns.
// It must run after chi's RequestID middleware.
func RequestLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := Logger().With().
				Str("component", "http").
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("remote_ip", anonymizeIP(r.RemoteAddr)).
				Str("request_method", r.Method).
				Str("request_path", r.URL.Path).
				Logger()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(logger.WithContext(r.Context())))

			completionEvent(&logger, ww.Status()).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("latency", time.Since(start)).
				Msg("Request completed")
		})
	}
}
