package middleware

import (
	"log"
	"net/http"

	"github.com/jonboulle/clockwork"
)

// RequestLogger is a middleware that writes one access log line per request.
type RequestLogger struct {
	next   http.Handler
	clock  clockwork.Clock
	logger *log.Logger
}

// NewRequestLogger logs to the standard logger.  Use a real clock; the
// duration wants sub-second precision.
func NewRequestLogger(next http.Handler, clock clockwork.Clock) *RequestLogger {
	return &RequestLogger{next: next, clock: clock, logger: log.Default()}
}

func remoteAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	return r.RemoteAddr
}

func (rl *RequestLogger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := rl.clock.Now()
	ww := &codeWatcher{w: w}
	rl.next.ServeHTTP(ww, r)
	duration := rl.clock.Since(start)
	rl.logger.Printf("[access log] %d %v %s %v %dB (%v)", ww.Code(), remoteAddr(r), r.Method, r.URL.Path, ww.written, duration)
}
