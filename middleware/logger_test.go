package middleware

import (
	"bytes"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestRequestLogger(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		xff      string
		expected string
	}{
		{
			name: "implicit 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("hello"))
			},
			expected: "[access log] 200 192.0.2.1:1234 GET /robots.txt 5B (250ms)\n",
		},
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusMethodNotAllowed)
			},
			expected: "[access log] 405 192.0.2.1:1234 GET /robots.txt 0B (250ms)\n",
		},
		{
			name: "forwarded for",
			handler: func(w http.ResponseWriter, r *http.Request) {
			},
			xff:      "198.51.100.7",
			expected: "[access log] 200 198.51.100.7 GET /robots.txt 0B (250ms)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := clockwork.NewFakeClock()
			var buf bytes.Buffer

			slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				clock.Advance(250 * time.Millisecond)
				tt.handler(w, r)
			})
			rl := NewRequestLogger(slow, clock)
			rl.logger = log.New(&buf, "", 0)

			r := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
			r.RemoteAddr = "192.0.2.1:1234"
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			rl.ServeHTTP(httptest.NewRecorder(), r)

			if got := buf.String(); got != tt.expected {
				t.Errorf("log line = %q, want %q", got, tt.expected)
			}
		})
	}
}
