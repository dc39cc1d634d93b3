package middleware

import (
	"net/http"
)

var _ http.ResponseWriter = &codeWatcher{}

// codeWatcher is a http.ResponseWriter that remembers the status code and
// body size for the access log.
type codeWatcher struct {
	w       http.ResponseWriter
	code    int
	written int
}

func (cw *codeWatcher) Header() http.Header {
	return cw.w.Header()
}

func (cw *codeWatcher) Write(b []byte) (int, error) {
	n, err := cw.w.Write(b)
	cw.written += n
	return n, err
}

func (cw *codeWatcher) WriteHeader(statusCode int) {
	if cw.code == 0 {
		cw.code = statusCode
	}
	cw.w.WriteHeader(statusCode)
}

// Code is the status sent, which is 200 if the handler never said.
func (cw *codeWatcher) Code() int {
	if cw.code == 0 {
		return http.StatusOK
	}
	return cw.code
}

func (cw *codeWatcher) Unwrap() http.ResponseWriter {
	return cw.w
}
