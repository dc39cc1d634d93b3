// Package urlpath turns configured paths into absolute URLs, the way a
// framework's url() helper would.
package urlpath

import (
	"net/http"
	"net/url"
	"strings"
)

// Base resolves paths against a fixed scheme and host, e.g.
// "https://example.com".  A base with a path prefix keeps the prefix.
type Base struct {
	root string
}

// NewBase parses an application URL.  A bare host gets "http://".
func NewBase(appURL string) (*Base, error) {
	if !strings.Contains(appURL, "://") {
		appURL = "http://" + appURL
	}
	u, err := url.Parse(appURL)
	if err != nil {
		return nil, err
	}
	return &Base{root: strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/")}, nil
}

// ResolveURL joins path to the base with a single slash.  Paths that are
// already absolute URLs come back unchanged.  Nothing here is validated.
func (b *Base) ResolveURL(path string) string {
	if isAbsolute(path) {
		return path
	}
	return b.root + "/" + strings.TrimLeft(path, "/")
}

func (b *Base) String() string {
	return b.root
}

// FromRequest derives the base from the request, for deployments without a
// configured application URL.  It believes the client's Host and
// X-Forwarded-Proto headers; behind a proxy, or anywhere those can't be
// trusted, configure app_url instead.
func FromRequest(r *http.Request) *Base {
	return &Base{root: scheme(r) + "://" + r.Host}
}

func scheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		// Proxies may append; the first hop is the client's.
		proto, _, _ = strings.Cut(proto, ",")
		if proto = strings.ToLower(strings.TrimSpace(proto)); proto != "" {
			return proto
		}
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

func isAbsolute(path string) bool {
	if strings.HasPrefix(path, "//") {
		return true
	}
	u, err := url.Parse(path)
	return err == nil && u.Scheme != "" && u.Host != ""
}
