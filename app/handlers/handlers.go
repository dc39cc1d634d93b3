package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/ts4z/robotstxt/robots"
	"github.com/ts4z/robotstxt/state"
	"github.com/ts4z/robotstxt/urlpath"
	"github.com/ts4z/robotstxt/varz"
)

const contentType = "text/plain; charset=UTF-8"

var (
	robotsServed       = varz.NewInt("robotsServed")
	robotsRulesErrors  = varz.NewInt("robotsRulesErrors")
	robotsDefaultRules = varz.NewInt("robotsDefaultRules")
)

// Robots serves /robots.txt for the current environment.  It always
// answers 200; a rules file that can't be loaded is logged and treated as
// empty, which disallows everything.
type Robots struct {
	Rules state.RulesStorage

	// Env returns the current environment.
	Env func() string

	// Base, if set, is used for absolute sitemap URLs instead of the
	// request's host.
	Base *urlpath.Base
}

func (h *Robots) resolver(r *http.Request) robots.URLResolver {
	if h.Base != nil {
		return h.Base
	}
	return urlpath.FromRequest(r)
}

// Lines compiles the response for r without writing it.
func (h *Robots) Lines(r *http.Request) []string {
	cfg, err := h.Rules.FetchRules(r.Context())
	if err != nil {
		robotsRulesErrors.Add(1)
		log.Printf("can't fetch robots rules, disallowing all: %v", err)
		cfg = &robots.Configuration{}
	}

	env := h.Env()
	if rule := cfg.Environment(env); rule == nil || len(rule.Paths) == 0 {
		robotsDefaultRules.Add(1)
	}
	return robots.Compile(cfg, env, cfg.Settings, h.resolver(r))
}

func (h *Robots) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := robots.Text(h.Lines(r))
	robotsServed.Add(1)

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, body); err != nil {
		log.Printf("error writing robots.txt to client: %v", err)
	}
}
