package webapp

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/cors"

	"github.com/ts4z/robotstxt/app/handlers"
	"github.com/ts4z/robotstxt/dep"
	"github.com/ts4z/robotstxt/middleware"
	"github.com/ts4z/robotstxt/state"
	"github.com/ts4z/robotstxt/urlpath"
	"github.com/ts4z/robotstxt/varz"
)

const shutdownGrace = 5 * time.Second

// Config holds the configuration for creating a new App.
type Config struct {
	Rules state.RulesStorage

	// Env returns the current environment name.  It is called per request.
	Env func() string

	// Base is optional; without it sitemap URLs use the request's host.
	Base *urlpath.Base

	// AllowedOrigins enables CORS for these origins.  Empty means no CORS
	// headers at all.
	AllowedOrigins []string

	Clock clockwork.Clock
}

// App is the web application.
type App struct {
	robots *handlers.Robots
	clock  clockwork.Clock

	mux     *http.ServeMux
	handler http.Handler
}

// New creates a new App with the given configuration.
func New(config *Config) *App {
	app := &App{
		robots: &handlers.Robots{
			Rules: dep.Required(config.Rules),
			Env:   dep.Required(config.Env),
			Base:  config.Base,
		},
		clock: dep.Required(config.Clock),
		mux:   http.NewServeMux(),
	}

	app.InstallHandlers()

	// Stack the handlers together.
	var handler http.Handler = middleware.NewRequestLogger(app.mux, app.clock)
	if len(config.AllowedOrigins) > 0 {
		for _, origin := range config.AllowedOrigins {
			log.Printf("CORS allowing origin %s", origin)
		}
		corsMW := cors.New(cors.Options{
			AllowedOrigins: config.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodHead},
		})
		handler = corsMW.Handler(handler)
	}
	app.handler = handler

	return app
}

// Handler returns the configured HTTP handler.
func (app *App) Handler() http.Handler {
	return app.handler
}

// InstallHandlers registers all HTTP routes.
func (app *App) InstallHandlers() {
	// GET patterns also answer HEAD; anything else gets a 405.
	app.mux.Handle("GET /robots.txt", app.robots)

	app.mux.Handle("GET /debug/vars", varz.Handler())
}

// Wrapper to just return the input context.
func contextualizer(ctx context.Context) func(net.Listener) context.Context {
	return func(_ net.Listener) context.Context {
		return ctx
	}
}

// Serve runs the HTTP server until it fails or ctx is cancelled.
func (app *App) Serve(ctx context.Context, listenAddress string) error {
	server := &http.Server{
		Addr:         listenAddress,
		Handler:      app.handler,
		BaseContext:  contextualizer(ctx),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	ch := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", listenAddress)
		ch <- server.ListenAndServe()
	}()

	select {
	case err := <-ch:
		return fmt.Errorf("server exited: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("can't shut down: %w", err)
		}
		if err := <-ch; !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server exited: %w", err)
		}
		return nil
	}
}
