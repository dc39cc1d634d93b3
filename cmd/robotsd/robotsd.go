package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/ts4z/robotstxt/config"
	"github.com/ts4z/robotstxt/state"
	"github.com/ts4z/robotstxt/urlpath"
	"github.com/ts4z/robotstxt/webapp"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config.Init()

	rules := state.NewFileRulesStorage(config.RulesFile())
	defer rules.Close()

	if _, err := rules.FetchRules(ctx); err != nil {
		// Keep serving; requests will get the disallow-all default until
		// the file is fixed.
		log.Printf("rules file is broken: %v", err)
	}

	var base *urlpath.Base
	if appURL := config.AppURL(); appURL != "" {
		var err error
		if base, err = urlpath.NewBase(appURL); err != nil {
			log.Fatalf("can't parse app_url %q: %v", appURL, err)
		}
		log.Printf("Using app URL: %s", base)
	}

	app := webapp.New(&webapp.Config{
		Rules:          rules,
		Env:            config.AppEnv,
		Base:           base,
		AllowedOrigins: config.AllowedOrigins(),
		Clock:          clockwork.NewRealClock(),
	})

	if err := app.Serve(ctx, config.ListenAddress()); err != nil {
		log.Fatalf("can't serve: %v", err)
	}
}
