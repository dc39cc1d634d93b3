package state

// package state manages where robots rules come from.

import (
	"context"

	"github.com/ts4z/robotstxt/robots"
)

type Closer interface {
	Close()
}

// RulesStorage hands out a fresh Configuration snapshot on every fetch.
// Callers may keep the snapshot; storage never mutates one it returned.
type RulesStorage interface {
	Closer

	FetchRules(ctx context.Context) (*robots.Configuration, error)
}
