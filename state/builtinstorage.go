package state

import (
	"context"

	"github.com/ts4z/robotstxt/assets"
	"github.com/ts4z/robotstxt/robots"
)

var _ RulesStorage = (*BuiltinRulesStorage)(nil)

// BuiltinRulesStorage serves the rules compiled into the binary.
type BuiltinRulesStorage struct{}

func NewBuiltinRulesStorage() *BuiltinRulesStorage {
	return &BuiltinRulesStorage{}
}

func (bs *BuiltinRulesStorage) Close() {}

// FetchRules implements RulesStorage.
func (bs *BuiltinRulesStorage) FetchRules(ctx context.Context) (*robots.Configuration, error) {
	return robots.Parse(assets.DefaultRules)
}
