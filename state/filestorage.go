package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"sync/atomic"

	"github.com/ts4z/robotstxt/robots"
	"github.com/ts4z/robotstxt/varz"
)

var (
	rulesFileReads   = varz.NewInt("rulesFileReads")
	rulesFileMissing = varz.NewInt("rulesFileMissing")
	rulesFileErrors  = varz.NewInt("rulesFileErrors")
)

var _ RulesStorage = (*FileRulesStorage)(nil)

// FileRulesStorage reads a YAML rules file.  The file is read on every
// fetch, so edits show up on the next request without a restart.
//
// If the file does not exist, the built-in rules apply, the same as an
// application that never published its own.  That is logged once per
// stretch of the file being absent, not on every request.
type FileRulesStorage struct {
	path     string
	fallback RulesStorage
	logger   *log.Logger

	missingLogged atomic.Bool
}

func NewFileRulesStorage(path string) *FileRulesStorage {
	return &FileRulesStorage{
		path:     path,
		fallback: NewBuiltinRulesStorage(),
		logger:   log.Default(),
	}
}

func (s *FileRulesStorage) Close() {}

func (s *FileRulesStorage) Path() string {
	return s.path
}

// FetchRules implements RulesStorage.
func (s *FileRulesStorage) FetchRules(ctx context.Context) (*robots.Configuration, error) {
	rulesFileReads.Add(1)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		rulesFileMissing.Add(1)
		if s.missingLogged.CompareAndSwap(false, true) {
			s.logger.Printf("rules file %s not found, using built-in rules", s.path)
		}
		return s.fallback.FetchRules(ctx)
	}
	if err != nil {
		rulesFileErrors.Add(1)
		return nil, fmt.Errorf("can't read rules file %s: %w", s.path, err)
	}

	s.missingLogged.Store(false)

	cfg, err := robots.Parse(data)
	if err != nil {
		rulesFileErrors.Add(1)
		return nil, fmt.Errorf("rules file %s: %w", s.path, err)
	}
	return cfg, nil
}
