// Package cache keeps provider texts in an embedded badger store with per-entry TTLs.
package cache

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/rambam/core"
)

const (
	// DefaultGCInterval is how often a persistent cache value log is collected.
	DefaultGCInterval = 10 * time.Minute

	gcDiscardRatio = 0.5
)

type Options struct {
	Path     string // ignored when InMemory
	InMemory bool
	Logger   core.Logger // badger's own logs; nil silences them
}

func OptionsFromConfig(conf *core.Config, logger core.Logger) Options {
	return Options{Path: conf.Cache.Path, InMemory: conf.Cache.InMemory, Logger: logger}
}

// badgerLogger routes badger's logs to a core.Logger.
type badgerLogger struct {
	logger core.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf("badger: "+format, args...))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf("badger: "+format, args...))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf("badger: "+format, args...))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf("badger: "+format, args...))
}

// Open opens the badger store described by opts.
func Open(opts Options) (*badger.DB, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("cache path is required for a persistent cache")
		}
		if err := os.MkdirAll(opts.Path, 0o750); err != nil {
			return nil, errors.Wrapf(err, "creating cache directory %s", opts.Path)
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts = bopts.WithNumVersionsToKeep(1)
	if opts.Logger != nil {
		bopts = bopts.WithLogger(badgerLogger{logger: opts.Logger})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Wrap(err, "opening badger")
	}
	return db, nil
}

// RunGC collects the value log every interval until ctx is done. In-memory stores need no GC.
func RunGC(ctx context.Context, db *badger.DB, interval time.Duration, logger core.Logger) {
	if db.Opts().InMemory || interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				// RunValueLogGC rewrites at most one file per call
				err := db.RunValueLogGC(gcDiscardRatio)
				if err == nil {
					continue
				}
				if !errors.Is(err, badger.ErrNoRewrite) && logger != nil {
					logger.Warn("cache value log GC failed", err)
				}
				break
			}
		}
	}
}
