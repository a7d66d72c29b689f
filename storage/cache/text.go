package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/sync/singleflight"

	"github.com/trezcool/rambam/core"
	"github.com/trezcool/rambam/core/text"
)

var lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "rambam",
	Subsystem: "text_cache",
	Name:      "lookups_total",
	Help:      "Text cache lookups by kind and result.",
}, []string{"kind", "result"})

// TextProvider caches another text.Provider. Concurrent misses for one key share a single fetch.
// Provider errors are never cached.
type TextProvider struct {
	db       *badger.DB
	next     text.Provider
	textTTL  time.Duration
	indexTTL time.Duration
	logger   core.Logger
	flight   singleflight.Group
}

var _ text.Provider = (*TextProvider)(nil)

func NewTextProvider(db *badger.DB, next text.Provider, textTTL, indexTTL time.Duration, logger core.Logger) *TextProvider {
	return &TextProvider{
		db:       db,
		next:     next,
		textTTL:  textTTL,
		indexTTL: indexTTL,
		logger:   logger,
	}
}

func chapterKey(ref string, chapter int) string { return fmt.Sprintf("text:%s.%d", ref, chapter) }
func indexKey(ref string) string                { return "index:" + ref }

func (p *TextProvider) Chapter(ctx context.Context, ref string, chapter int) (text.Chapter, error) {
	var ch text.Chapter
	err := p.fetch(ctx, "text", chapterKey(ref, chapter), p.textTTL, &ch, func(ctx context.Context) (interface{}, error) {
		return p.next.Chapter(ctx, ref, chapter)
	})
	return ch, err
}

func (p *TextProvider) Index(ctx context.Context, ref string) (text.Index, error) {
	var idx text.Index
	err := p.fetch(ctx, "index", indexKey(ref), p.indexTTL, &idx, func(ctx context.Context) (interface{}, error) {
		return p.next.Index(ctx, ref)
	})
	return idx, err
}

// Invalidate drops the cached chapter.
func (p *TextProvider) Invalidate(ref string, chapter int) error {
	return p.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(chapterKey(ref, chapter)))
	})
}

func (p *TextProvider) fetch(
	ctx context.Context,
	kind, key string,
	ttl time.Duration,
	dst interface{},
	load func(context.Context) (interface{}, error),
) error {
	data, ok := p.get(key)
	if ok {
		if err := json.Unmarshal(data, dst); err == nil {
			lookupsTotal.WithLabelValues(kind, "hit").Inc()
			return nil
		}
		p.warn("discarding undecodable cache entry "+key, nil)
	}
	lookupsTotal.WithLabelValues(kind, "miss").Inc()
	if err := ctx.Err(); err != nil {
		return err
	}

	// the shared load outlives any single caller; each caller only stops waiting on its own ctx
	ch := p.flight.DoChan(key, func() (interface{}, error) {
		val, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(val)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding %s", key)
		}
		p.set(key, data, ttl)
		return data, nil
	})
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return res.Err
		}
		return json.Unmarshal(res.Val.([]byte), dst)
	}
}

func (p *TextProvider) get(key string) ([]byte, bool) {
	var data []byte
	err := p.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			p.warn("reading cache entry "+key, err)
		}
		return nil, false
	}
	return data, true
}

func (p *TextProvider) set(key string, data []byte, ttl time.Duration) {
	err := p.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
	if err != nil {
		p.warn("writing cache entry "+key, err)
	}
}

func (p *TextProvider) warn(msg string, err error) {
	if p.logger == nil {
		return
	}
	if err != nil {
		p.logger.Warn(msg, err)
		return
	}
	p.logger.Warn(msg)
}
