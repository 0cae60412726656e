package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"lintang/nightwalk/pkg/datastructure"
	"lintang/nightwalk/pkg/logger"
	"lintang/nightwalk/pkg/metrics"

	"github.com/dgraph-io/badger/v4"
)

const (
	placeKeyPrefix = "place:"
	bboxKeyPrefix  = "bbox:"
)

// PlaceKey cache key of a graph retrieved by place name.
func PlaceKey(place string) string {
	return placeKeyPrefix + strings.ToLower(strings.TrimSpace(place))
}

// BBoxKey cache key of a graph retrieved by bounding box.
func BBoxKey(bbox datastructure.BoundingBox) string {
	return bboxKeyPrefix + bbox.String()
}

// OpenBadger opens the badger db at dir. empty dir opens an in-memory db.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger %q: %w", dir, err)
	}
	return db, nil
}

// KVDB walk graph cache keyed by search area.
type KVDB struct {
	db      *badger.DB
	metrics *metrics.Metrics
	log     *slog.Logger
}

type Option func(*KVDB)

func WithMetrics(m *metrics.Metrics) Option {
	return func(k *KVDB) { k.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(k *KVDB) { k.log = l }
}

func NewKVDB(db *badger.DB, opts ...Option) *KVDB {
	k := &KVDB{db: db, log: logger.L()}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// SaveGraph stores g under key, replacing an older entry.
func (k *KVDB) SaveGraph(ctx context.Context, key string, g *datastructure.StreetGraph) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	val, err := encodeGraph(g)
	if err != nil {
		return err
	}

	err = k.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
	if err != nil {
		return fmt.Errorf("save graph %q: %w", key, err)
	}
	k.log.Debug("graph_cached", "key", key, "nodes", g.NumNodes(), "edges", g.NumEdges(), "bytes", len(val))
	return nil
}

// GetGraph returns a freshly decoded graph for key. ok is false on a miss.
func (k *KVDB) GetGraph(ctx context.Context, key string) (*datastructure.StreetGraph, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	val, err := k.get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		k.metrics.GraphCacheResult("miss")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get graph %q: %w", key, err)
	}

	g, err := decodeGraph(val)
	if err != nil {
		return nil, false, err
	}
	k.metrics.GraphCacheResult("hit")
	return g, true, nil
}

func (k *KVDB) get(key []byte) ([]byte, error) {
	var val []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		val, err = item.ValueCopy(nil)
		return err
	})
	return val, err
}

func (k *KVDB) Close() error {
	return k.db.Close()
}
