package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store keeping records in a redis hash per kind, with a sorted
// set tracking write recency for List. Update is atomic against other
// goroutines of this process (mutex plus a single pipeline flush); across
// processes the store stays last-write-wins, the same single-writer
// assumption the original slot layout made.
type Redis struct {
	client *redis.Client
	mu     sync.Mutex
	now    func() time.Time
}

// OpenRedis connects to the redis instance at addr.
func OpenRedis(ctx context.Context, addr string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &Redis{client: client, now: time.Now}, nil
}

func recordsKey(kind string) string { return "records:" + kind }
func recencyKey(kind string) string { return "recency:" + kind }

func (r *Redis) Get(ctx context.Context, kind, id string) ([]byte, error) {
	data, err := r.client.HGet(ctx, recordsKey(kind), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (r *Redis) List(ctx context.Context, kind string) ([]Record, error) {
	entries, err := r.client.ZRevRangeWithScores(ctx, recencyKey(kind), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, entry := range entries {
		id, ok := entry.Member.(string)
		if !ok {
			continue
		}
		data, err := r.client.HGet(ctx, recordsKey(kind), id).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Record{
			Kind:      kind,
			ID:        id,
			Data:      data,
			UpdatedAt: time.UnixMilli(int64(entry.Score)).UTC(),
		})
	}
	return out, nil
}

func (r *Redis) Update(ctx context.Context, fn func(Tx) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := &redisTx{ctx: ctx, store: r, writes: make(map[[2]string][]byte)}
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.writes) == 0 {
		return nil
	}
	pipe := r.client.TxPipeline()
	stamp := float64(r.now().UTC().UnixMilli())
	for key, data := range tx.writes {
		kind, id := key[0], key[1]
		if data == nil {
			pipe.HDel(ctx, recordsKey(kind), id)
			pipe.ZRem(ctx, recencyKey(kind), id)
			continue
		}
		pipe.HSet(ctx, recordsKey(kind), id, data)
		pipe.ZAdd(ctx, recencyKey(kind), redis.Z{Score: stamp, Member: id})
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) Close() error {
	return r.client.Close()
}

type redisTx struct {
	ctx    context.Context
	store  *Redis
	writes map[[2]string][]byte // nil value marks a delete
}

func (t *redisTx) Get(kind, id string) ([]byte, error) {
	if data, ok := t.writes[[2]string{kind, id}]; ok {
		if data == nil {
			return nil, ErrNotFound
		}
		return data, nil
	}
	return t.store.Get(t.ctx, kind, id)
}

func (t *redisTx) Put(kind, id string, data []byte) error {
	t.writes[[2]string{kind, id}] = append([]byte(nil), data...)
	return nil
}

func (t *redisTx) Delete(kind, id string) error {
	t.writes[[2]string{kind, id}] = nil
	return nil
}
