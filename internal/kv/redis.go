package kv

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Redis is a Backend over a Redis server.  Values live in one hash per
// map; key order is kept in a sorted set whose members are the keys
// zero-padded to 20 digits, all with score 0, so lexicographic range
// order is numeric key order.  Durability is whatever persistence the
// server is configured with.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis returns a Backend storing its data under prefix in rdb.
func NewRedis(rdb *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "kv"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

func (b *Redis) Map(_ context.Context, name string) (SortedMap, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	base := b.prefix + ":" + name
	return &redisMap{rdb: b.rdb, data: base + ":data", keys: base + ":keys"}, nil
}

func (b *Redis) Cell(_ context.Context, name string) (Cell, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return &redisCell{rdb: b.rdb, key: b.prefix + ":cell:" + name}, nil
}

// scanBatch bounds the fields fetched per HMGET during Scan.
const scanBatch = 256

type redisMap struct {
	rdb  *redis.Client
	data string
	keys string
}

func field(key uint64) string  { return strconv.FormatUint(key, 10) }
func member(key uint64) string { return fmt.Sprintf("%020d", key) }

func (m *redisMap) Get(ctx context.Context, key uint64) ([]byte, bool, error) {
	v, err := m.rdb.HGet(ctx, m.data, field(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("kv: get %s/%d: %w", m.data, key, err)
	}
	return v, true, nil
}

func (m *redisMap) Insert(ctx context.Context, key uint64, value []byte) ([]byte, bool, error) {
	prev, existed, err := m.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	_, err = m.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, m.data, field(key), value)
		p.ZAdd(ctx, m.keys, redis.Z{Score: 0, Member: member(key)})
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("kv: insert %s/%d: %w", m.data, key, err)
	}
	return prev, existed, nil
}

func (m *redisMap) Remove(ctx context.Context, key uint64) ([]byte, bool, error) {
	prev, existed, err := m.Get(ctx, key)
	if err != nil || !existed {
		return nil, false, err
	}
	_, err = m.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HDel(ctx, m.data, field(key))
		p.ZRem(ctx, m.keys, member(key))
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("kv: remove %s/%d: %w", m.data, key, err)
	}
	return prev, true, nil
}

func (m *redisMap) Scan(ctx context.Context) ([]Entry, error) {
	members, err := m.rdb.ZRangeByLex(ctx, m.keys, &redis.ZRangeBy{Min: "-", Max: "+"}).Result()
	if err != nil {
		return nil, fmt.Errorf("kv: scan %s: %w", m.keys, err)
	}
	out := make([]Entry, 0, len(members))
	for start := 0; start < len(members); start += scanBatch {
		end := min(start+scanBatch, len(members))
		keys := make([]uint64, 0, end-start)
		fields := make([]string, 0, end-start)
		for _, mem := range members[start:end] {
			k, err := strconv.ParseUint(mem, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("kv: scan %s: bad member %q: %w", m.keys, mem, err)
			}
			keys = append(keys, k)
			fields = append(fields, field(k))
		}
		vals, err := m.rdb.HMGet(ctx, m.data, fields...).Result()
		if err != nil {
			return nil, fmt.Errorf("kv: scan %s: %w", m.data, err)
		}
		for i, v := range vals {
			// A member without a hash field is a torn write; skip it.
			s, ok := v.(string)
			if !ok {
				continue
			}
			out = append(out, Entry{Key: keys[i], Value: []byte(s)})
		}
	}
	return out, nil
}

type redisCell struct {
	rdb *redis.Client
	key string
}

func (c *redisCell) Get(ctx context.Context) (uint64, error) {
	v, err := c.rdb.Get(ctx, c.key).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("kv: get cell %s: %w", c.key, err)
	}
	return v, nil
}

func (c *redisCell) Set(ctx context.Context, v uint64) error {
	if err := c.rdb.Set(ctx, c.key, strconv.FormatUint(v, 10), 0).Err(); err != nil {
		return fmt.Errorf("kv: set cell %s: %w", c.key, err)
	}
	return nil
}
