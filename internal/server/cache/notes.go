// Package cache keeps per-user note lists in Redis so repeated list requests
// skip the database. Entries are dropped whenever the owner writes.
//
// Each user also has a generation counter. Invalidate bumps it, and SetList
// only stores a list read under the generation it was handed, so a list
// loaded before a concurrent write never lands in the cache after it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/inotebook/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	keyNoteList = "inotebook:notes:list:"
	keyNoteGen  = "inotebook:notes:gen:"
)

type NoteCache struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewNoteCache(rdb redis.UniversalClient, ttl time.Duration) *NoteCache {
	return &NoteCache{rdb: rdb, ttl: ttl}
}

func listKey(userID string) string {
	return keyNoteList + userID
}

func genKey(userID string) string {
	return keyNoteGen + userID
}

// parseGen reads a generation value; a missing key is generation 0.
func parseGen(v any) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, errors.New("unexpected generation value type")
	}
	return strconv.ParseInt(s, 10, 64)
}

// GetList returns the cached list, or nil on a miss, together with the
// user's current generation. Pass the generation to SetList.
func (c *NoteCache) GetList(ctx context.Context, userID string) ([]*models.Note, int64, error) {
	vals, err := c.rdb.MGet(ctx, listKey(userID), genKey(userID)).Result()
	if err != nil {
		return nil, 0, err
	}

	gen, err := parseGen(vals[1])
	if err != nil {
		return nil, 0, err
	}
	if vals[0] == nil {
		return nil, gen, nil
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, errors.New("unexpected list value type")
	}

	var list []*models.Note
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, gen, err
	}
	if list == nil {
		list = make([]*models.Note, 0)
	}
	return list, gen, nil
}

// SetList stores list unless the user's generation moved past gen. A skipped
// write is not an error.
func (c *NoteCache) SetList(ctx context.Context, userID string, gen int64, list []*models.Note) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		v, err := tx.Get(ctx, genKey(userID)).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		var cur int64
		if err == nil {
			if cur, err = parseGen(v); err != nil {
				return err
			}
		}
		if cur != gen {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, listKey(userID), b, c.ttl)
			return nil
		})
		return err
	}, genKey(userID))

	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

// Invalidate drops the cached list and bumps the generation.
func (c *NoteCache) Invalidate(ctx context.Context, userID string) error {
	_, err := c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, genKey(userID))
		p.Del(ctx, listKey(userID))
		return nil
	})
	return err
}
