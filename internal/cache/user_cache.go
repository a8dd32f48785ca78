// Package cache keeps user snapshots and relation indexes in redis in front of the stores.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/chirp/internal/repository"
)

// Snapshot is the minimal user info needed to render notifications and relation pages.
type Snapshot struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func UserKey(id string) string      { return fmt.Sprintf("user:%s", id) }
func FollowersKey(id string) string { return fmt.Sprintf("followers:index:%s", id) }
func FollowingKey(id string) string { return fmt.Sprintf("following:index:%s", id) }

// UserCache serves reads from redis and falls back to the stores on a miss.
// A nil redis client turns every call into a direct store read.
type UserCache struct {
	rdb     *redis.Client
	users   repository.UserRepository
	follows repository.FollowRepository
	fans    repository.FanRepository
	ttl     time.Duration

	userLoads  atomic.Int64
	indexLoads atomic.Int64
}

func NewUserCache(rdb *redis.Client, users repository.UserRepository, follows repository.FollowRepository, fans repository.FanRepository, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &UserCache{rdb: rdb, users: users, follows: follows, fans: fans, ttl: ttl}
}

// Snapshots resolves ids to snapshots. Unknown ids are absent from the result.
func (c *UserCache) Snapshots(ctx context.Context, ids []string) (map[string]Snapshot, error) {
	out := make(map[string]Snapshot, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	ids = dedupe(ids)

	if c.rdb != nil {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = UserKey(id)
		}
		if vals, err := c.rdb.MGet(ctx, keys...).Result(); err == nil {
			for i, v := range vals {
				str, ok := v.(string)
				if !ok {
					continue
				}
				var snap Snapshot
				if uErr := json.Unmarshal([]byte(str), &snap); uErr == nil {
					out[ids[i]] = snap
				}
			}
		}
	}

	missing := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	c.userLoads.Add(1)
	users, err := c.users.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	var pipe redis.Pipeliner
	if c.rdb != nil {
		pipe = c.rdb.Pipeline()
	}
	for _, u := range users {
		snap := Snapshot{ID: u.ID, Username: u.Username, Name: u.Name}
		out[u.ID] = snap
		if pipe != nil {
			if payload, err := json.Marshal(snap); err == nil {
				pipe.Set(ctx, UserKey(u.ID), payload, c.ttl)
			}
		}
	}
	if pipe != nil {
		_, _ = pipe.Exec(ctx)
	}
	return out, nil
}

// FollowerIDs pages userID's followers, newest first. limit <= 0 returns all.
func (c *UserCache) FollowerIDs(ctx context.Context, userID string, offset, limit int) ([]string, error) {
	return c.page(ctx, FollowersKey(userID), offset, limit, func() ([]string, error) {
		fans, err := c.fans.ListFans(ctx, userID, 0, 0)
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(fans))
		for i, f := range fans {
			ids[i] = f.FanID
		}
		return ids, nil
	})
}

// FollowingIDs pages the users userID follows, newest first. limit <= 0 returns all.
func (c *UserCache) FollowingIDs(ctx context.Context, userID string, offset, limit int) ([]string, error) {
	return c.page(ctx, FollowingKey(userID), offset, limit, func() ([]string, error) {
		items, err := c.follows.ListFollowings(ctx, userID, 0, 0)
		if err != nil {
			return nil, err
		}
		ids := make([]string, len(items))
		for i, f := range items {
			ids[i] = f.FolloweeID
		}
		return ids, nil
	})
}

func (c *UserCache) page(ctx context.Context, key string, offset, limit int, load func() ([]string, error)) ([]string, error) {
	if offset < 0 {
		offset = 0
	}
	if c.rdb != nil {
		if n, err := c.rdb.Exists(ctx, key).Result(); err == nil && n > 0 {
			stop := int64(-1)
			if limit > 0 {
				stop = int64(offset + limit - 1)
			}
			if ids, err := c.rdb.LRange(ctx, key, int64(offset), stop).Result(); err == nil {
				return ids, nil
			}
		}
	}

	c.indexLoads.Add(1)
	all, err := load()
	if err != nil {
		return nil, err
	}
	if c.rdb != nil && len(all) > 0 {
		pipe := c.rdb.Pipeline()
		pipe.Del(ctx, key)
		pipe.RPush(ctx, key, interfaceSlice(all)...)
		pipe.Expire(ctx, key, c.ttl)
		_, _ = pipe.Exec(ctx)
	}

	if offset >= len(all) {
		return []string{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// Invalidate drops cached keys; a nil client makes it a no-op.
func (c *UserCache) Invalidate(ctx context.Context, keys ...string) error {
	if c.rdb == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Counters reports how many store loads the cache had to perform.
func (c *UserCache) Counters() Counters {
	return Counters{UserLoads: c.userLoads.Load(), IndexLoads: c.indexLoads.Load()}
}

// ResetCounters clears recorded store load counters.
func (c *UserCache) ResetCounters() {
	c.userLoads.Store(0)
	c.indexLoads.Store(0)
}

type Counters struct {
	UserLoads  int64
	IndexLoads int64
}

func interfaceSlice(strs []string) []interface{} {
	result := make([]interface{}, len(strs))
	for i, s := range strs {
		result[i] = s
	}
	return result
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
