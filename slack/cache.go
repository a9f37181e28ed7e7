package slack

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const memberCacheKey = "cheersbot:members"

// MemberCache keeps the workspace directory listing in Redis so that
// back-to-back resolutions do not hammer users.list. A cache failure is
// never fatal; the client falls through to the API.
type MemberCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewMemberCache(redisURL string, ttl time.Duration) (*MemberCache, error) {
	opt, err := redis.ParseURL(strings.TrimSpace(redisURL))
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}

	return &MemberCache{rdb: rdb, ttl: ttl}, nil
}

func (mc *MemberCache) Get(ctx context.Context) ([]Member, bool) {
	val, err := mc.rdb.Get(ctx, memberCacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[WARN] member cache read failed: %v", err)
		}
		return nil, false
	}

	var members []Member
	if err := json.Unmarshal([]byte(val), &members); err != nil {
		log.Printf("[WARN] member cache entry corrupt, dropping: %v", err)
		mc.rdb.Del(ctx, memberCacheKey)
		return nil, false
	}
	return members, true
}

func (mc *MemberCache) Set(ctx context.Context, members []Member) {
	data, err := json.Marshal(members)
	if err != nil {
		return
	}
	if err := mc.rdb.Set(ctx, memberCacheKey, data, mc.ttl).Err(); err != nil {
		log.Printf("[WARN] member cache write failed: %v", err)
	}
}
