package store

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const settingsCacheKey = "settings:0"

// SettingsSource yields the settings singleton.
type SettingsSource interface {
	Get(ctx context.Context) (*Settings, error)
}

// redisCmds is the slice of the go-redis API the cache needs.
type redisCmds interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
}

// CachedSettings is a read-through redis cache in front of a
// SettingsSource. Any cache error falls through to the source, so a
// redis outage degrades to direct database reads.
type CachedSettings struct {
	src    SettingsSource
	client redisCmds
	ttl    time.Duration
	log    *zap.Logger
}

func NewCachedSettings(src SettingsSource, client redisCmds, ttl time.Duration, log *zap.Logger) *CachedSettings {
	return &CachedSettings{src: src, client: client, ttl: ttl, log: log}
}

func (c *CachedSettings) Get(ctx context.Context) (*Settings, error) {
	val, err := c.client.Get(ctx, settingsCacheKey).Result()
	if err == nil {
		var st Settings
		if jsonErr := json.Unmarshal([]byte(val), &st); jsonErr == nil {
			return &st, nil
		}
		// Corrupt entry; repopulate below.
	} else if err != goredis.Nil {
		c.log.Warn("settings cache read failed", zap.Error(err))
	}

	st, err := c.src.Get(ctx)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(st); jsonErr == nil {
		if setErr := c.client.Set(ctx, settingsCacheKey, data, c.ttl).Err(); setErr != nil {
			c.log.Warn("settings cache write failed", zap.Error(setErr))
		}
	}
	return st, nil
}
