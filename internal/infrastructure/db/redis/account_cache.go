package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/accounthub/account-service/internal/core/domain"
	"github.com/accounthub/account-service/internal/pkg/metrics"
)

const defaultCacheTTL = time.Minute

// AccountCache keeps short-lived JSON copies of accounts for admin views.
// Key format: account:<id>
//
// Redis failures are logged and reported as a miss; the cache never fails a request.
type AccountCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    zerolog.Logger
}

// NewAccountCache wraps client. A non-positive ttl falls back to one minute.
func NewAccountCache(client redis.Cmdable, ttl time.Duration, log zerolog.Logger) *AccountCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &AccountCache{client: client, ttl: ttl, log: log}
}

func (c *AccountCache) Get(ctx context.Context, id string) (*domain.Account, bool) {
	raw, err := c.client.Get(ctx, c.key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("account_id", id).Msg("account cache read failed")
		}
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	account, err := decodeAccount(raw)
	if err != nil {
		c.log.Warn().Err(err).Str("account_id", id).Msg("dropping unreadable cache entry")
		c.Invalidate(ctx, id)
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
	return account, true
}

func (c *AccountCache) Set(ctx context.Context, account *domain.Account) {
	raw, err := encodeAccount(account)
	if err != nil {
		c.log.Warn().Err(err).Str("account_id", account.ID).Msg("account cache encode failed")
		return
	}
	if err := c.client.Set(ctx, c.key(account.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("account_id", account.ID).Msg("account cache write failed")
	}
}

func (c *AccountCache) Invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		c.log.Warn().Err(err).Str("account_id", id).Msg("account cache invalidate failed")
	}
}

func (c *AccountCache) key(id string) string {
	return fmt.Sprintf("account:%s", id)
}

// The password digest is excluded by the Account JSON tags and is never cached.
func encodeAccount(a *domain.Account) ([]byte, error) {
	return json.Marshal(a)
}

func decodeAccount(raw []byte) (*domain.Account, error) {
	var a domain.Account
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, err
	}
	if a.ID == "" {
		return nil, errors.New("cached account has no id")
	}
	return &a, nil
}
