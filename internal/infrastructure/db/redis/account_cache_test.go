package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accounthub/account-service/internal/core/domain"
)

func TestAccountCache_Key(t *testing.T) {
	c := NewAccountCache(nil, 0, zerolog.Nop())
	assert.Equal(t, "account:64b7f0c2a1", c.key("64b7f0c2a1"))
	assert.Equal(t, defaultCacheTTL, c.ttl)
}

func TestAccountCache_EncodingDropsPasswordHash(t *testing.T) {
	login := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	in := &domain.Account{
		ID:           "abc",
		FullName:     "Jane Doe",
		Email:        "jane@x.com",
		PasswordHash: "$2a$12$secret",
		Role:         domain.RoleManager,
		Status:       domain.StatusInactive,
		LastLogin:    &login,
	}

	raw, err := encodeAccount(in)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret")

	out, err := decodeAccount(raw)
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Role, out.Role)
	assert.Equal(t, in.Status, out.Status)
	assert.Empty(t, out.PasswordHash)
	require.NotNil(t, out.LastLogin)
	assert.True(t, login.Equal(*out.LastLogin))
}

func TestAccountCache_DecodeRejectsGarbage(t *testing.T) {
	_, err := decodeAccount([]byte("{not json"))
	assert.Error(t, err)

	_, err = decodeAccount([]byte(`{"email":"jane@x.com"}`))
	assert.Error(t, err)
}

func TestAccountCache_UnreachableRedisIsAMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	c := NewAccountCache(client, time.Minute, zerolog.Nop())
	ctx := context.Background()

	c.Set(ctx, &domain.Account{ID: "abc"})
	got, ok := c.Get(ctx, "abc")
	assert.False(t, ok)
	assert.Nil(t, got)
	c.Invalidate(ctx, "abc")
}
