package redis_test

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/devhub/internal/domain"
	"github.com/aussiebroadwan/devhub/internal/session"
	sessionredis "github.com/aussiebroadwan/devhub/internal/session/drivers/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisClientForTest(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})
	return server, client
}

func TestStoreKV(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server, client := newRedisClientForTest(t)
	s := sessionredis.NewStore(client, "test")
	require.NoError(t, s.Ping(ctx))

	require.NoError(t, s.SetAll(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}))

	v, err := server.Get("test:a")
	require.NoError(t, err)
	require.Equal(t, "1", v)

	got, err := s.GetAll(ctx, "a", "b", "missing")
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{"a": []byte("1"), "b": []byte("2")}, got)

	require.NoError(t, s.DeleteAll(ctx, "a", "missing"))
	require.False(t, server.Exists("test:a"))
	require.True(t, server.Exists("test:b"))
}

func TestStoreSessionRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	server, client := newRedisClientForTest(t)
	ts := session.NewTokenStore(sessionredis.NewStore(client, ""))

	want := domain.Session{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &domain.User{ID: 3, Name: "Duda", Role: domain.RoleAdmin},
	}
	require.NoError(t, ts.Save(ctx, want))
	require.True(t, server.Exists(sessionredis.DefaultPrefix+":"+session.KeyUser))

	got, err := ts.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, want, got)

	// A corrupt profile reads as signed out
	require.NoError(t, server.Set(sessionredis.DefaultPrefix+":"+session.KeyUser, "{"))
	got, err = ts.Read(ctx)
	require.NoError(t, err)
	require.True(t, got.IsZero())

	require.NoError(t, ts.Clear(ctx))
	require.Empty(t, server.Keys())
}

func TestStoreServerDown(t *testing.T) {
	t.Parallel()

	server, client := newRedisClientForTest(t)
	server.Close()

	_, err := session.NewTokenStore(sessionredis.NewStore(client, "x")).Read(context.Background())
	require.Error(t, err)
}
