package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Minute), mr
}

type entry struct {
	Name string `json:"name"`
}

func TestCache_RoundTripAndExpiry(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()
	key := SlugKey("apps", "g0.0", "arcadia")

	var got entry
	hit, err := s.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, s.SetJSON(ctx, key, entry{Name: "Arcadia"}))

	hit, err = s.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Arcadia", got.Name)

	mr.FastForward(2 * time.Minute)
	hit, err = s.GetJSON(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	s, mr := newTestStore(t)
	key := SlugKey("apps", "g0.0", "broken")
	require.NoError(t, mr.Set(key, "{not json"))

	var got entry
	hit, err := s.GetJSON(context.Background(), key, &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, mr.Exists(key))
}

func TestCache_FlushKindOnlyTouchesThatKind(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetJSON(ctx, ListKey("apps", "g0.0", "q1"), []int{1}))
	require.NoError(t, s.SetJSON(ctx, SlugKey("apps", "g0.0", "a"), entry{}))
	require.NoError(t, s.SetJSON(ctx, ListKey("repos", "g0.0", "q1"), []int{1}))
	require.NoError(t, mr.Set(RevokedKey("jti"), "1"))

	require.NoError(t, s.FlushKind(ctx, "apps"))

	assert.False(t, mr.Exists(ListKey("apps", "g0.0", "q1")))
	assert.False(t, mr.Exists(SlugKey("apps", "g0.0", "a")))
	assert.True(t, mr.Exists(ListKey("repos", "g0.0", "q1")))

	require.NoError(t, s.FlushAll(ctx))
	assert.False(t, mr.Exists(ListKey("repos", "g0.0", "q1")))
	assert.True(t, mr.Exists(RevokedKey("jti")), "session keys survive a catalog flush")
}

func TestCache_FlushMovesGeneration(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	gen, err := s.Generation(ctx, "apps")
	require.NoError(t, err)
	assert.Equal(t, "g0.0", gen)

	require.NoError(t, s.FlushKind(ctx, "apps"))
	gen, err = s.Generation(ctx, "apps")
	require.NoError(t, err)
	assert.Equal(t, "g0.1", gen)

	other, err := s.Generation(ctx, "repos")
	require.NoError(t, err)
	assert.Equal(t, "g0.0", other)

	require.NoError(t, s.FlushAll(ctx))
	gen, err = s.Generation(ctx, "apps")
	require.NoError(t, err)
	assert.Equal(t, "g1.1", gen)
	other, err = s.Generation(ctx, "repos")
	require.NoError(t, err)
	assert.Equal(t, "g1.0", other)
}

func TestSessions_Revoke(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Hour)
	revoked, err = s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestSessions_RevokeExpiredTokenIsNoop(t *testing.T) {
	s, mr := newTestStore(t)

	require.NoError(t, s.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(RevokedKey("old")))
}
