package redis

import (
	"context"
	"sort"
	"testing"

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
	return NewStore(client, 2), mr
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := newTestStore(t)

	v, found, err := s.Get(context.Background(), "v1:bookmarknope")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, v)
}

func TestStore_PutGetDelete(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "v1:bookmarkabc", `{"id":"abc"}`))

	v, found, err := s.Get(ctx, "v1:bookmarkabc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"id":"abc"}`, v)

	// Durable: no TTL is attached.
	assert.Zero(t, mr.TTL("v1:bookmarkabc"))

	require.NoError(t, s.Delete(ctx, "v1:bookmarkabc"))
	require.NoError(t, s.Delete(ctx, "v1:bookmarkabc"), "deleting a missing key is a no-op")

	_, found, err = s.Get(ctx, "v1:bookmarkabc")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_ListByPrefix(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"v1:bookmark1", "v1:bookmark2", "v1:bookmark3", "v1:bookmar", "other"} {
		require.NoError(t, mr.Set(k, "x"))
	}

	keys, err := s.List(ctx, "v1:bookmark")
	require.NoError(t, err)

	sort.Strings(keys)
	assert.Equal(t, []string{"v1:bookmark1", "v1:bookmark2", "v1:bookmark3"}, keys)
}

func TestStore_ListEscapesGlobCharacters(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("ns*a", "x"))
	require.NoError(t, mr.Set("nsXa", "x"))

	keys, err := s.List(ctx, "ns*")
	require.NoError(t, err)
	assert.Equal(t, []string{"ns*a"}, keys)
}

func TestStore_ErrorsPropagate(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	mr.Close()

	_, _, err := s.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, s.Put(ctx, "k", "v"))
	assert.Error(t, s.Delete(ctx, "k"))
	_, err = s.List(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, s.Ping(ctx))
}

func TestStore_Ping(t *testing.T) {
	s, _ := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"v1:bookmark", "v1:bookmark*"},
		{"", "*"},
		{"a*b", `a\*b*`},
		{"a?[x]", `a\?\[x\]*`},
		{`back\slash`, `back\\slash*`},
	}

	for _, tt := range tests {
		if got := MatchPattern(tt.prefix); got != tt.want {
			t.Errorf("MatchPattern(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}
