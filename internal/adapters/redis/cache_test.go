package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisad "app_reviews/internal/adapters/redis"
	"app_reviews/internal/domain"
)

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	v := "2.0.1"
	in := []domain.Review{{Author: "Ana", Rating: 4, Text: "bom", Date: domain.Date{Year: 2024, Month: time.February, Day: 3}, Version: &v}}
	require.NoError(t, c.Set(ctx, "k", in, 60))

	var out []domain.Review
	ok, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, in, out)

	mr.FastForward(61 * time.Second)
	ok, err = c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, ok, "entry expires with its ttl")

	require.NoError(t, c.Set(ctx, "k2", in, 60))
	require.NoError(t, c.Del(ctx, "k2"))
	ok, _ = c.Get(ctx, "k2", &out)
	assert.False(t, ok)
}

func TestCache_CorruptEntryIsMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	require.NoError(t, mr.Set("bad", "{not json"))
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })

	var out []domain.Review
	ok, err := c.Get(context.Background(), "bad", &out)
	assert.False(t, ok)
	assert.Error(t, err)
}
