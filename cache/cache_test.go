package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kpdgayao/vivita-inventory/config"
)

type summary struct {
	Items int    `json:"items"`
	Value string `json:"value"`
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("vivita_inventory_")

	var got summary
	found, err := m.Get(ctx, "summary", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Set(ctx, "summary", summary{Items: 3, Value: "12.50"}, time.Minute))
	found, err = m.Get(ctx, "summary", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, summary{Items: 3, Value: "12.50"}, got)
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory("")
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", 1, time.Hour))
	now = now.Add(time.Hour)

	var v int
	found, err := m.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, m.Len())
}

func TestMemoryExpiryKeepsFreshSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory("")
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "k", 1, time.Minute))
	now = now.Add(2 * time.Minute)

	// the clock is read between the read and write locks in Get; store a
	// fresh value at exactly that point
	refreshed := false
	m.now = func() time.Time {
		if !refreshed {
			refreshed = true
			require.NoError(t, m.Set(ctx, "k", 2, time.Hour))
		}
		return now
	}

	var v int
	found, err := m.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = m.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, v)
}

func TestMemoryDeletePrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("p_")
	require.NoError(t, m.Set(ctx, "analytics:summary", 1, 0))
	require.NoError(t, m.Set(ctx, "analytics:trends:7", 2, 0))
	require.NoError(t, m.Set(ctx, "other", 3, 0))

	require.NoError(t, m.DeletePrefix(ctx, "analytics:"))
	assert.Equal(t, 1, m.Len())

	var v int
	found, err := m.Get(ctx, "other", &v)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, v)
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("")
	calls := 0
	fn := func(context.Context) (summary, error) {
		calls++
		return summary{Items: calls}, nil
	}

	first, err := Remember(ctx, m, zap.NewNop(), "s", time.Minute, fn)
	require.NoError(t, err)
	second, err := Remember(ctx, m, zap.NewNop(), "s", time.Minute, fn)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, any) (bool, error) {
	return false, errors.New("connection refused")
}

func (brokenCache) Set(context.Context, string, any, time.Duration) error {
	return errors.New("connection refused")
}

func (brokenCache) DeletePrefix(context.Context, string) error {
	return errors.New("connection refused")
}

func TestRememberIgnoresCacheFailures(t *testing.T) {
	got, err := Remember(context.Background(), brokenCache{}, zap.NewNop(), "k", time.Minute,
		func(context.Context) (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	_, err = Remember(context.Background(), NewMemory(""), zap.NewNop(), "k", time.Minute,
		func(context.Context) (int, error) { return 0, assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNewSelectsDriver(t *testing.T) {
	c, err := New(context.Background(), config.CacheConfig{Driver: "memory", Prefix: "x_"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	_, err = New(context.Background(), config.CacheConfig{Driver: "memcached"})
	assert.Error(t, err)
}
