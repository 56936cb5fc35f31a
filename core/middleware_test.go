package core

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("k", "v", time.Minute)
	value, ok := cache.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", value)

	_, ok = cache.Get("absent")
	assert.False(t, ok)
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("k", "v", time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := cache.Get("k")
	assert.False(t, ok)
}

func TestMemoryCacheZeroTTLNeverExpires(t *testing.T) {
	cache := NewMemoryCache()

	cache.Set("k", "v", 0)
	time.Sleep(time.Millisecond)

	_, ok := cache.Get("k")
	assert.True(t, ok)
}

func TestLoggingMiddlewarePassesThrough(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))

	executed := false
	handler := LoggingMiddleware(logger)(func(ctx context.Context, op Operation, payload any) error {
		executed = true
		return nil
	})

	require.NoError(t, handler(context.Background(), OperationFind, nil))
	assert.True(t, executed)
	assert.Contains(t, buffer.String(), "operation done")
}

func TestLoggingMiddlewareReportsErrors(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buffer, nil))

	boom := errors.New("boom")
	handler := LoggingMiddleware(logger)(func(ctx context.Context, op Operation, payload any) error {
		return boom
	})

	err := handler(context.Background(), OperationUpdate, nil)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, buffer.String(), "operation failed")
	assert.Contains(t, buffer.String(), "boom")
}

func TestCacheMiddlewareReplaysFindResults(t *testing.T) {
	cache := NewMemoryCache()
	executions := 0
	handler := CacheMiddleware(cache, time.Minute)(func(ctx context.Context, op Operation, payload any) error {
		executions++
		payload.(*FindPayload).Result = map[string]any{"id": "1"}
		return nil
	})

	schema := &SchemaCore{Collection: "users"}

	first := &FindPayload{Schema: schema, Where: &Where{}, Single: true}
	require.NoError(t, handler(context.Background(), OperationFind, first))

	// structurally equal query, distinct payload: the hit must carry the
	// cached result back without executing
	second := &FindPayload{Schema: schema, Where: &Where{}, Single: true}
	require.NoError(t, handler(context.Background(), OperationFind, second))

	assert.Equal(t, 1, executions)
	assert.Equal(t, first.Result, second.Result)
}

func TestCacheMiddlewareDistinguishesLookupKinds(t *testing.T) {
	cache := NewMemoryCache()
	executions := 0
	handler := CacheMiddleware(cache, time.Minute)(func(ctx context.Context, op Operation, payload any) error {
		executions++
		return nil
	})

	schema := &SchemaCore{Collection: "users"}
	one := &FindPayload{Schema: schema, Where: &Where{}, Single: true}
	many := &FindPayload{Schema: schema, Where: &Where{}, Single: false}

	require.NoError(t, handler(context.Background(), OperationFind, one))
	require.NoError(t, handler(context.Background(), OperationFind, many))
	assert.Equal(t, 2, executions)
}

func TestCacheMiddlewareDistinguishesConditions(t *testing.T) {
	cache := NewMemoryCache()
	executions := 0
	handler := CacheMiddleware(cache, time.Minute)(func(ctx context.Context, op Operation, payload any) error {
		executions++
		return nil
	})

	schema := &SchemaCore{Collection: "users"}
	ada := &FindPayload{Schema: schema, Single: true, Where: &Where{
		Condition: (&Condition{FieldName: "firstname"}).Eq("Ada"),
	}}
	grace := &FindPayload{Schema: schema, Single: true, Where: &Where{
		Condition: (&Condition{FieldName: "firstname"}).Eq("Grace"),
	}}

	require.NoError(t, handler(context.Background(), OperationFind, ada))
	require.NoError(t, handler(context.Background(), OperationFind, grace))
	assert.Equal(t, 2, executions)
}

func TestCacheMiddlewareIgnoresWrites(t *testing.T) {
	cache := NewMemoryCache()
	executions := 0
	handler := CacheMiddleware(cache, time.Minute)(func(ctx context.Context, op Operation, payload any) error {
		executions++
		return nil
	})

	require.NoError(t, handler(context.Background(), OperationInsert, "doc"))
	require.NoError(t, handler(context.Background(), OperationInsert, "doc"))
	assert.Equal(t, 2, executions)
}
