// Package core provides the fundamental building blocks of the peneira
// data-access layer. This file defines the middleware system, which allows
// cross-cutting concerns (logging, caching, auditing, etc.) to be applied
// to persistence operations.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Operation represents the type of operation being executed by the
// data-access layer.
//
// It is used within middlewares to distinguish between inserts, updates,
// deletes, and queries.
type Operation string

const (
	// OperationInsert corresponds to an insert (create) operation.
	OperationInsert Operation = "insert"
	// OperationUpdate corresponds to an update operation.
	OperationUpdate Operation = "update"
	// OperationDelete corresponds to a delete operation.
	OperationDelete Operation = "delete"
	// OperationFind corresponds to a query (find) operation.
	OperationFind Operation = "find"
)

// Handler is the function signature executed by the operation pipeline.
//
// It receives a context, the operation type, and an arbitrary payload.
// Handlers are composed by middlewares to add cross-cutting logic.
type Handler func(ctx context.Context, op Operation, payload any) error

// Middleware is a function that wraps a Handler with additional logic.
//
// Middlewares are chained globally and executed for every operation.
// They follow the decorator pattern.
type Middleware func(next Handler) Handler

var globalMiddlewareList []Middleware

// Use registers a new global middleware, applied to all operations.
//
// Middlewares are executed in reverse registration order: the most
// recently registered middleware is executed first.
func Use(mw Middleware) {
	globalMiddlewareList = append(globalMiddlewareList, mw)
}

// runMiddlewares applies the chain of middlewares to the final handler.
func runMiddlewares(final Handler) Handler {
	h := final
	// Apply in reverse order (last registered runs first).
	for i := len(globalMiddlewareList) - 1; i >= 0; i-- {
		h = globalMiddlewareList[i](h)
	}
	return h
}

// dispatchOperation executes an operation through the global middleware chain.
//
// The exec function contains the core logic of the operation and is wrapped
// by the registered middlewares.
func dispatchOperation(ctx context.Context, op Operation, payload any, exec func() error) error {
	handler := runMiddlewares(func(ctx context.Context, op Operation, payload any) error {
		return exec()
	})
	return handler(ctx, op, payload)
}

// FindPayload is the dispatch payload of find operations. The exec step
// writes the raw driver result into Result, so a middleware can observe it
// after calling next — or skip next entirely and supply Result itself.
type FindPayload struct {
	Schema *SchemaCore
	Where  *Where
	Single bool // one-document lookup vs list lookup
	Result any
}

// LoggingMiddleware emits a structured log record for every operation
// passing through the pipeline, including its duration and outcome.
//
// A nil logger falls back to slog.Default().
//
// Example:
//
//	core.Use(core.LoggingMiddleware(slog.Default()))
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, op Operation, payload any) error {
			start := time.Now()
			err := next(ctx, op, payload)
			elapsed := time.Since(start)
			if err != nil {
				logger.ErrorContext(ctx, "operation failed",
					slog.String("op", string(op)),
					slog.Duration("took", elapsed),
					slog.String("error", err.Error()),
				)
				return err
			}
			logger.DebugContext(ctx, "operation done",
				slog.String("op", string(op)),
				slog.Duration("took", elapsed),
			)
			return nil
		}
	}
}

// Cache defines the interface for pluggable caching mechanisms.
//
// A Cache stores arbitrary values with a TTL (time-to-live) and can
// be used by middlewares to avoid hitting the database repeatedly.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

// memoryCache is a simple in-memory Cache implementation.
//
// It uses a map protected by a RWMutex and supports expiration.
type memoryCache struct {
	data  map[string]memoryEntry
	mutex sync.RWMutex
}

type memoryEntry struct {
	value      any
	expiration time.Time
}

// NewMemoryCache creates a new in-memory Cache instance.
func NewMemoryCache() Cache {
	return &memoryCache{
		data: make(map[string]memoryEntry),
	}
}

// Get retrieves a value from the cache by key.
// It returns false if the key does not exist or is expired.
func (c *memoryCache) Get(key string) (any, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	entry, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if !entry.expiration.IsZero() && time.Now().After(entry.expiration) {
		return nil, false
	}
	return entry.value, true
}

// Set stores a value in the cache with the given TTL (time-to-live).
// If TTL is 0, the entry does not expire.
func (c *memoryCache) Set(key string, value any, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	c.data[key] = memoryEntry{value: value, expiration: exp}
}

// CacheMiddleware adds caching for read operations.
//
// It caches the raw driver result of find operations, keyed by the query's
// structure. A repeated query within the TTL window is answered from the
// cache: the stored result is written back into the FindPayload and the
// driver is never hit. A TTL of 0 keeps the default of 30s.
//
// Example:
//
//	cache := core.NewMemoryCache()
//	core.Use(core.CacheMiddleware(cache, time.Minute))
func CacheMiddleware(cache Cache, ttl time.Duration) Middleware {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, op Operation, payload any) error {
			find, ok := payload.(*FindPayload)
			if op != OperationFind || !ok {
				return next(ctx, op, payload)
			}

			key := cacheKey(find)

			if cached, hit := cache.Get(key); hit {
				find.Result = cached
				return nil
			}

			// execute normally and cache the result if no error occurred
			err := next(ctx, op, payload)
			if err == nil {
				cache.Set(key, find.Result, ttl)
			}
			return err
		}
	}
}

// cacheKey renders a structural key for a find: collection, lookup kind,
// pagination, soft-delete toggles, sort, and the condition tree. Two
// queries with the same shape share a key even when their Condition
// pointers differ.
func cacheKey(find *FindPayload) string {
	var key strings.Builder
	if find.Schema != nil {
		key.WriteString(find.Schema.Database)
		key.WriteString(".")
		key.WriteString(find.Schema.Collection)
	}
	if find.Single {
		key.WriteString("|one")
	} else {
		key.WriteString("|many")
	}
	if where := find.Where; where != nil {
		fmt.Fprintf(&key, "|l%d|o%d|w%t|d%t", where.Limit, where.Offset, where.WithDeleted, where.OnlyDeleted)
		for _, sortItem := range where.Sort {
			fmt.Fprintf(&key, "|s%s:%d", sortItem.FieldName, sortItem.Order)
		}
		writeConditionKey(&key, where.Condition)
	}
	return key.String()
}

func writeConditionKey(key *strings.Builder, condition *Condition) {
	if condition == nil {
		return
	}
	operator := ""
	if condition.Operator != nil {
		operator = string(*condition.Operator)
	}
	fmt.Fprintf(key, "|c%s %s %v(", condition.FieldName, operator, condition.Value)
	for _, child := range condition.Children {
		writeConditionKey(key, child)
	}
	key.WriteString(")")
}
