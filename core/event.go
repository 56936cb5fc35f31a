// Package core provides the fundamental building blocks of the peneira
// data-access layer. It defines abstractions for queries, models, schema
// handling, events, and drivers.
package core

import "sync"

// Event represents a lifecycle event that can be emitted by the data-access layer.
//
// Events are triggered during insert, update, delete, and find operations.
// They allow users to register custom handlers to observe or react to changes
// in the persistence layer.
type Event string

const (
	// EventInsert is emitted after an entity/document is inserted.
	EventInsert Event = "insert"
	// EventUpdate is emitted after an entity/document is updated.
	EventUpdate Event = "update"
	// EventDelete is emitted after an entity/document is deleted.
	EventDelete Event = "delete"
	// EventFind is emitted after a query returns.
	EventFind Event = "find"
)

// EventHandler is the signature of functions invoked when an event fires.
// Handlers run on their own goroutine and must not assume ordering.
type EventHandler func(payload any)

// EventDispatcher fans events out to registered handlers.
// Registration and emission are guarded by a read-write mutex.
type EventDispatcher struct {
	mutex       sync.RWMutex
	handlerList map[Event][]EventHandler
}

var globalDispatcher = &EventDispatcher{
	handlerList: make(map[Event][]EventHandler),
}

// On registers a handler for the given event on the global dispatcher.
func On(event Event, handler EventHandler) {
	globalDispatcher.mutex.Lock()
	defer globalDispatcher.mutex.Unlock()
	globalDispatcher.handlerList[event] = append(globalDispatcher.handlerList[event], handler)
}

// Emit dispatches an event with the given payload to all registered handlers.
func Emit(event Event, payload any) {
	globalDispatcher.mutex.RLock()
	defer globalDispatcher.mutex.RUnlock()
	if hs, ok := globalDispatcher.handlerList[event]; ok {
		for _, h := range hs {
			go h(payload)
		}
	}
}

// InsertPayload is delivered with EventInsert.
type InsertPayload[T any] struct {
	Schema *SchemaCore
	Doc    *T
}

// UpdatePayload is delivered with EventUpdate.
type UpdatePayload struct {
	Schema    *SchemaCore
	Condition *Condition
	Changes   Changes
}

// DeletePayload is delivered with EventDelete.
type DeletePayload struct {
	Schema    *SchemaCore
	Condition *Condition
}

// FindOnePayload is delivered with EventFind after a single-document lookup.
type FindOnePayload[T any] struct {
	Schema *SchemaCore
	Where  *Where
	Doc    *T
}

// FindManyPayload is delivered with EventFind after a list lookup.
type FindManyPayload[T any] struct {
	Schema  *SchemaCore
	Where   *Where
	DocList []T
}
