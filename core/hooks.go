// Package core provides the fundamental building blocks of the peneira
// data-access layer. This file defines lifecycle hooks that allow custom
// logic to be executed before or after persistence operations such as
// insert, update, delete, and find.
package core

// PreHook represents a lifecycle hook that runs before a persistence operation.
//
// Hooks are identified by string tokens (e.g., "pre:insert") and can be
// registered per entity schema. They allow validation, transformation,
// or side effects to be applied before the operation is executed.
type PreHook string

// PostHook represents a lifecycle hook that runs after a persistence operation.
//
// Hooks are identified by string tokens (e.g., "post:update") and can be
// registered per entity schema. They allow actions such as logging,
// cache invalidation, or event publishing after the operation succeeds.
type PostHook string

const (
	PreInsert PreHook = "pre:insert"
	PreUpdate PreHook = "pre:update"
	PreDelete PreHook = "pre:delete"
	PreFind   PreHook = "pre:find"

	PostInsert PostHook = "post:insert"
	PostUpdate PostHook = "post:update"
	PostDelete PostHook = "post:delete"
	PostFind   PostHook = "post:find"
)
