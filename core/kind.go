// Package core provides the fundamental building blocks of the peneira
// data-access layer. This file defines the semantic kind classifier used by
// the drivers to pick correct operator semantics for a raw operand.
package core

import (
	"math"
	"reflect"
)

// Kind is the classified semantic type of a filter operand.
//
// Classification exists because several operators (Contains, NotContains,
// StartsWith, EndsWith) are defined for string operands only: applying them
// to anything else must be a safe no-op rather than an error, since the API
// layer may route a typed scalar through a string operator key by mistake.
type Kind string

const (
	KindString Kind = "string"
	KindInt    Kind = "int"
	KindFloat  Kind = "float"
	KindBool   Kind = "bool"
	KindArray  Kind = "array"
	KindObject Kind = "object"
	KindOther  Kind = "other"
)

// Classify determines the semantic kind of a raw operand value.
//
// The rule for numeric representations refines the subtype: a whole-valued
// number classifies as KindInt, a fractional one as KindFloat. This matters
// because filter payloads decoded from JSON carry every number as float64,
// and integer semantics must be recoverable from the value itself.
//
// Non-numeric values fall back to their intrinsic representation kind
// (string, bool, array, object). Nil and unclassifiable values resolve to
// KindOther and are treated as pass-through literals by every driver.
// Classify is a pure function of the runtime representation: deterministic,
// side-effect-free, and it never fails.
func Classify(value any) Kind {
	if value == nil {
		return KindOther
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return KindString
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		if math.Mod(rv.Float(), 1) == 0 {
			return KindInt
		}
		return KindFloat
	case reflect.Slice, reflect.Array:
		return KindArray
	case reflect.Map, reflect.Struct:
		return KindObject
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return KindOther
		}
		return Classify(rv.Elem().Interface())
	default:
		return KindOther
	}
}
