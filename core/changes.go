// Package core provides the fundamental building blocks of the peneira
// data-access layer. This file defines the update payload type and the
// sanitizer applied to it before a write reaches a driver.
package core

import "reflect"

// Changes represents a set of field updates, mapping column names to new
// values. It is typically used in Update operations.
type Changes map[string]any

// StripEmpty returns a copy of the changes without "empty" values: nils,
// empty strings, and maps or slices with no elements. Partial update
// payloads assembled from optional API inputs routinely carry such holes,
// and writing them would overwrite stored data with blanks.
//
// The input map is never mutated. Zero numbers and false are kept: they are
// legitimate values, not holes.
func StripEmpty(changes Changes) Changes {
	sanitized := make(Changes, len(changes))
	for column, value := range changes {
		if isEmptyValue(value) {
			continue
		}
		sanitized[column] = value
	}
	return sanitized
}

func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	switch rv := reflect.ValueOf(value); rv.Kind() {
	case reflect.String:
		return rv.Len() == 0
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
