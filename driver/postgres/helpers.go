// Package driver provides database driver implementations for the peneira
// data-access layer. This file contains helper functions used by the
// PostgreSQL driver for operand coercion and LIKE-pattern escaping.
package driver

import (
	"reflect"
	"strconv"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern neutralizes LIKE wildcards inside user text so that
// Contains/StartsWith/EndsWith mean literal substrings, not patterns.
func escapeLikePattern(input string) string {
	return likeEscaper.Replace(input)
}

// operandString extracts the string content of an operand already
// classified as a string, covering named string types as well.
func operandString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return reflect.ValueOf(value).String()
}

// operandArray normalizes an IN operand to []any. Non-sequence operands are
// wrapped in a one-element array so a scalar still yields a valid clause.
func operandArray(value any) []any {
	switch v := value.(type) {
	case []any:
		return v
	case nil:
		return []any{nil}
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{value}
	}
	array := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		array[i] = rv.Index(i).Interface()
	}
	return array
}

// operandBounds extracts the lower and upper bound of a BETWEEN operand.
// Only two-element sequences qualify.
func operandBounds(value any) (lower, upper any, ok bool) {
	array := operandArray(value)
	if len(array) != 2 {
		return nil, nil, false
	}
	return array[0], array[1], true
}

// existsBit coerces an EXISTS operand to 0 or 1. Bools, numbers, and
// numeric strings coerce by truthiness; anything uncoercible resolves to 0.
func existsBit(value any) int {
	switch v := value.(type) {
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n != 0 {
			return 1
		}
		return 0
	}
	switch rv := reflect.ValueOf(value); rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() != 0 {
			return 1
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() != 0 {
			return 1
		}
	case reflect.Float32, reflect.Float64:
		if rv.Float() != 0 {
			return 1
		}
	}
	return 0
}
