package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripEmpty(t *testing.T) {
	var nilPtr *string

	changes := Changes{
		"firstname": "Ada",
		"lastname":  "",
		"age":       0,
		"active":    false,
		"tags":      []string{},
		"extras":    map[string]any{},
		"note":      nil,
		"ref":       nilPtr,
	}

	sanitized := StripEmpty(changes)

	assert.Equal(t, Changes{
		"firstname": "Ada",
		"age":       0,
		"active":    false,
	}, sanitized)
}

func TestStripEmptyDoesNotMutateInput(t *testing.T) {
	changes := Changes{"a": "", "b": 1}
	_ = StripEmpty(changes)
	assert.Len(t, changes, 2)
}

func TestStripEmptyKeepsNonEmptyCollections(t *testing.T) {
	sanitized := StripEmpty(Changes{
		"tags":   []string{"x"},
		"extras": map[string]any{"k": "v"},
	})
	assert.Len(t, sanitized, 2)
}
