package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	strValue := "pointed"
	var nilPtr *string

	testCases := []struct {
		name     string
		value    any
		expected Kind
	}{
		{"string", "hello", KindString},
		{"named string type", Operator("EQ"), KindString},
		{"bool", true, KindBool},
		{"int", 42, KindInt},
		{"int64", int64(-7), KindInt},
		{"uint", uint(3), KindInt},
		{"whole-valued float", float64(42), KindInt},
		{"whole-valued negative float", float64(-10), KindInt},
		{"fractional float", 42.5, KindFloat},
		{"zero float", float64(0), KindInt},
		{"slice", []any{1, 2}, KindArray},
		{"empty slice", []string{}, KindArray},
		{"map", map[string]any{"a": 1}, KindObject},
		{"struct", struct{ Name string }{"x"}, KindObject},
		{"nil", nil, KindOther},
		{"pointer dereferences", &strValue, KindString},
		{"nil pointer", nilPtr, KindOther},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Classify(tc.value))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, KindInt, Classify(float64(18)))
		assert.Equal(t, KindFloat, Classify(18.5))
	}
}
