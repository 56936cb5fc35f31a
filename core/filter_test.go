package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterEmpty(t *testing.T) {
	assert.Nil(t, ParseFilter(nil))
	assert.Nil(t, ParseFilter(FilterExpression{}))
}

func TestParseFilterLiteralEquality(t *testing.T) {
	condition := ParseFilter(FilterExpression{"lastname": "Doe"})

	require.NotNil(t, condition)
	assert.Equal(t, "lastname", condition.FieldName)
	require.NotNil(t, condition.Operator)
	assert.Equal(t, OpEq, *condition.Operator)
	assert.Equal(t, "Doe", condition.Value)
	assert.Empty(t, condition.Children)
}

func TestParseFilterOperatorClause(t *testing.T) {
	condition := ParseFilter(FilterExpression{
		"age": map[string]any{"gt": float64(18)},
	})

	require.NotNil(t, condition)
	assert.Equal(t, "age", condition.FieldName)
	require.NotNil(t, condition.Operator)
	assert.Equal(t, OpGt, *condition.Operator)
	assert.Equal(t, float64(18), condition.Value)
}

func TestParseFilterOperatorAliases(t *testing.T) {
	testCases := []struct {
		name     string
		expected Operator
	}{
		{"startsWith", OpStartsWith},
		{"beginsWith", OpStartsWith},
		{"ge", OpGte},
		{"gte", OpGte},
		{"le", OpLte},
		{"lte", OpLte},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			condition := ParseFilter(FilterExpression{
				"field": map[string]any{tc.name: "v"},
			})
			require.NotNil(t, condition)
			require.NotNil(t, condition.Operator)
			assert.Equal(t, tc.expected, *condition.Operator)
		})
	}
}

func TestParseFilterMultiKeyClauseFoldsIntoAnd(t *testing.T) {
	condition := ParseFilter(FilterExpression{
		"age": map[string]any{"gte": float64(18), "lte": float64(65)},
	})

	require.NotNil(t, condition)
	require.NotNil(t, condition.Operator)
	assert.Equal(t, OpAnd, *condition.Operator)
	require.Len(t, condition.Children, 2)

	// operator keys are visited sorted, so "gte" always precedes "lte"
	assert.Equal(t, OpGte, *condition.Children[0].Operator)
	assert.Equal(t, float64(18), condition.Children[0].Value)
	assert.Equal(t, OpLte, *condition.Children[1].Operator)
	assert.Equal(t, float64(65), condition.Children[1].Value)
}

func TestParseFilterUnknownOperatorKeptRaw(t *testing.T) {
	condition := ParseFilter(FilterExpression{
		"age": map[string]any{"frobnicate": float64(1)},
	})

	require.NotNil(t, condition)
	require.NotNil(t, condition.Operator)
	assert.Equal(t, Operator("frobnicate"), *condition.Operator)
	assert.False(t, condition.Operator.IsLogical())
}

func TestParseFilterExplicitOr(t *testing.T) {
	condition := ParseFilter(FilterExpression{
		"or": []any{
			map[string]any{"firstname": "Ada"},
			map[string]any{"age": map[string]any{"gt": float64(30)}},
		},
	})

	require.NotNil(t, condition)
	assert.Equal(t, "or", condition.FieldName)
	require.NotNil(t, condition.Operator)
	assert.Equal(t, OpOr, *condition.Operator)
	require.Len(t, condition.Children, 2)
	assert.Equal(t, "firstname", condition.Children[0].FieldName)
	assert.Equal(t, OpEq, *condition.Children[0].Operator)
	assert.Equal(t, "age", condition.Children[1].FieldName)
	assert.Equal(t, OpGt, *condition.Children[1].Operator)
}

func TestParseFilterLogicalNonSequenceDegradesToLiteral(t *testing.T) {
	condition := ParseFilter(FilterExpression{"and": "oops"})

	require.NotNil(t, condition)
	assert.Equal(t, "and", condition.FieldName)
	assert.Equal(t, OpEq, *condition.Operator)
	assert.Equal(t, "oops", condition.Value)
}

func TestParseFilterLogicalSkipsNonMapElements(t *testing.T) {
	condition := ParseFilter(FilterExpression{
		"or": []any{
			map[string]any{"a": float64(1)},
			"garbage",
			map[string]any{"b": float64(2)},
		},
	})

	require.NotNil(t, condition)
	assert.Equal(t, OpOr, *condition.Operator)
	assert.Len(t, condition.Children, 2)
}

func TestParseFilterMultipleFieldsFoldIntoRootAnd(t *testing.T) {
	condition := ParseFilter(FilterExpression{
		"firstname": "Ada",
		"lastname":  "Lovelace",
	})

	require.NotNil(t, condition)
	require.NotNil(t, condition.Operator)
	assert.Equal(t, OpAnd, *condition.Operator)
	// root conjunctions carry no field name, unlike explicit "and" clauses
	assert.Equal(t, "", condition.FieldName)
	require.Len(t, condition.Children, 2)
}

func TestParseFilterDeterministic(t *testing.T) {
	expression := FilterExpression{
		"zeta":  map[string]any{"lte": float64(9), "gte": float64(1)},
		"alpha": "a",
		"or": []any{
			map[string]any{"b": float64(2)},
			map[string]any{"c": float64(3)},
		},
	}

	first := ParseFilter(expression)
	second := ParseFilter(expression)
	assert.Equal(t, first, second)
}

func TestParseFilterDoesNotMutateInput(t *testing.T) {
	clause := map[string]any{"gt": float64(18)}
	expression := FilterExpression{"age": clause}

	_ = ParseFilter(expression)

	assert.Equal(t, FilterExpression{"age": map[string]any{"gt": float64(18)}}, expression)
	assert.Equal(t, map[string]any{"gt": float64(18)}, clause)
}
