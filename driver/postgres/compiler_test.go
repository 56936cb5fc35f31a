package driver

import (
	"testing"

	"github.com/leandroluk/peneira/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileClause(t *testing.T, condition *core.Condition) (string, []any) {
	t.Helper()
	argList := []any{}
	clause, err := compileCondition(condition, &argList, core.ModeLenient)
	require.NoError(t, err)
	return clause, argList
}

func TestCompileConditionNil(t *testing.T) {
	clause, argList := compileClause(t, nil)
	assert.Equal(t, "1=1", clause)
	assert.Empty(t, argList)
}

func TestCompileConditionEq(t *testing.T) {
	clause, argList := compileClause(t, (&core.Condition{FieldName: "firstname"}).Eq("Ada"))
	assert.Equal(t, `"firstname" = $1`, clause)
	assert.Equal(t, []any{"Ada"}, argList)
}

func TestCompileConditionComparisons(t *testing.T) {
	testCases := []struct {
		name      string
		condition *core.Condition
		expected  string
		argList   []any
	}{
		{"ne", (&core.Condition{FieldName: "age"}).Ne(18), `"age" <> $1`, []any{18}},
		{"gt", (&core.Condition{FieldName: "age"}).Gt(18), `"age" > $1`, []any{18}},
		{"gte", (&core.Condition{FieldName: "age"}).Gte(18), `"age" >= $1`, []any{18}},
		{"lt", (&core.Condition{FieldName: "age"}).Lt(65), `"age" < $1`, []any{65}},
		{"lte", (&core.Condition{FieldName: "age"}).Lte(65), `"age" <= $1`, []any{65}},
		{"nil", (&core.Condition{FieldName: "deleted_at"}).Nil(), `"deleted_at" IS NULL`, []any{}},
		{"like", (&core.Condition{FieldName: "name"}).Like("Jo%"), `"name" ILIKE $1`, []any{"Jo%"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clause, argList := compileClause(t, tc.condition)
			assert.Equal(t, tc.expected, clause)
			assert.Equal(t, tc.argList, argList)
		})
	}
}

func TestCompileConditionIn(t *testing.T) {
	clause, argList := compileClause(t, (&core.Condition{FieldName: "status"}).In("active", "pending"))
	assert.Equal(t, `"status" IN ($1, $2)`, clause)
	assert.Equal(t, []any{"active", "pending"}, argList)
}

func TestCompileConditionBetween(t *testing.T) {
	clause, argList := compileClause(t, (&core.Condition{FieldName: "age"}).Between(18, 65))
	assert.Equal(t, `"age" BETWEEN $1 AND $2`, clause)
	assert.Equal(t, []any{18, 65}, argList)
}

func TestCompileConditionExists(t *testing.T) {
	clause, argList := compileClause(t, (&core.Condition{FieldName: "nickname"}).Exists(true))
	assert.Equal(t, `"nickname" IS NOT NULL`, clause)
	assert.Empty(t, argList)

	clause, argList = compileClause(t, (&core.Condition{FieldName: "nickname"}).Exists(false))
	assert.Equal(t, `"nickname" IS NULL`, clause)
	assert.Empty(t, argList)
}

func TestCompileConditionContains(t *testing.T) {
	clause, argList := compileClause(t, (&core.Condition{FieldName: "firstname"}).Contains("dump"))
	assert.Equal(t, `"firstname" ILIKE $1`, clause)
	assert.Equal(t, []any{"%dump%"}, argList)
}

func TestCompileConditionContainsEscapesWildcards(t *testing.T) {
	_, argList := compileClause(t, (&core.Condition{FieldName: "note"}).Contains("50%_done"))
	assert.Equal(t, []any{`%50\%\_done%`}, argList)
}

func TestCompileConditionNotContains(t *testing.T) {
	clause, argList := compileClause(t, (&core.Condition{FieldName: "firstname"}).NotContains("dump"))
	assert.Equal(t, `"firstname" NOT ILIKE $1`, clause)
	assert.Equal(t, []any{"%dump%"}, argList)
}

func TestCompileConditionStartsWith(t *testing.T) {
	clause, argList := compileClause(t, (&core.Condition{FieldName: "email"}).StartsWith("ada"))
	assert.Equal(t, `"email" ILIKE $1`, clause)
	assert.Equal(t, []any{"ada%"}, argList)
}

func TestCompileConditionEndsWith(t *testing.T) {
	clause, argList := compileClause(t, (&core.Condition{FieldName: "email"}).EndsWith("gmail.com"))
	assert.Equal(t, `"email" ILIKE $1`, clause)
	assert.Equal(t, []any{"%gmail.com"}, argList)
}

func TestCompileConditionStringOperatorNonStringDegradesToEquality(t *testing.T) {
	clause, argList := compileClause(t, (&core.Condition{FieldName: "age"}).Contains(5))
	assert.Equal(t, `"age" = $1`, clause)
	assert.Equal(t, []any{5}, argList)
}

func TestCompileConditionLogical(t *testing.T) {
	condition := (&core.Condition{FieldName: "age"}).Gt(18).
		And((&core.Condition{FieldName: "status"}).Eq("active"))

	clause, argList := compileClause(t, condition)
	assert.Equal(t, `("age" > $1 AND "status" = $2)`, clause)
	assert.Equal(t, []any{18, "active"}, argList)
}

func TestCompileConditionOr(t *testing.T) {
	condition := (&core.Condition{FieldName: "firstname"}).Eq("Ada").
		Or((&core.Condition{FieldName: "age"}).Gt(30))

	clause, argList := compileClause(t, condition)
	assert.Equal(t, `("firstname" = $1 OR "age" > $2)`, clause)
	assert.Equal(t, []any{"Ada", 30}, argList)
}

func TestCompileConditionNot(t *testing.T) {
	condition := (&core.Condition{FieldName: "status"}).Eq("banned").Not()

	clause, argList := compileClause(t, condition)
	assert.Equal(t, `NOT ("status" = $1)`, clause)
	assert.Equal(t, []any{"banned"}, argList)
}

func TestCompileConditionFromFilterExpression(t *testing.T) {
	condition := core.ParseFilter(core.FilterExpression{
		"age": map[string]any{"gte": float64(18), "lte": float64(65)},
	})

	clause, argList := compileClause(t, condition)
	assert.Equal(t, `("age" >= $1 AND "age" <= $2)`, clause)
	assert.Equal(t, []any{float64(18), float64(65)}, argList)
}

func TestCompileConditionUnknownOperatorLenient(t *testing.T) {
	frobnicate := core.Operator("frobnicate")
	condition := &core.Condition{FieldName: "age", Operator: &frobnicate, Value: 1}

	clause, argList := compileClause(t, condition)
	assert.Equal(t, `"age" = $1`, clause)
	assert.Equal(t, []any{1}, argList)
}

func TestCompileConditionUnknownOperatorStrict(t *testing.T) {
	frobnicate := core.Operator("frobnicate")
	condition := &core.Condition{FieldName: "age", Operator: &frobnicate, Value: 1}

	argList := []any{}
	_, err := compileCondition(condition, &argList, core.ModeStrict)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownOperator)
}
