package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type queryTestUser struct {
	ID        string `db:"id"`
	Firstname string `db:"firstname"`
	Age       int    `db:"age"`
}

func queryTestSchema(t *testing.T) *SchemaMeta[queryTestUser] {
	t.Helper()
	return Schema[queryTestUser](
		Table[queryTestUser]("users"),
		OverrideField(func(u *queryTestUser) *string { return &u.ID }, PrimaryKey()),
	)
}

func TestQueryPage(t *testing.T) {
	q := NewQuery(queryTestSchema(t)).Page(3, 20)

	assert.Equal(t, 20, q.where.Limit)
	assert.Equal(t, 40, q.where.Offset)
}

func TestQueryPageClampsBelowOne(t *testing.T) {
	q := NewQuery(queryTestSchema(t)).Page(0, -5)

	assert.Equal(t, 1, q.where.Limit)
	assert.Equal(t, 0, q.where.Offset)
}

func TestQueryFilterExpression(t *testing.T) {
	q := NewQuery(queryTestSchema(t)).FilterExpression(FilterExpression{
		"age": map[string]any{"gte": float64(18)},
	})

	require.NotNil(t, q.where.Condition)
	assert.Equal(t, "age", q.where.Condition.FieldName)
	assert.Equal(t, OpGte, *q.where.Condition.Operator)
}

func TestQueryFilterExpressionEmptyMeansUnfiltered(t *testing.T) {
	q := NewQuery(queryTestSchema(t)).FilterExpression(FilterExpression{})
	assert.Nil(t, q.where.Condition)
}

func TestQueryOrderByLimitOffset(t *testing.T) {
	q := NewQuery(queryTestSchema(t)).
		OrderBy("firstname", 1).
		OrderBy("age", -1).
		Limit(10).
		Offset(5)

	require.Len(t, q.where.Sort, 2)
	assert.Equal(t, Sort{FieldName: "firstname", Order: 1}, q.where.Sort[0])
	assert.Equal(t, Sort{FieldName: "age", Order: -1}, q.where.Sort[1])
	assert.Equal(t, 10, q.where.Limit)
	assert.Equal(t, 5, q.where.Offset)
}

func TestPageCount(t *testing.T) {
	testCases := []struct {
		total    int64
		perPage  int
		expected int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 7, 15},
		{5, 0, 0},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, PageCount(tc.total, tc.perPage))
	}
}
