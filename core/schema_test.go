package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schemaTestUser struct {
	ID        string `db:"id"`
	Firstname string `db:"firstname"`
	Nickname  string
}

func TestSchemaColumnMapping(t *testing.T) {
	schema := Schema[schemaTestUser](Table[schemaTestUser]("users"))

	assert.Equal(t, "users", schema.Collection)
	require.Len(t, schema.Fields, 3)
	assert.Equal(t, "id", schema.Fields[0].DatabaseColumnName)
	assert.Equal(t, "firstname", schema.Fields[1].DatabaseColumnName)
	// untagged fields fall back to the Go field name
	assert.Equal(t, "Nickname", schema.Fields[2].DatabaseColumnName)
}

func TestSchemaPrimaryField(t *testing.T) {
	schema := Schema[schemaTestUser](
		Table[schemaTestUser]("users"),
		OverrideField(func(u *schemaTestUser) *string { return &u.ID }, PrimaryKey()),
	)

	primary := schema.PrimaryField()
	require.NotNil(t, primary)
	assert.Equal(t, "id", primary.DatabaseColumnName)
}

func TestSchemaOverrideFieldAppliesAfterReflection(t *testing.T) {
	// overrides must take effect regardless of their position in the
	// option list, including before Table
	schema := Schema[schemaTestUser](
		OverrideField(func(u *schemaTestUser) *string { return &u.ID }, PrimaryKey(), Required()),
		Table[schemaTestUser]("users"),
		OverrideField(func(u *schemaTestUser) *string { return &u.Firstname }, Unique()),
	)

	primary := schema.PrimaryField()
	require.NotNil(t, primary)
	assert.Equal(t, "id", primary.DatabaseColumnName)
	assert.True(t, primary.IsRequired)
	assert.True(t, schema.Fields[1].IsUnique)
}

func TestSchemaOverrideFieldMarksTimestamps(t *testing.T) {
	type stamped struct {
		ID        string `db:"id"`
		CreatedAt int64  `db:"created_at"`
	}

	schema := Schema[stamped](
		Table[stamped]("stamped"),
		OverrideField(func(s *stamped) *int64 { return &s.CreatedAt }, CreatedAt()),
	)

	require.NotNil(t, schema.createdAtField)
	assert.Equal(t, "created_at", schema.createdAtField.DatabaseColumnName)
}

func TestSchemaPrimaryFieldAbsent(t *testing.T) {
	schema := Schema[schemaTestUser](Table[schemaTestUser]("users"))
	assert.Nil(t, schema.PrimaryField())
}
