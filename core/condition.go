// Package core provides the fundamental building blocks of the peneira
// data-access layer. It defines abstractions for filters, queries, models,
// schema handling, and drivers.
package core

// Condition represents a single clause in a query filter.
//
// A condition can target a specific field (FieldName) with a given operator
// (Eq, Gt, Contains, In, etc.) and a comparison value. Conditions can also
// be nested using Children, enabling composition of complex logical
// expressions with AND, OR, and NOT.
//
// Example:
//
//	cond := (&Condition{FieldName: "age"}).Gt(18).
//		And((&Condition{FieldName: "status"}).Eq("active"))
//
// The above creates a condition equivalent to:
//
//	(age > 18) AND (status = "active")
//
// A Condition tree is the normalized, unambiguous form of an API filter
// payload: ParseFilter produces one from a raw map, and the drivers compile
// it into their backend-native filter representation. The tree is treated
// as immutable by every consumer.
type Condition struct {
	FieldName string       // The field/column name this condition applies to
	Operator  *Operator    // The comparison operator (Eq, Gt, Contains, etc.)
	Value     any          // The comparison value
	Children  []*Condition // Nested conditions (for AND, OR, NOT expressions)
}

// And combines this condition with additional conditions using the logical AND operator.
func (c *Condition) And(conditions ...*Condition) *Condition {
	return &Condition{
		Operator: &OpAnd,
		Children: append([]*Condition{c}, conditions...),
	}
}

// Or combines this condition with additional conditions using the logical OR operator.
func (c *Condition) Or(conditions ...*Condition) *Condition {
	return &Condition{
		Operator: &OpOr,
		Children: append([]*Condition{c}, conditions...),
	}
}

// Not negates this condition using the logical NOT operator.
func (c *Condition) Not() *Condition {
	return &Condition{
		Operator: &OpNot,
		Children: []*Condition{c},
	}
}

// Nil sets this condition to check for NULL values (IS NULL).
func (c *Condition) Nil() *Condition {
	c.Operator = &OpNil
	c.Value = nil
	return c
}

// Eq sets this condition to check for equality (=).
func (c *Condition) Eq(v any) *Condition {
	c.Operator = &OpEq
	c.Value = v
	return c
}

// Ne sets this condition to check for inequality (<>).
func (c *Condition) Ne(v any) *Condition {
	c.Operator = &OpNe
	c.Value = v
	return c
}

// Gt sets this condition to check for "greater than" (>).
func (c *Condition) Gt(v any) *Condition {
	c.Operator = &OpGt
	c.Value = v
	return c
}

// Gte sets this condition to check for "greater than or equal" (>=).
func (c *Condition) Gte(v any) *Condition {
	c.Operator = &OpGte
	c.Value = v
	return c
}

// Lt sets this condition to check for "less than" (<).
func (c *Condition) Lt(v any) *Condition {
	c.Operator = &OpLt
	c.Value = v
	return c
}

// Lte sets this condition to check for "less than or equal" (<=).
func (c *Condition) Lte(v any) *Condition {
	c.Operator = &OpLte
	c.Value = v
	return c
}

// Like sets this condition to perform a pattern match (SQL LIKE / regex equivalent).
func (c *Condition) Like(v any) *Condition {
	c.Operator = &OpLike
	c.Value = v
	return c
}

// In sets this condition to check whether the field value is contained in the provided list.
func (c *Condition) In(values ...any) *Condition {
	c.Operator = &OpIn
	c.Value = values
	return c
}

// Between sets this condition to check whether the field value lies in the
// closed interval [lower, upper].
func (c *Condition) Between(lower, upper any) *Condition {
	c.Operator = &OpBetween
	c.Value = []any{lower, upper}
	return c
}

// Exists sets this condition to check for field presence. When present is
// false the condition matches documents/rows where the field is absent.
func (c *Condition) Exists(present bool) *Condition {
	c.Operator = &OpExists
	c.Value = present
	return c
}

// Contains sets this condition to a case-insensitive substring match.
// Defined for string operands only; drivers pass non-string operands
// through unchanged.
func (c *Condition) Contains(v any) *Condition {
	c.Operator = &OpContains
	c.Value = v
	return c
}

// NotContains sets this condition to a negated case-insensitive substring match.
func (c *Condition) NotContains(v any) *Condition {
	c.Operator = &OpNotContains
	c.Value = v
	return c
}

// StartsWith sets this condition to a case-insensitive prefix match.
func (c *Condition) StartsWith(v any) *Condition {
	c.Operator = &OpStartsWith
	c.Value = v
	return c
}

// EndsWith sets this condition to a case-insensitive suffix match.
func (c *Condition) EndsWith(v any) *Condition {
	c.Operator = &OpEndsWith
	c.Value = v
	return c
}
