// Package core provides the fundamental building blocks of the peneira
// data-access layer. This file defines the set of supported operators used
// in filter conditions and the mapping from API-facing operator names.
package core

// Operator represents a comparison or logical operator used in a filter condition.
//
// Operators can be logical (AND, OR, NOT) or value-based (EQ, GT, IN, etc.).
// The semantics of unknown operators are decided by the drivers: in lenient
// mode an unrecognized operator degrades to an equality match on the raw
// operand, in strict mode it compiles to an error.
type Operator string

const (
	// Logical operators
	opAnd Operator = "AND"
	opOr  Operator = "OR"
	opNot Operator = "NOT"

	// Value-based operators
	opNil         Operator = "NIL"          // field IS NULL
	opEq          Operator = "EQ"           // field = value
	opNe          Operator = "NE"           // field <> value
	opGt          Operator = "GT"           // field > value
	opGte         Operator = "GTE"          // field >= value
	opLt          Operator = "LT"           // field < value
	opLte         Operator = "LTE"          // field <= value
	opLike        Operator = "LIKE"         // field LIKE pattern (SQL) or regex (NoSQL)
	opIn          Operator = "IN"           // field IN (value list)
	opBetween     Operator = "BETWEEN"      // lower <= field <= upper
	opExists      Operator = "EXISTS"       // field is present / IS NOT NULL
	opContains    Operator = "CONTAINS"     // field contains substring (case-insensitive)
	opNotContains Operator = "NOT_CONTAINS" // field does not contain substring
	opStartsWith  Operator = "STARTS_WITH"  // field starts with prefix (case-insensitive)
	opEndsWith    Operator = "ENDS_WITH"    // field ends with suffix (case-insensitive)
)

// Public operator aliases exposed to users of the data-access layer.
//
// These variables reference the internal constants and are intended
// to be used when constructing conditions programmatically.
//
// Example:
//
//	cond := &core.Condition{FieldName: "age", Operator: &core.OpGt, Value: 18}
var (
	OpAnd         = opAnd
	OpOr          = opOr
	OpNot         = opNot
	OpNil         = opNil
	OpEq          = opEq
	OpNe          = opNe
	OpGt          = opGt
	OpGte         = opGte
	OpLt          = opLt
	OpLte         = opLte
	OpLike        = opLike
	OpIn          = opIn
	OpBetween     = opBetween
	OpExists      = opExists
	OpContains    = opContains
	OpNotContains = opNotContains
	OpStartsWith  = opStartsWith
	OpEndsWith    = opEndsWith
)

// operatorNames maps API-facing operator names, as they arrive inside a
// parsed filter payload, to internal operator tokens.
//
// The canonical prefix-match name is "startsWith"; "beginsWith" is kept as a
// compatibility alias because older clients of the original API used it for
// the same semantics. Both "le"/"ge" and "lte"/"gte" are accepted for the
// bounded comparisons.
var operatorNames = map[string]Operator{
	"and":         opAnd,
	"or":          opOr,
	"not":         opNot,
	"nil":         opNil,
	"eq":          opEq,
	"ne":          opNe,
	"gt":          opGt,
	"ge":          opGte,
	"gte":         opGte,
	"lt":          opLt,
	"le":          opLte,
	"lte":         opLte,
	"like":        opLike,
	"in":          opIn,
	"between":     opBetween,
	"exists":      opExists,
	"contains":    opContains,
	"notContains": opNotContains,
	"startsWith":  opStartsWith,
	"beginsWith":  opStartsWith,
	"endsWith":    opEndsWith,
}

// LookupOperator resolves an API-facing operator name to its internal token.
//
// The second return reports whether the name is recognized. Unrecognized
// names are returned unchanged as a raw Operator so that drivers can apply
// their lenient or strict policy to them.
func LookupOperator(name string) (Operator, bool) {
	if op, ok := operatorNames[name]; ok {
		return op, true
	}
	return Operator(name), false
}

// IsLogical reports whether the operator combines sub-conditions
// rather than comparing a field against an operand.
func (op Operator) IsLogical() bool {
	switch op {
	case opAnd, opOr, opNot:
		return true
	}
	return false
}
