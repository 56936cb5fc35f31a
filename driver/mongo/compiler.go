// Package driver provides database driver implementations for the peneira
// data-access layer. This file contains the filter compiler: a pure,
// one-shot transform from a Condition tree into a MongoDB filter document.
package driver

import (
	"fmt"

	"github.com/leandroluk/peneira/core"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Compile translates a Condition tree into a MongoDB filter document.
//
// The transform is stateless and synchronous: it never mutates its input,
// allocates only the output document, and can be called concurrently. A nil
// condition compiles to a structurally empty bson.M, so "no filtering" is
// observable with len(filter) == 0 rather than any identity comparison.
//
// Per-operator contract:
//
//	Eq                       value itself under the field, no wrapping
//	Ne                       {"$ne": v}
//	Lt/Lte/Gt/Gte            {"$lt"|"$lte"|"$gt"|"$gte": v}
//	In                       {"$in": vs}; a non-array operand is wrapped in a
//	                         one-element array
//	Between                  {"$gte": lo, "$lte": hi} for two-element
//	                         sequences; anything else passes through
//	Exists                   {"$exists": 0|1}, coercing bools, numbers and
//	                         numeric strings; uncoercible operands count as 0
//	Contains                 case-insensitive regex on string operands;
//	                         non-string operands pass through unchanged
//	NotContains              {"$not": regex}, same string guard
//	StartsWith / EndsWith    regex anchored with "^" / "$", same string guard
//	Nil                      {"$eq": nil}
//	Like                     SQL wildcard pattern translated to a regex
//	And / Or / Not           {"$and"|"$or"|"$nor": [compiled children]}
//
// String-only operators fall back to pass-through rather than failing
// because the API layer may route a typed scalar through a string operator
// key; an inert filter beats a rejected request.
//
// Unrecognized operators follow mode: lenient compiles them to an equality
// match on the raw operand (a typo becomes an inert filter, documented
// tradeoff), strict returns an error wrapping core.ErrUnknownOperator.
func Compile(condition *core.Condition, mode core.CompileMode) (bson.M, error) {
	if condition == nil || condition.Operator == nil {
		return bson.M{}, nil
	}

	if condition.Operator.IsLogical() {
		if len(condition.Children) == 0 {
			return bson.M{}, nil
		}
		childFilterList := make([]bson.M, 0, len(condition.Children))
		for _, child := range condition.Children {
			childFilter, err := Compile(child, mode)
			if err != nil {
				return nil, err
			}
			childFilterList = append(childFilterList, childFilter)
		}
		switch *condition.Operator {
		case core.OpAnd:
			// Conjunctions assembled from a filter payload's top-level
			// fields keep one output key per field; only explicit "and"
			// combinators (FieldName set by the parser) and colliding
			// fields need the $and form.
			if condition.FieldName == "" {
				if merged, ok := mergeDisjoint(childFilterList); ok {
					return merged, nil
				}
			}
			return bson.M{"$and": childFilterList}, nil
		case core.OpOr:
			return bson.M{"$or": childFilterList}, nil
		default: // core.OpNot
			return bson.M{"$nor": childFilterList}, nil
		}
	}

	fieldName := condition.FieldName
	value := condition.Value

	switch *condition.Operator {
	case core.OpNil:
		return bson.M{fieldName: bson.M{"$eq": nil}}, nil
	case core.OpEq:
		return bson.M{fieldName: value}, nil
	case core.OpNe:
		return bson.M{fieldName: bson.M{"$ne": value}}, nil
	case core.OpGt:
		return bson.M{fieldName: bson.M{"$gt": value}}, nil
	case core.OpGte:
		return bson.M{fieldName: bson.M{"$gte": value}}, nil
	case core.OpLt:
		return bson.M{fieldName: bson.M{"$lt": value}}, nil
	case core.OpLte:
		return bson.M{fieldName: bson.M{"$lte": value}}, nil
	case core.OpLike:
		pattern := toMongoLikePattern(fmt.Sprintf("%v", value))
		return bson.M{fieldName: primitive.Regex{Pattern: pattern, Options: "i"}}, nil
	case core.OpIn:
		return bson.M{fieldName: bson.M{"$in": operandArray(value)}}, nil
	case core.OpBetween:
		if lower, upper, ok := operandBounds(value); ok {
			return bson.M{fieldName: bson.M{"$gte": lower, "$lte": upper}}, nil
		}
		return bson.M{fieldName: value}, nil
	case core.OpExists:
		return bson.M{fieldName: bson.M{"$exists": existsBit(value)}}, nil
	case core.OpContains:
		if core.Classify(value) != core.KindString {
			return bson.M{fieldName: value}, nil
		}
		return bson.M{fieldName: primitive.Regex{Pattern: operandString(value), Options: "i"}}, nil
	case core.OpNotContains:
		if core.Classify(value) != core.KindString {
			return bson.M{fieldName: value}, nil
		}
		return bson.M{fieldName: bson.M{"$not": primitive.Regex{Pattern: operandString(value), Options: "i"}}}, nil
	case core.OpStartsWith:
		if core.Classify(value) != core.KindString {
			return bson.M{fieldName: value}, nil
		}
		return bson.M{fieldName: primitive.Regex{Pattern: "^" + operandString(value), Options: "i"}}, nil
	case core.OpEndsWith:
		if core.Classify(value) != core.KindString {
			return bson.M{fieldName: value}, nil
		}
		return bson.M{fieldName: primitive.Regex{Pattern: operandString(value) + "$", Options: "i"}}, nil
	default:
		if mode == core.ModeStrict {
			return nil, fmt.Errorf("mongo driver: %w: %q", core.ErrUnknownOperator, string(*condition.Operator))
		}
		return bson.M{fieldName: value}, nil
	}
}

// CompileFilter parses a raw API filter payload and compiles it in one step.
func CompileFilter(expression core.FilterExpression, mode core.CompileMode) (bson.M, error) {
	return Compile(core.ParseFilter(expression), mode)
}

// mergeDisjoint flattens compiled conjunction branches into a single
// document when no two branches share a key.
func mergeDisjoint(filters []bson.M) (bson.M, bool) {
	merged := bson.M{}
	for _, filter := range filters {
		for key, node := range filter {
			if _, exists := merged[key]; exists {
				return nil, false
			}
			merged[key] = node
		}
	}
	return merged, true
}
