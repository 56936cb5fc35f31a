// Package driver provides database driver implementations for the peneira
// data-access layer. This file compiles a Condition tree into a
// parameterized SQL WHERE clause for PostgreSQL.
package driver

import (
	"fmt"
	"strings"

	"github.com/leandroluk/peneira/core"
)

// compileCondition renders a Condition tree as a WHERE fragment, appending
// operand values to argList so every comparison is parameterized. The
// string-only operators (Contains, NotContains, StartsWith, EndsWith)
// become case-insensitive ILIKE patterns with escaped wildcards; applied to
// non-string operands they degrade to plain equality, mirroring the mongo
// driver's pass-through. A nil condition renders the neutral "1=1".
func compileCondition(condition *core.Condition, argList *[]any, mode core.CompileMode) (string, error) {
	if condition == nil || condition.Operator == nil {
		return "1=1", nil
	}
	if condition.Operator.IsLogical() {
		if len(condition.Children) == 0 {
			return "1=1", nil
		}
		partList := make([]string, 0, len(condition.Children))
		for _, child := range condition.Children {
			part, err := compileCondition(child, argList, mode)
			if err != nil {
				return "", err
			}
			partList = append(partList, part)
		}
		switch *condition.Operator {
		case core.OpAnd:
			return "(" + strings.Join(partList, " AND ") + ")", nil
		case core.OpOr:
			return "(" + strings.Join(partList, " OR ") + ")", nil
		default: // core.OpNot
			return "NOT (" + strings.Join(partList, " AND ") + ")", nil
		}
	}

	column := fmt.Sprintf("%q", condition.FieldName)
	value := condition.Value

	bind := func(v any) string {
		*argList = append(*argList, v)
		return fmt.Sprintf("$%d", len(*argList))
	}

	switch *condition.Operator {
	case core.OpNil:
		return column + " IS NULL", nil
	case core.OpEq:
		return fmt.Sprintf("%s = %s", column, bind(value)), nil
	case core.OpNe:
		return fmt.Sprintf("%s <> %s", column, bind(value)), nil
	case core.OpGt:
		return fmt.Sprintf("%s > %s", column, bind(value)), nil
	case core.OpGte:
		return fmt.Sprintf("%s >= %s", column, bind(value)), nil
	case core.OpLt:
		return fmt.Sprintf("%s < %s", column, bind(value)), nil
	case core.OpLte:
		return fmt.Sprintf("%s <= %s", column, bind(value)), nil
	case core.OpLike:
		return fmt.Sprintf("%s ILIKE %s", column, bind(value)), nil
	case core.OpIn:
		valueList := operandArray(value)
		placeholderList := make([]string, 0, len(valueList))
		for _, v := range valueList {
			placeholderList = append(placeholderList, bind(v))
		}
		return fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholderList, ", ")), nil
	case core.OpBetween:
		if lower, upper, ok := operandBounds(value); ok {
			lowerBind := bind(lower)
			upperBind := bind(upper)
			return fmt.Sprintf("%s BETWEEN %s AND %s", column, lowerBind, upperBind), nil
		}
		return fmt.Sprintf("%s = %s", column, bind(value)), nil
	case core.OpExists:
		if existsBit(value) == 1 {
			return column + " IS NOT NULL", nil
		}
		return column + " IS NULL", nil
	case core.OpContains:
		if core.Classify(value) != core.KindString {
			return fmt.Sprintf("%s = %s", column, bind(value)), nil
		}
		return fmt.Sprintf("%s ILIKE %s", column, bind("%"+escapeLikePattern(operandString(value))+"%")), nil
	case core.OpNotContains:
		if core.Classify(value) != core.KindString {
			return fmt.Sprintf("%s = %s", column, bind(value)), nil
		}
		return fmt.Sprintf("%s NOT ILIKE %s", column, bind("%"+escapeLikePattern(operandString(value))+"%")), nil
	case core.OpStartsWith:
		if core.Classify(value) != core.KindString {
			return fmt.Sprintf("%s = %s", column, bind(value)), nil
		}
		return fmt.Sprintf("%s ILIKE %s", column, bind(escapeLikePattern(operandString(value))+"%")), nil
	case core.OpEndsWith:
		if core.Classify(value) != core.KindString {
			return fmt.Sprintf("%s = %s", column, bind(value)), nil
		}
		return fmt.Sprintf("%s ILIKE %s", column, bind("%"+escapeLikePattern(operandString(value)))), nil
	default:
		if mode == core.ModeStrict {
			return "", fmt.Errorf("postgres driver: %w: %q", core.ErrUnknownOperator, string(*condition.Operator))
		}
		return fmt.Sprintf("%s = %s", column, bind(value)), nil
	}
}
