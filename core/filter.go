// Package core provides the fundamental building blocks of the peneira
// data-access layer. This file defines the boundary parser that turns a raw
// API filter payload into the normalized Condition tree consumed by drivers.
package core

import "sort"

// FilterExpression is the declarative, API-facing filter shape: a mapping
// from field name to either a literal value (equality shorthand), an
// operator clause (operator name -> operand), or the reserved names
// "and"/"or" mapped to a sequence of nested FilterExpressions.
//
// It is typically the decoded argument of a resolver or handler, so every
// number inside it arrives as float64 and every nested mapping as
// map[string]any.
type FilterExpression = map[string]any

// ParseFilter converts a FilterExpression into a Condition tree.
//
// Resolution is structural, not iteration-order dependent:
//
//   - a bare literal value becomes an equality condition on the field;
//   - a mapping value is an operator clause: each key yields one condition,
//     and several keys fold into an AND (a defined meaning, instead of
//     honoring whichever key happens to be enumerated first);
//   - "and"/"or" over a sequence of nested expressions recurse into a
//     logical condition whose children are the parsed sub-filters.
//
// Field and operator keys are visited in sorted order so that parsing the
// same payload twice yields structurally identical trees. The input is
// never mutated. An empty or nil expression parses to a nil Condition,
// which every driver compiles to a structurally empty filter.
//
// Malformed shapes never fail: an "and"/"or" whose operand is not a
// sequence degrades to a literal equality on that field name, and elements
// of a logical sequence that are not nested mappings are ignored. Stricter
// validation belongs upstream, at the schema layer.
func ParseFilter(expression FilterExpression) *Condition {
	conditionList := make([]*Condition, 0, len(expression))

	for _, fieldName := range sortedKeys(expression) {
		value := expression[fieldName]

		if op, known := LookupOperator(fieldName); known && op.IsLogical() {
			if branches, ok := logicalBranches(value); ok {
				operator := op
				children := make([]*Condition, 0, len(branches))
				for _, branch := range branches {
					if child := ParseFilter(branch); child != nil {
						children = append(children, child)
					}
				}
				conditionList = append(conditionList, &Condition{
					FieldName: fieldName,
					Operator:  &operator,
					Children:  children,
				})
				continue
			}
		}

		if clause, ok := value.(map[string]any); ok {
			for _, operatorName := range sortedKeys(clause) {
				operator, _ := LookupOperator(operatorName)
				conditionList = append(conditionList, &Condition{
					FieldName: fieldName,
					Operator:  &operator,
					Value:     clause[operatorName],
				})
			}
			continue
		}

		operator := opEq
		conditionList = append(conditionList, &Condition{
			FieldName: fieldName,
			Operator:  &operator,
			Value:     value,
		})
	}

	return foldConditionsAnd(conditionList...)
}

// logicalBranches extracts the nested sub-filters of an "and"/"or" operand.
// The operand must be a sequence; elements that are not nested mappings are
// skipped.
func logicalBranches(value any) ([]map[string]any, bool) {
	switch seq := value.(type) {
	case []map[string]any:
		return seq, true
	case []any:
		branches := make([]map[string]any, 0, len(seq))
		for _, element := range seq {
			if branch, ok := element.(map[string]any); ok {
				branches = append(branches, branch)
			}
		}
		return branches, true
	default:
		return nil, false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
