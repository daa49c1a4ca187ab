package engine

import (
	"fmt"

	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
)

// apply runs the leaf operator over two present operands.
func (e *evaluation) apply(leaf pdp_model.Leaf, left, right pdp_model.Value) bool {
	switch leaf.Operator {
	case pdp_model.OperatorEquals:
		return left.Equal(right)
	case pdp_model.OperatorNotEqual:
		return !left.Equal(right)
	case pdp_model.OperatorGreaterThan,
		pdp_model.OperatorGreaterThanOrEqual,
		pdp_model.OperatorLessThan,
		pdp_model.OperatorLessThanOrEqual:
		return e.ordered(leaf, left, right)
	case pdp_model.OperatorIn:
		elems, ok := right.Elements()
		if !ok {
			e.notASequence(leaf, "value", right)
			return false
		}
		return containsScalar(elems, left)
	case pdp_model.OperatorNotIn:
		// not_in needs a list just like in; it is not the negation of in
		elems, ok := right.Elements()
		if !ok {
			e.notASequence(leaf, "value", right)
			return false
		}
		return !containsScalar(elems, left)
	case pdp_model.OperatorContains:
		elems, ok := left.Elements()
		if !ok {
			e.notASequence(leaf, "attribute", left)
			return false
		}
		return containsScalar(elems, right)
	default:
		e.report(pdp_model.Diagnostic{
			Kind:      pdp_model.DiagnosticUnknownOperator,
			Attribute: leaf.Attribute.String(),
			Operator:  leaf.Operator,
			Message:   fmt.Sprintf("operator %q is not supported", leaf.Operator),
		})
		return false
	}
}

func (e *evaluation) ordered(leaf pdp_model.Leaf, left, right pdp_model.Value) bool {
	cmp, ok := left.Compare(right)
	if !ok {
		e.report(pdp_model.Diagnostic{
			Kind:      pdp_model.DiagnosticTypeMismatch,
			Attribute: leaf.Attribute.String(),
			Operator:  leaf.Operator,
			Message:   fmt.Sprintf("cannot order %s against %s", left.Kind(), right.Kind()),
		})
		return false
	}
	switch leaf.Operator {
	case pdp_model.OperatorGreaterThan:
		return cmp > 0
	case pdp_model.OperatorGreaterThanOrEqual:
		return cmp >= 0
	case pdp_model.OperatorLessThan:
		return cmp < 0
	default:
		return cmp <= 0
	}
}

func (e *evaluation) notASequence(leaf pdp_model.Leaf, side string, v pdp_model.Value) {
	e.report(pdp_model.Diagnostic{
		Kind:      pdp_model.DiagnosticNotASequence,
		Attribute: leaf.Attribute.String(),
		Operator:  leaf.Operator,
		Message:   fmt.Sprintf("%s operand is %s, not a list", side, v.Kind()),
	})
}

// containsScalar tests membership. Only scalar elements can match.
func containsScalar(elems []pdp_model.Value, needle pdp_model.Value) bool {
	if !needle.IsScalar() {
		return false
	}
	for _, el := range elems {
		if el.IsScalar() && el.Equal(needle) {
			return true
		}
	}
	return false
}
