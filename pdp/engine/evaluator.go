package engine

import (
	"fmt"

	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
)

// ConditionEvaluator evaluates condition trees against a request. It holds no
// per-call state and is safe for concurrent use.
type ConditionEvaluator struct {
	diagnostics pdp_model.DiagnosticHandler
}

// NewConditionEvaluator returns an evaluator that reports fail-closed leaves
// to handler. A nil handler discards them.
func NewConditionEvaluator(handler pdp_model.DiagnosticHandler) *ConditionEvaluator {
	return &ConditionEvaluator{diagnostics: handler}
}

// Evaluate reports whether condition holds for src. It never panics on
// missing or mistyped data; such leaves are false. A malformed tree is false
// as a whole, whatever negations enclose the bad node.
func (ce *ConditionEvaluator) Evaluate(src pdp_model.AttributeSource, condition pdp_model.Condition) bool {
	return ce.evaluatePolicy(attributesOf(src), "", condition)
}

func (ce *ConditionEvaluator) evaluatePolicy(root pdp_model.Value, policy string, condition pdp_model.Condition) bool {
	ev := evaluation{root: root, policy: policy, diagnostics: ce.diagnostics}
	matched := ev.condition(condition)
	return matched && !ev.malformed
}

// EvaluateCondition evaluates condition for src without diagnostics.
func EvaluateCondition(src pdp_model.AttributeSource, condition pdp_model.Condition) bool {
	return NewConditionEvaluator(nil).Evaluate(src, condition)
}

func attributesOf(src pdp_model.AttributeSource) pdp_model.Value {
	if src == nil {
		return pdp_model.Absent()
	}
	return src.Attributes()
}

// evaluation is the state of a single evaluation of one policy.
type evaluation struct {
	root        pdp_model.Value
	policy      string
	diagnostics pdp_model.DiagnosticHandler
	// malformed is set once a nil or unknown node is met.
	malformed bool
}

func (e *evaluation) condition(c pdp_model.Condition) bool {
	switch c := c.(type) {
	case pdp_model.Leaf:
		return e.leaf(c)
	case pdp_model.And:
		for _, sub := range c.Conditions {
			if !e.condition(sub) {
				return false
			}
		}
		return true
	case pdp_model.Or:
		for _, sub := range c.Conditions {
			if e.condition(sub) {
				return true
			}
		}
		return false
	case pdp_model.Not:
		return !e.condition(c.Condition)
	default:
		e.malformed = true
		e.report(pdp_model.Diagnostic{
			Kind:    pdp_model.DiagnosticUnsupportedCondition,
			Message: fmt.Sprintf("unsupported condition %T", c),
		})
		return false
	}
}

func (e *evaluation) leaf(leaf pdp_model.Leaf) bool {
	if len(leaf.Attribute.Segments()) == 0 || leaf.Value == nil {
		e.malformed = true
		e.report(pdp_model.Diagnostic{
			Kind:     pdp_model.DiagnosticUnsupportedCondition,
			Operator: leaf.Operator,
			Message:  "leaf without attribute or operand",
		})
		return false
	}

	left := Resolve(e.root, leaf.Attribute)
	if left.IsAbsent() {
		e.report(pdp_model.Diagnostic{
			Kind:      pdp_model.DiagnosticUnresolvedAttribute,
			Attribute: leaf.Attribute.String(),
			Operator:  leaf.Operator,
			Message:   fmt.Sprintf("attribute %s did not resolve", leaf.Attribute),
		})
		return false
	}

	right := CoerceOperand(e.root, leaf.Value)
	if right.IsAbsent() {
		operand := "<nil>"
		if leaf.Value != nil {
			operand = leaf.Value.String()
		}
		e.report(pdp_model.Diagnostic{
			Kind:      pdp_model.DiagnosticUnresolvedValue,
			Attribute: leaf.Attribute.String(),
			Operator:  leaf.Operator,
			Message:   fmt.Sprintf("value %s did not resolve", operand),
		})
		return false
	}

	return e.apply(leaf, left, right)
}

func (e *evaluation) report(d pdp_model.Diagnostic) {
	if e.diagnostics == nil {
		return
	}
	d.Policy = e.policy
	e.diagnostics(d)
}
