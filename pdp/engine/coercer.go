package engine

import (
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
)

// CoerceOperand resolves the right-hand side of a leaf: references are looked
// up in root, literals are returned unchanged.
func CoerceOperand(root pdp_model.Value, operand pdp_model.Operand) pdp_model.Value {
	switch op := operand.(type) {
	case pdp_model.Reference:
		return Resolve(root, op.Path)
	case pdp_model.Literal:
		return op.Value
	default:
		return pdp_model.Absent()
	}
}

// CoerceRaw applies the same rule to an uncompiled operand as found in a
// policy document. Unconvertible literals are absent.
func CoerceRaw(root pdp_model.Value, raw interface{}) pdp_model.Value {
	if s, ok := raw.(string); ok && pdp_model.IsReference(s) {
		return ResolveString(root, s)
	}
	v, err := LiteralValue(raw)
	if err != nil {
		return pdp_model.Absent()
	}
	return v
}
