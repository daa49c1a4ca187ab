package engine

import (
	"fmt"

	"go.uber.org/multierr"

	echo_errors "github.com/dev-mohitbeniwal/echo/abac/errors"
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
)

// ValidatePolicies checks the shape of already compiled policies: a known
// effect and a condition tree without nil nodes, empty paths or missing
// operands. Every bad policy is reported.
func ValidatePolicies(policies []pdp_model.Policy) error {
	var errs error
	for i, p := range policies {
		if err := ValidatePolicy(p); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("policy %d (%q): %w", i, p.Name, err))
		}
	}
	return errs
}

// ValidatePolicy checks a single compiled policy.
func ValidatePolicy(p pdp_model.Policy) error {
	switch p.Effect {
	case pdp_model.EffectAllow, pdp_model.EffectDeny:
	default:
		return fmt.Errorf("%w: effect must be allow or deny, got %q", echo_errors.ErrInvalidPolicyData, p.Effect)
	}
	return validateCondition(p.Condition, "condition")
}

func validateCondition(c pdp_model.Condition, at string) error {
	switch c := c.(type) {
	case pdp_model.Leaf:
		if len(c.Attribute.Segments()) == 0 {
			return fmt.Errorf("%w: %s.attribute is empty", echo_errors.ErrInvalidReference, at)
		}
		switch op := c.Value.(type) {
		case pdp_model.Literal:
			if op.Value.IsAbsent() {
				return fmt.Errorf("%w: %s.value is absent", echo_errors.ErrInvalidLiteral, at)
			}
		case pdp_model.Reference:
			if len(op.Path.Segments()) == 0 {
				return fmt.Errorf("%w: %s.value is an empty reference", echo_errors.ErrInvalidReference, at)
			}
		default:
			return fmt.Errorf("%w: %s.value is missing", echo_errors.ErrInvalidCondition, at)
		}
		return nil
	case pdp_model.And:
		return validateConditions(c.Conditions, at+".and")
	case pdp_model.Or:
		return validateConditions(c.Conditions, at+".or")
	case pdp_model.Not:
		return validateCondition(c.Condition, at+".not")
	case nil:
		return fmt.Errorf("%w: %s is missing", echo_errors.ErrInvalidCondition, at)
	default:
		return fmt.Errorf("%w: %s has unsupported type %T", echo_errors.ErrInvalidCondition, at, c)
	}
}

func validateConditions(cs []pdp_model.Condition, at string) error {
	for i, c := range cs {
		if err := validateCondition(c, fmt.Sprintf("%s[%d]", at, i)); err != nil {
			return err
		}
	}
	return nil
}
