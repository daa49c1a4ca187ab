package engine

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	echo_errors "github.com/dev-mohitbeniwal/echo/abac/errors"
	logger "github.com/dev-mohitbeniwal/echo/abac/logging"
	"github.com/dev-mohitbeniwal/echo/abac/model"
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
)

type CompileOptions struct {
	// StrictOperators rejects operators outside the supported set instead of
	// compiling them into leaves that always evaluate to false.
	StrictOperators bool
}

// Compile turns policy documents into engine policies, keeping their order.
// Every malformed policy is reported; nothing is returned unless all compile.
func Compile(docs []model.Policy, opts CompileOptions) ([]pdp_model.Policy, error) {
	var errs error
	policies := make([]pdp_model.Policy, 0, len(docs))

	for i, doc := range docs {
		policy, err := CompilePolicy(doc, opts)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("policy %d (%q): %w", i, doc.Name, err))
			continue
		}
		policies = append(policies, policy)
	}

	if errs != nil {
		return nil, errs
	}
	return policies, nil
}

// CompilePolicy compiles a single policy document.
func CompilePolicy(doc model.Policy, opts CompileOptions) (pdp_model.Policy, error) {
	var effect pdp_model.Effect
	switch pdp_model.Effect(doc.Effect) {
	case pdp_model.EffectAllow, pdp_model.EffectDeny:
		effect = pdp_model.Effect(doc.Effect)
	default:
		return pdp_model.Policy{}, fmt.Errorf("%w: effect must be allow or deny, got %q", echo_errors.ErrInvalidPolicyData, doc.Effect)
	}

	c := compiler{opts: opts, policy: doc.Name}
	condition, err := c.condition(doc.Condition, "condition")
	if err != nil {
		return pdp_model.Policy{}, err
	}

	return pdp_model.Policy{
		Name:        doc.Name,
		Description: doc.Description,
		Effect:      effect,
		Condition:   condition,
	}, nil
}

type compiler struct {
	opts   CompileOptions
	policy string
}

func (c compiler) condition(node *model.Condition, at string) (pdp_model.Condition, error) {
	if node == nil {
		return nil, fmt.Errorf("%w: %s is missing", echo_errors.ErrInvalidCondition, at)
	}

	shapes := 0
	if node.IsLeaf() {
		shapes++
	}
	if node.And != nil {
		shapes++
	}
	if node.Or != nil {
		shapes++
	}
	if node.Not != nil {
		shapes++
	}
	switch shapes {
	case 0:
		return nil, fmt.Errorf("%w: %s is empty", echo_errors.ErrInvalidCondition, at)
	case 1:
	default:
		return nil, fmt.Errorf("%w: %s mixes leaf, and, or, not", echo_errors.ErrInvalidCondition, at)
	}

	switch {
	case node.And != nil:
		subs, err := c.conditions(node.And, at+".and")
		if err != nil {
			return nil, err
		}
		return pdp_model.And{Conditions: subs}, nil
	case node.Or != nil:
		subs, err := c.conditions(node.Or, at+".or")
		if err != nil {
			return nil, err
		}
		return pdp_model.Or{Conditions: subs}, nil
	case node.Not != nil:
		sub, err := c.condition(node.Not, at+".not")
		if err != nil {
			return nil, err
		}
		return pdp_model.Not{Condition: sub}, nil
	default:
		return c.leaf(node, at)
	}
}

func (c compiler) conditions(nodes []*model.Condition, at string) ([]pdp_model.Condition, error) {
	out := make([]pdp_model.Condition, 0, len(nodes))
	for i, n := range nodes {
		sub, err := c.condition(n, fmt.Sprintf("%s[%d]", at, i))
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func (c compiler) leaf(node *model.Condition, at string) (pdp_model.Condition, error) {
	attribute, err := pdp_model.ParsePath(node.Attribute)
	if err != nil {
		return nil, fmt.Errorf("%w: %s.attribute: %v", echo_errors.ErrInvalidReference, at, err)
	}

	operator := pdp_model.Operator(node.Operator)
	if !operator.Known() {
		if c.opts.StrictOperators {
			return nil, fmt.Errorf("%w: %s.operator %q", echo_errors.ErrUnknownOperator, at, node.Operator)
		}
		logger.Warn("Unknown operator compiled as always false",
			zap.String("policy", c.policy),
			zap.String("at", at),
			zap.String("operator", node.Operator))
	}

	operand, err := c.operand(node.Value, at)
	if err != nil {
		return nil, err
	}

	return pdp_model.Leaf{
		Attribute: attribute,
		Operator:  operator,
		Value:     operand,
	}, nil
}

func (c compiler) operand(raw interface{}, at string) (pdp_model.Operand, error) {
	if s, ok := raw.(string); ok && pdp_model.IsReference(s) {
		path, err := pdp_model.ParsePath(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s.value: %v", echo_errors.ErrInvalidReference, at, err)
		}
		return pdp_model.Reference{Path: path}, nil
	}

	v, err := LiteralValue(raw)
	if err != nil {
		return nil, fmt.Errorf("%s.value: %w", at, err)
	}
	return pdp_model.Literal{Value: v}, nil
}
