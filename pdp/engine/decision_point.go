package engine

import (
	"slices"
	"sync/atomic"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/echo/abac/logging"
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
)

const (
	ReasonDenyMatched  = "Denied by matching deny policy"
	ReasonAllowMatched = "Allowed by matching allow policy"
	ReasonNoMatch      = "No matching policies found"
)

// policySet is published as a whole; it is never modified after Store.
type policySet struct {
	policies []pdp_model.Policy
	version  string
}

// PolicyDecisionPoint combines policy outcomes with deny-overrides and
// default-deny. Decide is safe for concurrent use, including during Reload.
type PolicyDecisionPoint struct {
	set       atomic.Pointer[policySet]
	evaluator *ConditionEvaluator
}

type Option func(*pdpOptions)

type pdpOptions struct {
	diagnostics pdp_model.DiagnosticHandler
	version     string
}

// WithDiagnosticHandler routes fail-closed leaves to handler instead of the
// debug log.
func WithDiagnosticHandler(handler pdp_model.DiagnosticHandler) Option {
	return func(o *pdpOptions) {
		o.diagnostics = handler
	}
}

// WithVersion labels the initial policy set.
func WithVersion(version string) Option {
	return func(o *pdpOptions) {
		o.version = version
	}
}

// LogDiagnostic is the default diagnostic handler.
func LogDiagnostic(d pdp_model.Diagnostic) {
	logger.Debug("Condition evaluated to false",
		zap.String("kind", string(d.Kind)),
		zap.String("policy", d.Policy),
		zap.String("attribute", d.Attribute),
		zap.String("operator", string(d.Operator)),
		zap.String("message", d.Message))
}

// NewPolicyDecisionPoint creates a decision point over policies. The slice is
// copied; later changes by the caller are not observed. Policies with a
// malformed condition tree are rejected.
func NewPolicyDecisionPoint(policies []pdp_model.Policy, opts ...Option) (*PolicyDecisionPoint, error) {
	o := pdpOptions{diagnostics: LogDiagnostic}
	for _, opt := range opts {
		opt(&o)
	}

	pdp := &PolicyDecisionPoint{
		evaluator: NewConditionEvaluator(o.diagnostics),
	}
	if err := pdp.Reload(policies, o.version); err != nil {
		return nil, err
	}
	return pdp, nil
}

// Reload atomically replaces the policy set. Decisions already in flight
// finish against the set they started with. A set that fails validation is
// not published and the current one stays in place.
func (p *PolicyDecisionPoint) Reload(policies []pdp_model.Policy, version string) error {
	if err := ValidatePolicies(policies); err != nil {
		logger.Error("Rejected policy set",
			zap.String("version", version),
			zap.Error(err))
		return err
	}
	p.set.Store(&policySet{
		policies: slices.Clone(policies),
		version:  version,
	})
	logger.Info("Policy set published",
		zap.String("version", version),
		zap.Int("policies", len(policies)))
	return nil
}

// Policies returns a copy of the current policy set.
func (p *PolicyDecisionPoint) Policies() []pdp_model.Policy {
	return slices.Clone(p.set.Load().policies)
}

func (p *PolicyDecisionPoint) Version() string {
	return p.set.Load().version
}

// Decide returns allow or deny for src.
func (p *PolicyDecisionPoint) Decide(src pdp_model.AttributeSource) pdp_model.Decision {
	return p.Evaluate(src).Decision
}

// Evaluate consults every policy exactly once and combines the matches:
// any matching deny wins, otherwise any matching allow allows, otherwise deny.
func (p *PolicyDecisionPoint) Evaluate(src pdp_model.AttributeSource) *pdp_model.AccessDecision {
	set := p.set.Load()
	root := attributesOf(src)

	var anyAllowMatched, anyDenyMatched bool
	var matched []string

	for _, result := range p.evaluatePolicies(set.policies, root) {
		if !result.Matched {
			continue
		}
		matched = append(matched, result.Policy)
		switch result.Effect {
		case pdp_model.EffectDeny:
			anyDenyMatched = true
		case pdp_model.EffectAllow:
			anyAllowMatched = true
		}
	}

	decision := &pdp_model.AccessDecision{
		MatchedPolicies:   matched,
		EvaluatedPolicies: len(set.policies),
		PolicyVersion:     set.version,
	}
	switch {
	case anyDenyMatched:
		decision.Decision = pdp_model.DecisionDeny
		decision.Reason = ReasonDenyMatched
	case anyAllowMatched:
		decision.Decision = pdp_model.DecisionAllow
		decision.Reason = ReasonAllowMatched
	default:
		decision.Decision = pdp_model.DecisionDeny
		decision.Reason = ReasonNoMatch
	}
	return decision
}

func (p *PolicyDecisionPoint) evaluatePolicies(policies []pdp_model.Policy, root pdp_model.Value) []pdp_model.PolicyEvaluationResult {
	results := make([]pdp_model.PolicyEvaluationResult, 0, len(policies))
	for _, policy := range policies {
		results = append(results, pdp_model.PolicyEvaluationResult{
			Policy:  policy.Name,
			Effect:  policy.Effect,
			Matched: p.evaluator.evaluatePolicy(root, policy.Name, policy.Condition),
		})
	}
	return results
}
