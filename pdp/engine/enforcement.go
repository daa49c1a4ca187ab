package engine

import (
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
)

// Decider is the part of the decision point the enforcement point needs.
type Decider interface {
	Decide(src pdp_model.AttributeSource) pdp_model.Decision
}

// EnforcementPoint turns a decision into a permit/deny gate.
type EnforcementPoint struct {
	pdp Decider
}

func NewEnforcementPoint(pdp Decider) *EnforcementPoint {
	return &EnforcementPoint{pdp: pdp}
}

// Enforce reports whether src is allowed.
func (e *EnforcementPoint) Enforce(src pdp_model.AttributeSource) bool {
	return e.pdp.Decide(src) == pdp_model.DecisionAllow
}
