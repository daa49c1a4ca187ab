package model

// AccessDecision is the detailed outcome of one decision.
type AccessDecision struct {
	Decision          Decision `json:"decision"`
	Reason            string   `json:"reason,omitempty"`
	MatchedPolicies   []string `json:"matched_policies,omitempty"`
	EvaluatedPolicies int      `json:"evaluated_policies"`
	PolicyVersion     string   `json:"policy_version,omitempty"`
}

// Allowed reports whether the decision permits the request.
func (d *AccessDecision) Allowed() bool {
	return d != nil && d.Decision == DecisionAllow
}
