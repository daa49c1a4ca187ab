// model/policy.go
package model

// Policy is the authoring form of a policy as read from a policy file or an
// API payload. It is compiled before the engine sees it.
type Policy struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Effect      string     `json:"effect" yaml:"effect" validate:"required,oneof=allow deny"`
	Condition   *Condition `json:"condition" yaml:"condition" validate:"required"`
}

// Condition is one node of a condition tree. Exactly one shape must be used:
// a leaf (attribute, operator, value), and, or, or not. An empty and/or list
// is valid and differs from a missing one.
type Condition struct {
	Attribute string       `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Operator  string       `json:"operator,omitempty" yaml:"operator,omitempty"`
	Value     interface{}  `json:"value,omitempty" yaml:"value,omitempty"`
	And       []*Condition `json:"and,omitempty" yaml:"and,omitempty"`
	Or        []*Condition `json:"or,omitempty" yaml:"or,omitempty"`
	Not       *Condition   `json:"not,omitempty" yaml:"not,omitempty"`
}

// IsLeaf reports whether any leaf field is set.
func (c *Condition) IsLeaf() bool {
	return c.Attribute != "" || c.Operator != "" || c.Value != nil
}

// PolicyDocument is the top level of a policy file.
type PolicyDocument struct {
	Policies []Policy `json:"policies" yaml:"policies" validate:"dive"`
}

// PolicySummary describes a loaded policy without its condition tree.
type PolicySummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Effect      string `json:"effect"`
}
