package model

// PolicyEvaluationResult records how one policy fared against a request.
type PolicyEvaluationResult struct {
	Policy  string
	Effect  Effect
	Matched bool
}

type DiagnosticKind string

const (
	DiagnosticUnresolvedAttribute  DiagnosticKind = "unresolved_attribute"
	DiagnosticUnresolvedValue      DiagnosticKind = "unresolved_value"
	DiagnosticUnknownOperator      DiagnosticKind = "unknown_operator"
	DiagnosticTypeMismatch         DiagnosticKind = "type_mismatch"
	DiagnosticNotASequence         DiagnosticKind = "not_a_sequence"
	DiagnosticUnsupportedCondition DiagnosticKind = "unsupported_condition"
)

// Diagnostic describes a leaf that was forced to false by missing or
// incompatible data. It never changes the outcome of an evaluation.
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	Policy    string         `json:"policy,omitempty"`
	Attribute string         `json:"attribute,omitempty"`
	Operator  Operator       `json:"operator,omitempty"`
	Message   string         `json:"message"`
}

// DiagnosticHandler receives diagnostics synchronously during evaluation.
type DiagnosticHandler func(Diagnostic)
