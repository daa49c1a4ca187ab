package model

import (
	"fmt"
	"strings"
)

// ReferenceMarker prefixes a dynamic lookup into the request context.
const ReferenceMarker = "$."

type Effect string

const (
	EffectAllow Effect = "allow"
	EffectDeny  Effect = "deny"
)

type Decision string

const (
	DecisionAllow Decision = "allow"
	DecisionDeny  Decision = "deny"
)

type Operator string

const (
	OperatorEquals             Operator = "equals"
	OperatorNotEqual           Operator = "not_equal"
	OperatorContains           Operator = "contains"
	OperatorGreaterThan        Operator = "greater_than"
	OperatorGreaterThanOrEqual Operator = "greater_than_or_equal"
	OperatorLessThan           Operator = "less_than"
	OperatorLessThanOrEqual    Operator = "less_than_or_equal"
	OperatorIn                 Operator = "in"
	OperatorNotIn              Operator = "not_in"
)

var knownOperators = map[Operator]struct{}{
	OperatorEquals:             {},
	OperatorNotEqual:           {},
	OperatorContains:           {},
	OperatorGreaterThan:        {},
	OperatorGreaterThanOrEqual: {},
	OperatorLessThan:           {},
	OperatorLessThanOrEqual:    {},
	OperatorIn:                 {},
	OperatorNotIn:              {},
}

// Known reports whether op belongs to the supported operator set. Unknown
// operators are still representable so they can be reported at evaluation.
func (op Operator) Known() bool {
	_, ok := knownOperators[op]
	return ok
}

// Path is a parsed "$.a.b" reference with the marker stripped.
type Path struct {
	segments []string
}

// ParsePath parses a marked reference. Every segment must be non-empty.
func ParsePath(raw string) (Path, error) {
	if !IsReference(raw) {
		return Path{}, fmt.Errorf("path %q lacks the %q marker", raw, ReferenceMarker)
	}
	rest := strings.TrimPrefix(raw, ReferenceMarker)
	if rest == "" {
		return Path{}, fmt.Errorf("path %q is empty", raw)
	}
	segments := strings.Split(rest, ".")
	for _, s := range segments {
		if s == "" {
			return Path{}, fmt.Errorf("path %q has an empty segment", raw)
		}
	}
	return Path{segments: segments}, nil
}

// MustParsePath is ParsePath for statically known paths.
func MustParsePath(raw string) Path {
	p, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// IsReference reports whether raw carries the reference marker.
func IsReference(raw string) bool {
	return strings.HasPrefix(raw, ReferenceMarker)
}

func (p Path) Segments() []string { return p.segments }

func (p Path) String() string {
	return ReferenceMarker + strings.Join(p.segments, ".")
}

// Operand is the right-hand side of a leaf: a Literal or a Reference.
type Operand interface {
	isOperand()
	String() string
}

type Literal struct {
	Value Value
}

type Reference struct {
	Path Path
}

func (Literal) isOperand()   {}
func (Reference) isOperand() {}

func (l Literal) String() string   { return l.Value.String() }
func (r Reference) String() string { return r.Path.String() }

// Condition is a node of a policy's condition tree.
type Condition interface {
	isCondition()
}

// Leaf compares a context attribute against an operand.
type Leaf struct {
	Attribute Path
	Operator  Operator
	Value     Operand
}

// And holds when every sub-condition holds; empty And is true.
type And struct {
	Conditions []Condition
}

// Or holds when any sub-condition holds; empty Or is false.
type Or struct {
	Conditions []Condition
}

type Not struct {
	Condition Condition
}

func (Leaf) isCondition() {}
func (And) isCondition()  {}
func (Or) isCondition()   {}
func (Not) isCondition()  {}

// Policy is a compiled, immutable policy.
type Policy struct {
	Name        string
	Description string
	Effect      Effect
	Condition   Condition
}
