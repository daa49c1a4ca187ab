package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dev-mohitbeniwal/echo/abac/pdp/engine"
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
)

// --- Helpers ---

func str(s string) pdp_model.Value { return pdp_model.String(s) }
func num(n float64) pdp_model.Value { return pdp_model.Number(n) }
func obj(f map[string]pdp_model.Value) pdp_model.Value { return pdp_model.Object(f) }

func lit(v pdp_model.Value) pdp_model.Operand { return pdp_model.Literal{Value: v} }

func ref(path string) pdp_model.Operand {
	return pdp_model.Reference{Path: pdp_model.MustParsePath(path)}
}

func leaf(attr string, op pdp_model.Operator, value pdp_model.Operand) pdp_model.Leaf {
	return pdp_model.Leaf{Attribute: pdp_model.MustParsePath(attr), Operator: op, Value: value}
}

func and(cs ...pdp_model.Condition) pdp_model.And { return pdp_model.And{Conditions: cs} }
func or(cs ...pdp_model.Condition) pdp_model.Or { return pdp_model.Or{Conditions: cs} }
func not(c pdp_model.Condition) pdp_model.Not { return pdp_model.Not{Condition: c} }

func newPDP(t *testing.T, policies []pdp_model.Policy, opts ...engine.Option) *engine.PolicyDecisionPoint {
	t.Helper()
	pdp, err := engine.NewPolicyDecisionPoint(policies, opts...)
	require.NoError(t, err)
	return pdp
}

var fixedTime = time.Date(2024, time.July, 7, 19, 55, 23, 0, time.UTC)

// postRequest builds a post request stamped at fixedTime.
func postRequest(userID string, roles []string, ownerID string, action pdp_model.Action, ip string) *pdp_model.AccessRequest {
	return &pdp_model.AccessRequest{
		Type: pdp_model.ResourceKindPost,
		Context: pdp_model.RequestContext{
			User:     pdp_model.User{ID: userID, Roles: roles},
			Resource: pdp_model.Resource{Post: &pdp_model.PostResource{OwnerID: ownerID}},
			Action:   action,
			Environment: pdp_model.Environment{
				IP:        ip,
				Timestamp: fixedTime,
			},
		},
	}
}

// mixedContext carries one attribute of every kind.
func mixedContext() pdp_model.Value {
	return obj(map[string]pdp_model.Value{
		"user": obj(map[string]pdp_model.Value{
			"id":    str("123"),
			"name":  str(""),
			"roles": pdp_model.Strings("admin", "editor"),
			"age":   num(42),
			"zero":  num(0),
			"flag":  pdp_model.Bool(false),
			"seen":  pdp_model.Timestamp(fixedTime),
			"tags":  pdp_model.List(),
		}),
		"resource": obj(map[string]pdp_model.Value{
			"ownerId": str("123"),
		}),
		"action": str("delete"),
	})
}

type diagnostics struct {
	seen []pdp_model.Diagnostic
}

func (d *diagnostics) handle(diag pdp_model.Diagnostic) { d.seen = append(d.seen, diag) }

func (d *diagnostics) kinds() []pdp_model.DiagnosticKind {
	out := make([]pdp_model.DiagnosticKind, 0, len(d.seen))
	for _, s := range d.seen {
		out = append(out, s.Kind)
	}
	return out
}
