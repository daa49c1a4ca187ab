package engine_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echo_errors "github.com/dev-mohitbeniwal/echo/abac/errors"
	"github.com/dev-mohitbeniwal/echo/abac/pdp/engine"
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
)

func TestResolve(t *testing.T) {
	ctx := mixedContext()

	tests := []struct {
		path string
		want pdp_model.Value
	}{
		{"$.user.id", str("123")},
		{"$.action", str("delete")},
		{"$.user.roles", pdp_model.Strings("admin", "editor")},
		{"$.user.name", str("")},
		{"$.user.zero", num(0)},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got := engine.Resolve(ctx, pdp_model.MustParsePath(tt.path))
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestResolveMissingIsAbsent(t *testing.T) {
	ctx := mixedContext()
	for _, path := range []string{"$.user.department", "$.nope", "$.user.id.length", "$.user.roles.0", "$.action.x"} {
		assert.True(t, engine.Resolve(ctx, pdp_model.MustParsePath(path)).IsAbsent(), path)
	}
	assert.True(t, engine.Resolve(pdp_model.Absent(), pdp_model.MustParsePath("$.user")).IsAbsent())
	assert.True(t, engine.Resolve(ctx, pdp_model.Path{}).IsAbsent())
}

func TestResolveString(t *testing.T) {
	ctx := mixedContext()

	id, ok := engine.ResolveString(ctx, "$.user.id").AsString()
	require.True(t, ok)
	assert.Equal(t, "123", id)

	// without the marker a string is never a lookup
	assert.True(t, engine.ResolveString(ctx, "user.id").IsAbsent())
	assert.True(t, engine.ResolveString(ctx, "$.").IsAbsent())
	assert.True(t, engine.ResolveString(ctx, "$.user..id").IsAbsent())
}

func TestCoerceOperand(t *testing.T) {
	ctx := mixedContext()

	assert.True(t, str("123").Equal(engine.CoerceOperand(ctx, ref("$.resource.ownerId"))))
	assert.True(t, engine.CoerceOperand(ctx, ref("$.resource.department")).IsAbsent())
	// literal strings that look like paths only count when compiled as references
	assert.True(t, str("user.id").Equal(engine.CoerceOperand(ctx, lit(str("user.id")))))
	assert.True(t, engine.CoerceOperand(ctx, nil).IsAbsent())
}

func TestCoerceRaw(t *testing.T) {
	ctx := mixedContext()

	assert.True(t, str("123").Equal(engine.CoerceRaw(ctx, "$.user.id")))
	assert.True(t, str("admin").Equal(engine.CoerceRaw(ctx, "admin")))
	assert.True(t, num(18).Equal(engine.CoerceRaw(ctx, 18)))
	assert.True(t, pdp_model.Strings("a", "b").Equal(engine.CoerceRaw(ctx, []interface{}{"a", "b"})))
	assert.True(t, engine.CoerceRaw(ctx, "$.nope").IsAbsent())
	assert.True(t, engine.CoerceRaw(ctx, nil).IsAbsent())
	assert.True(t, engine.CoerceRaw(ctx, map[string]interface{}{"a": 1}).IsAbsent())
}

func TestLiteralValue(t *testing.T) {
	ts := time.Date(2024, time.July, 7, 19, 55, 23, 0, time.UTC)

	tests := []struct {
		name string
		raw  interface{}
		want pdp_model.Value
	}{
		{"string", "x", str("x")},
		{"int", 3, num(3)},
		{"uint64", uint64(7), num(7)},
		{"float", 1.5, num(1.5)},
		{"bool", true, pdp_model.Bool(true)},
		{"time", ts, pdp_model.Timestamp(ts)},
		{"timestamp mapping", map[string]interface{}{"timestamp": "2024-07-07T19:55:23Z"}, pdp_model.Timestamp(ts)},
		{"string slice", []string{"a"}, pdp_model.Strings("a")},
		{"mixed list", []interface{}{"a", 1, false}, pdp_model.List(str("a"), num(1), pdp_model.Bool(false))},
		{"empty list", []interface{}{}, pdp_model.List()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.LiteralValue(tt.raw)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestLiteralValueRejects(t *testing.T) {
	bad := []interface{}{
		nil,
		map[string]interface{}{"a": 1},
		map[string]interface{}{"timestamp": "yesterday"},
		map[string]interface{}{"timestamp": 12},
		[]interface{}{[]interface{}{"nested"}},
		[]interface{}{nil},
		struct{}{},
		math.NaN(),
		float32(math.NaN()),
		[]interface{}{1.0, math.NaN()},
	}
	for _, raw := range bad {
		_, err := engine.LiteralValue(raw)
		assert.ErrorIs(t, err, echo_errors.ErrInvalidLiteral, "%#v", raw)
	}
}
