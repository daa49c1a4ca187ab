package engine

import (
	"fmt"
	"math"
	"time"

	echo_errors "github.com/dev-mohitbeniwal/echo/abac/errors"
	pdp_model "github.com/dev-mohitbeniwal/echo/abac/pdp/model"
)

// timestampKey marks a literal mapping {timestamp: RFC3339} as a timestamp.
const timestampKey = "timestamp"

// LiteralValue converts a decoded document value into a literal. Literals are
// scalars or flat lists of scalars.
func LiteralValue(raw interface{}) (pdp_model.Value, error) {
	v, err := scalarValue(raw)
	if err == nil {
		return v, nil
	}

	switch t := raw.(type) {
	case []interface{}:
		elems := make([]pdp_model.Value, 0, len(t))
		for i, e := range t {
			ev, err := scalarValue(e)
			if err != nil {
				return pdp_model.Absent(), fmt.Errorf("element %d: %w", i, err)
			}
			elems = append(elems, ev)
		}
		return pdp_model.List(elems...), nil
	case []string:
		return pdp_model.Strings(t...), nil
	}
	return pdp_model.Absent(), err
}

func scalarValue(raw interface{}) (pdp_model.Value, error) {
	switch t := raw.(type) {
	case string:
		return pdp_model.String(t), nil
	case bool:
		return pdp_model.Bool(t), nil
	case float64:
		return number(t)
	case float32:
		return number(float64(t))
	case int:
		return pdp_model.Number(float64(t)), nil
	case int8:
		return pdp_model.Number(float64(t)), nil
	case int16:
		return pdp_model.Number(float64(t)), nil
	case int32:
		return pdp_model.Number(float64(t)), nil
	case int64:
		return pdp_model.Number(float64(t)), nil
	case uint:
		return pdp_model.Number(float64(t)), nil
	case uint8:
		return pdp_model.Number(float64(t)), nil
	case uint16:
		return pdp_model.Number(float64(t)), nil
	case uint32:
		return pdp_model.Number(float64(t)), nil
	case uint64:
		return pdp_model.Number(float64(t)), nil
	case time.Time:
		return pdp_model.Timestamp(t), nil
	case map[string]interface{}:
		return timestampLiteral(t)
	case nil:
		return pdp_model.Absent(), fmt.Errorf("%w: null", echo_errors.ErrInvalidLiteral)
	}
	return pdp_model.Absent(), fmt.Errorf("%w: unsupported type %T", echo_errors.ErrInvalidLiteral, raw)
}

func number(f float64) (pdp_model.Value, error) {
	if math.IsNaN(f) {
		return pdp_model.Absent(), fmt.Errorf("%w: NaN", echo_errors.ErrInvalidLiteral)
	}
	return pdp_model.Number(f), nil
}

func timestampLiteral(m map[string]interface{}) (pdp_model.Value, error) {
	raw, ok := m[timestampKey]
	if !ok || len(m) != 1 {
		return pdp_model.Absent(), fmt.Errorf("%w: object literals are not supported", echo_errors.ErrInvalidLiteral)
	}
	switch t := raw.(type) {
	case time.Time:
		return pdp_model.Timestamp(t), nil
	case string:
		ts, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return pdp_model.Absent(), fmt.Errorf("%w: timestamp %q: %v", echo_errors.ErrInvalidLiteral, t, err)
		}
		return pdp_model.Timestamp(ts), nil
	}
	return pdp_model.Absent(), fmt.Errorf("%w: timestamp must be an RFC3339 string", echo_errors.ErrInvalidLiteral)
}
