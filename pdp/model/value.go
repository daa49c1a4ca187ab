package model

import (
	"fmt"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindString
	KindNumber
	KindBool
	KindTimestamp
	KindList
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	case KindList:
		return "list"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is an attribute value in the request graph or a condition literal.
// The zero Value is absent.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	ts   time.Time
	list []Value
	obj  map[string]Value
}

func Absent() Value { return Value{} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Timestamp(t time.Time) Value { return Value{kind: KindTimestamp, ts: t} }

// List never returns absent, even for zero elements.
func List(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}
	return Value{kind: KindList, list: elems}
}

// Strings is a shorthand for a list of string values.
func Strings(ss ...string) Value {
	elems := make([]Value, len(ss))
	for i, s := range ss {
		elems[i] = String(s)
	}
	return List(elems...)
}

func Object(fields map[string]Value) Value {
	if fields == nil {
		fields = map[string]Value{}
	}
	return Value{kind: KindObject, obj: fields}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

func (v Value) AsTimestamp() (time.Time, bool) { return v.ts, v.kind == KindTimestamp }

// Elements returns the list elements; ok is false for non-list values.
func (v Value) Elements() ([]Value, bool) { return v.list, v.kind == KindList }

// Field looks up a named field of an object value.
func (v Value) Field(name string) (Value, bool) {
	if v.kind != KindObject {
		return Absent(), false
	}
	f, ok := v.obj[name]
	return f, ok
}

// Attributes lets a bare Value act as a request context.
func (v Value) Attributes() Value { return v }

// Equal is deep equality between values of the same kind. Values of different
// kinds are never equal, and absent equals nothing. A NaN number equals
// nothing either, so not_equal holds for it while Compare reports no order.
// Policy literals never carry NaN; it can only arrive from a request.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindTimestamp:
		return v.ts.Equal(o.ts)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, f := range v.obj {
			of, ok := o.obj[k]
			if !ok || !f.Equal(of) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// IsScalar reports whether v is a string, number, bool or timestamp.
func (v Value) IsScalar() bool {
	switch v.kind {
	case KindString, KindNumber, KindBool, KindTimestamp:
		return true
	}
	return false
}

// Compare orders two values of the same ordinal kind (number, timestamp,
// string). ok is false when the pair has no defined order.
func (v Value) Compare(o Value) (cmp int, ok bool) {
	if v.kind != o.kind {
		return 0, false
	}
	switch v.kind {
	case KindNumber:
		switch {
		case v.num < o.num:
			return -1, true
		case v.num > o.num:
			return 1, true
		case v.num == o.num:
			return 0, true
		}
		// NaN
		return 0, false
	case KindTimestamp:
		return v.ts.Compare(o.ts), true
	case KindString:
		return strings.Compare(v.str, o.str), true
	}
	return 0, false
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindNumber:
		return fmt.Sprintf("%g", v.num)
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindTimestamp:
		return v.ts.Format(time.RFC3339Nano)
	case KindList:
		parts := make([]string, len(v.list))
		for i, e := range v.list {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		return fmt.Sprintf("object(%d fields)", len(v.obj))
	default:
		return "<absent>"
	}
}
