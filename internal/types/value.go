// internal/types/value.go
package types

import (
	"encoding/json"
	"fmt"
	"math"
)

/*
 * Dynamically typed form values.
 *
 * The renderer hands over a ValueMap whose values mix strings, numbers,
 * booleans, and row arrays (table fields). Value is a tagged variant so that
 * coercion in internal/rules can follow the textual comparison rules exactly
 * instead of Go's native equality and ordering.
 *
 * Absent vs null: a name missing from the map is Absent; an explicit JSON null
 * is Null. Both count as empty, but numeric coercion treats them differently
 * (Absent is NaN, Null is 0), matching the renderer's behavior.
 *
 * The zero Value is Absent, so ValueMap.Get needs no ok-check.
 */

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindAbsent Kind = iota
	KindNull
	KindString
	KindNumber
	KindBool
	KindRows
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindRows:
		return "rows"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Row is one table row keyed by column name.
type Row map[string]any

// Value is an immutable tagged form value.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	rows []Row
}

// Null returns an explicit null value.
func Null() Value { return Value{kind: KindNull} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Rows returns a table value. A nil slice is an empty table, not null.
func Rows(rows []Row) Value {
	if rows == nil {
		rows = []Row{}
	}
	return Value{kind: KindRows, rows: rows}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether the value is missing from its map.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsNullish reports absent or explicit null.
func (v Value) IsNullish() bool { return v.kind == KindAbsent || v.kind == KindNull }

// Str returns the string payload; ok is false for other kinds.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// Num returns the numeric payload; ok is false for other kinds.
func (v Value) Num() (float64, bool) { return v.num, v.kind == KindNumber }

// Boolean returns the boolean payload; ok is false for other kinds.
func (v Value) Boolean() (bool, bool) { return v.b, v.kind == KindBool }

// RowList returns the table rows; ok is false for other kinds.
func (v Value) RowList() ([]Row, bool) { return v.rows, v.kind == KindRows }

// FromAny converts a decoded JSON value into a Value.
// Accepts nil, string, bool, Go numeric types, and arrays of objects.
// Top-level objects and arrays of scalars are rejected with ErrUnsupportedValue.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case float32:
		return Number(float64(t)), nil
	case int:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%w: number %q", ErrUnsupportedValue, t.String())
		}
		return Number(f), nil
	case []Row:
		return Rows(t), nil
	case []map[string]any:
		rows := make([]Row, len(t))
		for i, r := range t {
			rows[i] = Row(r)
		}
		return Rows(rows), nil
	case []any:
		rows := make([]Row, 0, len(t))
		for i, elem := range t {
			m, ok := elem.(map[string]any)
			if !ok {
				return Value{}, fmt.Errorf("%w: table row %d is %T, want object", ErrUnsupportedValue, i, elem)
			}
			rows = append(rows, Row(m))
		}
		return Rows(rows), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, x)
	}
}

// Any converts back to a plain Go value suitable for encoding/json.
// Absent and Null both become nil.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindRows:
		return v.rows
	default:
		return nil
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber && (math.IsNaN(v.num) || math.IsInf(v.num, 0)) {
		return []byte("null"), nil
	}
	return json.Marshal(v.Any())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var x any
	if err := json.Unmarshal(data, &x); err != nil {
		return err
	}
	parsed, err := FromAny(x)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// ValueMap maps field name to current value. Owned by the caller; the engine
// only reads it.
type ValueMap map[string]Value

// Get returns the value for name, or an Absent value when missing.
func (m ValueMap) Get(name string) Value {
	return m[name]
}

// ValueMapFromAny converts a decoded JSON object into a ValueMap.
func ValueMapFromAny(m map[string]any) (ValueMap, error) {
	out := make(ValueMap, len(m))
	for k, x := range m {
		v, err := FromAny(x)
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}
