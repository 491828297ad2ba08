package model

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Value is a body field of any scalar type. A field absent from the body
// stays invalid and is stored as NULL.
//
// JSON numbers decode to int64 when integral and float64 otherwise;
// objects and arrays are kept as their raw JSON text. Form fields are
// always strings.
type Value struct {
	v     any
	valid bool
}

// NewValue wraps v as a present field.
func NewValue(v any) Value {
	return Value{v: v, valid: true}
}

// Valid reports whether the field was present.
func (v Value) Valid() bool {
	return v.valid
}

// Any returns the decoded value, nil for absent fields and JSON null.
func (v Value) Any() any {
	if !v.valid {
		return nil
	}
	return v.v
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	v.valid = true
	switch val := raw.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			v.v = i
			return nil
		}
		f, err := val.Float64()
		if err != nil {
			return err
		}
		v.v = f
	case map[string]any, []any:
		v.v = string(bytes.TrimSpace(data))
	default:
		v.v = val
	}
	return nil
}

// UnmarshalParam implements echo.BindUnmarshaler for form bodies.
func (v *Value) UnmarshalParam(param string) error {
	v.v = param
	v.valid = true
	return nil
}

// Int64 reports the value as an integer when it is one, or a string
// holding one.
func (v Value) Int64() (int64, bool) {
	switch val := v.Any().(type) {
	case int64:
		return val, true
	case string:
		i, err := strconv.ParseInt(val, 10, 64)
		return i, err == nil
	default:
		return 0, false
	}
}
