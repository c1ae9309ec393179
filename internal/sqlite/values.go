package sqlite

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// scalarTypes maps value_type tags to the builtin types restored exactly
// when the property type is an interface such as any. JSON alone would turn
// every number into float64.
var scalarTypes = map[string]reflect.Type{
	"bool":    reflect.TypeFor[bool](),
	"string":  reflect.TypeFor[string](),
	"int":     reflect.TypeFor[int](),
	"int8":    reflect.TypeFor[int8](),
	"int16":   reflect.TypeFor[int16](),
	"int32":   reflect.TypeFor[int32](),
	"int64":   reflect.TypeFor[int64](),
	"uint":    reflect.TypeFor[uint](),
	"uint8":   reflect.TypeFor[uint8](),
	"uint16":  reflect.TypeFor[uint16](),
	"uint32":  reflect.TypeFor[uint32](),
	"uint64":  reflect.TypeFor[uint64](),
	"float32": reflect.TypeFor[float32](),
	"float64": reflect.TypeFor[float64](),
}

// isInterface reports whether P is an interface type.
func isInterface[P any]() bool {
	return reflect.TypeFor[P]().Kind() == reflect.Interface
}

// encodeValue returns the JSON text of v and its value_type tag. The tag is
// empty unless P is an interface and v holds a builtin scalar.
func encodeValue[P any](v P) (string, string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", "", err
	}
	var tag string
	if isInterface[P]() {
		if t := reflect.TypeOf(any(v)); t != nil && scalarTypes[t.String()] == t {
			tag = t.String()
		}
	}
	return string(raw), tag, nil
}

// decodeValue reverses encodeValue. Untagged values decoded into an
// interface keep whole numbers as int64 and others as float64, at any depth.
func decodeValue[P any](raw, tag string) (P, error) {
	var v P
	if tag != "" {
		t, ok := scalarTypes[tag]
		if !ok {
			return v, fmt.Errorf("unknown value type %q", tag)
		}
		ptr := reflect.New(t)
		if err := json.Unmarshal([]byte(raw), ptr.Interface()); err != nil {
			return v, err
		}
		out, ok := ptr.Elem().Interface().(P)
		if !ok {
			return v, fmt.Errorf("value type %q does not fit %s", tag, reflect.TypeFor[P]())
		}
		return out, nil
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	iface := isInterface[P]()
	if iface {
		dec.UseNumber()
	}
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if iface {
		if n, ok := normalizeNumbers(any(v)).(P); ok {
			v = n
		}
	}
	return v, nil
}

// normalizeNumbers replaces json.Number values in place.
func normalizeNumbers(x any) any {
	switch t := x.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		f, _ := t.Float64()
		return f
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	default:
		return x
	}
}
