// Package value implements the backend-neutral value model. Every property
// that crosses the Transaction boundary is a Value, so the translator never
// sees driver-native types and the backends never see GraphQL types.
package value

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/samsarahq/go/oops"

	"github.com/warpgraph/warpgraph/wgerr"
)

// Value represents a scalar or compound property value, and is one of Null,
// Bool, Int, Float, String, UUID, Array, or *Map.
type Value interface {
	// Native returns the wire-JSON form of the value: nil, bool, int64,
	// float64, string, []interface{}, or map[string]interface{}.
	Native() interface{}

	// isValue() is a no-op used to tag the known values of Value, to prevent
	// arbitrary interface{} from implementing Value.
	isValue()
}

// Null is the absent value.
type Null struct{}

func (Null) isValue()            {}
func (Null) Native() interface{} { return nil }

// Bool is a boolean value.
type Bool bool

func (Bool) isValue()              {}
func (b Bool) Native() interface{} { return bool(b) }

// Int is a 64-bit integer value.
type Int int64

func (Int) isValue()              {}
func (i Int) Native() interface{} { return int64(i) }

// Float is a 64-bit floating point value.
type Float float64

func (Float) isValue()              {}
func (f Float) Native() interface{} { return float64(f) }

// String is a string value.
type String string

func (String) isValue()              {}
func (s String) Native() interface{} { return string(s) }

// UUID is a server-assigned identifier.
type UUID uuid.UUID

func (UUID) isValue()              {}
func (u UUID) Native() interface{} { return uuid.UUID(u).String() }

// Array is an ordered collection of values.
type Array []Value

func (Array) isValue() {}

func (a Array) Native() interface{} {
	out := make([]interface{}, len(a))
	for i, v := range a {
		out[i] = v.Native()
	}
	return out
}

// Verify the closed set implements Value.
var _ Value = Null{}
var _ Value = Bool(false)
var _ Value = Int(0)
var _ Value = Float(0)
var _ Value = String("")
var _ Value = UUID{}
var _ Value = Array(nil)
var _ Value = &Map{}

// FromNative converts a wire-JSON or driver-native value into a Value. It
// fails with InvalidPropertyType on shapes outside the supported tags; the
// caller attaches the field name.
func FromNative(v interface{}) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(v), nil
	case int32:
		return Int(v), nil
	case int64:
		return Int(v), nil
	case float32:
		return Float(v), nil
	case float64:
		return Float(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, wgerr.Wrap(err, wgerr.InvalidPropertyType, v.String())
		}
		return Float(f), nil
	case string:
		return String(v), nil
	case uuid.UUID:
		return UUID(v), nil
	case []interface{}:
		out := make(Array, len(v))
		for i, e := range v {
			ev, err := FromNative(e)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	case map[string]interface{}:
		return FromNativeMap(v)
	case Value:
		return v, nil
	default:
		return nil, wgerr.New(wgerr.InvalidPropertyType, fmt.Sprintf("%T", v))
	}
}

// FromNativeMap converts a native map into a *Map. Key order is not defined
// by the input; keys are inserted in sorted order so parameter serialization
// stays deterministic.
func FromNativeMap(m map[string]interface{}) (*Map, error) {
	out := NewMap()
	for _, k := range sortedKeys(m) {
		v, err := FromNative(m[k])
		if err != nil {
			return nil, oops.Wrapf(err, "field %s", k)
		}
		out.Set(k, v)
	}
	return out, nil
}

// Equal reports structural equality. Map key order is irrelevant.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bb, ok := b.(Bool)
		return ok && a == bb
	case Int:
		bb, ok := b.(Int)
		return ok && a == bb
	case Float:
		bb, ok := b.(Float)
		return ok && a == bb
	case String:
		bb, ok := b.(String)
		return ok && a == bb
	case UUID:
		bb, ok := b.(UUID)
		return ok && a == bb
	case Array:
		bb, ok := b.(Array)
		if !ok || len(a) != len(bb) {
			return false
		}
		for i := range a {
			if !Equal(a[i], bb[i]) {
				return false
			}
		}
		return true
	case *Map:
		bb, ok := b.(*Map)
		if !ok || a.Len() != bb.Len() {
			return false
		}
		for _, k := range a.Keys() {
			av, _ := a.Get(k)
			bv, ok := bb.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
