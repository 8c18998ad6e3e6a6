// Package value is an ordered JSON document model.
//
// Objects keep their keys in insertion order and numbers keep their literal
// text, so a parsed document re-serializes without reordering fields or
// rounding 64-bit integers.
package value

import (
	"encoding/json"
	"fmt"
	"iter"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the JSON type held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Object is the ordered mapping backing object values.
type Object = orderedmap.OrderedMap[string, Value]

// Value is one node of a JSON document. The zero Value is null.
//
// Arrays and objects share their storage when a Value is copied; use Clone
// for an independent tree. Accessors take a pointer receiver and accept a
// nil *Value as a missing node.
type Value struct {
	kind Kind
	b    bool
	s    string // string contents, or the literal text of a number
	arr  []Value
	obj  *Object
}

func NewNull() Value { return Value{} }

func NewBool(b bool) Value { return Value{kind: KindBool, b: b} }

func NewString(s string) Value { return Value{kind: KindString, s: s} }

func NewInt(n int64) Value {
	return Value{kind: KindNumber, s: strconv.FormatInt(n, 10)}
}

func NewUint(n uint64) Value {
	return Value{kind: KindNumber, s: strconv.FormatUint(n, 10)}
}

func NewFloat(f float64) Value {
	return Value{kind: KindNumber, s: strconv.FormatFloat(f, 'g', -1, 64)}
}

// NewNumber wraps a number literal. The literal is not validated; it must
// be a valid JSON number.
func NewNumber(n json.Number) Value {
	return Value{kind: KindNumber, s: string(n)}
}

// NewArray returns an array holding items. It never returns a nil array,
// so an empty result still serializes as [].
func NewArray(items ...Value) Value {
	arr := make([]Value, len(items))
	copy(arr, items)
	return Value{kind: KindArray, arr: arr}
}

// NewObject returns an empty object.
func NewObject() Value {
	return Value{kind: KindObject, obj: orderedmap.New[string, Value]()}
}

// Kind reports the JSON type of v. A nil *Value reports KindNull, so the
// result of a failed Get or Lookup can be inspected directly.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

func (v *Value) IsNull() bool { return v.Kind() == KindNull }

// Len is the number of elements of an array or fields of an object.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.arr)
	case KindObject:
		return v.obj.Len()
	default:
		return 0
	}
}

// Get returns a pointer to the field stored under key, or nil when v is
// not an object or has no such field. The pointer stays valid until the
// field is deleted.
func (v *Value) Get(key string) *Value {
	if v == nil || v.kind != KindObject {
		return nil
	}
	pair := v.obj.GetPair(key)
	if pair == nil {
		return nil
	}
	return &pair.Value
}

// Lookup follows a chain of object keys from v.
func (v *Value) Lookup(keys ...string) *Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Set stores val under key. An existing key keeps its position.
// Set panics if v is not an object.
func (v *Value) Set(key string, val Value) {
	if v.kind != KindObject {
		panic("value: Set on " + v.kind.String())
	}
	v.obj.Set(key, val)
}

// Delete removes key and reports whether it was present.
func (v *Value) Delete(key string) bool {
	if v.Kind() != KindObject {
		return false
	}
	_, ok := v.obj.Delete(key)
	return ok
}

// Keys returns the object's keys in order.
func (v *Value) Keys() []string {
	if v.Kind() != KindObject {
		return nil
	}
	keys := make([]string, 0, v.obj.Len())
	for p := v.obj.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	return keys
}

// Fields iterates an object's fields in order. Values are yielded by
// pointer so callers can rewrite them in place.
func (v *Value) Fields() iter.Seq2[string, *Value] {
	return func(yield func(string, *Value) bool) {
		if v == nil || v.kind != KindObject {
			return
		}
		for p := v.obj.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, &p.Value) {
				return
			}
		}
	}
}

// Items iterates an array's elements in order.
func (v *Value) Items() iter.Seq2[int, *Value] {
	return func(yield func(int, *Value) bool) {
		if v == nil || v.kind != KindArray {
			return
		}
		for i := range v.arr {
			if !yield(i, &v.arr[i]) {
				return
			}
		}
	}
}

// Index returns a pointer to the i-th array element, or nil when out of range.
func (v *Value) Index(i int) *Value {
	if v == nil || v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return nil
	}
	return &v.arr[i]
}

// Append adds elements to an array. Append panics if v is not an array.
func (v *Value) Append(items ...Value) {
	if v.kind != KindArray {
		panic("value: Append on " + v.kind.String())
	}
	v.arr = append(v.arr, items...)
}

func (v *Value) AsString() (string, bool) {
	if v.Kind() != KindString {
		return "", false
	}
	return v.s, true
}

func (v *Value) AsBool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.b, true
}

func (v *Value) AsNumber() (json.Number, bool) {
	if v.Kind() != KindNumber {
		return "", false
	}
	return json.Number(v.s), true
}

// AsUint reports the value as an unsigned integer. Negative, fractional or
// exponent literals are not integers in this sense.
func (v *Value) AsUint() (uint64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	n, err := strconv.ParseUint(v.s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v *Value) AsInt() (int64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	n, err := strconv.ParseInt(v.s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i := range v.arr {
			arr[i] = v.arr[i].Clone()
		}
		return Value{kind: KindArray, arr: arr}
	case KindObject:
		out := NewObject()
		for p := v.obj.Oldest(); p != nil; p = p.Next() {
			out.obj.Set(p.Key, p.Value.Clone())
		}
		return out
	default:
		return v
	}
}

// Equal reports whether two documents are identical, including field
// order and number literals.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber, KindString:
		return v.s == o.s
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.obj.Len() != o.obj.Len() {
			return false
		}
		a, b := v.obj.Oldest(), o.obj.Oldest()
		for ; a != nil; a, b = a.Next(), b.Next() {
			if a.Key != b.Key || !a.Value.Equal(b.Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts v to plain Go values: map[string]any, []any, string,
// bool, nil, and int64 or float64 for numbers. Field order is lost.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		if n, err := strconv.ParseInt(v.s, 10, 64); err == nil {
			return n
		}
		f, _ := strconv.ParseFloat(v.s, 64)
		return f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.arr))
		for i := range v.arr {
			out[i] = v.arr[i].Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for p := v.obj.Oldest(); p != nil; p = p.Next() {
			out[p.Key] = p.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromInterface converts plain Go values produced by encoding/json or
// Interface back into a Value. Map keys are sorted since Go maps carry no
// order.
func FromInterface(x any) (Value, error) {
	data, err := json.Marshal(x)
	if err != nil {
		return Value{}, fmt.Errorf("marshal %T: %w", x, err)
	}
	return Parse(string(data))
}
