package json

import (
	"fmt"
	"iter"
	"math"
)

// ValueKind discriminates the payload carried by a RawValue.
type ValueKind uint8

// Value kinds, per spec.
const (
	ValueNull ValueKind = iota
	ValueBool
	ValueLong
	ValueDouble
	ValueString
	ValueArray
	ValueObject
)

func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "Null"
	case ValueBool:
		return "Bool"
	case ValueLong:
		return "Long"
	case ValueDouble:
		return "Double"
	case ValueString:
		return "String"
	case ValueArray:
		return "Array"
	case ValueObject:
		return "Object"
	default:
		return "<unknown value>"
	}
}

// RawValue is a tagged-union tree cell: a 1-byte Kind discriminator
// plus an 8-byte-equivalent payload. For String it holds an index into
// the owning Parser's strings[] arena; for Array and Object it holds a
// packed (offset, length) pair into the indexes[] arena, with Object's
// entries alternating (stringIndex, valueIndex).
type RawValue struct {
	Kind    ValueKind
	payload uint64
}

func rawValueStruct(k ValueKind) RawValue { return RawValue{Kind: k} }

func rawValueBool(b bool) RawValue {
	var p uint64
	if b {
		p = 1
	}
	return RawValue{Kind: ValueBool, payload: p}
}

func rawValueLong(v int64) RawValue {
	return RawValue{Kind: ValueLong, payload: uint64(v)}
}

func rawValueDouble(v float64) RawValue {
	return RawValue{Kind: ValueDouble, payload: math.Float64bits(v)}
}

func rawValueStringIndex(idx int) RawValue {
	return RawValue{Kind: ValueString, payload: uint64(uint32(idx))}
}

func rawValueArray(offset, length int) RawValue {
	return RawValue{Kind: ValueArray, payload: packPair(offset, length)}
}

func rawValueObject(offset, length int) RawValue {
	return RawValue{Kind: ValueObject, payload: packPair(offset, length)}
}

func (v RawValue) boolPayload() bool     { return v.payload != 0 }
func (v RawValue) longPayload() int64    { return int64(v.payload) }
func (v RawValue) doublePayload() float64 { return math.Float64frombits(v.payload) }
func (v RawValue) stringIndex() int      { return int(uint32(v.payload)) }
func (v RawValue) offsetLength() (int, int) { return unpackPair(v.payload) }

// Value is a handle onto one cell of a Parser's flat value tree: a
// RawValue plus the Parser whose arenas it indexes into. Values
// obtained from the same Parser remain valid until that Parser's next
// Clear; a Value's container accessors (At, Iterate, Keys,
// KeyValuePairs) dereference the owning Parser's arenas on every call
// rather than copying subtrees out.
type Value struct {
	raw RawValue
	p   *Parser
}

// Kind returns the value's discriminator.
func (v Value) Kind() ValueKind { return v.raw.Kind }

func (v Value) typeErr(want ValueKind) error {
	return fmt.Errorf("%w: value is %v, not %v", ErrType, v.raw.Kind, want)
}

// IsNull reports whether the value is JSON null.
func (v Value) IsNull() bool { return v.raw.Kind == ValueNull }

// AsBool returns the value's boolean payload, failing with ErrType if
// the value is not a Bool.
func (v Value) AsBool() (bool, error) {
	if v.raw.Kind != ValueBool {
		return false, v.typeErr(ValueBool)
	}
	return v.raw.boolPayload(), nil
}

// AsLong returns the value's integer payload, failing with ErrType if
// the value is not a Long.
func (v Value) AsLong() (int64, error) {
	if v.raw.Kind != ValueLong {
		return 0, v.typeErr(ValueLong)
	}
	return v.raw.longPayload(), nil
}

// AsDouble returns the value's floating-point payload, failing with
// ErrType if the value is not a Double.
func (v Value) AsDouble() (float64, error) {
	if v.raw.Kind != ValueDouble {
		return 0, v.typeErr(ValueDouble)
	}
	return v.raw.doublePayload(), nil
}

// AsStringSlice returns the value's string payload as a view into the
// Parser's string arena, failing with ErrType if the value is not a
// String.
func (v Value) AsStringSlice() (StringSlice, error) {
	if v.raw.Kind != ValueString {
		return StringSlice{}, v.typeErr(ValueString)
	}
	return v.p.strings[v.raw.stringIndex()], nil
}

// AsString returns the value's string payload as a materialized Go
// string, failing with ErrType if the value is not a String.
func (v Value) AsString() (string, error) {
	s, err := v.AsStringSlice()
	if err != nil {
		return "", err
	}
	return s.String(), nil
}

// Count returns the number of children of an Array or Object, failing
// with ErrType for any other kind.
func (v Value) Count() (int, error) {
	switch v.raw.Kind {
	case ValueArray, ValueObject:
		_, length := v.raw.offsetLength()
		return length, nil
	default:
		return 0, fmt.Errorf("%w: value is %v, not a container", ErrType, v.raw.Kind)
	}
}

// At returns the i'th child of an Array, or the i'th value of an
// Object (keys are reached via Keys/KeyValuePairs). It fails with
// ErrType on a non-container and ErrBounds when i is outside
// [0, Count).
func (v Value) At(i int) (Value, error) {
	switch v.raw.Kind {
	case ValueArray:
		offset, length := v.raw.offsetLength()
		if i < 0 || i >= length {
			return Value{}, fmt.Errorf("%w: index %d, length %d", ErrBounds, i, length)
		}
		return Value{raw: v.p.values[v.p.indexes[offset+i]], p: v.p}, nil
	case ValueObject:
		offset, length := v.raw.offsetLength()
		if i < 0 || i >= length {
			return Value{}, fmt.Errorf("%w: index %d, length %d", ErrBounds, i, length)
		}
		return Value{raw: v.p.values[v.p.indexes[offset+2*i+1]], p: v.p}, nil
	default:
		return Value{}, fmt.Errorf("%w: value is %v, not a container", ErrType, v.raw.Kind)
	}
}

// Iterate returns a lazy sequence over an Array's elements (or an
// Object's values, in insertion order). It yields nothing for a
// non-container.
func (v Value) Iterate() iter.Seq[Value] {
	return func(yield func(Value) bool) {
		n, err := v.Count()
		if err != nil {
			return
		}
		for i := 0; i < n; i++ {
			child, err := v.At(i)
			if err != nil {
				return
			}
			if !yield(child) {
				return
			}
		}
	}
}

// Keys returns a lazy sequence over an Object's keys, in insertion
// order. It yields nothing for a non-Object.
func (v Value) Keys() iter.Seq[StringSlice] {
	return func(yield func(StringSlice) bool) {
		if v.raw.Kind != ValueObject {
			return
		}
		offset, length := v.raw.offsetLength()
		for i := 0; i < length; i++ {
			if !yield(v.p.strings[v.p.indexes[offset+2*i]]) {
				return
			}
		}
	}
}

// KeyValuePairs returns a lazy sequence over an Object's (key, value)
// pairs, in insertion order. It yields nothing for a non-Object.
func (v Value) KeyValuePairs() iter.Seq2[StringSlice, Value] {
	return func(yield func(StringSlice, Value) bool) {
		if v.raw.Kind != ValueObject {
			return
		}
		offset, length := v.raw.offsetLength()
		for i := 0; i < length; i++ {
			key := v.p.strings[v.p.indexes[offset+2*i]]
			val := Value{raw: v.p.values[v.p.indexes[offset+2*i+1]], p: v.p}
			if !yield(key, val) {
				return
			}
		}
	}
}

// String pretty-prints the value via a Generator. It ignores any
// generator error, since a Value built by a Parser is always
// well-formed; callers that need error visibility should drive a
// Generator themselves with EmitValue.
func (v Value) String() string {
	g := NewGenerator()
	g.SetPretty(true)
	_ = g.EmitValue(v)
	return g.Output()
}
