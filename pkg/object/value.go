// Package object defines the universe of runtime values the interpreter
// operates on: a closed set of Value variants, the Type metaobject that
// describes each variant's class, and the attribute-lookup protocol that
// ties them together.
//
// New guest-visible behavior comes from Type metaobjects and their
// attribute dictionaries, never from adding Go types outside this closed
// set — the same discipline the teacher's bytecode.Instruction/Opcode pair
// uses for the instruction stream, applied to values instead.
package object

import "fmt"

// Value is the universal interface every runtime value implements. It is
// intentionally small: the rest of the capability set (§4.2 of the
// specification) is expressed as optional interfaces (Hashable,
// AttributeHolder, Descriptor) that a Value may additionally satisfy, and
// as free functions (Equals, Add, Compare, ...) that type-switch over the closed
// variant set rather than living on the interface itself.
type Value interface {
	// PyType returns the type metaobject describing this value's class.
	PyType() *Type

	// PyStr returns the human-readable textual form of the value.
	PyStr() Str

	// PyRepr returns the round-trip-oriented textual form of the value.
	PyRepr() Str
}

// Hashable is implemented by every Value that may be used as a Dict key.
// List and Dict deliberately do not implement it.
type Hashable interface {
	Value
	PyHash() (Int, *ExceptionInstance)
}

// None is the singleton absence-of-value. Its zero value is the only valid
// instance; NoneValue is the canonical one every check should compare
// against by identity.
type noneType struct{}

func (noneType) PyType() *Type { return NoneType }
func (noneType) PyStr() Str    { return Str("None") }
func (noneType) PyRepr() Str   { return Str("None") }
func (noneType) PyHash() (Int, *ExceptionInstance) {
	return Int(0), nil
}

// NoneValue is the canonical singleton None value. Every guest-visible None
// is this exact value — pyobject identity checks are pointer/value
// comparisons against it, never a nil check.
var NoneValue Value = noneType{}

// Bool is the boolean variant. True and False below are its only two
// instances and are reference-equal as well as value-equal, matching the
// singleton discipline spec.md §9 requires of None/True/False.
type Bool bool

const (
	True  Bool = true
	False Bool = false
)

func (b Bool) PyType() *Type { return BoolType }
func (b Bool) PyStr() Str {
	if b {
		return "True"
	}
	return "False"
}
func (b Bool) PyRepr() Str { return b.PyStr() }
func (b Bool) PyHash() (Int, *ExceptionInstance) {
	if b {
		return Int(1), nil
	}
	return Int(0), nil
}

// Int is a signed 64-bit integer value.
type Int int64

func (i Int) PyType() *Type { return IntType }
func (i Int) PyStr() Str    { return Str(fmt.Sprintf("%d", int64(i))) }
func (i Int) PyRepr() Str   { return i.PyStr() }
func (i Int) PyHash() (Int, *ExceptionInstance) {
	return i, nil
}

// Float is an IEEE-754 64-bit floating point value.
type Float float64

func (f Float) PyType() *Type { return FloatType }
func (f Float) PyStr() Str    { return Str(fmt.Sprintf("%g", float64(f))) }
func (f Float) PyRepr() Str   { return f.PyStr() }
func (f Float) PyHash() (Int, *ExceptionInstance) {
	return hashFloat(float64(f)), nil
}

// Str is an immutable UTF-8 string value.
type Str string

func (s Str) PyType() *Type { return StrType }
func (s Str) PyStr() Str    { return s }
func (s Str) PyRepr() Str   { return Str(fmt.Sprintf("%q", string(s))) }
func (s Str) PyHash() (Int, *ExceptionInstance) {
	return hashBytes([]byte(s)), nil
}

// Bytes is an immutable opaque byte sequence, distinct from Str the way
// Python 3's bytes is distinct from str (and the way og-rek's Bytes/
// ByteString/string trio keeps those encodings apart under equality).
type Bytes []byte

func (b Bytes) PyType() *Type { return BytesType }
func (b Bytes) PyStr() Str    { return Str(fmt.Sprintf("%v", []byte(b))) }
func (b Bytes) PyRepr() Str   { return Str(fmt.Sprintf("b%q", string(b))) }
func (b Bytes) PyHash() (Int, *ExceptionInstance) {
	return hashBytes(b), nil
}

// Tuple is an immutable ordered sequence of values.
type Tuple []Value

func (t Tuple) PyType() *Type { return TupleType }
func (t Tuple) PyStr() Str    { return t.PyRepr() }
func (t Tuple) PyRepr() Str {
	s := "("
	for i, v := range t {
		if i > 0 {
			s += ", "
		}
		s += string(v.PyRepr())
	}
	if len(t) == 1 {
		s += ","
	}
	return Str(s + ")")
}

// PyHash hashes a Tuple by combining the hashes of its elements. It fails
// with TYPE_ERROR if any element is itself unhashable (List, Dict).
func (t Tuple) PyHash() (Int, *ExceptionInstance) {
	return hashTuple(t)
}

// List is a mutable ordered sequence of values. Lists are not hashable.
type List struct {
	Items []Value
}

func NewList(items []Value) *List { return &List{Items: items} }

func (l *List) PyType() *Type { return ListType }
func (l *List) PyStr() Str    { return l.PyRepr() }
func (l *List) PyRepr() Str {
	s := "["
	for i, v := range l.Items {
		if i > 0 {
			s += ", "
		}
		s += string(v.PyRepr())
	}
	return Str(s + "]")
}
